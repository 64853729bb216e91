package model

import "fmt"

// PlantType identifies the generation technology of a power plant.
type PlantType string

const (
	GasFired    PlantType = "gasfired"
	Turbojet    PlantType = "turbojet"
	WindTurbine PlantType = "wind"
)

// String returns the wire name of the plant type.
func (t PlantType) String() string { return string(t) }

// Valid reports whether t is one of the known plant types.
func (t PlantType) Valid() bool {
	switch t {
	case GasFired, Turbojet, WindTurbine:
		return true
	default:
		return false
	}
}

// PowerPlant describes a generation unit as submitted by the caller.
type PowerPlant struct {
	Name       string    `json:"name" binding:"required"`
	Type       PlantType `json:"type" binding:"required,oneof=gasfired turbojet wind"`
	Efficiency float64   `json:"efficiency" binding:"gt=0"`
	PMin       float64   `json:"pmin" binding:"gte=0"`
	PMax       float64   `json:"pmax" binding:"gte=0,gtefield=PMin"`
}

// Validate checks the plant fields the dispatch core relies on.
func (p PowerPlant) Validate() error {
	if !(p.Efficiency > 0) {
		return fmt.Errorf("plant %s: efficiency must be greater than 0", p.Name)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("plant %s: unknown type %q", p.Name, p.Type)
	}
	return nil
}

// Fuels holds the market prices and the wind availability for one request.
type Fuels struct {
	Gas      float64 `json:"gas(euro/MWh)"`
	Kerosine float64 `json:"kerosine(euro/MWh)"`
	CO2      float64 `json:"co2(euro/ton)"`
	Wind     float64 `json:"wind(%)" binding:"gte=0,lte=100"`
}

// PriceFor returns the fuel price burnt by the given plant type. Wind has no
// fuel and is priced at zero.
func (f Fuels) PriceFor(t PlantType) float64 {
	switch t {
	case GasFired:
		return f.Gas
	case Turbojet:
		return f.Kerosine
	default:
		return 0
	}
}
