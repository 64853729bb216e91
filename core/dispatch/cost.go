package dispatch

import (
	"math"

	"github.com/kilianp07/powerplan/core/model"
)

// CostedPlant is the read-only view of a power plant for one request: its
// effective operating bounds and marginal cost under the request's fuel
// prices.
type CostedPlant struct {
	Name     string          `json:"name"`
	Type     model.PlantType `json:"type"`
	PowerMin float64         `json:"pmin"`
	PowerMax float64         `json:"pmax"`
	Cost     float64         `json:"cost"`
	// index is the position of the plant in the request.
	index int
}

// CanProduce reports whether the plant can deliver any power.
func (c CostedPlant) CanProduce() bool { return c.PowerMax > 0 }

// Cost derives the effective bounds and the marginal cost of a plant. Wind
// turbines are scaled by the wind availability and cannot be modulated, so
// their minimum equals their maximum. The efficiency must be positive.
func Cost(p model.PowerPlant, fuels model.Fuels, opts Options) CostedPlant {
	c := CostedPlant{Name: p.Name, Type: p.Type}
	if p.Type == model.WindTurbine {
		avail := round1(p.PMax * fuels.Wind / 100)
		c.PowerMin = avail
		c.PowerMax = avail
		return c
	}
	c.PowerMin = p.PMin
	c.PowerMax = p.PMax
	price := fuels.PriceFor(p.Type) / p.Efficiency
	if opts.IncludeCO2 && p.Type == model.GasFired {
		price += opts.co2PerMWh() * fuels.CO2
	}
	c.Cost = round1(price)
	return c
}

func costAll(plants []model.PowerPlant, fuels model.Fuels, opts Options) []CostedPlant {
	out := make([]CostedPlant, len(plants))
	for i, p := range plants {
		out[i] = Cost(p, fuels, opts)
		out[i].index = i
	}
	return out
}

// round1 rounds half away from zero to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
