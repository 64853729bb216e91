package model

// Payload is a production plan request.
type Payload struct {
	Load        float64      `json:"load" binding:"gt=0"`
	Fuels       Fuels        `json:"fuels"`
	PowerPlants []PowerPlant `json:"powerplants" binding:"required,min=1,dive"`
}

// PlanItem is the power assigned to one plant.
type PlanItem struct {
	Name  string  `json:"name"`
	Power float64 `json:"p"`
}

// Plan is the ordered list of assignments, one per submitted plant.
type Plan []PlanItem

// Total returns the sum of all assigned power.
func (p Plan) Total() float64 {
	var sum float64
	for _, it := range p {
		sum += it.Power
	}
	return sum
}

// Get returns the item for the named plant.
func (p Plan) Get(name string) (PlanItem, bool) {
	for _, it := range p {
		if it.Name == name {
			return it, true
		}
	}
	return PlanItem{}, false
}
