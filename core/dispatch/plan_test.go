package dispatch

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/powerplan/core/model"
)

const conservationTolerance = 0.05

func power(t *testing.T, plan model.Plan, name string) float64 {
	t.Helper()
	it, ok := plan.Get(name)
	if !ok {
		t.Fatalf("plant %s missing from plan %v", name, plan)
	}
	return it.Power
}

func assertConserved(t *testing.T, plan model.Plan, load float64) {
	t.Helper()
	if got := plan.Total(); math.Abs(got-load) > conservationTolerance {
		t.Fatalf("plan total = %v, want %v (plan %v)", got, load, plan)
	}
}

func TestComputePlan_TwoGasUnits(t *testing.T) {
	plants := []model.PowerPlant{gas("gas1", 0.53, 60, 200), gas("gas2", 0.75, 60, 200)}
	plan, err := ComputePlan(context.Background(), plants, model.Fuels{Gas: 13.4}, 240, Options{})
	require.NoError(t, err)
	assertConserved(t, plan, 240)
	// gas1 cannot run below its 60 MW minimum, so gas2 is shaved from 200.
	assert.Equal(t, 180.0, power(t, plan, "gas2"))
	assert.Equal(t, 60.0, power(t, plan, "gas1"))
	assert.Greater(t, power(t, plan, "gas2"), power(t, plan, "gas1"))
}

func TestComputePlan_CapacityWithinFloatTolerance(t *testing.T) {
	// 0.1 + 0.7 sums to 0.7999999999999999 in float64.
	plants := []model.PowerPlant{gas("small", 0.5, 0, 0.1), gas("big", 0.75, 0, 0.7)}
	plan, err := ComputePlan(context.Background(), plants, model.Fuels{Gas: 13.4}, 0.8, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, power(t, plan, "big"), 1e-9)
	assert.InDelta(t, 0.1, power(t, plan, "small"), 1e-9)
}

func TestComputePlan_Scenarios(t *testing.T) {
	fleet := func(tjMax float64, wind2Max float64) []model.PowerPlant {
		ps := []model.PowerPlant{
			gas("gas1", 0.53, 10, 100),
			gas("gas2", 0.75, 10, 200),
			wind("wind1", 25),
			wind("wind2", wind2Max),
		}
		if tjMax > 0 {
			ps = append(ps, turbojet("tj1", 0.8, 0, tjMax))
		}
		return ps
	}
	cheapKerosine := model.Fuels{Gas: 13.4, Kerosine: 12.8, CO2: 20, Wind: 60}
	windy := model.Fuels{Gas: 13.4, Kerosine: 50.8, CO2: 20, Wind: 80}
	efficiencyFleet := []model.PowerPlant{
		turbojet("tj1", 0.3, 0, 25),
		wind("wind1", 100),
		gas("gas1", 0.5, 100, 300),
	}

	tests := []struct {
		name   string
		plants []model.PowerPlant
		fuels  model.Fuels
		load   float64
		want   map[string]float64
	}{
		{"one gas fired off", fleet(0, 25), refFuels, 230, map[string]float64{"gas1": 0, "gas2": 200, "wind1": 15, "wind2": 15}},
		{"gas fired at minimum", fleet(0, 25), refFuels, 232, map[string]float64{"gas1": 10, "gas2": 192}},
		{"turbojet off", fleet(16, 48), refFuels, 300, map[string]float64{"tj1": 0, "wind2": 28.8, "gas2": 200, "gas1": 56.2}},
		{"turbojet at maximum", fleet(16, 48), cheapKerosine, 300, map[string]float64{"tj1": 16, "gas1": 40.2}},
		{"turbojet at maximum and gas fired off", fleet(16, 48), cheapKerosine, 255, map[string]float64{"tj1": 16, "gas1": 0, "gas2": 195.2}},
		{"efficiency taken into account", efficiencyFleet, windy, 350, map[string]float64{"wind1": 80, "tj1": 0, "gas1": 270}},
		{"decimal load", efficiencyFleet, windy, 350.5, map[string]float64{"wind1": 80, "tj1": 0, "gas1": 270.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ComputePlan(context.Background(), tt.plants, tt.fuels, tt.load, Options{})
			require.NoError(t, err)
			require.Len(t, plan, len(tt.plants))
			assertConserved(t, plan, tt.load)
			for name, want := range tt.want {
				assert.InDelta(t, want, power(t, plan, name), 1e-9, name)
			}
		})
	}
}

func TestComputePlan_InputOrder(t *testing.T) {
	plants := []model.PowerPlant{
		turbojet("tj1", 0.3, 0, 25),
		wind("wind1", 100),
		gas("gas1", 0.5, 100, 300),
	}
	plan, err := ComputePlan(context.Background(), plants, model.Fuels{Gas: 13.4, Kerosine: 50.8, Wind: 80}, 350, Options{})
	require.NoError(t, err)
	for i, p := range plants {
		assert.Equal(t, p.Name, plan[i].Name)
	}
}

func TestComputePlan_SamplePayload(t *testing.T) {
	plants := []model.PowerPlant{
		gas("gasfiredbig1", 0.53, 100, 460),
		gas("gasfiredbig2", 0.53, 100, 460),
		gas("gasfiredsomewhatsmaller", 0.37, 40, 210),
		turbojet("tj1", 0.3, 0, 16),
		wind("windpark1", 150),
		wind("windpark2", 36),
	}
	res, err := Compute(context.Background(), plants, refFuels, 480, Options{})
	require.NoError(t, err)
	assertConserved(t, res.Plan, 480)
	assert.Equal(t, 90.0, power(t, res.Plan, "windpark1"))
	assert.Equal(t, 21.6, power(t, res.Plan, "windpark2"))
	assert.InDelta(t, 368.4, power(t, res.Plan, "gasfiredbig1"), 1e-9)
	assert.Equal(t, 0.0, power(t, res.Plan, "gasfiredbig2"))
	assert.Equal(t, 0.0, power(t, res.Plan, "tj1"))
	assert.InDelta(t, 368.4*25.3, res.TotalCost, 0.1)
	assert.False(t, res.Fallback)
}

func TestComputePlan_CombinationFallback(t *testing.T) {
	plants := []model.PowerPlant{
		gas("gas1", 0.53, 100, 120),
		gas("gas2", 0.75, 10, 50),
		gas("gas3", 0.53, 100, 120),
		gas("gas4", 0.53, 100, 120),
	}
	res, err := Compute(context.Background(), plants, refFuels, 300, Options{})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assertConserved(t, res.Plan, 300)
	assert.Equal(t, 0.0, power(t, res.Plan, "gas2"))
	for _, n := range []string{"gas1", "gas3", "gas4"} {
		assert.Equal(t, 100.0, power(t, res.Plan, n), n)
	}
}

func TestComputePlan_SearchBudgetExceeded(t *testing.T) {
	plants := []model.PowerPlant{
		gas("gas1", 0.53, 100, 120),
		gas("gas2", 0.75, 10, 50),
		gas("gas3", 0.53, 100, 120),
		gas("gas4", 0.53, 100, 120),
	}
	_, err := ComputePlan(context.Background(), plants, refFuels, 300, Options{SearchBudget: 1})
	require.ErrorIs(t, err, ErrSearchBudgetExceeded)
}

func TestComputePlan_Failures(t *testing.T) {
	tests := []struct {
		name   string
		plants []model.PowerPlant
		load   float64
		kind   error
		amount float64
	}{
		{"single unit above load", []model.PowerPlant{gas("gasfiredbig1", 0.53, 90, 100)}, 55, ErrOverProduction, 35},
		{"no combination fits", []model.PowerPlant{gas("gasfiredbig1", 0.53, 90, 100), gas("gasfiredbig2", 0.53, 80, 100)}, 130, ErrOverProduction, 40},
		{"single unit below load", []model.PowerPlant{gas("g", 0.5, 0, 100)}, 600, ErrLoadExceedsCapacity, 500},
		{"fleet below load", []model.PowerPlant{gas("GasFired1", 1, 10, 200), gas("GasFired2", 1, 100, 300)}, 600, ErrLoadExceedsCapacity, 100},
		{"zero efficiency", []model.PowerPlant{gas("g", 0, 0, 100)}, 50, ErrInvalidUnit, 0},
		{"negative efficiency", []model.PowerPlant{wind("w", 100), turbojet("t", -0.3, 0, 10)}, 50, ErrInvalidUnit, 0},
		{"NaN efficiency", []model.PowerPlant{gas("g", math.NaN(), 0, 100)}, 50, ErrInvalidUnit, 0},
		{"negative load", []model.PowerPlant{gas("g", 0.5, 0, 100)}, -1, ErrInvalidLoad, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ComputePlan(context.Background(), tt.plants, refFuels, tt.load, Options{})
			require.Error(t, err)
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, tt.kind)
			var pe *PlanError
			require.True(t, errors.As(err, &pe))
			if tt.kind == ErrOverProduction || tt.kind == ErrLoadExceedsCapacity {
				assert.InDelta(t, tt.amount, pe.Amount, 1e-9)
			}
		})
	}
}

func TestComputePlan_CapacityMessage(t *testing.T) {
	_, err := ComputePlan(context.Background(), []model.PowerPlant{gas("g", 0.5, 0, 100)}, refFuels, 600, Options{})
	require.EqualError(t, err, "the expected load cannot be fulfilled, remaining load to produce: 500")
}

func TestComputePlan_NoProducibleUnit(t *testing.T) {
	plan, err := ComputePlan(context.Background(), []model.PowerPlant{wind("w", 100)}, model.Fuels{Wind: 0}, 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, model.Plan{{Name: "w", Power: 0}}, plan)
}

func TestComputePlan_CO2ChangesMeritOrder(t *testing.T) {
	plants := []model.PowerPlant{gas("gas", 0.5, 0, 100), turbojet("tj", 0.5, 0, 100)}
	fuels := model.Fuels{Gas: 20, Kerosine: 50, CO2: 300}

	plan, err := ComputePlan(context.Background(), plants, fuels, 50, Options{})
	require.NoError(t, err)
	assert.Equal(t, 50.0, power(t, plan, "gas"))

	// 20/0.5 + 0.3*300 = 130 > 50/0.5
	plan, err = ComputePlan(context.Background(), plants, fuels, 50, Options{IncludeCO2: true})
	require.NoError(t, err)
	assert.Equal(t, 50.0, power(t, plan, "tj"))
	assert.Equal(t, 0.0, power(t, plan, "gas"))
}

func TestComputePlan_WindScaling(t *testing.T) {
	plants := []model.PowerPlant{wind("w1", 37), gas("g", 0.5, 0, 500)}
	plan, err := ComputePlan(context.Background(), plants, model.Fuels{Gas: 10, Wind: 33}, 300, Options{})
	require.NoError(t, err)
	assert.Equal(t, round1(37*33.0/100), power(t, plan, "w1"))
}

// Random fleets must either fail with a typed error or satisfy conservation
// and bounds.
func TestComputePlan_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	types := []model.PlantType{model.GasFired, model.Turbojet, model.WindTurbine}
	for i := 0; i < 500; i++ {
		n := 1 + rng.IntN(7)
		plants := make([]model.PowerPlant, n)
		for j := range plants {
			pmin := float64(rng.IntN(120))
			pmax := pmin + float64(rng.IntN(300))
			plants[j] = model.PowerPlant{
				Name:       string(rune('a' + j)),
				Type:       types[rng.IntN(len(types))],
				Efficiency: 0.2 + rng.Float64()*0.6,
				PMin:       pmin,
				PMax:       pmax,
			}
		}
		fuels := model.Fuels{Gas: 5 + float64(rng.IntN(40)), Kerosine: 10 + float64(rng.IntN(60)), Wind: float64(rng.IntN(101))}
		load := float64(rng.IntN(1000))

		costed := costAll(plants, fuels, Options{})
		var capacity float64
		lowest := math.Inf(1)
		for _, c := range costed {
			capacity += c.PowerMax
			if c.CanProduce() {
				lowest = math.Min(lowest, c.PowerMin)
			}
		}

		plan, err := ComputePlan(context.Background(), plants, fuels, load, Options{})
		switch {
		case load > capacity+1e-9:
			require.ErrorIs(t, err, ErrLoadExceedsCapacity, "case %d", i)
			var pe *PlanError
			require.True(t, errors.As(err, &pe))
			assert.InDelta(t, load-capacity, pe.Amount, 1e-6)
			continue
		case !math.IsInf(lowest, 1) && load < lowest:
			require.ErrorIs(t, err, ErrOverProduction, "case %d", i)
			continue
		}
		if err != nil {
			require.ErrorIs(t, err, ErrOverProduction, "case %d", i)
			continue
		}
		require.Len(t, plan, n)
		assertConserved(t, plan, load)
		for j, it := range plan {
			c := costed[j]
			if it.Power == 0 {
				continue
			}
			if it.Power < c.PowerMin-1e-9 || it.Power > c.PowerMax+1e-9 {
				t.Fatalf("case %d: %s = %v outside [%v, %v]", i, it.Name, it.Power, c.PowerMin, c.PowerMax)
			}
		}
	}
}

func TestComputePlan_Concurrent(t *testing.T) {
	plants := []model.PowerPlant{gas("gas1", 0.53, 60, 200), gas("gas2", 0.75, 60, 200)}
	errs := make(chan error, 16)
	for range 16 {
		go func() {
			plan, err := ComputePlan(context.Background(), plants, model.Fuels{Gas: 13.4}, 240, Options{})
			if err == nil && plan.Total() != 240 {
				err = errors.New("plan does not meet the load")
			}
			errs <- err
		}()
	}
	for range 16 {
		require.NoError(t, <-errs)
	}
}
