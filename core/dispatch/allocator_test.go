package dispatch

import (
	"context"
	"errors"
	"testing"
)

func TestBalanceShavesMostExpensiveFirst(t *testing.T) {
	cheap := &entry{plant: CostedPlant{Name: "cheap", PowerMin: 10}, power: 100, balanceable: true}
	dear := &entry{plant: CostedPlant{Name: "dear", PowerMin: 40}, power: 50, balanceable: true}

	left := balance([]*entry{cheap, dear}, 15)
	if left != 0 {
		t.Fatalf("unexpected residual %v", left)
	}
	if dear.power != 40 {
		t.Fatalf("dear = %v, want 40", dear.power)
	}
	if cheap.power != 95 {
		t.Fatalf("cheap = %v, want 95", cheap.power)
	}
}

func TestBalanceNeverBelowMinimum(t *testing.T) {
	a := &entry{plant: CostedPlant{PowerMin: 10}, power: 30, balanceable: true}
	b := &entry{plant: CostedPlant{PowerMin: 5}, power: 5, balanceable: true}

	left := balance([]*entry{a, b}, 50)
	if a.power != 10 || b.power != 5 {
		t.Fatalf("entries shaved below minimum: a=%v b=%v", a.power, b.power)
	}
	if left != 30 {
		t.Fatalf("residual = %v, want 30", left)
	}
}

func TestBalanceRoundsToOneDecimal(t *testing.T) {
	e := &entry{plant: CostedPlant{PowerMin: 0}, power: 28.8, balanceable: true}
	balance([]*entry{e}, 0.3)
	if e.power != 28.5 {
		t.Fatalf("power = %v, want 28.5", e.power)
	}
}

func ranked(ps ...CostedPlant) []CostedPlant {
	for i := range ps {
		ps[i].index = i
	}
	return ps
}

func TestSearchMinimumCombination(t *testing.T) {
	plants := ranked(
		CostedPlant{Name: "a", PowerMin: 10, PowerMax: 50},
		CostedPlant{Name: "b", PowerMin: 100, PowerMax: 120},
		CostedPlant{Name: "c", PowerMin: 100, PowerMax: 120},
		CostedPlant{Name: "d", PowerMin: 100, PowerMax: 120},
	)
	subset, err := searchMinimumCombination(context.Background(), plants, 300, -1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(subset) != 3 {
		t.Fatalf("subset = %v, want b, c and d", subset)
	}
	if _, ok := subset[0]; ok {
		t.Fatal("a must not be part of the combination")
	}

	subset, err = searchMinimumCombination(context.Background(), plants, 210, -1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, ok := subset[0]; !ok || len(subset) != 3 {
		t.Fatalf("expected a, b and c for 210, got %v", subset)
	}
}

func TestSearchMinimumCombinationSkipsZeroMinimums(t *testing.T) {
	plants := ranked(
		CostedPlant{Name: "zero", PowerMin: 0, PowerMax: 50},
		CostedPlant{Name: "off", PowerMin: 0, PowerMax: 0},
		CostedPlant{Name: "b", PowerMin: 80, PowerMax: 100},
	)
	subset, err := searchMinimumCombination(context.Background(), plants, 80, -1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(subset) != 1 {
		t.Fatalf("subset = %v", subset)
	}
	if _, ok := subset[2]; !ok {
		t.Fatalf("expected plant b, got %v", subset)
	}
}

func TestSearchMinimumCombinationNotFound(t *testing.T) {
	plants := ranked(
		CostedPlant{Name: "a", PowerMin: 80, PowerMax: 100},
		CostedPlant{Name: "b", PowerMin: 90, PowerMax: 100},
	)
	subset, err := searchMinimumCombination(context.Background(), plants, 130, -1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if subset != nil {
		t.Fatalf("expected no combination, got %v", subset)
	}
}

func TestSearchMinimumCombinationBudget(t *testing.T) {
	plants := ranked(
		CostedPlant{PowerMin: 10, PowerMax: 20},
		CostedPlant{PowerMin: 10, PowerMax: 20},
		CostedPlant{PowerMin: 10, PowerMax: 20},
		CostedPlant{PowerMin: 10, PowerMax: 20},
	)
	_, err := searchMinimumCombination(context.Background(), plants, 35, 3)
	if !errors.Is(err, ErrSearchBudgetExceeded) {
		t.Fatalf("expected budget error, got %v", err)
	}
}

func TestSearchMinimumCombinationCanceled(t *testing.T) {
	var plants []CostedPlant
	for range 20 {
		plants = append(plants, CostedPlant{PowerMin: 7, PowerMax: 7})
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := searchMinimumCombination(ctx, ranked(plants...), 1000.5, -1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAllocateBranches(t *testing.T) {
	plants := ranked(
		CostedPlant{Name: "wind", Cost: 0, PowerMin: 15, PowerMax: 15},
		CostedPlant{Name: "cheap", Cost: 17.9, PowerMin: 10, PowerMax: 200},
		CostedPlant{Name: "mid", Cost: 25.3, PowerMin: 10, PowerMax: 100},
		CostedPlant{Name: "dear", Cost: 63.5, PowerMin: 0, PowerMax: 16},
	)
	a, err := allocate(context.Background(), plants, 217, Options{})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	want := []float64{15, 192, 10, 0}
	for i, e := range a.entries {
		if e.power != want[i] {
			t.Fatalf("%s = %v, want %v", e.plant.Name, e.power, want[i])
		}
	}
	if a.fallback {
		t.Fatal("fallback must not be used")
	}
	if a.remaining != 0 {
		t.Fatalf("remaining = %v", a.remaining)
	}
}

func TestSearchMinimumCombinationTolerance(t *testing.T) {
	plants := ranked(
		CostedPlant{Name: "a", PowerMin: 40.0004, PowerMax: 80},
		CostedPlant{Name: "b", PowerMin: 60, PowerMax: 90},
	)
	subset, err := searchMinimumCombination(context.Background(), plants, 100, -1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(subset) != 2 {
		t.Fatalf("a sum within 0.001 of the load must match, got %v", subset)
	}

	plants = ranked(
		CostedPlant{Name: "a", PowerMin: 40.002, PowerMax: 80},
		CostedPlant{Name: "b", PowerMin: 60, PowerMax: 90},
	)
	subset, err = searchMinimumCombination(context.Background(), plants, 100, -1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if subset != nil {
		t.Fatalf("a gap of 0.002 must not match, got %v", subset)
	}
}

// The partial branch assigns the remaining load rounded to one decimal, which
// may sit a few hundredths above a PowerMax given with two decimals.
func TestAllocatePartialRoundsRemaining(t *testing.T) {
	plants := ranked(CostedPlant{Name: "a", Cost: 20, PowerMin: 0, PowerMax: 280.39})
	a, err := allocate(context.Background(), plants, 280.36, Options{})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got := a.entries[0].power; got != 280.4 {
		t.Fatalf("power = %v, want 280.4", got)
	}
}
