package workflow

import (
	"math"
	"testing"
)

func TestPlanReplenishment_SlowMoverSkipped(t *testing.T) {
	// 3 units over 30 days is exactly the 0.1/day floor.
	decision := PlanReplenishment(3, 0)
	if decision.ShouldOrder {
		t.Error("velocity at the floor must not trigger an order")
	}

	decision = PlanReplenishment(0, 0)
	if decision.ShouldOrder {
		t.Error("zero velocity must not trigger an order")
	}
}

func TestPlanReplenishment_NotYetUrgent(t *testing.T) {
	// 60 sold over 30 days = 2/day; 10 in stock = 5 days of cover.
	decision := PlanReplenishment(60, 10)
	if decision.ShouldOrder {
		t.Errorf("5 days of cover is not urgent, decision = %+v", decision)
	}
	if math.Abs(decision.DaysUntilStockout-5) > 1e-9 {
		t.Errorf("days until stockout = %f, want 5", decision.DaysUntilStockout)
	}
}

func TestPlanReplenishment_ImminentStockout(t *testing.T) {
	// 150 sold over 30 days = 5/day; 8 in stock = 1.6 days of cover.
	decision := PlanReplenishment(150, 8)
	if !decision.ShouldOrder {
		t.Fatalf("1.6 days of cover must trigger an order, decision = %+v", decision)
	}
	// One week of cover at 5/day.
	if decision.OrderQuantity != 35 {
		t.Errorf("order quantity = %d, want 35", decision.OrderQuantity)
	}
}

func TestPlanReplenishment_MinimumOrderQuantity(t *testing.T) {
	// 6 sold over 30 days = 0.2/day; empty shelf, so stockout is now.
	decision := PlanReplenishment(6, 0)
	if !decision.ShouldOrder {
		t.Fatalf("empty stock with real velocity must trigger an order, decision = %+v", decision)
	}
	// A week of cover would be 1.4 units; the floor lifts it to 20.
	if decision.OrderQuantity != 20 {
		t.Errorf("order quantity = %d, want minimum 20", decision.OrderQuantity)
	}
}

func TestPlanReplenishment_BoundaryUrgency(t *testing.T) {
	// 2/day with 4 in stock: exactly 2.0 days, still counts as urgent.
	decision := PlanReplenishment(60, 4)
	if !decision.ShouldOrder {
		t.Errorf("exactly 2.0 days of cover must trigger an order, decision = %+v", decision)
	}
}
