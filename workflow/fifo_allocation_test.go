package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/camstore/store_backend/models"
)

func expiryBatch(id int, number string, quantity, daysUntilExpiry int) *models.Batch {
	return &models.Batch{
		ID:          id,
		BatchNumber: number,
		Quantity:    quantity,
		ExpiryDate:  time.Now().UTC().AddDate(0, 0, daysUntilExpiry),
	}
}

// Batches arrive ordered by expiry ascending, the way ProcessSale
// loads them.
func TestPlanFifoAllocation_SoonestExpiryFirst(t *testing.T) {
	batches := []*models.Batch{
		expiryBatch(3, "B-C", 10, -5),
		expiryBatch(2, "B-B", 20, 10),
		expiryBatch(1, "B-A", 50, 60),
	}

	deductions, err := PlanFifoAllocation(batches, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deductions) != 2 {
		t.Fatalf("deductions = %d, want 2", len(deductions))
	}
	if deductions[0].BatchId != 3 || deductions[0].Quantity != 10 {
		t.Errorf("first deduction = %+v, want batch 3 qty 10", deductions[0])
	}
	if deductions[1].BatchId != 2 || deductions[1].Quantity != 5 {
		t.Errorf("second deduction = %+v, want batch 2 qty 5", deductions[1])
	}
}

func TestPlanFifoAllocation_ConservesQuantity(t *testing.T) {
	batches := []*models.Batch{
		expiryBatch(1, "B-A", 7, 2),
		expiryBatch(2, "B-B", 13, 9),
		expiryBatch(3, "B-C", 40, 30),
	}

	for _, requested := range []int{1, 7, 8, 20, 60} {
		deductions, err := PlanFifoAllocation(batches, requested)
		if err != nil {
			t.Fatalf("requested %d: unexpected error: %v", requested, err)
		}
		total := 0
		for _, d := range deductions {
			total += d.Quantity
		}
		if total != requested {
			t.Errorf("requested %d but deductions sum to %d", requested, total)
		}
	}
}

func TestPlanFifoAllocation_InsufficientStockAllocatesNothing(t *testing.T) {
	batches := []*models.Batch{
		expiryBatch(1, "B-A", 5, 3),
		expiryBatch(2, "B-B", 5, 12),
	}

	deductions, err := PlanFifoAllocation(batches, 11)
	if !errors.Is(err, models.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if deductions != nil {
		t.Errorf("deductions = %+v, want nil on failed plan", deductions)
	}
}

func TestPlanFifoAllocation_SkipsEmptyBatches(t *testing.T) {
	batches := []*models.Batch{
		expiryBatch(1, "B-A", 0, 1),
		expiryBatch(2, "B-B", 10, 5),
	}

	deductions, err := PlanFifoAllocation(batches, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deductions) != 1 || deductions[0].BatchId != 2 {
		t.Fatalf("deductions = %+v, want only batch 2", deductions)
	}
}

func TestPlanFifoAllocation_ExactDepletion(t *testing.T) {
	batches := []*models.Batch{
		expiryBatch(1, "B-A", 4, 2),
		expiryBatch(2, "B-B", 6, 8),
	}

	deductions, err := PlanFifoAllocation(batches, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deductions) != 2 {
		t.Fatalf("deductions = %d, want 2", len(deductions))
	}
	if deductions[0].Quantity != 4 || deductions[1].Quantity != 6 {
		t.Errorf("deductions = %+v, want full depletion of both batches", deductions)
	}
}
