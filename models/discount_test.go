package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func batchExpiringIn(id, quantity, days int) *Batch {
	return &Batch{
		ID:          id,
		BatchNumber: "B-TEST",
		Quantity:    quantity,
		ExpiryDate:  time.Now().UTC().AddDate(0, 0, days),
	}
}

func TestComputePulseDiscount_CriticalBatchTriggersFlashSale(t *testing.T) {
	product := &Product{
		ID:   1,
		Name: "Whole Milk 1L",
		Mrp:  decimal.RequireFromString("2.50"),
		Batches: []*Batch{
			batchExpiringIn(10, 5, 5),
			batchExpiringIn(11, 40, 30),
		},
	}

	discount := ComputePulseDiscount(product)
	if !discount.HasDiscount {
		t.Fatal("expected a discount for a batch expiring in 5 days")
	}
	if discount.DiscountPct != 20 {
		t.Errorf("discount pct = %d, want 20", discount.DiscountPct)
	}
	if want := decimal.RequireFromString("2.00"); !discount.DiscountedPrice.Equal(want) {
		t.Errorf("discounted price = %s, want %s", discount.DiscountedPrice, want)
	}
	if len(discount.NearExpiryBatches) != 1 {
		t.Fatalf("qualifying batches = %d, want 1", len(discount.NearExpiryBatches))
	}
	if discount.NearExpiryBatches[0].BatchId != 10 {
		t.Errorf("qualifying batch id = %d, want 10", discount.NearExpiryBatches[0].BatchId)
	}
	if discount.Reason == "" {
		t.Error("expected a reason on a discounted product")
	}
}

func TestComputePulseDiscount_NoCriticalBatches(t *testing.T) {
	mrp := decimal.RequireFromString("4.80")
	product := &Product{
		ID:   2,
		Name: "Cheddar Cheese 200g",
		Mrp:  mrp,
		Batches: []*Batch{
			batchExpiringIn(20, 25, 30),
		},
	}

	discount := ComputePulseDiscount(product)
	if discount.HasDiscount {
		t.Fatal("no batch in the critical band; expected no discount")
	}
	if !discount.DiscountedPrice.Equal(mrp) {
		t.Errorf("discounted price = %s, want original %s", discount.DiscountedPrice, mrp)
	}
	if discount.Reason != "" {
		t.Errorf("reason = %q, want empty", discount.Reason)
	}
}

func TestComputePulseDiscount_EmptyCriticalBatchIgnored(t *testing.T) {
	product := &Product{
		ID:   3,
		Name: "Tomatoes 1kg",
		Mrp:  decimal.RequireFromString("1.60"),
		Batches: []*Batch{
			batchExpiringIn(30, 0, 3),
		},
	}

	if discount := ComputePulseDiscount(product); discount.HasDiscount {
		t.Error("a sold-out batch must not trigger a discount")
	}
}

func TestComputePulseDiscount_ExpiredBatchDoesNotQualify(t *testing.T) {
	product := &Product{
		ID:   4,
		Name: "Orange Juice 1L",
		Mrp:  decimal.RequireFromString("3.20"),
		Batches: []*Batch{
			batchExpiringIn(40, 10, -2),
		},
	}

	if discount := ComputePulseDiscount(product); discount.HasDiscount {
		t.Error("an already expired batch is not a flash sale candidate")
	}
}
