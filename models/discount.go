package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const pulseDiscountPct = 20

type QualifyingBatch struct {
	BatchId     int       `json:"batch_id"`
	BatchNumber string    `json:"batch_number"`
	DaysLeft    int       `json:"days_left"`
	Quantity    int       `json:"quantity"`
	ExpiryDate  time.Time `json:"expiry_date"`
}

type PulseDiscount struct {
	ProductId         int               `json:"product_id"`
	ProductName       string            `json:"product_name"`
	OriginalPrice     decimal.Decimal   `json:"original_price"`
	HasDiscount       bool              `json:"has_discount"`
	DiscountPct       int               `json:"discount_pct"`
	DiscountedPrice   decimal.Decimal   `json:"discounted_price"`
	NearExpiryBatches []QualifyingBatch `json:"near_expiry_batches"`
	Reason            string            `json:"reason,omitempty"`
}

// ComputePulseDiscount derives the dynamic discount for a product from
// its batches' expiry state: any batch with stock in the critical band
// (0 < daysLeft < 7, the classifier's exact boundary) puts the product
// on a 20% flat flash sale. Pure computation, no mutation; the
// product's batches must be loaded.
func ComputePulseDiscount(product *Product) *PulseDiscount {
	result := &PulseDiscount{
		ProductId:         product.ID,
		ProductName:       product.Name,
		OriginalPrice:     product.Mrp,
		DiscountedPrice:   product.Mrp,
		NearExpiryBatches: []QualifyingBatch{},
	}

	for _, b := range product.Batches {
		if b.Quantity <= 0 {
			continue
		}
		daysLeft := b.DaysUntilExpiry()
		if ExpiryStatusForDays(daysLeft) != ExpiryStatusCritical {
			continue
		}
		result.NearExpiryBatches = append(result.NearExpiryBatches, QualifyingBatch{
			BatchId:     b.ID,
			BatchNumber: b.BatchNumber,
			DaysLeft:    daysLeft,
			Quantity:    b.Quantity,
			ExpiryDate:  b.ExpiryDate,
		})
	}

	if len(result.NearExpiryBatches) > 0 {
		result.HasDiscount = true
		result.DiscountPct = pulseDiscountPct
		result.DiscountedPrice = product.Mrp.
			Mul(decimal.NewFromInt(100 - pulseDiscountPct)).
			Div(decimal.NewFromInt(100)).
			Round(2)
		result.Reason = fmt.Sprintf("Flash Sale — %d batch(es) expiring within 7 days", len(result.NearExpiryBatches))
	}
	return result
}

func GetPulseDiscount(ctx context.Context, productId int) (*PulseDiscount, error) {
	product, err := GetProduct(ctx, productId)
	if err != nil {
		return nil, err
	}
	return ComputePulseDiscount(product), nil
}
