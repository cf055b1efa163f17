package models

import (
	"context"
	"time"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/utils"
)

// ExpiryStatusForDays is the single expiry classifier. Every call site
// that reports expiry state (alerts, dashboard, discount engine) must
// go through it so the band boundaries cannot drift.
//
//	daysLeft <= 0        expired
//	0 < daysLeft < 7     critical
//	7 <= daysLeft <= 15  warning
//	daysLeft > 15        fresh
func ExpiryStatusForDays(daysLeft int) ExpiryStatus {
	switch {
	case daysLeft <= 0:
		return ExpiryStatusExpired
	case daysLeft < 7:
		return ExpiryStatusCritical
	case daysLeft <= 15:
		return ExpiryStatusWarning
	default:
		return ExpiryStatusFresh
	}
}

type ExpiryAlert struct {
	ProductId   int          `json:"product_id"`
	ProductName string       `json:"product_name"`
	ItemId      string       `json:"item_id"`
	BatchId     int          `json:"batch_id"`
	BatchNumber string       `json:"batch_number"`
	ExpiryDate  time.Time    `json:"expiry_date"`
	DaysLeft    int          `json:"days_left"`
	Quantity    int          `json:"quantity"`
	Status      ExpiryStatus `json:"status"`
}

// ListExpiringBatches returns alerts for batches with remaining stock
// expiring within the next `days` days, soonest first.
func ListExpiringBatches(ctx context.Context, days int) ([]*ExpiryAlert, error) {
	db := config.GetDB()
	cutoff := time.Now().UTC().AddDate(0, 0, days)

	var batches []*Batch
	if err := db.WithContext(ctx).Preload("Product").
		Where("expiry_date <= ? AND quantity > 0", cutoff).
		Order("expiry_date ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}

	alerts := make([]*ExpiryAlert, 0, len(batches))
	for _, b := range batches {
		daysLeft := utils.DaysUntil(b.ExpiryDate)
		alert := &ExpiryAlert{
			BatchId:     b.ID,
			BatchNumber: b.BatchNumber,
			ExpiryDate:  b.ExpiryDate,
			DaysLeft:    daysLeft,
			Quantity:    b.Quantity,
			Status:      ExpiryStatusForDays(daysLeft),
		}
		if b.Product != nil {
			alert.ProductId = b.Product.ID
			alert.ProductName = b.Product.Name
			alert.ItemId = b.Product.ItemId
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

type DailyCheckResult struct {
	CheckDate           string         `json:"check_date"`
	TotalBatchesChecked int            `json:"total_batches_checked"`
	AlertsGenerated     int            `json:"alerts_generated"`
	Alerts              []*ExpiryAlert `json:"alerts"`
}

// DailyExpiryCheck scans every batch with remaining stock and returns
// the at-risk ones (expired, critical, warning). Fresh batches are
// counted but not reported.
func DailyExpiryCheck(ctx context.Context) (*DailyCheckResult, error) {
	db := config.GetDB()

	var batches []*Batch
	if err := db.WithContext(ctx).Preload("Product").
		Where("quantity > 0").
		Find(&batches).Error; err != nil {
		return nil, err
	}

	result := &DailyCheckResult{
		CheckDate:           time.Now().UTC().Format("2006-01-02"),
		TotalBatchesChecked: len(batches),
		Alerts:              []*ExpiryAlert{},
	}
	for _, b := range batches {
		daysLeft := utils.DaysUntil(b.ExpiryDate)
		status := ExpiryStatusForDays(daysLeft)
		if status == ExpiryStatusFresh {
			continue
		}
		alert := &ExpiryAlert{
			BatchId:     b.ID,
			BatchNumber: b.BatchNumber,
			ExpiryDate:  b.ExpiryDate,
			DaysLeft:    daysLeft,
			Quantity:    b.Quantity,
			Status:      status,
		}
		if b.Product != nil {
			alert.ProductId = b.Product.ID
			alert.ProductName = b.Product.Name
			alert.ItemId = b.Product.ItemId
		}
		result.Alerts = append(result.Alerts, alert)
	}
	result.AlertsGenerated = len(result.Alerts)
	return result, nil
}
