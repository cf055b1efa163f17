package workflow

import (
	"context"
	"fmt"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/models"
	"github.com/camstore/store_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BatchDeduction is one (batch, amount) pair of a FIFO allocation.
type BatchDeduction struct {
	BatchId     int    `json:"batch_id"`
	BatchNumber string `json:"batch_number"`
	Quantity    int    `json:"quantity"`
}

// PlanFifoAllocation computes the deductions for a sale over the given
// batches, which must be the product's batches with quantity > 0
// ordered ascending by expiry date (soonest-expiring first). The sum
// check precedes any allocation: when total available stock is short
// the plan fails with ErrInsufficientStock and nothing is allocated.
func PlanFifoAllocation(batches []*models.Batch, quantity int) ([]BatchDeduction, error) {
	available := 0
	for _, b := range batches {
		if b.Quantity > 0 {
			available += b.Quantity
		}
	}
	if available < quantity {
		return nil, fmt.Errorf("%w: requested %d, available %d", models.ErrInsufficientStock, quantity, available)
	}

	deductions := make([]BatchDeduction, 0, 2)
	remaining := quantity
	for _, b := range batches {
		if remaining <= 0 {
			break
		}
		if b.Quantity <= 0 {
			continue
		}
		deduct := b.Quantity
		if remaining < deduct {
			deduct = remaining
		}
		deductions = append(deductions, BatchDeduction{
			BatchId:     b.ID,
			BatchNumber: b.BatchNumber,
			Quantity:    deduct,
		})
		remaining -= deduct
	}
	return deductions, nil
}

// ProcessSale allocates a sale FIFO-by-expiry and records the sale
// transaction, all-or-nothing. Mutations for one product are
// serialized by the per-product lock; batch rows are additionally
// locked FOR UPDATE inside the DB transaction so concurrent sales
// cannot interleave partial deductions. After the sale commits, the
// replenishment check runs under the same lock; its failures are
// logged and never propagated.
func ProcessSale(ctx context.Context, logger *logrus.Logger, input *models.NewTransaction) (*models.Transaction, []BatchDeduction, error) {
	db := config.GetDB()

	product, err := utils.FetchSingleModel[models.Product](ctx, input.ProductId)
	if err != nil {
		return nil, nil, models.ErrProductNotFound
	}

	lock, err := utils.ObtainProductLock(ctx, product.ID)
	if err != nil {
		return nil, nil, err
	}
	defer utils.ReleaseLock(ctx, lock)

	unitPrice := product.Mrp
	if input.UnitPrice != nil && !input.UnitPrice.IsZero() {
		unitPrice = *input.UnitPrice
	}

	var record *models.Transaction
	var deductions []BatchDeduction
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var batches []*models.Batch
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND quantity > 0", product.ID).
			Order("expiry_date ASC").
			Find(&batches).Error; err != nil {
			return err
		}

		var planErr error
		deductions, planErr = PlanFifoAllocation(batches, input.Quantity)
		if planErr != nil {
			return planErr
		}

		for _, d := range deductions {
			if err := tx.Model(&models.Batch{}).Where("id = ?", d.BatchId).
				Update("quantity", gorm.Expr("quantity - ?", d.Quantity)).Error; err != nil {
				return err
			}
		}

		record = &models.Transaction{
			ProductId:       product.ID,
			BatchId:         nil,
			TransactionType: models.TransactionTypeSale,
			Quantity:        input.Quantity,
			UnitPrice:       unitPrice,
			TotalAmount:     unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))).Round(2),
			Notes:           input.Notes,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, nil, err
	}

	// The sale is committed; the trigger must never fail it.
	RunReplenishmentCheck(ctx, logger, product.ID)

	return record, deductions, nil
}

// ProcessWastage writes off stock from one batch, clamped so the batch
// never goes negative: writing off more than remains floors at zero
// rather than failing. The write-off is recorded as a wastage
// transaction. A nil batch id records an aggregate write-off with no
// batch mutation.
func ProcessWastage(ctx context.Context, logger *logrus.Logger, input *models.NewTransaction) (*models.Transaction, error) {
	db := config.GetDB()

	product, err := utils.FetchSingleModel[models.Product](ctx, input.ProductId)
	if err != nil {
		return nil, models.ErrProductNotFound
	}

	lock, err := utils.ObtainProductLock(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	defer utils.ReleaseLock(ctx, lock)

	unitPrice := product.Mrp
	if input.UnitPrice != nil && !input.UnitPrice.IsZero() {
		unitPrice = *input.UnitPrice
	}

	var record *models.Transaction
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.BatchId != nil {
			var batch models.Batch
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&batch, *input.BatchId).Error; err != nil {
				return models.ErrBatchNotFound
			}
			deduct := input.Quantity
			if batch.Quantity < deduct {
				deduct = batch.Quantity
			}
			if deduct > 0 {
				if err := tx.Model(&batch).
					Update("quantity", gorm.Expr("quantity - ?", deduct)).Error; err != nil {
					return err
				}
			}
		}

		record = &models.Transaction{
			ProductId:       product.ID,
			BatchId:         input.BatchId,
			TransactionType: models.TransactionTypeWastage,
			Quantity:        input.Quantity,
			UnitPrice:       unitPrice,
			TotalAmount:     unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))).Round(2),
			Notes:           input.Notes,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ProcessTransaction dispatches an inbound ledger request by type.
// Restock requests record the aggregate transaction only; batch
// creation goes through models.CreateBatch.
func ProcessTransaction(ctx context.Context, logger *logrus.Logger, input *models.NewTransaction) (*models.Transaction, []BatchDeduction, error) {
	switch input.TransactionType {
	case models.TransactionTypeSale:
		return ProcessSale(ctx, logger, input)
	case models.TransactionTypeWastage:
		record, err := ProcessWastage(ctx, logger, input)
		return record, nil, err
	case models.TransactionTypeRestock:
		record, err := recordRestock(ctx, input)
		return record, nil, err
	default:
		return nil, nil, fmt.Errorf("invalid transaction type %q", input.TransactionType)
	}
}

func recordRestock(ctx context.Context, input *models.NewTransaction) (*models.Transaction, error) {
	db := config.GetDB()

	product, err := utils.FetchSingleModel[models.Product](ctx, input.ProductId)
	if err != nil {
		return nil, models.ErrProductNotFound
	}

	unitPrice := product.Mrp
	if input.UnitPrice != nil && !input.UnitPrice.IsZero() {
		unitPrice = *input.UnitPrice
	}

	record := &models.Transaction{
		ProductId:       product.ID,
		BatchId:         input.BatchId,
		TransactionType: models.TransactionTypeRestock,
		Quantity:        input.Quantity,
		UnitPrice:       unitPrice,
		TotalAmount:     unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))).Round(2),
		Notes:           input.Notes,
	}
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}
