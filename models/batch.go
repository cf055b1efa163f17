package models

import (
	"context"
	"fmt"
	"time"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Batch is one discrete receipt of stock for a product, with its own
// expiry date and remaining quantity. Quantity is mutated only by the
// sale/wastage workflows and never goes negative; a zero-quantity
// batch is inert but kept for audit history.
type Batch struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ProductId       int             `gorm:"index;not null" json:"product_id"`
	BatchNumber     string          `gorm:"size:50;not null" json:"batch_number"`
	Quantity        int             `gorm:"not null;default:0" json:"quantity"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	ManufactureDate *time.Time      `gorm:"type:date" json:"manufacture_date"`
	ExpiryDate      time.Time       `gorm:"type:date;not null;index" json:"expiry_date"`
	ReceivedDate    time.Time       `gorm:"autoCreateTime" json:"received_date"`

	Product *Product `json:"-"`
}

func (b *Batch) DaysUntilExpiry() int {
	return utils.DaysUntil(b.ExpiryDate)
}

func (b *Batch) ExpiryStatus() ExpiryStatus {
	return ExpiryStatusForDays(b.DaysUntilExpiry())
}

type NewBatch struct {
	ProductId       int             `json:"product_id" binding:"required"`
	Quantity        int             `json:"quantity" binding:"required,gt=0"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	ManufactureDate *time.Time      `json:"manufacture_date"`
	ExpiryDate      time.Time       `json:"expiry_date" binding:"required"`
}

// CreateBatch restocks a product: it creates a new batch with a
// sequence-based batch number and the matching restock transaction in
// one DB transaction.
func CreateBatch(ctx context.Context, input *NewBatch) (*Batch, error) {
	db := config.GetDB()

	product, err := utils.FetchSingleModel[Product](ctx, input.ProductId)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var batch *Batch
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Model(&Batch{}).Where("product_id = ?", input.ProductId).Count(&seq).Error; err != nil {
			return err
		}

		batch = &Batch{
			ProductId:       input.ProductId,
			BatchNumber:     fmt.Sprintf("B%s-%02d", product.ItemId, seq+1),
			Quantity:        input.Quantity,
			CostPrice:       input.CostPrice,
			ManufactureDate: input.ManufactureDate,
			ExpiryDate:      input.ExpiryDate,
		}
		if err := tx.Create(batch).Error; err != nil {
			return err
		}

		qty := decimal.NewFromInt(int64(input.Quantity))
		record := Transaction{
			ProductId:       input.ProductId,
			BatchId:         nil,
			TransactionType: TransactionTypeRestock,
			Quantity:        input.Quantity,
			UnitPrice:       input.CostPrice,
			TotalAmount:     input.CostPrice.Mul(qty).Round(2),
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func GetBatch(ctx context.Context, id int) (*Batch, error) {
	batch, err := utils.FetchSingleModel[Batch](ctx, id)
	if err != nil {
		return nil, ErrBatchNotFound
	}
	return batch, nil
}
