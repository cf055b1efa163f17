package models

import (
	"context"
	"time"

	"github.com/camstore/store_backend/config"
	"github.com/shopspring/decimal"
)

// Transaction is the immutable audit record of one ledger mutation.
// Rows are created, never updated or deleted. BatchId is nil for
// aggregate events not tied to a single batch (restocks, FIFO sales).
type Transaction struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ProductId       int             `gorm:"index;not null" json:"product_id"`
	BatchId         *int            `gorm:"index" json:"batch_id"`
	TransactionType TransactionType `gorm:"size:20;not null;index" json:"transaction_type"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	TransactionDate time.Time       `gorm:"autoCreateTime;index" json:"transaction_date"`
	Notes           string          `gorm:"type:text" json:"notes"`

	Product *Product `json:"-"`
}

type NewTransaction struct {
	ProductId       int              `json:"product_id" binding:"required"`
	BatchId         *int             `json:"batch_id"`
	TransactionType TransactionType  `json:"transaction_type" binding:"required"`
	Quantity        int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	Notes           string           `json:"notes"`
}

func ListTransactions(ctx context.Context, transactionType TransactionType, productId int, limit int) ([]*Transaction, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)

	if transactionType != "" {
		dbCtx = dbCtx.Where("transaction_type = ?", transactionType)
	}
	if productId > 0 {
		dbCtx = dbCtx.Where("product_id = ?", productId)
	}
	if limit <= 0 {
		limit = 50
	}

	var transactions []*Transaction
	if err := dbCtx.Order("transaction_date DESC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
