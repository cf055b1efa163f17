package models

import (
	"context"
	"fmt"
	"time"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/utils"
	"gorm.io/gorm"
)

// PurchaseOrder is a system-drafted reorder proposal. The trigger
// creates it in draft; sent/received transitions belong to the
// procurement workflow. An order in draft or sent is "active" and
// blocks further drafts for the same product.
type PurchaseOrder struct {
	ID                    int                 `gorm:"primary_key" json:"id"`
	SupplierId            int                 `gorm:"index;not null" json:"supplier_id"`
	ProductId             int                 `gorm:"index;not null" json:"product_id"`
	Quantity              int                 `gorm:"not null;default:50" json:"quantity"`
	Status                PurchaseOrderStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	PredictedStockoutDate *time.Time          `gorm:"type:date" json:"predicted_stockout_date"`
	CreatedAt             time.Time           `gorm:"autoCreateTime" json:"created_at"`

	Supplier *Supplier `json:"-"`
	Product  *Product  `json:"-"`
}

// HasActivePurchaseOrder reports whether the product already has a
// draft or sent order. Runs on the supplied handle so the trigger can
// check inside its own transaction.
func HasActivePurchaseOrder(tx *gorm.DB, productId int) (bool, error) {
	var count int64
	err := tx.Model(&PurchaseOrder{}).
		Where("product_id = ? AND status IN ?", productId,
			[]PurchaseOrderStatus{PurchaseOrderStatusDraft, PurchaseOrderStatusSent}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type PurchaseOrderView struct {
	PurchaseOrder
	SupplierName string `json:"supplier_name"`
	ProductName  string `json:"product_name"`
}

func ListPurchaseOrders(ctx context.Context, status PurchaseOrderStatus) ([]*PurchaseOrderView, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("Product")
	if status != "" {
		dbCtx = dbCtx.Where("status = ?", status)
	}

	var orders []*PurchaseOrder
	if err := dbCtx.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}

	views := make([]*PurchaseOrderView, 0, len(orders))
	for _, po := range orders {
		view := &PurchaseOrderView{PurchaseOrder: *po}
		if po.Supplier != nil {
			view.SupplierName = po.Supplier.Name
		}
		if po.Product != nil {
			view.ProductName = po.Product.Name
		}
		views = append(views, view)
	}
	return views, nil
}

// AdvancePurchaseOrder moves an order one step forward in its state
// machine (draft -> sent -> received). There is no reverse transition.
func AdvancePurchaseOrder(ctx context.Context, id int, next PurchaseOrderStatus) (*PurchaseOrder, error) {
	db := config.GetDB()
	order, err := utils.FetchSingleModel[PurchaseOrder](ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusChange, order.Status, next)
	}
	if err := db.WithContext(ctx).Model(order).Update("status", next).Error; err != nil {
		return nil, err
	}
	return order, nil
}
