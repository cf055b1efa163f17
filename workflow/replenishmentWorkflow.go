package workflow

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// Trailing window for the demand velocity estimate (simple moving
	// average over sale quantities).
	velocityWindowDays = 30
	// Below this velocity the product is too slow-moving to project;
	// also guards the stock/velocity division against near-zero noise.
	velocityFloor = 0.1
	// Projected stock-out further out than this is not urgent.
	stockoutUrgencyDays = 2.0
	// Draft orders cover one week of projected demand...
	reorderCoverDays = 7
	// ...but never less than the minimum order size.
	minimumOrderQuantity = 20
)

// ReplenishmentDecision is the outcome of the stock-out projection.
type ReplenishmentDecision struct {
	Velocity          float64
	DaysUntilStockout float64
	OrderQuantity     int
	ShouldOrder       bool
}

// PlanReplenishment decides whether a product needs a draft order,
// from the trailing 30-day sale quantity and current total stock.
func PlanReplenishment(trailingSaleQty int, currentStock int) ReplenishmentDecision {
	velocity := float64(trailingSaleQty) / velocityWindowDays
	decision := ReplenishmentDecision{Velocity: velocity}

	if velocity <= velocityFloor {
		return decision
	}
	decision.DaysUntilStockout = float64(currentStock) / velocity
	if decision.DaysUntilStockout > stockoutUrgencyDays {
		return decision
	}

	decision.OrderQuantity = int(math.Round(velocity * reorderCoverDays))
	if decision.OrderQuantity < minimumOrderQuantity {
		decision.OrderQuantity = minimumOrderQuantity
	}
	decision.ShouldOrder = true
	return decision
}

// RunReplenishmentCheck runs the post-sale stock-out projection for a
// product and drafts a purchase order when stock-out is imminent. The
// caller holds the per-product lock, which serializes the
// check-then-create against concurrent sales of the same product.
//
// This is a best-effort side computation on an already-committed sale:
// every failure path logs and returns, none propagates.
func RunReplenishmentCheck(ctx context.Context, logger *logrus.Logger, productId int) {
	db := config.GetDB()

	product, err := models.GetProduct(ctx, productId)
	if err != nil {
		config.LogError(logger, "workflow", "RunReplenishmentCheck", "fetch product", productId, err)
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -velocityWindowDays)
	var trailingQty int
	if err := db.WithContext(ctx).Model(&models.Transaction{}).
		Where("product_id = ? AND transaction_type = ? AND transaction_date >= ?",
			productId, models.TransactionTypeSale, since).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&trailingQty).Error; err != nil {
		config.LogError(logger, "workflow", "RunReplenishmentCheck", "sum trailing sales", productId, err)
		return
	}

	decision := PlanReplenishment(trailingQty, product.TotalStock())
	if !decision.ShouldOrder {
		return
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := models.HasActivePurchaseOrder(tx, productId)
		if err != nil {
			return err
		}
		if active {
			// At most one active order per product.
			return nil
		}

		supplier, err := models.GetSupplierByCategory(ctx, product.Category)
		if err != nil {
			if errors.Is(err, models.ErrSupplierNotFound) {
				logger.WithFields(logrus.Fields{
					"module":   "workflow",
					"funcName": "RunReplenishmentCheck",
					"product":  product.ItemId,
					"category": product.Category,
				}).Warn("no supplier registered for category; skipping draft order")
				return nil
			}
			return err
		}

		stockoutDate := time.Now().UTC().AddDate(0, 0, int(decision.DaysUntilStockout))
		order := models.PurchaseOrder{
			SupplierId:            supplier.ID,
			ProductId:             productId,
			Quantity:              decision.OrderQuantity,
			Status:                models.PurchaseOrderStatusDraft,
			PredictedStockoutDate: &stockoutDate,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"module":            "workflow",
			"funcName":          "RunReplenishmentCheck",
			"product":           product.ItemId,
			"orderQty":          decision.OrderQuantity,
			"daysUntilStockout": decision.DaysUntilStockout,
		}).Info("drafted purchase order")
		return nil
	})
	if err != nil {
		config.LogError(logger, "workflow", "RunReplenishmentCheck", "draft purchase order", productId, err)
	}
}
