package models

import (
	"context"
	"time"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/utils"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID         int             `gorm:"primary_key" json:"id"`
	ItemId     string          `gorm:"size:20;uniqueIndex;not null" json:"item_id" binding:"required"`
	Name       string          `gorm:"size:200;not null" json:"name" binding:"required"`
	Category   string          `gorm:"size:50;not null;index" json:"category" binding:"required"`
	FatContent string          `gorm:"size:20;default:'Regular'" json:"fat_content"`
	Weight     float64         `gorm:"default:0" json:"weight"`
	Mrp        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"mrp"`
	Barcode    *string         `gorm:"size:50;uniqueIndex" json:"barcode"`
	MinStock   int             `gorm:"default:10" json:"min_stock"`
	ImageUrl   string          `gorm:"size:500" json:"image_url"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Product exclusively owns its batches and transactions; deleting a
	// product cascades to both. Purchase orders intentionally do NOT
	// cascade (see DeleteProduct).
	Batches      []*Batch       `gorm:"constraint:OnDelete:CASCADE" json:"batches,omitempty"`
	Transactions []*Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TotalStock is recomputed from current batch state, never cached.
// Batches must be loaded.
func (p *Product) TotalStock() int {
	total := 0
	for _, b := range p.Batches {
		if b.Quantity > 0 {
			total += b.Quantity
		}
	}
	return total
}

type NewProduct struct {
	ItemId     string          `json:"item_id" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	Category   string          `json:"category" binding:"required"`
	FatContent string          `json:"fat_content"`
	Weight     float64         `json:"weight"`
	Mrp        decimal.Decimal `json:"mrp" binding:"required"`
	Barcode    *string         `json:"barcode"`
	MinStock   int             `json:"min_stock"`
	ImageUrl   string          `json:"image_url"`
}

type UpdateProductInput struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Mrp      *decimal.Decimal `json:"mrp"`
	MinStock *int             `json:"min_stock"`
	Barcode  *string          `json:"barcode"`
	ImageUrl *string          `json:"image_url"`
}

const categoryCacheKey = "productCategories"

func (input *NewProduct) validate(ctx context.Context) error {
	if err := utils.ValidateUnique[Product](ctx, "item_id", input.ItemId, 0); err != nil {
		return err
	}
	if input.Barcode != nil && *input.Barcode != "" {
		if err := utils.ValidateUnique[Product](ctx, "barcode", *input.Barcode, 0); err != nil {
			return err
		}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	minStock := input.MinStock
	if minStock <= 0 {
		minStock = 10
	}
	fatContent := input.FatContent
	if fatContent == "" {
		fatContent = "Regular"
	}

	db := config.GetDB()
	product := Product{
		ItemId:     input.ItemId,
		Name:       input.Name,
		Category:   input.Category,
		FatContent: fatContent,
		Weight:     input.Weight,
		Mrp:        input.Mrp,
		Barcode:    input.Barcode,
		MinStock:   minStock,
		ImageUrl:   input.ImageUrl,
	}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}

	_ = config.RemoveRedisKey(categoryCacheKey)
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *UpdateProductInput) (*Product, error) {
	db := config.GetDB()
	product, err := utils.FetchSingleModel[Product](ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Mrp != nil {
		updates["mrp"] = *input.Mrp
	}
	if input.MinStock != nil {
		updates["min_stock"] = *input.MinStock
	}
	if input.Barcode != nil {
		if err := utils.ValidateUnique[Product](ctx, "barcode", *input.Barcode, id); err != nil {
			return nil, err
		}
		updates["barcode"] = *input.Barcode
	}
	if input.ImageUrl != nil {
		updates["image_url"] = *input.ImageUrl
	}
	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	_ = config.RemoveRedisKey(categoryCacheKey)
	return GetProduct(ctx, id)
}

// DeleteProduct removes a product and, via cascade, its batches and
// transactions. Purchase orders are non-owning references: historical
// (received) orders survive, but deleting under an active order is
// refused so procurement state never dangles.
func DeleteProduct(ctx context.Context, id int) error {
	db := config.GetDB()
	product, err := utils.FetchSingleModel[Product](ctx, id)
	if err != nil {
		return ErrProductNotFound
	}

	activeOrders, err := utils.ResourceCountWhere[PurchaseOrder](ctx,
		"product_id = ? AND status IN ?", id,
		[]PurchaseOrderStatus{PurchaseOrderStatusDraft, PurchaseOrderStatusSent})
	if err != nil {
		return err
	}
	if activeOrders > 0 {
		return ErrActivePurchaseOrder
	}

	if err := db.WithContext(ctx).Select("Batches", "Transactions").Delete(product).Error; err != nil {
		return err
	}
	_ = config.RemoveRedisKey(categoryCacheKey)
	return nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	product, err := utils.FetchSingleModel[Product](ctx, id, "Batches")
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func GetProductByBarcode(ctx context.Context, barcode string) (*Product, error) {
	db := config.GetDB()
	var product Product
	if err := db.WithContext(ctx).Preload("Batches").
		Where("barcode = ?", barcode).First(&product).Error; err != nil {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// ListProducts returns products with batches preloaded, filtered by
// category and/or a name/itemId/barcode search, ordered by name.
// lowStock keeps only products whose total stock is below min_stock.
func ListProducts(ctx context.Context, category string, search string, lowStock bool) ([]*Product, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Batches")

	if category != "" {
		dbCtx = dbCtx.Where("category = ?", category)
	}
	if search != "" {
		like := "%" + search + "%"
		dbCtx = dbCtx.Where("name LIKE ? OR item_id LIKE ? OR barcode LIKE ?", like, like, like)
	}

	var products []*Product
	if err := dbCtx.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}

	if lowStock {
		filtered := products[:0]
		for _, p := range products {
			if p.TotalStock() < p.MinStock {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	return products, nil
}

// ListCategories returns the distinct product categories, cached in
// redis until the next product write.
func ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	exists, err := config.GetRedisObject(categoryCacheKey, &categories)
	if err == nil && exists {
		return categories, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Product{}).
		Distinct("category").Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	_ = config.SetRedisObject(categoryCacheKey, categories, 0)
	return categories, nil
}
