package models

import (
	"context"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/utils"
)

// Supplier is the registered supplier for a category. One primary
// supplier per category: the category column is unique.
type Supplier struct {
	ID           int    `gorm:"primary_key" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name" binding:"required"`
	Category     string `gorm:"size:50;not null;uniqueIndex" json:"category" binding:"required"`
	ContactEmail string `gorm:"size:100" json:"contact_email"`
	Phone        string `gorm:"size:20" json:"phone"`
}

type NewSupplier struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category" binding:"required"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
}

func (input *NewSupplier) validate(ctx context.Context) error {
	return utils.ValidateUnique[Supplier](ctx, "category", input.Category, 0)
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	db := config.GetDB()
	supplier := Supplier{
		Name:         input.Name,
		Category:     input.Category,
		ContactEmail: input.ContactEmail,
		Phone:        input.Phone,
	}
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	db := config.GetDB()
	var suppliers []*Supplier
	if err := db.WithContext(ctx).Order("category ASC").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// GetSupplierByCategory returns the primary supplier for a category,
// or ErrSupplierNotFound when the category has none registered.
func GetSupplierByCategory(ctx context.Context, category string) (*Supplier, error) {
	db := config.GetDB()
	var supplier Supplier
	if err := db.WithContext(ctx).Where("category = ?", category).First(&supplier).Error; err != nil {
		return nil, ErrSupplierNotFound
	}
	return &supplier, nil
}
