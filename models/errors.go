package models

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrBatchNotFound       = errors.New("batch not found")
	ErrSupplierNotFound    = errors.New("supplier not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrActivePurchaseOrder = errors.New("product has an active purchase order")
	ErrInvalidStatusChange = errors.New("invalid purchase order status change")
)
