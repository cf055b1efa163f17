package models

type TransactionType string

const (
	TransactionTypeSale    TransactionType = "sale"
	TransactionTypeWastage TransactionType = "wastage"
	TransactionTypeRestock TransactionType = "restock"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypeWastage, TransactionTypeRestock:
		return true
	}
	return false
}

type ExpiryStatus string

const (
	ExpiryStatusExpired  ExpiryStatus = "expired"
	ExpiryStatusCritical ExpiryStatus = "critical"
	ExpiryStatusWarning  ExpiryStatus = "warning"
	ExpiryStatusFresh    ExpiryStatus = "fresh"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft    PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSent     PurchaseOrderStatus = "sent"
	PurchaseOrderStatusReceived PurchaseOrderStatus = "received"
)

// rank orders the PO state machine; transitions may only move forward.
func (s PurchaseOrderStatus) rank() int {
	switch s {
	case PurchaseOrderStatusDraft:
		return 0
	case PurchaseOrderStatusSent:
		return 1
	case PurchaseOrderStatusReceived:
		return 2
	}
	return -1
}

func (s PurchaseOrderStatus) IsValid() bool {
	return s.rank() >= 0
}

// CanTransitionTo reports whether s -> next is a legal forward move.
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	return next.IsValid() && next.rank() == s.rank()+1
}

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"
)
