package models

import "testing"

func TestExpiryStatusForDays_Bands(t *testing.T) {
	cases := []struct {
		daysLeft int
		want     ExpiryStatus
	}{
		{-30, ExpiryStatusExpired},
		{-1, ExpiryStatusExpired},
		{0, ExpiryStatusExpired},
		{1, ExpiryStatusCritical},
		{6, ExpiryStatusCritical},
		{7, ExpiryStatusWarning},
		{15, ExpiryStatusWarning},
		{16, ExpiryStatusFresh},
		{365, ExpiryStatusFresh},
	}
	for _, tc := range cases {
		if got := ExpiryStatusForDays(tc.daysLeft); got != tc.want {
			t.Errorf("ExpiryStatusForDays(%d) = %s, want %s", tc.daysLeft, got, tc.want)
		}
	}
}

func TestPurchaseOrderStatus_Transitions(t *testing.T) {
	cases := []struct {
		from PurchaseOrderStatus
		to   PurchaseOrderStatus
		want bool
	}{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusSent, true},
		{PurchaseOrderStatusSent, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusReceived, false},
		{PurchaseOrderStatusSent, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusSent, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusReceived, false},
		{PurchaseOrderStatusDraft, PurchaseOrderStatus("cancelled"), false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTransactionType_IsValid(t *testing.T) {
	for _, valid := range []TransactionType{TransactionTypeSale, TransactionTypeWastage, TransactionTypeRestock} {
		if !valid.IsValid() {
			t.Errorf("%s should be valid", valid)
		}
	}
	if TransactionType("refund").IsValid() {
		t.Error("refund should not be a valid transaction type")
	}
}
