package enums

import "testing"

func TestPurchaseStatusTransitions(t *testing.T) {
	tests := []struct {
		from    PurchaseStatus
		to      PurchaseStatus
		allowed bool
	}{
		{PurchaseStatusPending, PurchaseStatusConfirmed, true},
		{PurchaseStatusPending, PurchaseStatusDelivered, true},
		{PurchaseStatusPending, PurchaseStatusCancelled, true},
		{PurchaseStatusConfirmed, PurchaseStatusDelivered, true},
		{PurchaseStatusConfirmed, PurchaseStatusPending, false},
		{PurchaseStatusDelivered, PurchaseStatusPending, false},
		{PurchaseStatusDelivered, PurchaseStatusConfirmed, false},
		{PurchaseStatusCancelled, PurchaseStatusPending, false},
		{PurchaseStatusCancelled, PurchaseStatusConfirmed, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Fatalf("%s -> %s: expected allowed=%v, got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestPurchaseStatusTerminal(t *testing.T) {
	if PurchaseStatusPending.IsTerminal() {
		t.Fatal("pending must not be terminal")
	}
	if !PurchaseStatusDelivered.IsTerminal() {
		t.Fatal("delivered must be terminal")
	}
	if !PurchaseStatusCancelled.IsTerminal() {
		t.Fatal("cancelled must be terminal")
	}
}

func TestParsePurchaseStatus(t *testing.T) {
	status, err := ParsePurchaseStatus("confirmed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != PurchaseStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", status)
	}

	if _, err := ParsePurchaseStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
