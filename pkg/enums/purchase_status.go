package enums

import "fmt"

// PurchaseStatus tracks the lifecycle of a purchase.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusConfirmed PurchaseStatus = "confirmed"
	PurchaseStatusDelivered PurchaseStatus = "delivered"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

var validPurchaseStatuses = []PurchaseStatus{
	PurchaseStatusPending,
	PurchaseStatusConfirmed,
	PurchaseStatusDelivered,
	PurchaseStatusCancelled,
}

// purchaseStatusTransitions is the allowed transition table. Delivered and
// cancelled are terminal.
var purchaseStatusTransitions = map[PurchaseStatus][]PurchaseStatus{
	PurchaseStatusPending:   {PurchaseStatusConfirmed, PurchaseStatusDelivered, PurchaseStatusCancelled},
	PurchaseStatusConfirmed: {PurchaseStatusDelivered},
	PurchaseStatusDelivered: {},
	PurchaseStatusCancelled: {},
}

// String implements fmt.Stringer.
func (p PurchaseStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PurchaseStatus.
func (p PurchaseStatus) IsValid() bool {
	for _, candidate := range validPurchaseStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from p.
func (p PurchaseStatus) IsTerminal() bool {
	return len(purchaseStatusTransitions[p]) == 0 && p.IsValid()
}

// CanTransitionTo reports whether the transition table permits moving from
// p to next.
func (p PurchaseStatus) CanTransitionTo(next PurchaseStatus) bool {
	for _, candidate := range purchaseStatusTransitions[p] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParsePurchaseStatus converts raw input into a PurchaseStatus.
func ParsePurchaseStatus(value string) (PurchaseStatus, error) {
	for _, candidate := range validPurchaseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase status %q", value)
}
