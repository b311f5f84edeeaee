package domain

import "time"

// PurchaseEvent records a validated payment that granted (or re-confirmed)
// course ownership. Events are written to the audit trail asynchronously.
type PurchaseEvent struct {
	Username     string
	CourseID     string
	OrderID      string
	PaymentID    string
	GrantedAt    time.Time
	AlreadyOwned bool
}
