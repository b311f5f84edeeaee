package ports

import (
	"context"

	"github.com/courseverse/course-marketplace/internal/core/domain"
)

// PurchaseConfirmation is the processor callback payload submitted by the
// paying client after checkout.
type PurchaseConfirmation struct {
	OrderID   string
	PaymentID string
	Signature string
	CourseID  string
}

// PurchaseResult is returned to the caller as proof of a successful grant.
type PurchaseResult struct {
	OrderID   string
	PaymentID string
	// AlreadyOwned is true when the course was in the purchased set before
	// this confirmation (replay or repeat purchase).
	AlreadyOwned bool
}

// PaymentService defines order creation and purchase validation use-cases.
type PaymentService interface {
	CreateOrder(ctx context.Context, input OrderInput) (*Order, error)
	// ValidatePurchase verifies the confirmation's signature and, if
	// authentic, grants the course to username at most once.
	ValidatePurchase(ctx context.Context, username string, confirmation PurchaseConfirmation) (*PurchaseResult, error)
	PurchasedCourses(ctx context.Context, username string) ([]*domain.Course, error)
	OwnsCourse(ctx context.Context, username, courseID string) (bool, error)
}
