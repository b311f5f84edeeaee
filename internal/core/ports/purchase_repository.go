package ports

import (
	"context"

	"github.com/courseverse/course-marketplace/internal/core/domain"
)

// PurchaseEventRepository persists the purchase audit trail.
type PurchaseEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.PurchaseEvent) error
}
