package ports

import (
	"context"

	"github.com/courseverse/course-marketplace/internal/core/domain"
)

// CourseRepository defines persistence operations for course listings.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	FindAll(ctx context.Context) ([]*domain.Course, error)
	FindByOwner(ctx context.Context, owner string) ([]*domain.Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
}
