package ports

import (
	"context"

	"github.com/courseverse/course-marketplace/internal/core/domain"
)

// CourseInput carries the fields an admin supplies when creating or
// updating a course. The id and owner are never taken from the payload.
type CourseInput struct {
	Title      string
	Rating     float64
	Price      float64
	ImageLink  string
	Published  bool
	CourseLink string
}

// CourseService defines course catalog use-cases.
type CourseService interface {
	Create(ctx context.Context, owner string, input CourseInput) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	ListByOwner(ctx context.Context, owner string) ([]*domain.Course, error)
	// Update modifies a course's mutable fields. Only the owning admin may
	// update; other admins get ErrForbidden.
	Update(ctx context.Context, owner, id string, input CourseInput) (*domain.Course, error)
	Delete(ctx context.Context, owner, id string) error
}
