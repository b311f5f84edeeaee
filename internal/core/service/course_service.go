package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
)

// CourseService implements catalog management. Mutations are restricted to
// the owning admin.
type CourseService struct {
	repo ports.CourseRepository
	log  zerolog.Logger
}

func NewCourseService(repo ports.CourseRepository, log zerolog.Logger) *CourseService {
	return &CourseService{repo: repo, log: log}
}

func (s *CourseService) Create(ctx context.Context, owner string, input ports.CourseInput) (*domain.Course, error) {
	course := &domain.Course{
		Title:      input.Title,
		Rating:     input.Rating,
		Price:      input.Price,
		ImageLink:  input.ImageLink,
		Published:  input.Published,
		CourseLink: input.CourseLink,
		Owner:      owner,
	}

	created, err := s.repo.Create(ctx, course)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("course_id", created.ID).Str("owner", owner).Msg("course created")
	return created, nil
}

func (s *CourseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.repo.FindAll(ctx)
}

func (s *CourseService) ListByOwner(ctx context.Context, owner string) ([]*domain.Course, error) {
	return s.repo.FindByOwner(ctx, owner)
}

func (s *CourseService) Update(ctx context.Context, owner, id string, input ports.CourseInput) (*domain.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Owner != owner {
		return nil, domain.ErrForbidden
	}

	course.Title = input.Title
	course.Rating = input.Rating
	course.Price = input.Price
	course.ImageLink = input.ImageLink
	course.Published = input.Published
	course.CourseLink = input.CourseLink

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, owner, id string) error {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if course.Owner != owner {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("course_id", id).Str("owner", owner).Msg("course deleted")
	return nil
}
