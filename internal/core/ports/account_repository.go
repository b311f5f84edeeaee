package ports

import (
	"context"

	"github.com/courseverse/course-marketplace/internal/core/domain"
)

// AccountRepository defines persistence for one role's account collection.
// A repository instance is bound to a single collection (users or admins),
// so username uniqueness is scoped per role.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, username, name, profilePhoto, bio string) error
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
	// GrantCourse adds courseID to the account's purchased set if absent.
	// The update must be atomic so concurrent grants of the same course
	// cannot both append. It reports whether the set already contained the
	// course.
	GrantCourse(ctx context.Context, username, courseID string) (alreadyOwned bool, err error)
}
