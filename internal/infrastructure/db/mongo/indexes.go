package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/courseverse/course-marketplace/internal/core/domain"
)

// EnsureIndexes creates the indexes every repository relies on. Called once
// at startup, before the server accepts traffic.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	repos := []interface {
		EnsureIndexes(context.Context) error
	}{
		NewAccountRepository(db, CollectionUsers, domain.RoleUser),
		NewAccountRepository(db, CollectionAdmins, domain.RoleAdmin),
		NewCourseRepository(db),
	}
	for _, r := range repos {
		if err := r.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
