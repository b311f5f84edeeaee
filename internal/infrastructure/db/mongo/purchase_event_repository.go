package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
)

// PurchaseEventRepository implements ports.PurchaseEventRepository using MongoDB.
type PurchaseEventRepository struct {
	db *mongo.Database
}

func NewPurchaseEventRepository(db *mongo.Database) ports.PurchaseEventRepository {
	return &PurchaseEventRepository{db: db}
}

// InsertEvent persists a purchase event to the purchase_events audit collection.
func (r *PurchaseEventRepository) InsertEvent(ctx context.Context, event *domain.PurchaseEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"username":      event.Username,
		"course_id":     event.CourseID,
		"order_id":      event.OrderID,
		"payment_id":    event.PaymentID,
		"granted_at":    event.GrantedAt.UTC(),
		"already_owned": event.AlreadyOwned,
		"recorded_at":   time.Now().UTC(),
	}

	_, err := r.db.Collection("purchase_events").InsertOne(ctx, doc)
	return err
}
