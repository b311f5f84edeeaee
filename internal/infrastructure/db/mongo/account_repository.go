package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/courseverse/course-marketplace/internal/core/domain"
)

const (
	CollectionUsers  = "users"
	CollectionAdmins = "admins"
)

// AccountRepository implements ports.AccountRepository over a single role
// collection. Username uniqueness is enforced by a unique index, so it is
// scoped to the collection the repository was built with.
type AccountRepository struct {
	coll *mongo.Collection
	role string
}

func NewAccountRepository(db *mongo.Database, collection, role string) *AccountRepository {
	return &AccountRepository{coll: db.Collection(collection), role: role}
}

type mongoAccount struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	Username         string               `bson:"username"`
	PasswordHash     string               `bson:"password_hash"`
	Name             string               `bson:"name"`
	ProfilePhoto     string               `bson:"profile_photo"`
	Bio              string               `bson:"bio"`
	PurchasedCourses []primitive.ObjectID `bson:"purchased_courses,omitempty"`
	CreatedAt        int64                `bson:"created_at"`
	UpdatedAt        int64                `bson:"updated_at"`
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC().Unix()
	doc := mongoAccount{
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		Name:         account.Name,
		ProfilePhoto: account.ProfilePhoto,
		Bio:          account.Bio,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	purchased := make([]string, 0, len(ma.PurchasedCourses))
	for _, id := range ma.PurchasedCourses {
		purchased = append(purchased, id.Hex())
	}

	return &domain.Account{
		ID:               ma.ID.Hex(),
		Username:         ma.Username,
		PasswordHash:     ma.PasswordHash,
		Name:             ma.Name,
		ProfilePhoto:     ma.ProfilePhoto,
		Bio:              ma.Bio,
		Role:             r.role,
		PurchasedCourses: purchased,
	}, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, username, name, profilePhoto, bio string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":          name,
		"profile_photo": profilePhoto,
		"bio":           bio,
		"updated_at":    time.Now().UTC().Unix(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC().Unix(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// GrantCourse appends courseID to purchased_courses via $addToSet, so two
// concurrent grants of the same course cannot both insert it.
func (r *AccountRepository) GrantCourse(ctx context.Context, username, courseID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(courseID)
	if err != nil {
		return false, domain.ErrInvalidCourseID
	}

	update := bson.M{"$addToSet": bson.M{"purchased_courses": oid}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return false, fmt.Errorf("grant course: %w", err)
	}
	if res.MatchedCount == 0 {
		return false, domain.ErrAccountNotFound
	}
	// Matched but unmodified means the set already contained the course.
	return res.ModifiedCount == 0, nil
}

// EnsureIndexes creates the unique username index for this collection.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
