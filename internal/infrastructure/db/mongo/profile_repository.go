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

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
)

const collectionProfiles = "profiles"

type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(collectionProfiles)}
}

type mongoProfile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	DisplayName  string             `bson:"display_name,omitempty"`
	Phone        string             `bson:"phone,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	doc := mongoProfile{
		Email:        p.Email,
		DisplayName:  p.DisplayName,
		Phone:        p.Phone,
		PasswordHash: p.PasswordHash,
		Role:         p.Role,
		CreatedAt:    p.CreatedAt.Unix(),
		UpdatedAt:    p.UpdatedAt.Unix(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	// fetch back to get ID
	return r.FindByEmail(ctx, p.Email)
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return toProfile(mp), nil
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return toProfile(mp), nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"display_name": p.DisplayName,
		"phone":        p.Phone,
		"updated_at":   p.UpdatedAt.Unix(),
	}})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return r.FindByID(ctx, p.ID)
}

func (r *ProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoProfile
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(docs))
	for _, mp := range docs {
		profiles = append(profiles, toProfile(mp))
	}
	return profiles, nil
}

// EnsureIndexes creates the unique email index on the profiles collection.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func toProfile(mp mongoProfile) *domain.Profile {
	return &domain.Profile{
		ID:           mp.ID.Hex(),
		Email:        mp.Email,
		DisplayName:  mp.DisplayName,
		Phone:        mp.Phone,
		PasswordHash: mp.PasswordHash,
		Role:         mp.Role,
		CreatedAt:    unixToTime(mp.CreatedAt),
		UpdatedAt:    unixToTime(mp.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
