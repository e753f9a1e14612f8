package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const availabilityCollectionName = "availability"

// mongoAvailabilityRepository implements repository.AvailabilityRepository.
// Each athlete has a single document keyed by athleteId.
type mongoAvailabilityRepository struct {
	collection *mongo.Collection
}

// NewMongoAvailabilityRepository creates a new Availability repository.
func NewMongoAvailabilityRepository(db *mongo.Database) repository.AvailabilityRepository {
	return &mongoAvailabilityRepository{
		collection: db.Collection(availabilityCollectionName),
	}
}

// GetByAthleteID returns the athlete's availability document.
func (r *mongoAvailabilityRepository) GetByAthleteID(ctx context.Context, athleteID primitive.ObjectID) (*domain.AvailabilityConfig, error) {
	var cfg domain.AvailabilityConfig
	err := r.collection.FindOne(ctx, bson.M{"athleteId": athleteID}).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// Upsert replaces the weekly pattern and preferences, creating the document if needed.
// Date overrides are left untouched.
func (r *mongoAvailabilityRepository) Upsert(ctx context.Context, cfg *domain.AvailabilityConfig) error {
	if cfg.AthleteID == primitive.NilObjectID {
		return errors.New("availability requires athleteId")
	}
	cfg.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"weeklyAvailability": cfg.WeeklyAvailability,
			"preferences":        cfg.Preferences,
			"updatedAt":          cfg.UpdatedAt,
		},
		"$setOnInsert": bson.M{"dateOverrides": bson.A{}},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"athleteId": cfg.AthleteID}, update, options.Update().SetUpsert(true))
	return err
}

// SetOverride adds or replaces the override for one date.
func (r *mongoAvailabilityRepository) SetOverride(ctx context.Context, athleteID primitive.ObjectID, override domain.DateOverride) error {
	override.Date = domain.DateOnly(override.Date)
	now := time.Now().UTC()

	// Drop any existing override for the date, then append the new one.
	if err := r.DeleteOverride(ctx, athleteID, override.Date); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	update := bson.M{
		"$push": bson.M{"dateOverrides": override},
		"$set":  bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"weeklyAvailability": bson.A{},
			"preferences":        domain.DefaultPreferences(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"athleteId": athleteID}, update, options.Update().SetUpsert(true))
	return err
}

// DeleteOverride removes the override for date, if any.
func (r *mongoAvailabilityRepository) DeleteOverride(ctx context.Context, athleteID primitive.ObjectID, date time.Time) error {
	update := bson.M{
		"$pull": bson.M{"dateOverrides": bson.M{"date": domain.DateOnly(date)}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"athleteId": athleteID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAvailabilityIndexes creates necessary indexes. Call during startup.
func EnsureAvailabilityIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "athleteId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
