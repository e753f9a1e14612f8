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

const activityCollectionName = "activities"

// mongoActivityRepository implements repository.ActivityRepository
type mongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new Activity repository.
func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		collection: db.Collection(activityCollectionName),
	}
}

// Create inserts a recorded activity.
func (r *mongoActivityRepository) Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	if activity.AthleteID == primitive.NilObjectID || activity.Date.IsZero() {
		return primitive.NilObjectID, errors.New("activity requires athleteId and date")
	}
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted activity ID")
	}
	return insertedID, nil
}

// GetByID retrieves an activity by its ID.
func (r *mongoActivityRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error) {
	var activity domain.Activity
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// GetByAthleteInRange retrieves activities on calendar days from..to inclusive,
// oldest first. Activities carry a start time, so the upper bound is the next midnight.
func (r *mongoActivityRepository) GetByAthleteInRange(ctx context.Context, athleteID primitive.ObjectID, from, to time.Time) ([]domain.Activity, error) {
	activities := []domain.Activity{}
	filter := bson.M{
		"athleteId": athleteID,
		"date": bson.M{
			"$gte": domain.DateOnly(from),
			"$lt":  domain.AddDays(to, 1),
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// EnsureActivityIndexes creates necessary indexes. Call during startup.
func EnsureActivityIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "athleteId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
