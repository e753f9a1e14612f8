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

const adaptationCollectionName = "adaptations"

// mongoAdaptationRepository implements repository.AdaptationRepository
type mongoAdaptationRepository struct {
	collection *mongo.Collection
}

// NewMongoAdaptationRepository creates a new Adaptation repository backed by MongoDB.
func NewMongoAdaptationRepository(db *mongo.Database) repository.AdaptationRepository {
	return &mongoAdaptationRepository{
		collection: db.Collection(adaptationCollectionName),
	}
}

// ReplacePass inserts the records of a new pass and then deletes every older record of
// the plan in the same range. Readers see either the old or the new pass for a date,
// briefly both, but never neither.
func (r *mongoAdaptationRepository) ReplacePass(ctx context.Context, planID primitive.ObjectID, from, to time.Time, passID string, records []domain.AdaptationRecord) error {
	if planID == primitive.NilObjectID || passID == "" {
		return errors.New("adaptation pass requires planId and passId")
	}

	if len(records) > 0 {
		docs := make([]interface{}, len(records))
		for i := range records {
			rec := records[i]
			rec.ID = primitive.NewObjectID()
			rec.PlanID = planID
			rec.PassID = passID
			docs[i] = rec
		}
		if _, err := r.collection.InsertMany(ctx, docs); err != nil {
			return err
		}
	}

	filter := bson.M{
		"planId": planID,
		"passId": bson.M{"$ne": passID},
		"date":   dateRange(from, to),
	}
	if _, err := r.collection.DeleteMany(ctx, filter); err != nil {
		return errors.Join(repository.ErrDeleteFailed, err)
	}
	return nil
}

// GetByPlanID retrieves the current records of a plan dated from..to inclusive.
func (r *mongoAdaptationRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.AdaptationRecord, error) {
	records := []domain.AdaptationRecord{}
	filter := bson.M{"planId": planID, "date": dateRange(from, to)}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureAdaptationIndexes creates necessary indexes for the adaptations collection.
func EnsureAdaptationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "passId", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
