// internal/repository/mongo/training_plan_repo.go
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

const trainingPlanCollectionName = "training_plans"

// mongoTrainingPlanRepository implements repository.TrainingPlanRepository
type mongoTrainingPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingPlanRepository creates a new TrainingPlan repository.
func NewMongoTrainingPlanRepository(db *mongo.Database) repository.TrainingPlanRepository {
	return &mongoTrainingPlanRepository{
		collection: db.Collection(trainingPlanCollectionName),
	}
}

// Create inserts a new training plan.
func (r *mongoTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	if plan.AthleteID == primitive.NilObjectID || plan.CoachID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires athleteId, coachId, and name")
	}
	plan.ID = primitive.NewObjectID()
	plan.StartDate = domain.DateOnly(plan.StartDate)
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single training plan by its ID.
func (r *mongoTrainingPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetActiveForAthlete returns the athlete's active plan.
func (r *mongoTrainingPlanRepository) GetActiveForAthlete(ctx context.Context, athleteID primitive.ObjectID) (*domain.TrainingPlan, error) {
	return r.findOne(ctx, bson.M{"athleteId": athleteID, "isActive": true})
}

func (r *mongoTrainingPlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByAthleteAndCoachID retrieves all plans for an athlete created by a specific coach.
func (r *mongoTrainingPlanRepository) GetByAthleteAndCoachID(ctx context.Context, athleteID, coachID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	plans := []domain.TrainingPlan{}
	filter := bson.M{
		"athleteId": athleteID,
		"coachId":   coachID,
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Activate makes planID the athlete's only active plan.
func (r *mongoTrainingPlanRepository) Activate(ctx context.Context, planID, athleteID primitive.ObjectID) error {
	now := time.Now().UTC()
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": planID, "athleteId": athleteID},
		bson.M{"$set": bson.M{"isActive": true, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	filter := bson.M{
		"athleteId": athleteID,
		"isActive":  true,
		"_id":       bson.M{"$ne": planID}, // Don't deactivate the plan we just activated
	}
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}}
	if _, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		return errors.Join(repository.ErrUpdateFailed, err)
	}
	return nil
}

// EnsureTrainingPlanIndexes creates necessary indexes. Call during startup.
func EnsureTrainingPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: plans for an athlete by a coach
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "athleteId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "athleteId", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
