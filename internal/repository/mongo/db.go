package mongo

import (
	"context"
	"time"

	"alcyxob/training-planner/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

const appName = "training-planner"

// ConnectDB connects to MongoDB and verifies the primary is reachable.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(defaultTimeout)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		// Don't leak the connection pool of a client we are not returning.
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are logged, not fatal.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	EnsureUserIndexes(ctx, db.Collection(userCollectionName))
	EnsureWorkoutTemplateIndexes(ctx, db.Collection(workoutTemplateCollectionName))
	EnsureTrainingPlanIndexes(ctx, db.Collection(trainingPlanCollectionName))
	EnsurePlannedWorkoutIndexes(ctx, db.Collection(plannedWorkoutCollectionName))
	EnsureAvailabilityIndexes(ctx, db.Collection(availabilityCollectionName))
	EnsureActivityIndexes(ctx, db.Collection(activityCollectionName))
	EnsureAdaptationIndexes(ctx, db.Collection(adaptationCollectionName))
	EnsureUploadIndexes(ctx, db.Collection(uploadCollectionName))
}
