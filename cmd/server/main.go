package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/training-planner/internal/api"
	"alcyxob/training-planner/internal/catalog"
	"alcyxob/training-planner/internal/config"
	"alcyxob/training-planner/internal/planner"
	"alcyxob/training-planner/internal/repository/mongo"
	"alcyxob/training-planner/internal/service"
	"alcyxob/training-planner/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Training Planner API
// @version 1.0
// @description Coach-authored training plans, availability-aware scheduling and plan-vs-actual reconciliation.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Training Planner Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Printf("Configuration loaded (database %q, bucket %q).", cfg.Database.Name, cfg.S3.BucketName)

	ctx := context.Background()

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		mongo.EnsureIndexes(indexCtx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	templateRepo := mongo.NewMongoWorkoutTemplateRepository(appDB)
	planRepo := mongo.NewMongoTrainingPlanRepository(appDB)
	plannedRepo := mongo.NewMongoPlannedWorkoutRepository(appDB)
	availabilityRepo := mongo.NewMongoAvailabilityRepository(appDB)
	activityRepo := mongo.NewMongoActivityRepository(appDB)
	adaptationRepo := mongo.NewMongoAdaptationRepository(appDB)
	uploadRepo := mongo.NewMongoUploadRepository(appDB)

	// --- Initialize Services ---
	templates := catalog.NewCache(templateRepo, cfg.Planner.CatalogCacheTTL, nil)
	scheduler := planner.New(cfg.Planner.ScoringWeights(), cfg.Planner.RedistributionParallelism)

	services := api.Services{
		Auth:           service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		Catalog:        service.NewCatalogService(templateRepo, templates),
		Coach:          service.NewCoachService(userRepo, planRepo, plannedRepo, templates),
		Availability:   service.NewAvailabilityService(availabilityRepo),
		Schedule:       service.NewScheduleService(planRepo, plannedRepo, availabilityRepo, templates, scheduler, cfg.Planner.SupplementLookAheadWeeks),
		Activity:       service.NewActivityService(userRepo, activityRepo, uploadRepo, fileStorage),
		Reconciliation: service.NewReconciliationService(userRepo, planRepo, plannedRepo, activityRepo, adaptationRepo, templates, cfg.Planner.FitnessHistoryDays),
	}

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.JWT.Secret, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(ctx, 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
