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

	"peakform/fitness-content/internal/api"
	"peakform/fitness-content/internal/config"
	"peakform/fitness-content/internal/repository/mongo"
	"peakform/fitness-content/internal/service"
	"peakform/fitness-content/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting fitness content server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
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
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureOwnerIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureVideoIndexes(ctx, appDB.Collection("videos"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureExerciseVideoIndexes(ctx, appDB.Collection("exercise_video"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"))
		mongo.EnsureWorkoutExerciseIndexes(ctx, appDB.Collection("workout_exercises"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("plans"))
		mongo.EnsurePlanWorkoutIndexes(ctx, appDB.Collection("plan_workouts"))
		mongo.EnsurePlanAssignmentIndexes(ctx, appDB.Collection("plan_assignments"))
		mongo.EnsureCompletionLogIndexes(ctx, appDB.Collection("completion_logs"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	ownerRepo := mongo.NewMongoOwnerRepository(appDB)
	videoRepo := mongo.NewMongoVideoRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	exerciseVideoRepo := mongo.NewMongoExerciseVideoRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	workoutExerciseRepo := mongo.NewMongoWorkoutExerciseRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	planWorkoutRepo := mongo.NewMongoPlanWorkoutRepository(appDB)
	assignmentRepo := mongo.NewMongoPlanAssignmentRepository(appDB)
	completionLogRepo := mongo.NewMongoCompletionLogRepository(appDB)
	txRunner := mongo.NewTxRunner(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(ownerRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	videoService := service.NewVideoService(txRunner, videoRepo, exerciseRepo, workoutRepo, fileStorage)
	exerciseService := service.NewExerciseService(txRunner, exerciseRepo, videoRepo, workoutRepo, exerciseVideoRepo)
	workoutService := service.NewWorkoutService(txRunner, workoutRepo, workoutExerciseRepo, exerciseVideoRepo, exerciseRepo, videoRepo)
	planService := service.NewPlanService(
		txRunner,
		planRepo,
		planWorkoutRepo,
		workoutExerciseRepo,
		exerciseVideoRepo,
		completionLogRepo,
		assignmentRepo,
		videoRepo,
		exerciseRepo,
		workoutRepo,
		service.NewLogNotifier(),
	)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, planService, workoutService, exerciseService, videoService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
