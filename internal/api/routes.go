package api

import (
	"net/http"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every API route on the router. All content routes
// sit behind JWT auth; writes additionally require the admin or coach role.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	workoutService service.WorkoutService,
	exerciseService service.ExerciseService,
	videoService service.VideoService,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	workoutHandler := NewWorkoutHandler(workoutService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	videoHandler := NewVideoHandler(videoService)

	authMiddleware := AuthMiddleware(jwtSecret)
	ownerOnly := RoleMiddleware(domain.RoleAdmin, domain.RoleCoach)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			owner, err := getOwnerFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get owner from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"ownerId": owner.OwnerID.Hex(), "role": owner.Role})
		})

		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", ownerOnly, planHandler.CreatePlan)
			planGroup.GET("", ownerOnly, planHandler.GetOwnPlans)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.PUT("/:planId", ownerOnly, planHandler.UpdatePlan)
			planGroup.DELETE("/:planId", ownerOnly, planHandler.DeletePlan)
			planGroup.POST("/:planId/clone", ownerOnly, planHandler.ClonePlan)
			planGroup.POST("/:planId/assignments", ownerOnly, planHandler.AssignPlan)
		}
		protected.POST("/completions", planHandler.RecordCompletion)

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", ownerOnly, workoutHandler.CreateWorkout)
			workoutGroup.GET("", ownerOnly, workoutHandler.GetOwnWorkouts)
			workoutGroup.GET("/:workoutId", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:workoutId", ownerOnly, workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:workoutId", ownerOnly, workoutHandler.DeleteWorkout)
			workoutGroup.POST("/:workoutId/clone", ownerOnly, workoutHandler.CloneWorkout)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", ownerOnly, exerciseHandler.CreateExercise)
			exerciseGroup.GET("", ownerOnly, exerciseHandler.GetOwnExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:exerciseId", ownerOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", ownerOnly, exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:exerciseId/clone", ownerOnly, exerciseHandler.CloneExercise)
		}

		videoGroup := protected.Group("/videos")
		{
			videoGroup.POST("", ownerOnly, videoHandler.AddVideo)
			videoGroup.GET("", ownerOnly, videoHandler.GetOwnVideos)
			videoGroup.GET("/:videoId", videoHandler.GetVideo)
			videoGroup.PUT("/:videoId", ownerOnly, videoHandler.UpdateVideo)
			videoGroup.DELETE("/:videoId", ownerOnly, videoHandler.DeleteVideo)
			videoGroup.POST("/:videoId/clone", ownerOnly, videoHandler.CloneVideo)
		}
	}
}
