package api

import (
	"net/http"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles the dependencies of the HTTP layer.
type Services struct {
	Auth           service.AuthService
	Catalog        service.CatalogService
	Coach          service.CoachService
	Availability   service.AvailabilityService
	Schedule       service.ScheduleService
	Activity       service.ActivityService
	Reconciliation service.ReconciliationService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	templateHandler := NewTemplateHandler(svc.Catalog)
	coachHandler := NewCoachHandler(svc.Coach, svc.Schedule)
	athleteHandler := NewAthleteHandler(svc.Availability, svc.Schedule, svc.Activity, svc.Reconciliation)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Workout library ---
		templateGroup := protected.Group("/templates")
		templateGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			templateGroup.POST("", templateHandler.CreateTemplate)
			templateGroup.GET("", templateHandler.GetCoachTemplates)
			templateGroup.GET("/:id", templateHandler.GetTemplate)
			templateGroup.PUT("/:id", templateHandler.UpdateTemplate)
			templateGroup.DELETE("/:id", templateHandler.DeleteTemplate)
		}

		// --- Coach ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			coachGroup.POST("/athletes", coachHandler.AddAthleteByEmail)
			coachGroup.GET("/athletes", coachHandler.GetManagedAthletes)
			coachGroup.PUT("/athletes/:athleteId/thresholds", coachHandler.SetAthleteThresholds)
			coachGroup.POST("/athletes/:athleteId/plans", coachHandler.CreatePlan)
			coachGroup.GET("/athletes/:athleteId/plans", coachHandler.GetPlansForAthlete)

			coachGroup.POST("/plans/:planId/workouts", coachHandler.AddPlannedWorkout)
			coachGroup.GET("/plans/:planId/workouts", coachHandler.GetPlannedWorkouts)
			coachGroup.GET("/plans/:planId/redistribution", coachHandler.PreviewRedistribution)
			coachGroup.POST("/plans/:planId/redistribution", coachHandler.ApplyRedistribution)
			coachGroup.POST("/plans/:planId/activate", coachHandler.ActivatePlan)
		}

		// --- Athlete ---
		athleteGroup := protected.Group("/athlete")
		athleteGroup.Use(RoleMiddleware(domain.RoleAthlete))
		{
			athleteGroup.GET("/availability", athleteHandler.GetAvailability)
			athleteGroup.PUT("/availability", athleteHandler.UpdateAvailability)
			athleteGroup.PUT("/availability/overrides/:date", athleteHandler.SetOverride)
			athleteGroup.DELETE("/availability/overrides/:date", athleteHandler.DeleteOverride)
			athleteGroup.GET("/availability/calendar", athleteHandler.GetCalendar)

			athleteGroup.POST("/supplements/suggestions", athleteHandler.SuggestSupplements)

			athleteGroup.POST("/activities", athleteHandler.CreateManualActivity)
			athleteGroup.GET("/activities", athleteHandler.GetActivities)
			athleteGroup.POST("/activities/upload-url", athleteHandler.RequestUploadURL)
			athleteGroup.POST("/activities/confirm-upload", athleteHandler.ConfirmUpload)

			athleteGroup.POST("/plans/:planId/reconcile", athleteHandler.ReconcilePlan)
			athleteGroup.GET("/plans/:planId/adaptations", athleteHandler.GetAdaptations)
		}
	}
}
