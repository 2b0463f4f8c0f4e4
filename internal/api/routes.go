// Package api is an in-memory reference implementation of the fitness REST
// API. It enforces the same ordering constraints as the production backend
// and backs the CLI's serve command and the integration tests.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitness-sync/internal/logger"
)

// SetupRoutes registers every endpoint on router. An empty jwtSecret leaves
// the API open.
func SetupRoutes(router *gin.Engine, store *Store, jwtSecret string, log *logger.Logger) {
	planHandler := NewPlanHandler(store)
	sessionHandler := NewSessionHandler(store)
	executionHandler := NewExecutionHandler(store)
	exerciseHandler := NewExerciseHandler(store)
	workoutHandler := NewWorkoutHandler(store)

	router.Use(RequestIDMiddleware(), LoggerMiddleware(log))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	if jwtSecret != "" {
		apiV1.Use(AuthMiddleware(jwtSecret))
	}
	{
		plans := apiV1.Group("/plans")
		{
			plans.GET("", planHandler.ListPlans)
			plans.POST("", planHandler.CreatePlan)
			plans.GET("/:id", planHandler.GetPlan)
			plans.PUT("/:id", planHandler.UpdatePlan)
		}

		sessions := apiV1.Group("/sessions")
		{
			sessions.GET("", sessionHandler.ListSessions)
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.PUT("/:id", sessionHandler.UpdateSession)
			sessions.DELETE("/:id", sessionHandler.DeleteSession)
		}

		executions := apiV1.Group("/exercise-executions")
		{
			executions.GET("", executionHandler.ListExecutions)
			executions.POST("", executionHandler.CreateExecution)
			executions.PUT("/:id", executionHandler.UpdateExecution)
			executions.DELETE("/:id", executionHandler.DeleteExecution)
		}

		exercises := apiV1.Group("/exercises")
		{
			exercises.GET("", exerciseHandler.ListExercises)
			exercises.POST("", exerciseHandler.CreateExercise)
		}

		sessionLogs := apiV1.Group("/session-logs")
		{
			sessionLogs.POST("/start/:sessionId", workoutHandler.StartWorkout)
			sessionLogs.GET("/:id", workoutHandler.GetWorkout)
			sessionLogs.PUT("/:id", workoutHandler.UpdateNotes)
			sessionLogs.PUT("/:id/complete", workoutHandler.CompleteWorkout)
		}

		executionLogs := apiV1.Group("/execution-logs")
		{
			executionLogs.GET("", workoutHandler.ListExecutionLogs)
			executionLogs.PUT("/:id", workoutHandler.UpdateExecutionLog)
		}
	}
}

// NewRouter builds a gin engine serving store.
func NewRouter(store *Store, jwtSecret string, log *logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.Nop()
	}
	router := gin.New()
	router.Use(gin.Recovery())
	SetupRoutes(router, store, jwtSecret, log)
	return router
}
