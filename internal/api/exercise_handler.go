package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitness-sync/internal/domain"
)

// ExerciseHandler serves the exercise library.
type ExerciseHandler struct {
	store *Store
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(store *Store) *ExerciseHandler {
	return &ExerciseHandler{store: store}
}

// CreateExerciseRequest defines the expected JSON for creating an exercise.
type CreateExerciseRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`    // e.g. "Strength", "BodyWeight"
	MuscleGroup []string `json:"muscleGroup"` // e.g. ["Chest", "Triceps"]
}

// CreateExercise godoc
// @Summary Create a new exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exercise body CreateExerciseRequest true "Exercise Details"
// @Success 201 {object} domain.Exercise
// @Failure 400 {object} gin.H
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	ex, err := h.store.CreateExercise(domain.Exercise{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		MuscleGroup: req.MuscleGroup,
	})
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ex)
}

// ListExercises godoc
// @Summary Get the exercise library
// @Tags Exercises
// @Produce json
// @Success 200 {array} domain.Exercise
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Exercises())
}
