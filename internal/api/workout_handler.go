package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitness-sync/internal/domain"
)

// WorkoutHandler serves /session-logs and /execution-logs.
type WorkoutHandler struct {
	store *Store
}

func NewWorkoutHandler(store *Store) *WorkoutHandler {
	return &WorkoutHandler{store: store}
}

// UpdateNotesRequest is the body of PUT /session-logs/{id}.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// StartWorkout godoc
// @Summary Start logging a workout of a session
// @Tags Workouts
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 201 {object} domain.WorkoutLog
// @Failure 404 {object} gin.H
// @Router /session-logs/start/{sessionId} [post]
func (h *WorkoutHandler) StartWorkout(c *gin.Context) {
	w, err := h.store.StartWorkout(c.Param("sessionId"))
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	w, err := h.store.Workout(c.Param("id"))
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorkoutHandler) UpdateNotes(c *gin.Context) {
	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	w, err := h.store.UpdateWorkoutNotes(c.Param("id"), req.Notes)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// CompleteWorkout godoc
// @Summary Mark a workout as completed
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {object} domain.WorkoutLog
// @Failure 404 {object} gin.H
// @Router /session-logs/{id}/complete [put]
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	w, err := h.store.CompleteWorkout(c.Param("id"))
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorkoutHandler) ListExecutionLogs(c *gin.Context) {
	workoutID := c.Query("sessionLogId")
	if workoutID == "" {
		abortWithError(c, http.StatusBadRequest, "sessionLogId query parameter is required")
		return
	}
	c.JSON(http.StatusOK, h.store.ExecutionLogs(workoutID))
}

func (h *WorkoutHandler) UpdateExecutionLog(c *gin.Context) {
	var req domain.ExecutionLogUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	l, err := h.store.UpdateExecutionLog(c.Param("id"), req)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}
