package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitness-sync/internal/domain"
)

// ExecutionHandler serves /exercise-executions.
type ExecutionHandler struct {
	store *Store
}

func NewExecutionHandler(store *Store) *ExecutionHandler {
	return &ExecutionHandler{store: store}
}

// ExecutionRequest is the body of POST and PUT /exercise-executions.
type ExecutionRequest struct {
	SessionID     string  `json:"sessionId"`
	ExerciseID    string  `json:"exerciseId" binding:"required"`
	PlannedSets   int     `json:"plannedSets"`
	PlannedReps   int     `json:"plannedReps"`
	PlannedWeight float64 `json:"plannedWeight"`
	OrderID       int     `json:"orderID"`
}

func (r ExecutionRequest) toDomain() domain.ExerciseExecution {
	return domain.ExerciseExecution{
		SessionID:     r.SessionID,
		ExerciseID:    r.ExerciseID,
		PlannedSets:   r.PlannedSets,
		PlannedReps:   r.PlannedReps,
		PlannedWeight: r.PlannedWeight,
		OrderID:       r.OrderID,
	}
}

// ExerciseSummary is the exercise embedded in execution responses.
type ExerciseSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// ExecutionResponse is the DTO for returning an exercise execution.
type ExecutionResponse struct {
	ID            string           `json:"id"`
	SessionID     string           `json:"sessionId"`
	ExerciseID    string           `json:"exerciseId"`
	ExerciseName  string           `json:"exerciseName,omitempty"`
	PlannedSets   int              `json:"plannedSets"`
	PlannedReps   int              `json:"plannedReps"`
	PlannedWeight float64          `json:"plannedWeight"`
	OrderID       int              `json:"orderID"`
	Exercise      *ExerciseSummary `json:"exercise,omitempty"`
}

// MapExecutionToResponse converts a domain.ExerciseExecution to its DTO.
func MapExecutionToResponse(e domain.ExerciseExecution) ExecutionResponse {
	resp := ExecutionResponse{
		ID:            e.ID,
		SessionID:     e.SessionID,
		ExerciseID:    e.ExerciseID,
		ExerciseName:  e.ExerciseName,
		PlannedSets:   e.PlannedSets,
		PlannedReps:   e.PlannedReps,
		PlannedWeight: e.PlannedWeight,
		OrderID:       e.OrderID,
	}
	if e.ExerciseName != "" {
		resp.Exercise = &ExerciseSummary{ID: e.ExerciseID, Name: e.ExerciseName, Category: e.Category}
	}
	return resp
}

// ListExecutions godoc
// @Summary List a session's exercise executions in position order
// @Tags ExerciseExecutions
// @Produce json
// @Param sessionId query string true "Session ID"
// @Success 200 {array} ExecutionResponse
// @Router /exercise-executions [get]
func (h *ExecutionHandler) ListExecutions(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		abortWithError(c, http.StatusBadRequest, "sessionId query parameter is required")
		return
	}
	list := h.store.Executions(sessionID)
	resp := make([]ExecutionResponse, len(list))
	for i, e := range list {
		resp[i] = MapExecutionToResponse(e)
	}
	c.JSON(http.StatusOK, resp)
}

// CreateExecution godoc
// @Summary Add an exercise to a session
// @Tags ExerciseExecutions
// @Accept json
// @Produce json
// @Param execution body ExecutionRequest true "Execution"
// @Success 201 {object} ExecutionResponse
// @Failure 400 {object} gin.H
// @Failure 409 {object} gin.H "Exercise or position already used"
// @Router /exercise-executions [post]
func (h *ExecutionHandler) CreateExecution(c *gin.Context) {
	var req ExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	e, err := h.store.CreateExecution(req.toDomain())
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExecutionToResponse(e))
}

func (h *ExecutionHandler) UpdateExecution(c *gin.Context) {
	var req ExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	e, err := h.store.UpdateExecution(c.Param("id"), req.toDomain())
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExecutionToResponse(e))
}

func (h *ExecutionHandler) DeleteExecution(c *gin.Context) {
	if err := h.store.DeleteExecution(c.Param("id")); err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
