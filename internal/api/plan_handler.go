package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitness-sync/internal/domain"
)

// PlanHandler serves /plans.
type PlanHandler struct {
	store *Store
}

func NewPlanHandler(store *Store) *PlanHandler {
	return &PlanHandler{store: store}
}

// CreatePlanRequest defines the expected JSON for creating a plan.
type CreatePlanRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdatePlanRequest carries the plan fields and its session ids in order.
type UpdatePlanRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Sessions    []string `json:"sessions"`
}

// ListPlans godoc
// @Summary List training plans with their sessions
// @Tags Plans
// @Produce json
// @Success 200 {array} domain.TrainingPlan
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Plans())
}

// CreatePlan godoc
// @Summary Create a training plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan"
// @Success 201 {object} domain.TrainingPlan
// @Failure 400 {object} gin.H
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	plan, err := h.store.CreatePlan(req.Name, req.Description)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.store.Plan(c.Param("id"))
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UpdatePlan godoc
// @Summary Update a plan's name, description and session order
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param plan body UpdatePlanRequest true "Plan"
// @Success 200 {object} domain.TrainingPlan
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	plan, err := h.store.UpdatePlan(c.Param("id"), domain.TrainingPlanUpdate{
		Name:        req.Name,
		Description: req.Description,
		Sessions:    req.Sessions,
	})
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
