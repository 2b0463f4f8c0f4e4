package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitness-sync/internal/domain"
)

// SessionHandler serves /sessions.
type SessionHandler struct {
	store *Store
}

func NewSessionHandler(store *Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// SessionRequest is the body of POST and PUT /sessions.
type SessionRequest struct {
	PlanID        string               `json:"planId"`
	Name          string               `json:"name"`
	ScheduledDate string               `json:"scheduledDate"`
	OrderID       int                  `json:"orderID"`
	Status        domain.SessionStatus `json:"status" binding:"omitempty,oneof=PLANNED COMPLETED"`
}

func (r SessionRequest) toDomain() domain.Session {
	return domain.Session{
		PlanID:        r.PlanID,
		Name:          r.Name,
		ScheduledDate: r.ScheduledDate,
		OrderID:       r.OrderID,
		Status:        r.Status,
	}
}

// ListSessions godoc
// @Summary List sessions, optionally of one plan
// @Tags Sessions
// @Produce json
// @Param planId query string false "Plan ID"
// @Success 200 {array} domain.Session
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Sessions(c.Query("planId")))
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	s, err := h.store.Session(c.Param("id"))
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// CreateSession godoc
// @Summary Add a session to a plan
// @Description orderID must be between 1 and 30 and unused in the plan.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session body SessionRequest true "Session"
// @Success 201 {object} domain.Session
// @Failure 400 {object} gin.H
// @Failure 409 {object} gin.H "Position already taken"
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s, err := h.store.CreateSession(req.toDomain())
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// UpdateSession godoc
// @Summary Update a session, possibly moving it to another plan or position
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param session body SessionRequest true "Session"
// @Success 200 {object} domain.Session
// @Failure 404 {object} gin.H
// @Failure 409 {object} gin.H "Position already taken"
// @Router /sessions/{id} [put]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s, err := h.store.UpdateSession(c.Param("id"), req.toDomain())
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.store.DeleteSession(c.Param("id")); err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
