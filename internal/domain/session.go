// internal/domain/session.go
package domain

// SessionStatus tracks whether a scheduled session has been trained.
type SessionStatus string

const (
	SessionPlanned   SessionStatus = "PLANNED"
	SessionCompleted SessionStatus = "COMPLETED"
)

// Session is a scheduled training day inside a TrainingPlan. Sessions are
// ordered within their plan by OrderID.
type Session struct {
	ID            string        `json:"id,omitempty" yaml:"id,omitempty"`
	PlanID        string        `json:"planId,omitempty" yaml:"planId,omitempty"`
	Name          string        `json:"name" yaml:"name" validate:"required,notblank"`
	ScheduledDate string        `json:"scheduledDate,omitempty" yaml:"scheduledDate,omitempty"`
	OrderID       int           `json:"orderID,omitempty" yaml:"orderID,omitempty" validate:"omitempty,min=1,max=30"`
	Status        SessionStatus `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,oneof=PLANNED COMPLETED"`

	ExerciseCount   int `json:"exerciseCount,omitempty" yaml:"-"`
	SessionLogCount int `json:"sessionLogCount,omitempty" yaml:"-"`

	// Populated only when the server embeds them or the caller supplies a desired list.
	ExerciseExecutions []ExerciseExecution `json:"exerciseExecutions,omitempty" yaml:"exercises,omitempty"`
}

func (s Session) Identity() string { return s.ID }

func (s Session) Position() int { return s.OrderID }

func (s Session) WithPosition(pos int) Session {
	s.OrderID = pos
	return s
}

// NaturalKey is empty: two sessions of one plan may share a name.
func (s Session) NaturalKey() string { return "" }

// Equal compares the fields a session update would send.
func (s Session) Equal(o Session) bool {
	return s.ID == o.ID &&
		s.PlanID == o.PlanID &&
		s.Name == o.Name &&
		s.ScheduledDate == o.ScheduledDate &&
		s.OrderID == o.OrderID &&
		s.Status == o.Status
}
