package domain

// ExerciseExecution is one planned exercise inside a Session: what to do,
// how much of it, and in which position.
type ExerciseExecution struct {
	ID            string  `json:"id,omitempty" yaml:"id,omitempty"`
	SessionID     string  `json:"sessionId,omitempty" yaml:"sessionId,omitempty"`
	ExerciseID    string  `json:"exerciseId" yaml:"exerciseId" validate:"required"`
	PlannedSets   int     `json:"plannedSets" yaml:"sets" validate:"gt=0"`
	PlannedReps   int     `json:"plannedReps" yaml:"reps" validate:"gt=0"`
	PlannedWeight float64 `json:"plannedWeight" yaml:"weight" validate:"gte=0"`
	OrderID       int     `json:"orderID,omitempty" yaml:"orderID,omitempty"`

	// Display and validation helpers, never sent back to the server.
	ExerciseName string `json:"exerciseName,omitempty" yaml:"-"`
	Category     string `json:"-" yaml:"-"`
}

func (e ExerciseExecution) Identity() string { return e.ID }

func (e ExerciseExecution) Position() int { return e.OrderID }

func (e ExerciseExecution) WithPosition(pos int) ExerciseExecution {
	e.OrderID = pos
	return e
}

// NaturalKey is the referenced exercise; a session holds each exercise once.
func (e ExerciseExecution) NaturalKey() string { return e.ExerciseID }

func (e ExerciseExecution) Equal(o ExerciseExecution) bool {
	return e.ID == o.ID &&
		e.ExerciseID == o.ExerciseID &&
		e.PlannedSets == o.PlannedSets &&
		e.PlannedReps == o.PlannedReps &&
		e.PlannedWeight == o.PlannedWeight &&
		e.OrderID == o.OrderID
}

// IsBodyweight reports whether the execution's exercise is loaded by body weight only.
func (e ExerciseExecution) IsBodyweight() bool {
	return e.Category == CategoryBodyWeight
}
