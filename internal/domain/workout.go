package domain

// WorkoutStatus is the lifecycle of a logged workout.
type WorkoutStatus string

const (
	WorkoutInProgress WorkoutStatus = "IN_PROGRESS"
	WorkoutCompleted  WorkoutStatus = "COMPLETED"
)

// WorkoutLog is a performed instance of a Session (a "session log" on the server).
type WorkoutLog struct {
	ID                string        `json:"id"`
	SessionName       string        `json:"sessionName,omitempty"`
	SessionPlanName   string        `json:"sessionPlanName,omitempty"`
	StartedAt         string        `json:"startedAt,omitempty"`
	CompletedAt       string        `json:"completedAt,omitempty"`
	Status            WorkoutStatus `json:"status"`
	Notes             string        `json:"notes,omitempty"`
	OriginalSessionID string        `json:"originalSessionId,omitempty"`
	ExecutionLogCount int           `json:"executionLogCount,omitempty"`
}

// ExecutionLog records what was actually done for one planned exercise of a workout.
type ExecutionLog struct {
	ID            string   `json:"id" yaml:"id"`
	SessionLogID  string   `json:"sessionLogId,omitempty" yaml:"-"`
	ExerciseID    string   `json:"exerciseId,omitempty" yaml:"-"`
	ExerciseName  string   `json:"exerciseName,omitempty" yaml:"-"`
	ActualSets    *int     `json:"actualSets,omitempty" yaml:"actualSets,omitempty" validate:"omitempty,min=0"`
	ActualReps    *int     `json:"actualReps,omitempty" yaml:"actualReps,omitempty" validate:"omitempty,min=0"`
	ActualWeight  *float64 `json:"actualWeight,omitempty" yaml:"actualWeight,omitempty" validate:"omitempty,min=0"`
	Completed     bool     `json:"completed" yaml:"completed"`
	Notes         string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// ExecutionLogUpdate is the payload for PUT /execution-logs/{id}.
type ExecutionLogUpdate struct {
	ActualSets   *int     `json:"actualSets,omitempty"`
	ActualReps   *int     `json:"actualReps,omitempty"`
	ActualWeight *float64 `json:"actualWeight,omitempty"`
	Completed    bool     `json:"completed"`
	Notes        string   `json:"notes,omitempty"`
}

// Update builds the payload sent for this log.
func (l ExecutionLog) Update() ExecutionLogUpdate {
	return ExecutionLogUpdate{
		ActualSets:   l.ActualSets,
		ActualReps:   l.ActualReps,
		ActualWeight: l.ActualWeight,
		Completed:    l.Completed,
		Notes:        l.Notes,
	}
}
