// internal/domain/training_plan.go
package domain

// TrainingPlan groups an ordered list of sessions.
type TrainingPlan struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string    `json:"name" yaml:"name" validate:"required,notblank,trimmin=2"`
	Description string    `json:"description" yaml:"description,omitempty"`
	Sessions    []Session `json:"sessions,omitempty" yaml:"sessions,omitempty"`
}

// TrainingPlanUpdate is the payload for PUT /plans/{id}. Sessions carries the
// session ids in their final order.
type TrainingPlanUpdate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Sessions    []string `json:"sessions"`
}

// SessionIDs returns the ids of the plan's sessions in slice order, skipping unsaved ones.
func (p TrainingPlan) SessionIDs() []string {
	ids := make([]string, 0, len(p.Sessions))
	for _, s := range p.Sessions {
		if s.ID != "" {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
