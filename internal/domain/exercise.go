// internal/domain/exercise.go
package domain

// CategoryBodyWeight marks exercises where a planned weight of zero is valid.
const CategoryBodyWeight = "BodyWeight"

// Exercise represents a single exercise definition in the library.
type Exercise struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`     // e.g. "Strength", "BodyWeight"
	MuscleGroup []string `json:"muscleGroup,omitempty"` // e.g. ["Chest", "Triceps"]
}
