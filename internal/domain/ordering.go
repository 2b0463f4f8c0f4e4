package domain

const (
	// MaxOrderValue is the highest ordinal position a child may hold inside its parent.
	MaxOrderValue = 30
	// MaxSessionsPerPlan caps how many sessions a single plan may hold.
	MaxSessionsPerPlan = 30
	// MinPlanNameLength applies to plan names after trimming.
	MinPlanNameLength = 2
)
