// Package validators checks user input before anything is sent to the API.
// Every failure is a *repository.ValidationError carrying the text shown to
// the user.
package validators

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/repository"
)

// --- Messages ---
const (
	MsgExerciseRequired    = "Exercise is required"
	MsgDuplicateExercise   = "Each exercise can only be added once to the session"
	MsgSetsRequired        = "Sets must be greater than 0"
	MsgRepsRequired        = "Reps must be greater than 0"
	MsgWeightInvalid       = "Weight must be 0 or greater"
	MsgWeightRequired      = "Weight must be greater than 0 for this exercise"
	MsgSessionNameRequired = "Session name is required"
	MsgPlanRequired        = "Plan is required"
	MsgOrderRange          = "Order must be between 1 and 30"
	MsgStatusInvalid       = "Status must be PLANNED or COMPLETED"
	MsgPlanNameRequired    = "Plan name is required"
	MsgPlanNameTooShort    = "Plan name must be at least 2 characters"
	MsgPlanFull            = "Maximum of 30 sessions per plan reached"
	MsgActualNegative      = "Actual values must be 0 or greater"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	mustRegister("notblank", notBlank)
	mustRegister("trimmin", trimmedMin)
	validate.RegisterStructValidation(executionWeight, domain.ExerciseExecution{})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validators: register %q: %v", tag, err))
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// trimmedMin compares the rune length of the trimmed string with the tag parameter.
func trimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

const tagWeightRequired = "weightrequired"

// executionWeight requires a load unless the exercise is a bodyweight one.
func executionWeight(sl validator.StructLevel) {
	e := sl.Current().Interface().(domain.ExerciseExecution)
	if e.PlannedWeight == 0 && !e.IsBodyweight() {
		sl.ReportError(e.PlannedWeight, "PlannedWeight", "PlannedWeight", tagWeightRequired, "")
	}
}

// messages maps <StructField>.<tag> to user text.
var messages = map[string]string{
	"ExerciseID.required":          MsgExerciseRequired,
	"PlannedSets.gt":               MsgSetsRequired,
	"PlannedReps.gt":               MsgRepsRequired,
	"PlannedWeight.gte":            MsgWeightInvalid,
	"PlannedWeight.weightrequired": MsgWeightRequired,
	"Name.required":                MsgSessionNameRequired,
	"Name.notblank":                MsgSessionNameRequired,
	"OrderID.min":                  MsgOrderRange,
	"OrderID.max":                  MsgOrderRange,
	"Status.oneof":                 MsgStatusInvalid,
	"ActualSets.min":               MsgActualNegative,
	"ActualReps.min":               MsgActualNegative,
	"ActualWeight.min":             MsgActualNegative,
}

var planMessages = map[string]string{
	"Name.required": MsgPlanNameRequired,
	"Name.notblank": MsgPlanNameRequired,
	"Name.trimmin":  MsgPlanNameTooShort,
}

var fieldNames = map[string]string{
	"ExerciseID":    "exerciseId",
	"PlannedSets":   "plannedSets",
	"PlannedReps":   "plannedReps",
	"PlannedWeight": "plannedWeight",
	"Name":          "name",
	"OrderID":       "orderID",
	"Status":        "status",
	"ActualSets":    "actualSets",
	"ActualReps":    "actualReps",
	"ActualWeight":  "actualWeight",
}

// check runs struct validation and converts the first failure whose tag is
// not in skip.
func check(v any, table map[string]string, skip ...string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		if slices.Contains(skip, fe.Tag()) {
			continue
		}
		key := fe.StructField() + "." + fe.Tag()
		msg, ok := table[key]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fieldNames[fe.StructField()])
		}
		return repository.NewValidationError(fieldNames[fe.StructField()], msg)
	}
	return nil
}

// ExerciseExecution validates a single planned exercise.
func ExerciseExecution(e domain.ExerciseExecution) error {
	return check(e, messages)
}

// ExerciseExecutions validates the desired exercise list of a session: each
// exercise once, then every entry on its own. It fits childsync.Rule.
func ExerciseExecutions(desired []domain.ExerciseExecution) error {
	if err := uniqueExercises(desired); err != nil {
		return err
	}
	for _, e := range desired {
		if err := ExerciseExecution(e); err != nil {
			return err
		}
	}
	return nil
}

// ExerciseExecutionFields is ExerciseExecutions without the bodyweight rule,
// the only one that needs the exercise category. It runs before the category
// lookup so that a list it rejects costs no remote call.
func ExerciseExecutionFields(desired []domain.ExerciseExecution) error {
	if err := uniqueExercises(desired); err != nil {
		return err
	}
	for _, e := range desired {
		if err := check(e, messages, tagWeightRequired); err != nil {
			return err
		}
	}
	return nil
}

func uniqueExercises(desired []domain.ExerciseExecution) error {
	seen := make(map[string]struct{}, len(desired))
	for _, e := range desired {
		if e.ExerciseID == "" {
			continue
		}
		if _, dup := seen[e.ExerciseID]; dup {
			return repository.NewValidationError("exerciseId", MsgDuplicateExercise)
		}
		seen[e.ExerciseID] = struct{}{}
	}
	return nil
}

// SessionCreate validates a session about to be created.
func SessionCreate(s domain.Session) error {
	if err := check(s, messages); err != nil {
		return err
	}
	if strings.TrimSpace(s.PlanID) == "" {
		return repository.NewValidationError("planId", MsgPlanRequired)
	}
	return nil
}

// SessionUpdate validates the scalar fields of an existing session.
func SessionUpdate(s domain.Session) error {
	return check(s, messages)
}

// Sessions validates a desired session list of a plan. It fits childsync.Rule.
func Sessions(desired []domain.Session) error {
	if len(desired) > domain.MaxSessionsPerPlan {
		return repository.NewValidationError("sessions", MsgPlanFull)
	}
	for _, s := range desired {
		if err := check(s, messages); err != nil {
			return err
		}
	}
	return nil
}

// Plan validates the scalar fields of a plan.
func Plan(p domain.TrainingPlan) error {
	return check(p, planMessages)
}

// PlanCapacity fails when a plan already holds the maximum number of sessions.
func PlanCapacity(current int) error {
	if current >= domain.MaxSessionsPerPlan {
		return repository.NewValidationError("sessions", MsgPlanFull)
	}
	return nil
}

// ExecutionLog validates the actual values logged for one exercise.
func ExecutionLog(l domain.ExecutionLog) error {
	return check(l, messages)
}
