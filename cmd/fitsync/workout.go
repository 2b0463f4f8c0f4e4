package main

import (
	"github.com/spf13/cobra"

	"alcyxob/fitness-sync/internal/domain"
)

// workoutDocument is what `workout save` reads.
type workoutDocument struct {
	Notes string                `yaml:"notes"`
	Logs  []domain.ExecutionLog `yaml:"logs"`
}

func newWorkoutCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workout",
		Short: "Log performed workouts",
	}

	getCmd := &cobra.Command{
		Use:   "get [workout-id]",
		Short: "Print a workout and its exercise logs",
		Args:  cobra.ExactArgs(1),
		RunE: app.withServices(func(cmd *cobra.Command, args []string) error {
			w, logs, err := app.workouts.GetWorkout(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), struct {
				Workout domain.WorkoutLog     `yaml:"workout"`
				Logs    []domain.ExecutionLog `yaml:"logs"`
			}{w, logs})
		}),
	}

	var file string
	saveCmd := &cobra.Command{
		Use:   "save [workout-id]",
		Short: "Save notes and exercise logs; completes the workout when every log is done",
		Args:  cobra.ExactArgs(1),
		RunE: app.withServices(func(cmd *cobra.Command, args []string) error {
			var doc workoutDocument
			if err := readYAML(file, cmd.InOrStdin(), &doc); err != nil {
				return err
			}
			w, err := app.workouts.SaveWorkout(cmd.Context(), args[0], doc.Notes, doc.Logs)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), w)
		}),
	}
	saveCmd.Flags().StringVarP(&file, "file", "f", "-", "workout document (YAML), - for stdin")

	cmd.AddCommand(getCmd, saveCmd)
	return cmd
}
