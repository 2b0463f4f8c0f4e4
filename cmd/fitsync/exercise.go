package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExerciseCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Browse the exercise library",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List exercises with their category",
		Args:  cobra.NoArgs,
		RunE: app.withServices(func(cmd *cobra.Command, _ []string) error {
			exercises, err := app.exercises.ListExercises(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range exercises {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", e.ID, e.Name, e.Category)
			}
			return nil
		}),
	})
	return cmd
}
