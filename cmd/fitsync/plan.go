package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alcyxob/fitness-sync/internal/domain"
)

func newPlanCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect and save training plans",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List training plans",
		Args:  cobra.NoArgs,
		RunE: app.withServices(func(cmd *cobra.Command, _ []string) error {
			plans, err := app.plans.ListPlans(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range plans {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d sessions\n", p.ID, p.Name, len(p.Sessions))
			}
			return nil
		}),
	}

	getCmd := &cobra.Command{
		Use:   "get [plan-id]",
		Short: "Print a plan with its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: app.withServices(func(cmd *cobra.Command, args []string) error {
			plan, err := app.plans.GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), plan)
		}),
	}

	var file string
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Apply a desired plan: name, description and, when listed, its sessions",
		Long: `Reads a plan document and brings the server to it. Sessions without an id
are created, sessions missing from the list are deleted and the remaining
ones are updated; positions follow the list order unless orderID is given.`,
		Args: cobra.NoArgs,
		RunE: app.withServices(func(cmd *cobra.Command, _ []string) error {
			var desired domain.TrainingPlan
			if err := readYAML(file, cmd.InOrStdin(), &desired); err != nil {
				return err
			}
			saved, err := app.plans.SavePlan(cmd.Context(), desired)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), saved)
		}),
	}
	saveCmd.Flags().StringVarP(&file, "file", "f", "-", "plan document (YAML), - for stdin")

	reorderCmd := &cobra.Command{
		Use:   "reorder [plan-id] [session-id...]",
		Short: "Reorder the sessions of a plan; every session must be listed once",
		Args:  cobra.MinimumNArgs(2),
		RunE: app.withServices(func(cmd *cobra.Command, args []string) error {
			sessions, err := app.plans.ReorderSessions(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			for _, s := range sessions {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", s.OrderID, s.ID, s.Name)
			}
			return nil
		}),
	}

	cmd.AddCommand(listCmd, getCmd, saveCmd, reorderCmd)
	return cmd
}
