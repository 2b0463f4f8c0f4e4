package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alcyxob/fitness-sync/internal/domain"
)

func newSessionCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Create, save and move sessions",
	}

	var createFile string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session, at the first free position unless orderID is set",
		Args:  cobra.NoArgs,
		RunE: app.withServices(func(cmd *cobra.Command, _ []string) error {
			var desired domain.Session
			if err := readYAML(createFile, cmd.InOrStdin(), &desired); err != nil {
				return err
			}
			created, err := app.sessions.CreateSession(cmd.Context(), desired)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), created)
		}),
	}
	createCmd.Flags().StringVarP(&createFile, "file", "f", "-", "session document (YAML), - for stdin")

	var saveFile string
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Save a session and, when listed, bring its exercises to the given list",
		Args:  cobra.NoArgs,
		RunE: app.withServices(func(cmd *cobra.Command, _ []string) error {
			var desired domain.Session
			if err := readYAML(saveFile, cmd.InOrStdin(), &desired); err != nil {
				return err
			}
			saved, err := app.sessions.SaveSession(cmd.Context(), desired)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), saved)
		}),
	}
	saveCmd.Flags().StringVarP(&saveFile, "file", "f", "-", "session document (YAML), - for stdin")

	moveCmd := &cobra.Command{
		Use:   "move [session-id] [plan-id]",
		Short: "Move a session to the first free position of another plan",
		Args:  cobra.ExactArgs(2),
		RunE: app.withServices(func(cmd *cobra.Command, args []string) error {
			moved, err := app.sessions.MoveSession(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tplan %s\tposition %d\n", moved.ID, moved.PlanID, moved.OrderID)
			return nil
		}),
	}

	var exclude string
	nextCmd := &cobra.Command{
		Use:   "next-position [plan-id]",
		Short: "Print the position a new session would get",
		Args:  cobra.ExactArgs(1),
		RunE: app.withServices(func(cmd *cobra.Command, args []string) error {
			pos, err := app.sessions.NextPosition(cmd.Context(), args[0], exclude)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pos)
			return nil
		}),
	}
	nextCmd.Flags().StringVar(&exclude, "exclude", "", "session id left out of the occupied positions")

	cmd.AddCommand(createCmd, saveCmd, moveCmd, nextCmd)
	return cmd
}
