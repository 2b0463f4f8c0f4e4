package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newJournalCmd(app *cliApp) *cobra.Command {
	var (
		limit     int64
		withLinks bool
	)
	cmd := &cobra.Command{
		Use:   "journal [parent-id]",
		Short: "Show the recorded synchronization batches of a plan or session",
		Args:  cobra.ExactArgs(1),
		RunE: app.withServices(func(cmd *cobra.Command, args []string) error {
			records, err := app.recorder.History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, rec := range records {
				fmt.Fprintf(out, "%s\t%s\t%s\t+%d ~%d -%d",
					rec.StartedAt.Format("2006-01-02 15:04:05"), rec.BatchID, rec.Outcome, rec.Created, rec.Updated, rec.Deleted)
				if rec.FailedOp != "" {
					fmt.Fprintf(out, "\t%s %s: %s", rec.FailedOp, rec.FailedID, rec.Error)
				}
				if withLinks && rec.Snapshot != nil {
					url, err := app.recorder.SnapshotURL(cmd.Context(), rec)
					if err != nil {
						app.log.Warn().Err(err).Str("batch_id", rec.BatchID).Msg("snapshot link failed")
					} else {
						fmt.Fprintf(out, "\t%s", url)
					}
				}
				fmt.Fprintln(out)
			}
			return nil
		}),
	}
	cmd.Flags().Int64Var(&limit, "limit", 20, "maximum number of batches")
	cmd.Flags().BoolVar(&withLinks, "links", false, "print a temporary download link for each snapshot")
	return cmd
}
