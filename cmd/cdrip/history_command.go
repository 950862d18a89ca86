package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cdrip/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var freedbID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ctx.config.History.Enabled {
				return fmt.Errorf("scan history is disabled (history.enabled = false)")
			}
			store, err := history.Open(ctx.config.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			var entries []history.Entry
			if freedbID != "" {
				entry, err := store.FindByFreedbID(cmd.Context(), freedbID)
				if err != nil {
					return err
				}
				if entry != nil {
					entries = append(entries, *entry)
				}
			} else {
				entries, err = store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
			}
			if entries == nil {
				entries = []history.Entry{}
			}

			return ctx.emit(cmd, entries, func() error {
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No scans recorded")
					return nil
				}
				fmt.Fprintln(out, renderHistoryTable(entries))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of scans to list (0 lists all)")
	cmd.Flags().StringVar(&freedbID, "freedb", "", "Show the latest scan of the disc with this freedb id")
	return cmd
}

func renderHistoryTable(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		status := entry.Status
		if entry.Detail != "" {
			status = fmt.Sprintf("%s (%s)", entry.Status, entry.Detail)
		}
		rows = append(rows, []string{
			strconv.FormatInt(entry.ID, 10),
			entry.ScannedAt.Local().Format(time.DateTime),
			entry.Device,
			status,
			valueOrDash(entry.FreedbID),
			strconv.Itoa(entry.AudioTracks),
		})
	}
	return renderTable(tableSpec{
		Headers: []string{"ID", "Scanned", "Device", "Status", "freedb", "Tracks"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	})
}
