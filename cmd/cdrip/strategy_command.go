package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cdrip/internal/ripping"
	"cdrip/internal/toc"
)

type strategyReport struct {
	Tracks      map[int]ripping.Range `json:"tracks"`
	Order       []int                 `json:"order"`
	HiddenTrack *ripping.Range        `json:"hidden_track,omitempty"`
	Preferences ripping.Preferences   `json:"preferences"`
}

func newStrategyCommand(ctx *commandContext) *cobra.Command {
	var hidden string
	var minLength float64

	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Show the sector ranges a rip would read",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := ctx.config.RipPreferences()
			if cmd.Flags().Changed("hidden") {
				enabled, err := strconv.ParseBool(hidden)
				if err != nil {
					return fmt.Errorf("--hidden: %w", err)
				}
				prefs.RipHiddenAudio = enabled
			}
			if cmd.Flags().Changed("min-hidden-seconds") {
				prefs.MinLengthHiddenTrackSeconds = minLength
			}

			runCtx, logger, err := ctx.session(cmd)
			if err != nil {
				return err
			}
			session, err := ctx.scanDrive(runCtx, logger, scanOptions{})
			if err != nil {
				return err
			}
			g, err := session.disc.Geometry()
			if err != nil {
				return err
			}
			strategy, err := ripping.Plan(g, prefs)
			if err != nil {
				return err
			}

			report := strategyReport{
				Tracks:      strategy.TrackRanges(),
				Order:       strategy.TrackNumbers(),
				Preferences: prefs,
			}
			if strategy.HiddenTrackAvailable() {
				hiddenRange, err := strategy.HiddenTrack()
				if err != nil {
					return err
				}
				report.HiddenTrack = &hiddenRange
			}
			return ctx.emit(cmd, report, func() error {
				fmt.Fprintln(cmd.OutOrStdout(), renderStrategyTable(report))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&hidden, "hidden", "", "Override rip.rip_hidden_audio (true or false)")
	cmd.Flags().Float64Var(&minLength, "min-hidden-seconds", 0, "Override rip.min_length_hidden_track_seconds")
	return cmd
}

func renderStrategyTable(report strategyReport) string {
	rows := make([][]string, 0, len(report.Order)+1)
	if h := report.HiddenTrack; h != nil {
		rows = append(rows, []string{"hidden", strconv.Itoa(h.StartSector), strconv.Itoa(h.LengthSector), toc.FormatDuration(h.LengthSector)})
	}
	for _, number := range report.Order {
		r := report.Tracks[number]
		rows = append(rows, []string{strconv.Itoa(number), strconv.Itoa(r.StartSector), strconv.Itoa(r.LengthSector), toc.FormatDuration(r.LengthSector)})
	}
	return renderTable(tableSpec{
		Title:   "Rip strategy",
		Headers: []string{"Track", "Start", "Sectors", "Length"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignRight, alignRight, alignRight},
	})
}
