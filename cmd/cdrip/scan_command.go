package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var cdtext bool
	var analyze bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Read the table of contents and disc ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, logger, err := ctx.session(cmd)
			if err != nil {
				return err
			}
			opts := scanOptions{cdtext: cdtext}
			if analyze {
				opts.analysisLog = cmd.OutOrStdout()
				if ctx.jsonMode() {
					opts.analysisLog = io.Discard
				}
			}
			session, scanErr := ctx.scanDrive(runCtx, logger, opts)
			if session == nil {
				return scanErr
			}
			if err := ctx.emit(cmd, session.report, func() error {
				renderScanSummary(cmd.OutOrStdout(), session.report)
				return nil
			}); err != nil {
				return err
			}
			return scanErr
		},
	}

	cmd.Flags().BoolVar(&cdtext, "cdtext", false, "Read CD-TEXT with cdrdao")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Run the cdrdao pregap and pre-emphasis analysis alongside the scan")
	return cmd
}

func renderScanSummary(out io.Writer, report scanReport) {
	colorize := shouldColorize(out)
	printLines(out, renderSectionHeader("Disc", colorize)...)
	printLines(out, renderStatusLine("Scan", scanStatusKind(report.Status), report.Message, colorize))
	if report.Analysis != nil {
		printLines(out, renderStatusLine("cdrdao analysis", scanStatusKind(*report.Analysis), report.Analysis.Message(), colorize))
	}
	if !report.Status.OK() {
		return
	}

	rows := [][]string{
		{"Device", report.Device},
		{"Drive model", valueOrDash(report.DriveModel)},
		{"Tracks", strconv.Itoa(len(report.Tracks))},
		{"Audio tracks", strconv.Itoa(report.AudioTracks)},
		{"Data tracks", intList(report.DataTracks)},
		{"Total sectors", strconv.Itoa(report.TotalSectors)},
		{"Playtime", report.Playtime},
		{"freedb id", valueOrDash(report.FreedbID)},
		{"MusicBrainz id", valueOrDash(report.MusicbrainzID)},
	}
	if md := report.Metadata; md != nil && (md.Artist != "" || md.Album != "") {
		rows = append(rows, []string{"Artist", valueOrDash(md.Artist)}, []string{"Album", valueOrDash(md.Album)})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		Headers: []string{"Field", "Value"},
		Rows:    rows,
	}))
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func intList(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
