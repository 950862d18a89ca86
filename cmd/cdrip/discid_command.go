package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdrip/internal/discid"
)

const xmcdSubmitter = "cdrip"

type discIDReport struct {
	FreedbID        string `json:"freedb_id"`
	FreedbQuery     string `json:"freedb_query"`
	MusicbrainzID   string `json:"musicbrainz_id"`
	MusicbrainzPath string `json:"musicbrainz_lookup_path"`
	Record          string `json:"xmcd,omitempty"`
}

func newDiscIDCommand(ctx *commandContext) *cobra.Command {
	var xmcd bool
	var cdtext bool
	var revision int

	cmd := &cobra.Command{
		Use:   "discid",
		Short: "Compute freedb and MusicBrainz disc ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, logger, err := ctx.session(cmd)
			if err != nil {
				return err
			}
			session, err := ctx.scanDrive(runCtx, logger, scanOptions{cdtext: cdtext})
			if err != nil {
				return err
			}
			report := discIDReport{
				FreedbID:        session.report.FreedbID,
				FreedbQuery:     session.report.FreedbQuery,
				MusicbrainzID:   session.report.MusicbrainzID,
				MusicbrainzPath: session.report.MusicbrainzPath,
			}
			if xmcd {
				g, err := session.disc.IDGeometry()
				if err != nil {
					return err
				}
				record, err := discid.Record(g, report.FreedbID, session.report.Metadata, revision, xmcdSubmitter)
				if err != nil {
					return err
				}
				report.Record = record
			}

			return ctx.emit(cmd, report, func() error {
				out := cmd.OutOrStdout()
				if report.Record != "" {
					fmt.Fprint(out, report.Record)
					return nil
				}
				fmt.Fprintf(out, "freedb:      %s\n", report.FreedbID)
				fmt.Fprintf(out, "cddb query:  %s\n", report.FreedbQuery)
				fmt.Fprintf(out, "musicbrainz: %s\n", report.MusicbrainzID)
				fmt.Fprintf(out, "lookup:      %s\n", report.MusicbrainzPath)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&xmcd, "xmcd", false, "Print a freedb (xmcd) record for the disc")
	cmd.Flags().BoolVar(&cdtext, "cdtext", false, "Fill the record from CD-TEXT read with cdrdao")
	cmd.Flags().IntVar(&revision, "revision", 0, "Revision number written to the xmcd record")
	return cmd
}
