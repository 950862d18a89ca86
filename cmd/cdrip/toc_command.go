package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cdrip/internal/disc"
	"cdrip/internal/toc"
)

type tocRow struct {
	Track        int    `json:"track"`
	Data         bool   `json:"data"`
	StartSector  int    `json:"start_sector"`
	LengthSector int    `json:"length_sector"`
	Length       string `json:"length"`
	FileSize     int64  `json:"file_size"`
}

type tocReport struct {
	Scanner  string   `json:"scanner"`
	Tracks   []tocRow `json:"tracks"`
	Image    tocRow   `json:"image"`
	Playtime string   `json:"playtime"`
}

func newTOCCommand(ctx *commandContext) *cobra.Command {
	var advanced bool

	cmd := &cobra.Command{
		Use:   "toc",
		Short: "Show track positions, lengths and WAV sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, logger, err := ctx.session(cmd)
			if err != nil {
				return err
			}
			session, err := ctx.scanDrive(runCtx, logger, scanOptions{})
			if err != nil {
				return err
			}

			var reader disc.TOCReader = session.disc
			name := "cdparanoia"
			if advanced {
				scanner := session.disc.AdvancedTocScanner()
				reader = scanner
				name = scannerName(scanner)
			}
			report, err := buildTOCReport(reader, name)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, report, func() error {
				fmt.Fprintln(cmd.OutOrStdout(), renderTOCTable(report))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&advanced, "advanced", false, "Show the advanced scanner's view (cd-info or cdcontrol) including data tracks")
	return cmd
}

func scannerName(scanner disc.Scanner) string {
	switch scanner.(type) {
	case *disc.CdInfo:
		return "cd-info"
	case *disc.CdControl:
		return "cdcontrol"
	case *disc.Cdrdao:
		return "cdrdao"
	default:
		return "cdparanoia"
	}
}

func buildTOCReport(reader disc.TOCReader, name string) (tocReport, error) {
	g, err := reader.Geometry()
	if err != nil {
		return tocReport{}, err
	}
	report := tocReport{Scanner: name}
	for _, track := range g.Tracks() {
		row, err := tocRowFor(reader, track.Number)
		if err != nil {
			return tocReport{}, err
		}
		row.Data = track.IsData
		report.Tracks = append(report.Tracks, row)
	}
	if g.NumTracks() > 0 {
		if report.Image, err = tocRowFor(reader, toc.ImageTrack); err != nil {
			return tocReport{}, err
		}
	}
	if report.Playtime, err = reader.Playtime(); err != nil {
		return tocReport{}, err
	}
	return report, nil
}

func tocRowFor(reader disc.TOCReader, track int) (tocRow, error) {
	row := tocRow{Track: track}
	var err error
	if row.StartSector, err = reader.StartSector(track); err != nil {
		return row, err
	}
	if row.LengthSector, err = reader.LengthSector(track); err != nil {
		return row, err
	}
	if row.Length, err = reader.LengthText(track); err != nil {
		return row, err
	}
	if row.FileSize, err = reader.FileSize(track); err != nil {
		return row, err
	}
	return row, nil
}

func renderTOCTable(report tocReport) string {
	rows := make([][]string, 0, len(report.Tracks)+1)
	for _, row := range report.Tracks {
		kind := "audio"
		if row.Data {
			kind = "data"
		}
		rows = append(rows, []string{
			strconv.Itoa(row.Track),
			kind,
			strconv.Itoa(row.StartSector),
			strconv.Itoa(row.LengthSector),
			row.Length,
			strconv.FormatInt(row.FileSize, 10),
		})
	}
	if len(report.Tracks) > 0 {
		rows = append(rows, []string{
			"image",
			"",
			strconv.Itoa(report.Image.StartSector),
			strconv.Itoa(report.Image.LengthSector),
			report.Image.Length,
			strconv.FormatInt(report.Image.FileSize, 10),
		})
	}
	return renderTable(tableSpec{
		Title:   "TOC (" + report.Scanner + ")",
		Headers: []string{"Track", "Type", "Start", "Sectors", "Length", "WAV bytes"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
		Footer:  []string{"", "", "", "", report.Playtime, ""},
	})
}
