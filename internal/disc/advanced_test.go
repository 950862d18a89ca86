package disc_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"cdrip/internal/disc"
	"cdrip/internal/logging"
	"cdrip/internal/toc"
)

const (
	cdInfoQuery    = "cd-info -C /dev/cdrom -A --no-cddb"
	cdControlQuery = "cdcontrol -f /dev/cdrom info"
)

type advancedCase struct {
	name       string
	query      string
	newScanner func(*scriptedExec) disc.Scanner
	standard   string
	leadout    string
	dataDisc   string
	failures   map[disc.StatusCode]string
}

func advancedCases() []advancedCase {
	return []advancedCase{
		{
			name:  "cd-info",
			query: cdInfoQuery,
			newScanner: func(e *scriptedExec) disc.Scanner {
				return disc.NewCdInfo(e, logging.NewNop())
			},
			standard: lines(
				" 15: 36:34:45  164445 audio  false  no    2        no",
				" 16: 39:55:60  179535 audio  false  no    2        no",
				"170: 43:33:30  195855 leadout",
			),
			leadout: lines("170: 43:33:30  195855 leadout"),
			dataDisc: lines(
				" 13: 61:11:22  275197 data   false  no",
				"170: 73:47:31  331906 leadout (744 MB raw, 744 MB formatted)",
			),
			failures: map[disc.StatusCode]string{
				disc.StatusUnknownDrive:    "++ WARN: Can't get file status for",
				disc.StatusWrongParameters: "Usage: cd",
				disc.StatusNoDiscInDrive:   "++ WARN: error in ioctl CDROMREADTOCHDR: No medium found",
			},
		},
		{
			name:  "cdcontrol",
			query: cdControlQuery,
			newScanner: func(e *scriptedExec) disc.Scanner {
				return disc.NewCdControl(e, logging.NewNop())
			},
			standard: lines(
				"   15  36:34.45   3:21.15  164445   15090  audio",
				"   16  39:55.60   3:37.45  179535   16320  audio",
				"  170  43:33.30         -  195855       -      -",
			),
			leadout: lines("  170  43:33.30         -  195855       -      -"),
			dataDisc: lines(
				"   13  61:11.22  12:36.09  275197   56709   data",
				"  170  73:47.31         -  331906       -      -",
			),
			failures: map[disc.StatusCode]string{
				disc.StatusUnknownDrive:    "cdcontrol: /dev/cd0: No such file or directory",
				disc.StatusWrongParameters: "cdcontrol: invalid command, enter ``help'' for commands",
				disc.StatusNoDiscInDrive:   "cdcontrol: getting toc header: Device not configured",
			},
		},
	}
}

func TestAdvancedScannerFailures(t *testing.T) {
	for _, tc := range advancedCases() {
		t.Run(tc.name+"/not installed", func(t *testing.T) {
			scanner := tc.newScanner(newScriptedExec().missing(tc.query))
			status, g := scanner.Scan(context.Background(), "/dev/cdrom")
			if status.Code != disc.StatusNotInstalled || g != nil {
				t.Fatalf("status = %s, geometry = %v", status, g)
			}
		})
		t.Run(tc.name+"/failed run", func(t *testing.T) {
			output := lines("cd-info version 2.1.0 x86_64-pc-linux-gnu", "Vendor : HL-DT-ST", "unexpected drive reply")
			if tc.name == "cdcontrol" {
				output = lines("   1  00:02.00   2:56.09       0   13209  audio", "cdcontrol: reading toc entries: Input/output error")
			}
			scanner := tc.newScanner(newScriptedExec().failing(tc.query, output))
			status, g := scanner.Scan(context.Background(), "/dev/cdrom")
			if status.Code != disc.StatusError || g != nil {
				t.Fatalf("status = %s, geometry = %v", status, g)
			}
			if status.Detail != firstOf(output) {
				t.Fatalf("detail = %q", status.Detail)
			}
			if _, err := scanner.TotalSectors(); !errors.Is(err, disc.ErrNotScanned) {
				t.Fatalf("expected ErrNotScanned, got %v", err)
			}
		})
		for code, output := range tc.failures {
			t.Run(tc.name+"/"+string(code), func(t *testing.T) {
				scanner := tc.newScanner(newScriptedExec().on(tc.query, output))
				status, _ := scanner.Scan(context.Background(), "/dev/cdrom")
				if status.Code != code {
					t.Fatalf("status = %s, want %s", status, code)
				}
				if _, err := scanner.TotalSectors(); !errors.Is(err, disc.ErrNotScanned) {
					t.Fatalf("expected ErrNotScanned, got %v", err)
				}
			})
		}
	}
}

func TestAdvancedScannerStandardDisc(t *testing.T) {
	for _, tc := range advancedCases() {
		t.Run(tc.name, func(t *testing.T) {
			scanner := tc.newScanner(newScriptedExec().on(tc.query, tc.standard))
			status, g := scanner.Scan(context.Background(), "/dev/cdrom")
			if !status.OK() || g == nil {
				t.Fatalf("expected ok scan, got %s", status)
			}

			for _, tt := range []struct {
				track  int
				start  int
				length int
				text   string
			}{
				{15, 164445, 15090, "03:21:15"},
				{16, 179535, 16320, "03:37:45"},
			} {
				start, _ := scanner.StartSector(tt.track)
				length, _ := scanner.LengthSector(tt.track)
				text, _ := scanner.LengthText(tt.track)
				if start != tt.start || length != tt.length || text != tt.text {
					t.Fatalf("track %d = (%d, %d, %q), want (%d, %d, %q)",
						tt.track, start, length, text, tt.start, tt.length, tt.text)
				}
			}
			for _, missing := range []int{14, 17} {
				if _, err := scanner.LengthText(missing); !errors.Is(err, toc.ErrNoSuchTrack) {
					t.Fatalf("track %d: expected ErrNoSuchTrack, got %v", missing, err)
				}
			}

			if n, _ := scanner.AudioTracks(); n != 2 {
				t.Fatalf("audio tracks = %d, want 2", n)
			}
			if n, _ := scanner.FirstAudioTrack(); n != 15 {
				t.Fatalf("first audio track = %d, want 15", n)
			}
			if data, _ := scanner.DataTracks(); len(data) != 0 {
				t.Fatalf("data tracks = %v, want none", data)
			}
			if n, _ := scanner.Tracks(); n != 2 {
				t.Fatalf("tracks = %d, want 2", n)
			}
		})
	}
}

func TestAdvancedScannerLeadoutOnly(t *testing.T) {
	for _, tc := range advancedCases() {
		t.Run(tc.name, func(t *testing.T) {
			scanner := tc.newScanner(newScriptedExec().on(tc.query, tc.leadout))
			scanner.Scan(context.Background(), "/dev/cdrom")
			if total, _ := scanner.TotalSectors(); total != 195855 {
				t.Fatalf("total sectors = %d, want 195855", total)
			}
			if playtime, _ := scanner.Playtime(); playtime != "43:31" {
				t.Fatalf("playtime = %q, want 43:31", playtime)
			}
		})
	}
}

func TestAdvancedScannerDataTrack(t *testing.T) {
	for _, tc := range advancedCases() {
		t.Run(tc.name, func(t *testing.T) {
			scanner := tc.newScanner(newScriptedExec().on(tc.query, tc.dataDisc))
			scanner.Scan(context.Background(), "/dev/cdrom")
			if n, _ := scanner.AudioTracks(); n != 0 {
				t.Fatalf("audio tracks = %d, want 0", n)
			}
			if data, _ := scanner.DataTracks(); !reflect.DeepEqual(data, []int{13}) {
				t.Fatalf("data tracks = %v, want [13]", data)
			}
			if n, _ := scanner.Tracks(); n != 1 {
				t.Fatalf("tracks = %d, want 1", n)
			}
		})
	}
}

func TestCdInfoDriveDetails(t *testing.T) {
	details := lines(
		"cd-info version 0.82 i686-pc-linux-gnu",
		"Vendor                      : HL-DT-ST",
		"Model                      : DVDRAM GH22NS40",
		"Revision                    : NL01",
		"Disc mode is listed as: CD-DA",
	)
	bare := disc.NewCdInfo(newScriptedExec().on(cdInfoQuery, details), logging.NewNop())
	if status, _ := bare.Scan(context.Background(), "/dev/cdrom"); status.Code != disc.StatusError {
		t.Fatalf("expected error status for a reply without a track list, got %s", status)
	}

	exec := newScriptedExec().on(cdInfoQuery, details+lines(
		"  1: 00:02:00  000000 audio  false  no    2        no",
		"170: 03:02:00  013500 leadout",
	))
	scanner := disc.NewCdInfo(exec, logging.NewNop())
	status, _ := scanner.Scan(context.Background(), "/dev/cdrom")
	if !status.OK() {
		t.Fatalf("expected ok status, got %s", status)
	}
	if got := scanner.Version(); got != "cd-info version 0.82 i686-pc-linux-gnu" {
		t.Fatalf("version = %q", got)
	}
	if got := scanner.DiscMode(); got != "CD-DA" {
		t.Fatalf("disc mode = %q", got)
	}
	if got := scanner.DeviceName(); got != "HL-DT-ST DVDRAM GH22NS40 NL01" {
		t.Fatalf("device name = %q", got)
	}
}

func firstOf(output string) string {
	line, _, _ := strings.Cut(output, "\n")
	return strings.TrimSpace(line)
}
