package disc

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"cdrip/internal/logging"
	"cdrip/internal/toc"
)

const cdInfoBinary = "cd-info"

var cdInfoFailures = failureText{
	unknownDrive:    []string{"Can't get file status for"},
	wrongParameters: []string{"Usage: cd"},
	noDisc:          []string{"No medium found"},
}

var (
	cdInfoTrackLine   = regexp.MustCompile(`^\s*(\d+):\s+(\d{2}):(\d{2}):(\d{2})\s+(\d+)\s+(\w+)`)
	cdInfoVersionLine = regexp.MustCompile(`^cd-info version \S+`)
	cdInfoFieldLine   = regexp.MustCompile(`^(Vendor|Model|Revision)\s*:\s*(.*)$`)
)

const cdInfoDiscModePrefix = "Disc mode is listed as: "

// CdInfo reads the TOC with libcdio's cd-info. Unlike cdparanoia it also
// lists data tracks, which makes it the preferred source for disc ids.
type CdInfo struct {
	tocState
	exec     Executor
	logger   *slog.Logger
	version  string
	discMode string
	vendor   string
	model    string
	revision string
}

// NewCdInfo constructs a cd-info scanner.
func NewCdInfo(exec Executor, logger *slog.Logger) *CdInfo {
	if exec == nil {
		exec = commandExecutor{}
	}
	return &CdInfo{
		tocState: newTOCState(toc.FormatDurationFrames),
		exec:     exec,
		logger:   logging.NewComponentLogger(logger, cdInfoBinary),
	}
}

// Version is the full cd-info version line.
func (c *CdInfo) Version() string { return c.version }

// DiscMode is the disc mode cd-info reports, e.g. CD-DA.
func (c *CdInfo) DiscMode() string { return c.discMode }

// DeviceName joins the drive vendor, model and revision.
func (c *CdInfo) DeviceName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{c.vendor, c.model, c.revision} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

func (c *CdInfo) Scan(ctx context.Context, device string) (ScanStatus, *toc.Geometry) {
	c.reset()
	c.version, c.discMode, c.vendor, c.model, c.revision = "", "", "", "", ""

	output, err := c.exec.Run(ctx, cdInfoBinary, []string{"-C", device, "-A", "--no-cddb"})
	if status, failed := classifyOutput(output, err, cdInfoBinary, device, cdInfoFailures); failed {
		c.fail(status)
		logScanResult(c.logger, cdInfoBinary, device, status, nil)
		return status, nil
	}

	var (
		starts startTable
		hasTOC bool
	)
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case cdInfoTrackLine.MatchString(line):
			m := cdInfoTrackLine.FindStringSubmatch(line)
			number, _ := strconv.Atoi(m[1])
			start, _ := strconv.Atoi(m[5])
			kind := strings.ToLower(m[6])
			if number == toc.LeadoutTrack || kind == "leadout" {
				starts.setLeadout(start)
			} else {
				starts.add(number, start, kind != "audio")
			}
			hasTOC = true
		case cdInfoVersionLine.MatchString(trimmed):
			c.version = trimmed
		case strings.HasPrefix(trimmed, cdInfoDiscModePrefix):
			c.discMode = strings.TrimSpace(strings.TrimPrefix(trimmed, cdInfoDiscModePrefix))
		case cdInfoFieldLine.MatchString(trimmed):
			m := cdInfoFieldLine.FindStringSubmatch(trimmed)
			value := strings.TrimSpace(m[2])
			switch m[1] {
			case "Vendor":
				c.vendor = value
			case "Model":
				c.model = value
			case "Revision":
				c.revision = value
			}
		}
	}

	// Drive details alone do not make a scan.
	if !hasTOC {
		status := statusError(firstLine(string(output)))
		c.fail(status)
		logScanResult(c.logger, cdInfoBinary, device, status, nil)
		return status, nil
	}
	g, err := starts.geometry()
	if err != nil {
		status := statusError(err.Error())
		c.fail(status)
		logScanResult(c.logger, cdInfoBinary, device, status, nil)
		return status, nil
	}
	c.succeed(g)
	logScanResult(c.logger, cdInfoBinary, device, c.status, g)
	return c.status, g
}

// startTable collects TOC entries that only carry start sectors. Lengths
// are derived from the next start, the last one from the lead-out.
type startTable struct {
	entries     []toc.Track
	leadout     int
	haveLeadout bool
}

func (t *startTable) add(number, start int, isData bool) {
	t.entries = append(t.entries, toc.Track{Number: number, StartSector: start, IsData: isData})
}

func (t *startTable) addWithLength(number, start, length int, isData bool) {
	t.entries = append(t.entries, toc.Track{Number: number, StartSector: start, LengthSector: length, IsData: isData})
}

func (t *startTable) setLeadout(start int) {
	t.leadout = start
	t.haveLeadout = true
}

var errMissingLeadout = errors.New("toc lists tracks but no lead-out")

func (t *startTable) geometry() (*toc.Geometry, error) {
	tracks := make([]toc.Track, len(t.entries))
	copy(tracks, t.entries)
	for i := range tracks {
		if tracks[i].LengthSector > 0 {
			continue
		}
		switch {
		case i+1 < len(tracks):
			tracks[i].LengthSector = tracks[i+1].StartSector - tracks[i].StartSector
		case t.haveLeadout:
			tracks[i].LengthSector = t.leadout - tracks[i].StartSector
		default:
			return nil, errMissingLeadout
		}
	}
	total := t.leadout
	if !t.haveLeadout && len(tracks) > 0 {
		total = tracks[len(tracks)-1].EndSector()
	}
	return toc.NewGeometry(tracks, total)
}
