package disc

import (
	"bufio"
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"cdrip/internal/logging"
	"cdrip/internal/toc"
)

const cdparanoiaBinary = "cdparanoia"

var cdparanoiaFailures = failureText{
	unknownDrive:    []string{"Could not stat", "No such file or directory", "Unable to find a CD-ROM drive"},
	wrongParameters: []string{"USAGE:"},
	noDisc:          []string{"Unable to open disc", "No medium found"},
}

var (
	cdparanoiaTrackLine = regexp.MustCompile(`^\s*(\d+)\.\s+(\d+)\s+\[[^\]]*\]\s+(\d+)\s+\[`)
	cdparanoiaTotalLine = regexp.MustCompile(`^TOTAL\s+(\d+)`)
	cdparanoiaModelLine = regexp.MustCompile(`model sensed(?: sensed)?:\s*(.+)`)
)

// Cdparanoia reads the TOC with `cdparanoia -vQ`. It only reports audio
// tracks and is the primary scanner of a Disc.
type Cdparanoia struct {
	tocState
	exec       Executor
	logger     *slog.Logger
	deviceName string
}

// NewCdparanoia constructs a cdparanoia scanner.
func NewCdparanoia(exec Executor, logger *slog.Logger) *Cdparanoia {
	if exec == nil {
		exec = commandExecutor{}
	}
	return &Cdparanoia{
		tocState: newTOCState(toc.FormatDuration),
		exec:     exec,
		logger:   logging.NewComponentLogger(logger, cdparanoiaBinary),
	}
}

// DeviceName is the drive model reported by the latest scan.
func (c *Cdparanoia) DeviceName() string {
	return c.deviceName
}

// Scan queries the drive. When cdparanoia rejects the device flag it is
// retried once without it.
func (c *Cdparanoia) Scan(ctx context.Context, device string) (ScanStatus, *toc.Geometry) {
	c.reset()
	c.deviceName = ""

	output, err := c.exec.Run(ctx, cdparanoiaBinary, []string{"-d", device, "-vQ"})
	status, failed := classifyOutput(output, err, cdparanoiaBinary, device, cdparanoiaFailures)
	if failed && status.Code == StatusWrongParameters {
		c.logger.Debug("cdparanoia rejected the device flag, retrying without it",
			logging.Device(device))
		output, err = c.exec.Run(ctx, cdparanoiaBinary, []string{"-vQ"})
		status, failed = classifyOutput(output, err, cdparanoiaBinary, device, cdparanoiaFailures)
	}
	if failed {
		c.fail(status)
		logScanResult(c.logger, cdparanoiaBinary, device, status, nil)
		return status, nil
	}

	parsed := parseCdparanoia(string(output))
	if !parsed.hasTOC {
		status = statusError(firstLine(string(output)))
		c.fail(status)
		logScanResult(c.logger, cdparanoiaBinary, device, status, nil)
		return status, nil
	}
	g, err := toc.NewGeometry(parsed.tracks, parsed.totalSectors)
	if err != nil {
		status = statusError(err.Error())
		c.fail(status)
		logScanResult(c.logger, cdparanoiaBinary, device, status, nil)
		return status, nil
	}

	c.deviceName = parsed.deviceName
	c.succeed(g)
	logScanResult(c.logger, cdparanoiaBinary, device, c.status, g)
	return c.status, g
}

type cdparanoiaResult struct {
	tracks       []toc.Track
	totalSectors int
	deviceName   string
	// hasTOC is set by track or TOTAL lines only; the model banner is
	// printed even when the query fails.
	hasTOC bool
}

func parseCdparanoia(output string) cdparanoiaResult {
	var result cdparanoiaResult
	haveTotal := false

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if m := cdparanoiaTrackLine.FindStringSubmatch(line); m != nil {
			number, _ := strconv.Atoi(m[1])
			length, _ := strconv.Atoi(m[2])
			start, _ := strconv.Atoi(m[3])
			result.tracks = append(result.tracks, toc.Track{Number: number, StartSector: start, LengthSector: length})
			result.hasTOC = true
			continue
		}
		if m := cdparanoiaTotalLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			result.totalSectors, _ = strconv.Atoi(m[1])
			haveTotal = true
			result.hasTOC = true
			continue
		}
		if m := cdparanoiaModelLine.FindStringSubmatch(line); m != nil {
			result.deviceName = strings.TrimSpace(m[1])
		}
	}

	if !haveTotal && len(result.tracks) > 0 {
		result.totalSectors = result.tracks[len(result.tracks)-1].EndSector()
	}
	return result
}
