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

const cdControlBinary = "cdcontrol"

var cdControlFailures = failureText{
	unknownDrive:    []string{"No such file or directory"},
	wrongParameters: []string{"invalid command"},
	noDisc:          []string{"Device not configured"},
}

// track, start msf, length text, start lba, length lba, type
var cdControlLine = regexp.MustCompile(`^\s*(\d+)\s+\d+:\d{2}\.\d{2}\s+(\S+)\s+(\d+)\s+(\S+)\s+(\S+)\s*$`)

// CdControl reads the TOC with the BSD cdcontrol utility.
type CdControl struct {
	tocState
	exec   Executor
	logger *slog.Logger
}

// NewCdControl constructs a cdcontrol scanner.
func NewCdControl(exec Executor, logger *slog.Logger) *CdControl {
	if exec == nil {
		exec = commandExecutor{}
	}
	return &CdControl{
		tocState: newTOCState(toc.FormatDurationFrames),
		exec:     exec,
		logger:   logging.NewComponentLogger(logger, cdControlBinary),
	}
}

func (c *CdControl) Scan(ctx context.Context, device string) (ScanStatus, *toc.Geometry) {
	c.reset()

	output, err := c.exec.Run(ctx, cdControlBinary, []string{"-f", device, "info"})
	if status, failed := classifyOutput(output, err, cdControlBinary, device, cdControlFailures); failed {
		c.fail(status)
		logScanResult(c.logger, cdControlBinary, device, status, nil)
		return status, nil
	}

	var (
		starts     startTable
		recognized bool
	)
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		m := cdControlLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		recognized = true
		number, _ := strconv.Atoi(m[1])
		start, _ := strconv.Atoi(m[3])
		kind := m[5]
		if number == toc.LeadoutTrack || kind == "-" {
			starts.setLeadout(start)
			continue
		}
		isData := kind != "audio"
		if length, err := strconv.Atoi(m[4]); err == nil && length > 0 {
			starts.addWithLength(number, start, length, isData)
		} else {
			starts.add(number, start, isData)
		}
	}

	if !recognized {
		status := statusError(firstLine(string(output)))
		c.fail(status)
		logScanResult(c.logger, cdControlBinary, device, status, nil)
		return status, nil
	}
	g, err := starts.geometry()
	if err != nil {
		status := statusError(err.Error())
		c.fail(status)
		logScanResult(c.logger, cdControlBinary, device, status, nil)
		return status, nil
	}
	c.succeed(g)
	logScanResult(c.logger, cdControlBinary, device, c.status, g)
	return c.status, g
}
