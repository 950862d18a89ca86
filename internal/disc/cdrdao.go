package disc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"cdrip/internal/logging"
	"cdrip/internal/toc"
)

const cdrdaoBinary = "cdrdao"

var cdrdaoFailures = failureText{
	unknownDrive:    []string{"Cannot setup device"},
	wrongParameters: []string{"Usage: cdrdao"},
	noDisc:          []string{"Unit not ready"},
}

const (
	cdrdaoHeader      = "\nADVANCED TOC ANALYSIS (with cdrdao)\n"
	cdrdaoPatience    = "...please be patient, this may take a while\n\n"
	cdrdaoNothingSeen = "No pregap, silence, pre-emphasis or data track detected\n\n"
)

// Cdrdao runs `cdrdao read-toc` and parses the TOC file it writes. Besides
// geometry it reports leading silence, pregaps, pre-emphasis, ISRC codes and
// CD-TEXT. The analysis is slow, so it is normally started with
// ScanInBackground and collected with CdrdaoTask.Join.
type Cdrdao struct {
	tocState
	exec   Executor
	files  FileReader
	tocDir string
	logger *slog.Logger
	info   cdrdaoTOC
}

// NewCdrdao constructs a cdrdao scanner that writes its TOC files to tocDir
// (the system temp directory when empty).
func NewCdrdao(exec Executor, files FileReader, tocDir string, logger *slog.Logger) *Cdrdao {
	if exec == nil {
		exec = commandExecutor{}
	}
	if files == nil {
		files = osFileReader{}
	}
	if strings.TrimSpace(tocDir) == "" {
		tocDir = os.TempDir()
	}
	return &Cdrdao{
		tocState: newTOCState(toc.FormatDurationFrames),
		exec:     exec,
		files:    files,
		tocDir:   tocDir,
		logger:   logging.NewComponentLogger(logger, cdrdaoBinary),
	}
}

// CdrdaoTask is the handle of a background cdrdao analysis. Neither the
// scanner state nor the log lines are visible until Join returns.
type CdrdaoTask struct {
	scanner *Cdrdao
	done    chan cdrdaoReport
	once    sync.Once
	status  ScanStatus
	err     error
}

// cdrdaoReport is everything the worker produced. Its slog records are
// emitted by Join, never by the worker.
type cdrdaoReport struct {
	device     string
	status     ScanStatus
	geometry   *toc.Geometry
	info       cdrdaoTOC
	lines      []string
	anomalies  []string
	tocFile    string
	cleanupErr error
}

// ScanInBackground starts the analysis of device and returns immediately.
// The scanner must not be used until the returned task is joined.
func (c *Cdrdao) ScanInBackground(ctx context.Context, device string) *CdrdaoTask {
	c.reset()
	c.info = cdrdaoTOC{}
	task := &CdrdaoTask{scanner: c, done: make(chan cdrdaoReport, 1)}
	go func() {
		task.done <- c.analyze(ctx, device)
	}()
	return task
}

// Join waits for the analysis, applies its result to the scanner, emits the
// scanner's log records and writes the analysis log lines to log in order.
// Repeated calls return the first result without writing again.
func (t *CdrdaoTask) Join(log io.Writer) (ScanStatus, error) {
	t.once.Do(func() {
		if log == nil {
			log = io.Discard
		}
		report := <-t.done
		t.scanner.apply(report)
		t.scanner.logReport(report)
		for _, line := range report.lines {
			if _, err := io.WriteString(log, line); err != nil {
				t.err = fmt.Errorf("write cdrdao log: %w", err)
				break
			}
		}
		t.status = report.status
	})
	return t.status, t.err
}

// Scan runs the analysis synchronously and discards the log lines.
func (c *Cdrdao) Scan(ctx context.Context, device string) (ScanStatus, *toc.Geometry) {
	status, _ := c.ScanInBackground(ctx, device).Join(io.Discard)
	return status, c.geometry
}

func (c *Cdrdao) apply(report cdrdaoReport) {
	c.info = report.info
	if report.status.OK() {
		c.succeed(report.geometry)
		return
	}
	c.fail(report.status)
}

// analyze runs on the worker goroutine. It must not log; logReport does
// that from Join.
func (c *Cdrdao) analyze(ctx context.Context, device string) (report cdrdaoReport) {
	report.device = device
	report.tocFile = filepath.Join(c.tocDir, "cdrip-"+uuid.NewString()+".toc")
	defer func() {
		if err := os.Remove(report.tocFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			report.cleanupErr = err
		}
	}()

	output, err := c.exec.Run(ctx, cdrdaoBinary, []string{"read-toc", "--device", device, report.tocFile})
	if status, failed := classifyOutput(output, err, cdrdaoBinary, device, cdrdaoFailures); failed {
		report.status = status
		report.lines = []string{cdrdaoFailureLine(status, device)}
		return report
	}

	data, err := c.files.ReadFile(report.tocFile)
	if err != nil {
		report.status = statusError(fmt.Sprintf("read toc file: %v", err))
		report.lines = []string{"Error: cdrdao did not produce a TOC file."}
		return report
	}

	report.info = parseCdrdaoTOC(string(data))
	g, err := report.info.geometry()
	if err != nil {
		report.status = statusError(err.Error())
		report.lines = []string{"Error: cdrdao produced an inconsistent TOC."}
		return report
	}

	report.status = statusOK()
	report.geometry = g
	report.anomalies = report.info.anomalies()
	report.lines = []string{cdrdaoHeader, cdrdaoPatience}
	if len(report.anomalies) == 0 {
		report.lines = append(report.lines, cdrdaoNothingSeen)
	} else {
		report.lines = append(report.lines, report.anomalies...)
	}
	return report
}

func (c *Cdrdao) logReport(report cdrdaoReport) {
	if report.cleanupErr != nil {
		c.logger.Debug("remove cdrdao toc file failed",
			logging.String("path", report.tocFile), logging.Error(report.cleanupErr))
	}
	for _, line := range report.anomalies {
		c.logger.Debug(strings.TrimSpace(line), logging.Device(report.device))
	}
	logScanResult(c.logger, cdrdaoBinary, report.device, report.status, report.geometry)
}

func cdrdaoFailureLine(status ScanStatus, device string) string {
	switch status.Code {
	case StatusNotInstalled:
		return "Error: cdrdao is required, but not detected on your system!"
	case StatusNoDiscInDrive:
		return fmt.Sprintf("Error: There is no audio disc ready in drive %s.", device)
	case StatusWrongParameters:
		return "Error: cdrdao does not recognize the parameters used."
	case StatusUnknownDrive:
		return fmt.Sprintf("Error: The device %s doesn't exist on your system!", device)
	default:
		return fmt.Sprintf("Error: cdrdao failed: %s", status.Detail)
	}
}

func (c *Cdrdao) analyzed(op string) error {
	if !c.status.OK() {
		return fmt.Errorf("%s: %w", op, ErrNotScanned)
	}
	return nil
}

// DataTracks lists the tracks cdrdao marks with a non-audio mode.
func (c *Cdrdao) DataTracks() ([]int, error) {
	if err := c.analyzed("DataTracks"); err != nil {
		return nil, err
	}
	out := []int{}
	for _, number := range c.info.order {
		if c.info.tracks[number].data {
			out = append(out, number)
		}
	}
	return out, nil
}

// Tracks is the highest track number in the TOC file.
func (c *Cdrdao) Tracks() (int, error) {
	if err := c.analyzed("Tracks"); err != nil {
		return 0, err
	}
	return c.info.highest, nil
}

// SilenceSectors is the length of the silence that precedes the first track.
func (c *Cdrdao) SilenceSectors() int { return c.info.silence }

// PregapSectors is the pregap length of track, zero when absent.
func (c *Cdrdao) PregapSectors(track int) int { return c.info.track(track).pregap }

// PreEmphasis reports whether track was mastered with pre-emphasis.
func (c *Cdrdao) PreEmphasis(track int) bool { return c.info.track(track).preEmphasis }

// ISRC returns the recording code of track, empty when absent.
func (c *Cdrdao) ISRC(track int) string { return c.info.track(track).isrc }

// DiscType is the session type from the TOC file, e.g. CD_DA.
func (c *Cdrdao) DiscType() string { return c.info.discType }

// Artist is the disc artist from CD-TEXT.
func (c *Cdrdao) Artist() string { return c.info.artist }

// Album is the disc title from CD-TEXT.
func (c *Cdrdao) Album() string { return c.info.album }

// TrackName is the CD-TEXT title of track.
func (c *Cdrdao) TrackName(track int) string { return c.info.track(track).title }

// VarArtist is the CD-TEXT performer of track. A non-empty value marks a
// various-artists disc.
func (c *Cdrdao) VarArtist(track int) string { return c.info.track(track).performer }

type cdrdaoTrack struct {
	data        bool
	preEmphasis bool
	pregap      int
	isrc        string
	title       string
	performer   string
	length      int
}

type cdrdaoTOC struct {
	discType string
	silence  int
	artist   string
	album    string
	highest  int
	order    []int
	tracks   map[int]*cdrdaoTrack
}

func (t *cdrdaoTOC) track(number int) cdrdaoTrack {
	if tr, ok := t.tracks[number]; ok {
		return *tr
	}
	return cdrdaoTrack{}
}

func (t *cdrdaoTOC) open(number int) *cdrdaoTrack {
	if t.tracks == nil {
		t.tracks = make(map[int]*cdrdaoTrack)
	}
	if tr, ok := t.tracks[number]; ok {
		return tr
	}
	tr := &cdrdaoTrack{}
	t.tracks[number] = tr
	t.order = append(t.order, number)
	if number > t.highest {
		t.highest = number
	}
	return tr
}

// anomalies renders the human-readable findings in disc order.
func (t *cdrdaoTOC) anomalies() []string {
	var lines []string
	if t.silence > 0 {
		lines = append(lines, fmt.Sprintf("Silence detected for disc : %d sectors\n", t.silence))
	}
	order := append([]int(nil), t.order...)
	sort.Ints(order)
	for _, number := range order {
		tr := t.tracks[number]
		if tr.pregap > 0 {
			lines = append(lines, fmt.Sprintf("Pregap detected for track %d : %d sectors\n", number, tr.pregap))
		}
		if tr.preEmphasis {
			lines = append(lines, fmt.Sprintf("Pre_emphasis detected for track %d\n", number))
		}
	}
	for _, number := range order {
		if t.tracks[number].data {
			lines = append(lines, fmt.Sprintf("Track %d is marked as a DATA track\n", number))
		}
	}
	return lines
}

// geometry lays out the tracks from their FILE, DATAFILE, SILENCE and ZERO
// lengths. A pregap belongs to the track in the TOC file but precedes the
// track's index 1, so it moves the start and shortens the length. When any
// track lacks a length the TOC carries no usable geometry and an empty one
// is returned.
func (t *cdrdaoTOC) geometry() (*toc.Geometry, error) {
	order := append([]int(nil), t.order...)
	sort.Ints(order)
	tracks := make([]toc.Track, 0, len(order))
	cumulative := 0
	for _, number := range order {
		tr := t.tracks[number]
		if tr.length <= tr.pregap {
			return toc.NewGeometry(nil, 0)
		}
		tracks = append(tracks, toc.Track{
			Number:       number,
			StartSector:  cumulative + tr.pregap,
			LengthSector: tr.length - tr.pregap,
			IsData:       tr.data,
		})
		cumulative += tr.length
	}
	return toc.NewGeometry(tracks, cumulative)
}
