package disc

import (
	"context"
	"fmt"
	"log/slog"

	"cdrip/internal/logging"
	"cdrip/internal/toc"
)

// TOCReader is the geometry surface shared by every scanner and by Disc,
// which forwards it to its primary scanner. Accessors fail with ErrNotScanned
// until a scan succeeds and with toc.ErrNoSuchTrack for unknown tracks.
// Passing toc.ImageTrack selects the whole disc.
type TOCReader interface {
	Status() ScanStatus
	Geometry() (*toc.Geometry, error)
	StartSector(track int) (int, error)
	LengthSector(track int) (int, error)
	LengthText(track int) (string, error)
	FileSize(track int) (int64, error)
	TotalSectors() (int, error)
	AudioTracks() (int, error)
	FirstAudioTrack() (int, error)
	DataTracks() ([]int, error)
	Tracks() (int, error)
	Playtime() (string, error)
}

// Scanner reads a TOC from the drive with one external tool.
type Scanner interface {
	TOCReader
	Scan(ctx context.Context, device string) (ScanStatus, *toc.Geometry)
}

// PrimaryScanner is the scanner a Disc forwards geometry queries to.
type PrimaryScanner interface {
	Scanner
	DeviceName() string
}

// tocState holds the outcome of the latest scan and implements TOCReader
// for the scanners that embed it.
type tocState struct {
	status     ScanStatus
	geometry   *toc.Geometry
	lengthText func(sectors int) string
}

func newTOCState(lengthText func(int) string) tocState {
	return tocState{lengthText: lengthText}
}

func (s *tocState) reset() {
	s.status = ScanStatus{}
	s.geometry = nil
}

func (s *tocState) succeed(g *toc.Geometry) {
	s.status = statusOK()
	s.geometry = g
}

func (s *tocState) fail(status ScanStatus) {
	s.status = status
	s.geometry = nil
}

func (s *tocState) ready(op string) (*toc.Geometry, error) {
	if !s.status.OK() || s.geometry == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotScanned)
	}
	return s.geometry, nil
}

func (s *tocState) track(op string, number int) (toc.Track, error) {
	g, err := s.ready(op)
	if err != nil {
		return toc.Track{}, err
	}
	t, ok := g.Track(number)
	if !ok {
		return toc.Track{}, fmt.Errorf("%s: track %d: %w", op, number, toc.ErrNoSuchTrack)
	}
	return t, nil
}

// Status reports the outcome of the latest scan.
func (s *tocState) Status() ScanStatus {
	return s.status
}

// Geometry returns the scanned geometry.
func (s *tocState) Geometry() (*toc.Geometry, error) {
	return s.ready("Geometry")
}

// StartSector returns the first sector of track.
func (s *tocState) StartSector(track int) (int, error) {
	t, err := s.track("StartSector", track)
	if err != nil {
		return 0, err
	}
	return t.StartSector, nil
}

// LengthSector returns the number of sectors in track.
func (s *tocState) LengthSector(track int) (int, error) {
	t, err := s.track("LengthSector", track)
	if err != nil {
		return 0, err
	}
	return t.LengthSector, nil
}

// LengthText renders the length of track in the scanner's notation.
func (s *tocState) LengthText(track int) (string, error) {
	t, err := s.track("LengthText", track)
	if err != nil {
		return "", err
	}
	return s.lengthText(t.LengthSector), nil
}

// FileSize is the size of a WAV file holding track.
func (s *tocState) FileSize(track int) (int64, error) {
	t, err := s.track("FileSize", track)
	if err != nil {
		return 0, err
	}
	return toc.FileSize(t.LengthSector), nil
}

func (s *tocState) TotalSectors() (int, error) {
	g, err := s.ready("TotalSectors")
	if err != nil {
		return 0, err
	}
	return g.TotalSectors(), nil
}

func (s *tocState) AudioTracks() (int, error) {
	g, err := s.ready("AudioTracks")
	if err != nil {
		return 0, err
	}
	return g.AudioTracks(), nil
}

func (s *tocState) FirstAudioTrack() (int, error) {
	g, err := s.ready("FirstAudioTrack")
	if err != nil {
		return 0, err
	}
	n, ok := g.FirstAudioTrack()
	if !ok {
		return 0, fmt.Errorf("FirstAudioTrack: no audio track: %w", toc.ErrNoSuchTrack)
	}
	return n, nil
}

func (s *tocState) DataTracks() ([]int, error) {
	g, err := s.ready("DataTracks")
	if err != nil {
		return nil, err
	}
	return g.DataTracks(), nil
}

// Tracks counts all TOC entries, audio and data.
func (s *tocState) Tracks() (int, error) {
	g, err := s.ready("Tracks")
	if err != nil {
		return 0, err
	}
	return g.NumTracks(), nil
}

// Playtime renders the disc length as mm:ss.
func (s *tocState) Playtime() (string, error) {
	g, err := s.ready("Playtime")
	if err != nil {
		return "", err
	}
	return g.Playtime(), nil
}

func logScanResult(logger *slog.Logger, tool, device string, status ScanStatus, g *toc.Geometry) {
	if status.OK() {
		attrs := []logging.Attr{logging.Device(device)}
		if g != nil {
			attrs = append(attrs,
				logging.Int("tracks", g.NumTracks()),
				logging.Int("audio_tracks", g.AudioTracks()),
				logging.Int("total_sectors", g.TotalSectors()),
			)
		}
		logger.Info(tool+" scan complete", logging.Args(attrs...)...)
		return
	}
	logging.WarnWithContext(logger, tool+" scan failed", "scan_failed",
		logging.Device(device),
		logging.Status(status),
		logging.String(logging.FieldErrorHint, status.Message()),
	)
}
