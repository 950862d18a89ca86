package disc

import (
	"context"
	"fmt"
	"log/slog"

	"cdrip/internal/discid"
	"cdrip/internal/logging"
	"cdrip/internal/toc"
)

// Dependencies reports which external tools are installed.
type Dependencies interface {
	Installed(name string) bool
}

// FreedbCalculator derives a freedb id from geometry.
type FreedbCalculator interface {
	Calculate(g *toc.Geometry) (discid.FreedbID, error)
}

// MusicbrainzCalculator derives a MusicBrainz id from geometry.
type MusicbrainzCalculator interface {
	Calculate(g *toc.Geometry) (discid.MusicbrainzID, error)
}

// MetadataProvider looks up album metadata once a disc has been scanned.
type MetadataProvider interface {
	Get(ctx context.Context, d *Disc) (*discid.Metadata, error)
}

// AdvancedScanners are the optional scanners preferred for disc ids.
type AdvancedScanners struct {
	CdInfo    Scanner
	CdControl Scanner
}

// IDCalculators groups the disc id collaborators.
type IDCalculators struct {
	Freedb      FreedbCalculator
	Musicbrainz MusicbrainzCalculator
}

// Disc combines the primary scanner with the best available advanced
// scanner. Geometry queries go to the primary scanner through the embedded
// TOCReader; disc ids are computed from the advanced geometry, which also
// lists data tracks.
type Disc struct {
	TOCReader

	device   string
	primary  PrimaryScanner
	advanced AdvancedScanners
	ids      IDCalculators
	deps     Dependencies
	logger   *slog.Logger

	idGeometry *toc.Geometry
	metadata   *discid.Metadata
}

var _ TOCReader = (*Disc)(nil)

// NewDisc wires a Disc for device.
func NewDisc(device string, primary PrimaryScanner, advanced AdvancedScanners, ids IDCalculators, deps Dependencies, logger *slog.Logger) *Disc {
	if ids.Freedb == nil {
		ids.Freedb = discid.FreedbCalculator{}
	}
	if ids.Musicbrainz == nil {
		ids.Musicbrainz = discid.MusicbrainzCalculator{}
	}
	return &Disc{
		TOCReader: primary,
		device:    device,
		primary:   primary,
		advanced:  advanced,
		ids:       ids,
		deps:      deps,
		logger:    logging.NewComponentLogger(logger, "disc"),
	}
}

// Device is the drive path the disc is read from.
func (d *Disc) Device() string { return d.device }

// DeviceName is the drive model reported by the primary scanner.
func (d *Disc) DeviceName() string { return d.primary.DeviceName() }

// Metadata is the result of the provider passed to Scan, nil when none ran.
func (d *Disc) Metadata() *discid.Metadata { return d.metadata }

// AdvancedTocScanner picks cd-info, then cdcontrol, then the primary
// scanner, depending on which tools are installed.
func (d *Disc) AdvancedTocScanner() Scanner {
	if d.deps != nil {
		if d.advanced.CdInfo != nil && d.deps.Installed(cdInfoBinary) {
			return d.advanced.CdInfo
		}
		if d.advanced.CdControl != nil && d.deps.Installed(cdControlBinary) {
			return d.advanced.CdControl
		}
	}
	return d.primary
}

// Scan reads the disc with the primary scanner. When a disc is found the
// advanced scanner refines the geometry used for disc ids and provider, if
// not nil, is asked for metadata exactly once. A non-ok status is returned
// without error; the error reports metadata lookup failures.
func (d *Disc) Scan(ctx context.Context, provider MetadataProvider) (ScanStatus, error) {
	d.idGeometry = nil
	d.metadata = nil

	status, geometry := d.primary.Scan(ctx, d.device)
	if !status.OK() {
		return status, nil
	}
	d.idGeometry = geometry

	if scanner := d.AdvancedTocScanner(); scanner != Scanner(d.primary) {
		advStatus, advGeometry := scanner.Scan(ctx, d.device)
		switch {
		case !advStatus.OK():
			logging.WarnWithContext(d.logger, "advanced toc scan failed", "advanced_scan_failed",
				logging.Device(d.device),
				logging.Status(advStatus),
				logging.String(logging.FieldImpact, "disc ids use the primary geometry"),
			)
		case advGeometry == nil || advGeometry.NumTracks() == 0:
			logging.WarnWithContext(d.logger, "advanced toc scan found no tracks", "advanced_scan_empty",
				logging.Device(d.device),
				logging.String(logging.FieldImpact, "disc ids use the primary geometry"),
			)
		default:
			d.idGeometry = advGeometry
		}
	}

	if provider == nil {
		return status, nil
	}
	md, err := provider.Get(ctx, d)
	if err != nil {
		return status, fmt.Errorf("metadata lookup: %w", err)
	}
	d.metadata = md
	return status, nil
}

// IDGeometry is the geometry disc ids are computed from.
func (d *Disc) IDGeometry() (*toc.Geometry, error) {
	if d.idGeometry == nil {
		return nil, fmt.Errorf("IDGeometry: %w", ErrNotScanned)
	}
	return d.idGeometry, nil
}

func (d *Disc) freedb(op string) (discid.FreedbID, error) {
	g, err := d.IDGeometry()
	if err != nil {
		return discid.FreedbID{}, fmt.Errorf("%s: %w", op, ErrNotScanned)
	}
	return d.ids.Freedb.Calculate(g)
}

func (d *Disc) musicbrainz(op string) (discid.MusicbrainzID, error) {
	g, err := d.IDGeometry()
	if err != nil {
		return discid.MusicbrainzID{}, fmt.Errorf("%s: %w", op, ErrNotScanned)
	}
	return d.ids.Musicbrainz.Calculate(g)
}

// FreedbString is the cddb query argument list of the disc.
func (d *Disc) FreedbString() (string, error) {
	id, err := d.freedb("FreedbString")
	if err != nil {
		return "", err
	}
	return id.Query, nil
}

// FreedbDiscID is the eight hex digit freedb id.
func (d *Disc) FreedbDiscID() (string, error) {
	id, err := d.freedb("FreedbDiscID")
	if err != nil {
		return "", err
	}
	return id.DiscID, nil
}

// MusicbrainzLookupPath is the web service path resolving the disc id.
func (d *Disc) MusicbrainzLookupPath() (string, error) {
	id, err := d.musicbrainz("MusicbrainzLookupPath")
	if err != nil {
		return "", err
	}
	return id.LookupPath, nil
}

// MusicbrainzDiscID is the MusicBrainz disc id.
func (d *Disc) MusicbrainzDiscID() (string, error) {
	id, err := d.musicbrainz("MusicbrainzDiscID")
	if err != nil {
		return "", err
	}
	return id.DiscID, nil
}
