package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cdrip/internal/disc"
	"cdrip/internal/discid"
	"cdrip/internal/history"
	"cdrip/internal/logging"
	"cdrip/internal/services"
	"cdrip/internal/toc"
)

type scanOptions struct {
	// cdtext asks cdrdao for CD-TEXT once the primary scan succeeds.
	cdtext bool
	// analysisLog, when set, receives the cdrdao analysis lines. The
	// analysis runs while the primary scan is in progress.
	analysisLog io.Writer
}

// scanReport is the serialisable outcome of one scan.
type scanReport struct {
	SessionID       string           `json:"session_id"`
	Device          string           `json:"device"`
	DriveModel      string           `json:"drive_model,omitempty"`
	Status          disc.ScanStatus  `json:"status"`
	Message         string           `json:"message"`
	Tracks          []toc.Track      `json:"tracks,omitempty"`
	TotalSectors    int              `json:"total_sectors,omitempty"`
	AudioTracks     int              `json:"audio_tracks,omitempty"`
	DataTracks      []int            `json:"data_tracks,omitempty"`
	Playtime        string           `json:"playtime,omitempty"`
	FreedbID        string           `json:"freedb_id,omitempty"`
	FreedbQuery     string           `json:"freedb_query,omitempty"`
	MusicbrainzID   string           `json:"musicbrainz_id,omitempty"`
	MusicbrainzPath string           `json:"musicbrainz_lookup_path,omitempty"`
	Metadata        *discid.Metadata `json:"metadata,omitempty"`
	Analysis        *disc.ScanStatus `json:"analysis,omitempty"`
}

type scanSession struct {
	disc   *disc.Disc
	cdrdao *disc.Cdrdao
	report scanReport
}

// scanDrive locks the drive, scans it and records the attempt. A non-ok
// scan status is returned as an error after it has been recorded.
func (c *commandContext) scanDrive(ctx context.Context, logger *slog.Logger, opts scanOptions) (*scanSession, error) {
	device := c.device()
	lock, err := disc.LockDrive(c.config.LockDir(), device)
	if err != nil {
		if errors.Is(err, disc.ErrDriveBusy) {
			return nil, services.Wrap(services.ErrTransient, "disc", "lock", "another cdrip process is using the drive", err)
		}
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Debug("drive unlock failed", logging.Error(err))
		}
	}()

	if err := disc.CheckDeviceAccess(device); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "disc", "access", fmt.Sprintf("cannot read %s", device), err)
	}

	session := &scanSession{disc: c.newDisc(logger)}

	var task *disc.CdrdaoTask
	if opts.analysisLog != nil {
		session.cdrdao = c.newCdrdao(logger)
		task = session.cdrdao.ScanInBackground(ctx, device)
	}

	var provider disc.MetadataProvider
	if opts.cdtext && task == nil {
		provider = disc.CDTextProvider{Cdrdao: c.newCdrdao(logger)}
	}

	status, err := session.disc.Scan(ctx, provider)
	if err != nil {
		logging.WarnWithContext(logger, "cd-text lookup failed", "cdtext_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "scan continues without album metadata"),
		)
	}

	report := scanReport{
		SessionID: sessionID(ctx),
		Device:    device,
		Status:    status,
		Message:   status.Message(),
	}

	if task != nil {
		analysis, err := task.Join(opts.analysisLog)
		if err != nil {
			return nil, err
		}
		report.Analysis = &analysis
		if analysis.OK() && opts.cdtext {
			report.Metadata = session.cdrdao.Metadata()
		}
	}

	if status.OK() {
		fillReport(&report, session.disc, logger)
		if provider != nil {
			report.Metadata = session.disc.Metadata()
		}
	}
	session.report = report

	c.recordScan(ctx, logger, report)

	if !status.OK() {
		return session, status.Err()
	}
	return session, nil
}

func fillReport(report *scanReport, d *disc.Disc, logger *slog.Logger) {
	report.DriveModel = d.DeviceName()
	if g, err := d.Geometry(); err == nil {
		report.Tracks = g.Tracks()
		report.TotalSectors = g.TotalSectors()
		report.AudioTracks = g.AudioTracks()
		report.Playtime = g.Playtime()
	}
	if g, err := d.IDGeometry(); err == nil {
		report.DataTracks = g.DataTracks()
	}

	var err error
	if report.FreedbID, err = d.FreedbDiscID(); err != nil {
		logger.Warn("freedb id unavailable", logging.Error(err))
	}
	report.FreedbQuery, _ = d.FreedbString()
	if report.MusicbrainzID, err = d.MusicbrainzDiscID(); err != nil {
		logger.Warn("musicbrainz id unavailable", logging.Error(err))
	}
	report.MusicbrainzPath, _ = d.MusicbrainzLookupPath()
}

// recordScan stores the attempt in the history database. Failures are
// logged; the scan result stands on its own.
func (c *commandContext) recordScan(ctx context.Context, logger *slog.Logger, report scanReport) {
	if !c.config.History.Enabled {
		return
	}
	store, err := history.Open(c.config.History.Path)
	if err != nil {
		logging.WarnWithContext(logger, "open scan history failed", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "scan not recorded"),
		)
		return
	}
	defer store.Close()

	entry := history.Entry{
		SessionID:     report.SessionID,
		Device:        report.Device,
		Status:        string(report.Status.Code),
		Detail:        report.Status.Detail,
		FreedbID:      report.FreedbID,
		MusicbrainzID: report.MusicbrainzID,
		AudioTracks:   report.AudioTracks,
		TotalSectors:  report.TotalSectors,
		ScannedAt:     time.Now(),
	}
	if _, err := store.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "record scan failed", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "scan not recorded"),
		)
	}
}

func sessionID(ctx context.Context) string {
	id, _ := services.RequestIDFromContext(ctx)
	return id
}
