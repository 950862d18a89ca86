package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cdrip/internal/disc"
	"cdrip/internal/discmonitor"
	"cdrip/internal/logging"
	"cdrip/internal/services"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var eject bool
	var cdtext bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scan every disc inserted into the drive until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, logger, err := ctx.session(cmd)
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(runCtx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &watcher{ctx: ctx, cmd: cmd, logger: logger, eject: eject, cdtext: cdtext}
			monitor, err := discmonitor.New(ctx.device(), logger, w.handle, w.busy.Load)
			if err != nil {
				return err
			}
			if err := monitor.Start(runCtx); err != nil {
				return err
			}
			defer monitor.Stop()

			if status, err := disc.CheckDriveStatus(ctx.device()); err == nil && status == disc.DriveStatusDiscOK {
				if err := w.handle(runCtx, ctx.device()); err != nil {
					logging.WarnWithContext(logger, "initial scan failed", "watch_scan_failed",
						logging.Error(err),
						logging.String(logging.FieldImpact, "waiting for the next disc"),
					)
				}
			}

			logger.Info("watching for discs", logging.Duration("ready_timeout", ctx.config.ReadyTimeout()))
			<-runCtx.Done()
			logger.Info("watch stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&eject, "eject", false, "Eject the disc after a successful scan")
	cmd.Flags().BoolVar(&cdtext, "cdtext", false, "Read CD-TEXT with cdrdao")
	return cmd
}

type watcher struct {
	ctx    *commandContext
	cmd    *cobra.Command
	logger *slog.Logger
	eject  bool
	cdtext bool
	busy   atomic.Bool
}

// handle scans one inserted disc. Events arriving during a scan are dropped
// by the monitor through busy.
func (w *watcher) handle(ctx context.Context, device string) error {
	if !w.busy.CompareAndSwap(false, true) {
		return nil
	}
	defer w.busy.Store(false)

	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, w.logger)

	status, err := disc.WaitForReady(ctx, device, w.ctx.config.ReadyTimeout())
	if err != nil {
		return services.Wrap(services.ErrTimeout, "watch", "wait for tray", status.String(), err)
	}

	session, scanErr := w.ctx.scanDrive(ctx, logger, scanOptions{cdtext: w.cdtext})
	if session != nil {
		if err := w.ctx.emit(w.cmd, session.report, func() error {
			renderScanSummary(w.cmd.OutOrStdout(), session.report)
			return nil
		}); err != nil {
			return err
		}
	}
	if scanErr != nil {
		return scanErr
	}

	if w.eject {
		if err := disc.NewEjector(w.ctx.executor()).Eject(ctx, device); err != nil {
			return fmt.Errorf("eject after scan: %w", err)
		}
	}
	return nil
}
