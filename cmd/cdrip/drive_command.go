package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdrip/internal/disc"
	"cdrip/internal/services"
)

type driveStatusReport struct {
	Device string `json:"device"`
	Status string `json:"status"`
	Code   int    `json:"code"`
}

func newDriveCommand(ctx *commandContext) *cobra.Command {
	driveCmd := &cobra.Command{
		Use:   "drive",
		Short: "Optical drive utilities",
	}
	driveCmd.AddCommand(newDriveStatusCommand(ctx))
	driveCmd.AddCommand(newDriveEjectCommand(ctx))
	return driveCmd
}

func newDriveStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the tray state of the drive",
		RunE: func(cmd *cobra.Command, args []string) error {
			device := ctx.device()
			status, err := disc.CheckDriveStatus(device)
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "drive", "status", device, err)
			}
			report := driveStatusReport{Device: device, Status: status.String(), Code: int(status)}
			return ctx.emit(cmd, report, func() error {
				out := cmd.OutOrStdout()
				printLines(out, renderStatusLine(device, driveStatusKind(status), report.Status, shouldColorize(out)))
				return nil
			})
		},
	}
}

func newDriveEjectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "eject",
		Short: "Open the drive tray",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, logger, err := ctx.session(cmd)
			if err != nil {
				return err
			}
			device := ctx.device()
			lock, err := disc.LockDrive(ctx.config.LockDir(), device)
			if err != nil {
				return services.Wrap(services.ErrTransient, "drive", "eject", "drive is in use", err)
			}
			defer lock.Unlock()

			if err := disc.NewEjector(ctx.executor()).Eject(runCtx, device); err != nil {
				return services.Wrap(services.ErrExternalTool, "drive", "eject", "", err)
			}
			logger.Info("tray ejected")
			if !ctx.jsonMode() {
				fmt.Fprintf(cmd.OutOrStdout(), "Ejected %s\n", device)
			}
			return nil
		},
	}
}
