package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cdrip/internal/config"
	"cdrip/internal/deps"
	"cdrip/internal/disc"
	"cdrip/internal/logging"
	"cdrip/internal/services"
)

type commandContext struct {
	configFlag *string
	deviceFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, deviceFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		deviceFlag: deviceFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "prepare directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// device returns the --device flag when set, the configured drive otherwise.
func (c *commandContext) device() string {
	if c.deviceFlag != nil {
		if value := strings.TrimSpace(*c.deviceFlag); value != "" {
			return value
		}
	}
	if c.config != nil {
		return c.config.Drive.Device
	}
	return ""
}

func (c *commandContext) jsonMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// session annotates the command context with a fresh request id and the
// drive, and returns a logger carrying both.
func (c *commandContext) session(cmd *cobra.Command) (context.Context, *slog.Logger, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithRequestID(ctx, uuid.NewString())
	ctx = services.WithDevice(ctx, c.device())
	return ctx, logging.WithContext(ctx, logger), nil
}

func (c *commandContext) executor() disc.Executor {
	timeout := c.config.ScanTimeout()
	return disc.WithTimeout(disc.NewCommandExecutor(), timeout)
}

// newDisc wires the primary and advanced scanners for the selected drive.
func (c *commandContext) newDisc(logger *slog.Logger) *disc.Disc {
	exec := c.executor()
	advanced := disc.AdvancedScanners{
		CdInfo:    disc.NewCdInfo(exec, logger),
		CdControl: disc.NewCdControl(exec, logger),
	}
	return disc.NewDisc(c.device(), disc.NewCdparanoia(exec, logger), advanced, disc.IDCalculators{}, deps.PathLookup{}, logger)
}

func (c *commandContext) newCdrdao(logger *slog.Logger) *disc.Cdrdao {
	return disc.NewCdrdao(c.executor(), disc.NewFileReader(), c.config.TOCDir(), logger)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
