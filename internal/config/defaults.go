package config

const (
	defaultConfigPath                  = "~/.config/cdrip/config.toml"
	defaultStateDir                    = "~/.local/share/cdrip"
	defaultLogDir                      = "~/.local/share/cdrip/logs"
	defaultDevice                      = "/dev/cdrom"
	defaultScanTimeout                 = 120
	defaultReadyTimeout                = 60
	defaultRipHiddenAudio              = true
	defaultMinLengthHiddenTrackSeconds = 2.0
	defaultHistoryEnabled              = true
	defaultHistoryFile                 = "history.db"
	defaultLogFormat                   = "console"
	defaultLogLevel                    = "info"

	// maxReadOffsetFrames is ten sectors worth of sample frames.
	maxReadOffsetFrames = 10 * 588

	deviceEnvVar = "CDRIP_DEVICE"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Drive: Drive{
			Device:       defaultDevice,
			ScanTimeout:  defaultScanTimeout,
			ReadyTimeout: defaultReadyTimeout,
		},
		Rip: Rip{
			RipHiddenAudio:              defaultRipHiddenAudio,
			MinLengthHiddenTrackSeconds: defaultMinLengthHiddenTrackSeconds,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
