package config

const (
	defaultConfigPath      = "~/.config/slideloop/config.toml"
	defaultStateDir        = "~/.local/share/slideloop"
	defaultLogDir          = "~/.local/share/slideloop/logs"
	defaultTraceDir        = "~/.local/share/slideloop/traces"
	defaultBlurDurationMS  = 2000
	defaultClearDurationMS = 2000
	defaultStorageBackend  = BackendSQLite
	defaultStorageOpMS     = 500
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Timing: Timing{
			BlurDurationMS:  defaultBlurDurationMS,
			ClearDurationMS: defaultClearDurationMS,
		},
		Storage: Storage{
			Backend:     defaultStorageBackend,
			OpTimeoutMS: defaultStorageOpMS,
		},
		Trace: Trace{
			Dir: defaultTraceDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
