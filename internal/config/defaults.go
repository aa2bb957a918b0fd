package config

const (
	defaultConfigPath        = "~/.config/exifdeck/config.toml"
	defaultStateDir          = "~/.local/share/exifdeck"
	defaultTemplatesFile     = "~/.config/exifdeck/templates.json"
	defaultReadTimeout       = 60
	defaultWriteTimeout      = 120
	defaultOverwriteOriginal = true
	defaultConcurrency       = 4
	maxConcurrency           = 64
	defaultRetentionDays     = 90
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"

	// EnvExiftool overrides exiftool.binary.
	EnvExiftool = "EXIFDECK_EXIFTOOL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:      defaultStateDir,
			TemplatesFile: defaultTemplatesFile,
		},
		Exiftool: Exiftool{
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			OverwriteOriginal: defaultOverwriteOriginal,
		},
		Batch: Batch{
			Concurrency: defaultConcurrency,
		},
		History: History{
			RetentionDays: defaultRetentionDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
