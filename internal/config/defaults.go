package config

const (
	defaultDataDir       = "~/.local/share/marquee"
	defaultLogDir        = "~/.local/share/marquee/logs"
	defaultOverridesPath = "~/.config/marquee/overrides.json"
	defaultTMDBLanguage  = "es-MX"
	defaultTMDBBaseURL   = "https://api.themoviedb.org/3"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"

	defaultRequestDelayMS  = 100
	defaultCooldownSeconds = 10
	defaultBurstSize       = 35
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			Language:        defaultTMDBLanguage,
			BaseURL:         defaultTMDBBaseURL,
			RequestDelayMS:  defaultRequestDelayMS,
			CooldownSeconds: defaultCooldownSeconds,
			BurstSize:       defaultBurstSize,
		},
		Overrides: Overrides{
			Path: defaultOverridesPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
