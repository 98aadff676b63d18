package ui

// Config contains TUI configuration, populated from the config file, flags,
// and VOKABEL_* environment variables.
type Config struct {
	DeckPath string  `env:"DECK_PATH" yaml:"deck-path"`
	Language string  `env:"LANGUAGE" yaml:"language"`
	Engine   string  `env:"ENGINE" yaml:"engine"`
	Voice    string  `env:"VOICE" yaml:"voice"`
	Rate     float64 `env:"RATE" yaml:"rate"`
	Pitch    float64 `env:"PITCH" yaml:"pitch"`
	Volume   float64 `env:"VOLUME" yaml:"volume"`

	AutoSpeak bool `env:"AUTO_SPEAK" yaml:"auto-speak"`

	CacheDir string `env:"CACHE_DIR" yaml:"cache-dir"`
	DataDir  string `env:"DATA_DIR" yaml:"data-dir"`

	EnableMouse bool `env:"ENABLE_MOUSE" yaml:"mouse"`

	// For debugging the UI.
	Logfile string `env:"LOGFILE"`
}
