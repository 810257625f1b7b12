package model

// AppConfig holds application-wide preferences and default settings.
// Every field can be overridden from the environment (BARCUT_*).
type AppConfig struct {
	// Default optimizer settings applied to new runs
	DefaultStockLength    float64   `json:"default_stock_length" yaml:"default_stock_length" env:"BARCUT_STOCK_LENGTH" env-default:"12"`
	DefaultToleranceMM    int       `json:"default_tolerance_mm" yaml:"default_tolerance_mm" env:"BARCUT_TOLERANCE_MM" env-default:"5"`
	DefaultLapFactor      int       `json:"default_lap_factor" yaml:"default_lap_factor" env:"BARCUT_LAP_FACTOR" env-default:"40"`
	DefaultEnableSplicing bool      `json:"default_enable_splicing" yaml:"default_enable_splicing" env:"BARCUT_SPLICING" env-default:"false"`
	StockLengths          []float64 `json:"stock_lengths" yaml:"stock_lengths" env:"BARCUT_STOCK_LENGTHS" env-default:"10,12"`

	// Extraction
	GeminiModel  string `json:"gemini_model" yaml:"gemini_model" env:"BARCUT_GEMINI_MODEL" env-default:"gemini-2.5-flash"`
	GeminiAPIKey string `json:"-" yaml:"-" env:"GEMINI_API_KEY"`

	// Service
	Env            string   `json:"env" yaml:"env" env:"BARCUT_ENV" env-default:"local"`
	LogLevel       string   `json:"log_level" yaml:"log_level" env:"BARCUT_LOG_LEVEL" env-default:"info"`
	HTTPAddress    string   `json:"http_address" yaml:"http_address" env:"BARCUT_HTTP_ADDRESS" env-default:"localhost:4001"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" env:"BARCUT_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
	CacheSize      int      `json:"cache_size" yaml:"cache_size" env:"BARCUT_CACHE_SIZE" env-default:"256"`

	Archive ArchiveConfig `json:"archive" yaml:"archive"`

	RecentProjects []string `json:"recent_projects" yaml:"recent_projects"`
}

// ArchiveConfig points at an S3-compatible bucket for generated reports.
type ArchiveConfig struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint" env:"BARCUT_ARCHIVE_ENDPOINT"`
	Region    string `json:"region" yaml:"region" env:"BARCUT_ARCHIVE_REGION" env-default:"us-east-1"`
	AccessKey string `json:"-" yaml:"-" env:"BARCUT_ARCHIVE_ACCESS_KEY"`
	SecretKey string `json:"-" yaml:"-" env:"BARCUT_ARCHIVE_SECRET_KEY"`
	Bucket    string `json:"bucket" yaml:"bucket" env:"BARCUT_ARCHIVE_BUCKET" env-default:"barcut-reports"`
	UseSSL    bool   `json:"use_ssl" yaml:"use_ssl" env:"BARCUT_ARCHIVE_USE_SSL" env-default:"true"`
}

// Enabled reports whether enough is configured to upload.
func (a ArchiveConfig) Enabled() bool {
	return a.Endpoint != "" && a.AccessKey != "" && a.SecretKey != "" && a.Bucket != ""
}

// DefaultAppConfig returns an AppConfig populated with defaults matching
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultStockLength:    defaults.StockLength,
		DefaultToleranceMM:    defaults.ToleranceMM,
		DefaultLapFactor:      defaults.LapFactor,
		DefaultEnableSplicing: defaults.EnableSplicing,
		StockLengths:          append([]float64(nil), StandardStockLengths...),
		GeminiModel:           "gemini-2.5-flash",
		Env:                   "local",
		LogLevel:              "info",
		HTTPAddress:           "localhost:4001",
		AllowedOrigins:        []string{"http://localhost:5173"},
		CacheSize:             256,
		Archive: ArchiveConfig{
			Region: "us-east-1",
			Bucket: "barcut-reports",
			UseSSL: true,
		},
		RecentProjects: []string{},
	}
}

// Settings builds run settings from the configured defaults.
func (c AppConfig) Settings() Settings {
	s := DefaultSettings()
	c.ApplyToSettings(&s)
	return s
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if c.DefaultStockLength > 0 {
		s.StockLength = c.DefaultStockLength
	}
	s.ToleranceMM = c.DefaultToleranceMM
	s.LapFactor = c.DefaultLapFactor
	s.EnableSplicing = c.DefaultEnableSplicing
}

// AddRecentProject moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	out := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			out = append(out, p)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	c.RecentProjects = out
}
