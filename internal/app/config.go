package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sweepscan/internal/model"
	"sweepscan/internal/patterns"
	"sweepscan/internal/saver"
	"sweepscan/internal/sec"
)

// Config is the application configuration: YAML file first, environment
// overrides second. Secrets normally arrive through the environment only.
type Config struct {
	Provider     string `yaml:"provider"`      // polygon | tiingo
	TickersFile  string `yaml:"tickers_file"`  // optional .txt/.json symbol list
	DataDir      string `yaml:"data_dir"`
	ReportsDir   string `yaml:"reports_dir"`
	SaveFormat   string `yaml:"save_format"`   // csv | parquet | json
	ReportFormat string `yaml:"report_format"` // csv | xlsx
	LogLevel     string `yaml:"log_level"`     // debug | info | warn | error
	LogFormat    string `yaml:"log_format"`    // text | json

	PolygonAPIKeys []string `yaml:"polygon_api_keys"`
	TiingoAPIKey   string   `yaml:"tiingo_api_key"`

	Timeframe   string           `yaml:"timeframe"`
	SessionTZ   string           `yaml:"session_tz"`
	SessionOnly bool             `yaml:"session_only"`
	ATRPeriod   int              `yaml:"atr_period"`
	RVolPeriod  int              `yaml:"rvol_period"`
	BOSBuffer   float64          `yaml:"bos_buffer"`
	Weights     patterns.Weights `yaml:"weights"`

	// PacketDir keeps the provider's own fetch packets when set. Separate
	// from the raw/clean pipeline output under DataDir.
	PacketDir    string `yaml:"packet_dir"`
	PacketPerDay bool   `yaml:"packet_per_day"`

	RunHour   int `yaml:"run_hour"`
	RunMinute int `yaml:"run_minute"`

	SEC struct {
		UserAgent  string        `yaml:"user_agent"`
		CacheDir   string        `yaml:"cache_dir"`
		FilingsDir string        `yaml:"filings_dir"`
		Companies  []sec.Company `yaml:"companies"`
	} `yaml:"sec"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	WatchlistPath string `yaml:"watchlist_path"`
}

func defaultConfig() *Config {
	cfg := &Config{
		Provider:      "polygon",
		DataDir:       "data",
		ReportsDir:    "reports",
		SaveFormat:    "parquet",
		ReportFormat:  "xlsx",
		LogLevel:      "info",
		LogFormat:     "text",
		Timeframe:     "1m",
		SessionTZ:     "America/New_York",
		ATRPeriod:     14,
		RVolPeriod:    20,
		BOSBuffer:     0.1,
		RunHour:       0,
		RunMinute:     30,
		WatchlistPath: "watchlist.json",
	}
	cfg.SEC.CacheDir = ".cache"
	cfg.SEC.FilingsDir = "sec_filings"
	cfg.Server.Addr = "127.0.0.1:8080"
	return cfg
}

// LoadConfig reads path (optional, "" skips the file), overlays the
// environment and validates. The environment wins over the file.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.overlayEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayEnv() {
	c.Provider = getEnv("DATA_PROVIDER", c.Provider)
	c.TickersFile = getEnv("TICKERS_FILE", c.TickersFile)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.SaveFormat = getSaveFormat(c.SaveFormat)
	c.SEC.UserAgent = getEnv("SEC_USER_AGENT", c.SEC.UserAgent)
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.TiingoAPIKey = getEnv("TIINGO_API_KEY", c.TiingoAPIKey)
	if keys := parsePolygonAPIKeys(); len(keys) > 0 {
		c.PolygonAPIKeys = keys
	}
	if h := os.Getenv("SCAN_RUN_HOUR"); h != "" {
		if v, err := strconv.Atoi(h); err == nil && v >= 0 && v <= 23 {
			c.RunHour = v
		}
	}
	if m := os.Getenv("SCAN_RUN_MINUTE"); m != "" {
		if v, err := strconv.Atoi(m); err == nil && v >= 0 && v <= 59 {
			c.RunMinute = v
		}
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Provider) {
	case "polygon", "tiingo":
	default:
		return fmt.Errorf("unsupported data provider %q (use: polygon, tiingo)", c.Provider)
	}
	if saver.NewPacketSaver(c.SaveFormat) == nil {
		return fmt.Errorf("unsupported save format %q (use: csv, parquet, json)", c.SaveFormat)
	}
	switch strings.ToLower(c.ReportFormat) {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("unsupported report format %q (use: csv, xlsx)", c.ReportFormat)
	}
	if _, err := model.ParseTimeframe(c.Timeframe); err != nil {
		return fmt.Errorf("invalid timeframe: %w", err)
	}
	if _, err := time.LoadLocation(c.SessionTZ); err != nil {
		return fmt.Errorf("invalid session_tz %q: %w", c.SessionTZ, err)
	}
	if c.ATRPeriod < 1 || c.RVolPeriod < 1 {
		return fmt.Errorf("indicator periods must be at least 1 (atr=%d, rvol=%d)", c.ATRPeriod, c.RVolPeriod)
	}
	if c.BOSBuffer < 0 {
		return fmt.Errorf("bos_buffer must not be negative, got %v", c.BOSBuffer)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getSaveFormat(def string) string {
	if v := os.Getenv("SAVE_FORMAT"); v != "" {
		return v
	}
	switch os.Getenv("PROFILE") {
	case "dev", "development":
		return "csv"
	default:
		return def
	}
}

func parsePolygonAPIKeys() []string {
	s := os.Getenv("POLYGON_API_KEYS")
	if s == "" {
		s = os.Getenv("POLYGON_API_KEY")
	}
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}
	return keys
}

// ScanTimeframe returns the parsed timeframe. Validation ran at load time.
func (c *Config) ScanTimeframe() model.Timeframe {
	tf, err := model.ParseTimeframe(c.Timeframe)
	if err != nil {
		return model.DefaultTimeframe
	}
	return tf
}

// SessionLocation returns the exchange timezone the session windows are
// defined in. Validation ran at load time.
func (c *Config) SessionLocation() *time.Location {
	loc, err := time.LoadLocation(c.SessionTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RawDir is where raw fetch packets land, one file per symbol.
func (c *Config) RawDir() string {
	return filepath.Join(c.DataDir, "raw")
}

// CleanDir is where enriched packets land, one file per symbol.
func (c *Config) CleanDir() string {
	return filepath.Join(c.DataDir, "clean")
}

// ProgressPath returns the path of the per-symbol scan progress file.
func (c *Config) ProgressPath() string {
	return filepath.Join(c.DataDir, ".lastscan.json")
}

// SummaryJSONPath is the machine-readable summary the dashboard serves.
func (c *Config) SummaryJSONPath() string {
	return filepath.Join(c.ReportsDir, "summary.json")
}
