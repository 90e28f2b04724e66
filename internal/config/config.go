package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SignalDesk/internal/model"
	"SignalDesk/internal/strategy"
)

// DefaultTickers is the worklist used when the config names none.
var DefaultTickers = []model.Ticker{
	{Symbol: "AAPL", Name: "Apple"},
	{Symbol: "MSFT", Name: "Microsoft"},
	{Symbol: "NVDA", Name: "Nvidia"},
	{Symbol: "GOOGL", Name: "Alphabet (Google)"},
	{Symbol: "AMZN", Name: "Amazon"},
	{Symbol: "META", Name: "Meta Platforms"},
	{Symbol: "TSM", Name: "TSMC"},
	{Symbol: "TSLA", Name: "Tesla"},
	{Symbol: "AVGO", Name: "Broadcom"},
	{Symbol: "INTC", Name: "Intel"},
}

// Thresholds are the tunable edges of scoring, verification and risk.
type Thresholds struct {
	strategy.Thresholds `yaml:",inline"`
	HitPct              float64 `yaml:"hit_pct"`
	TrendLabelPct       float64 `yaml:"trend_label_pct"`
	StopPct             float64 `yaml:"stop_pct"`
}

// Config holds all application configuration.
type Config struct {
	Tickers  []model.Ticker `yaml:"tickers"`
	Forecast struct {
		Horizon      int    `yaml:"horizon"`
		HistoryStart string `yaml:"history_start"`
	} `yaml:"forecast"`
	Thresholds Thresholds `yaml:"thresholds"`
	Ledger     struct {
		Path string `yaml:"path"`
	} `yaml:"ledger"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	DataSource struct {
		Provider string `yaml:"provider"`
	} `yaml:"data_source"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LEDGER_PATH"); v != "" {
		cfg.Ledger.Path = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("FORECAST_HORIZON"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("FORECAST_HORIZON: %w", err)
		}
		cfg.Forecast.Horizon = h
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Tickers) == 0 {
		c.Tickers = append([]model.Ticker(nil), DefaultTickers...)
	}
	if c.Forecast.Horizon == 0 {
		c.Forecast.Horizon = 7
	}
	if c.Forecast.HistoryStart == "" {
		c.Forecast.HistoryStart = "2020-01-01"
	}

	def := strategy.DefaultThresholds()
	th := &c.Thresholds
	setDefault(&th.RSIOversold, def.RSIOversold)
	setDefault(&th.RSIBuy, def.RSIBuy)
	setDefault(&th.RSIOverbought, def.RSIOverbought)
	setDefault(&th.RSISell, def.RSISell)
	setDefault(&th.VolumeSurge, def.VolumeSurge)
	setDefault(&th.VolumeHigh, def.VolumeHigh)
	setDefault(&th.VolumeThin, def.VolumeThin)
	setDefault(&th.VolumeLow, def.VolumeLow)
	setDefault(&th.BandSupport, def.BandSupport)
	setDefault(&th.BandResistance, def.BandResistance)
	setDefault(&th.HitPct, 2)
	setDefault(&th.TrendLabelPct, 0.2)
	setDefault(&th.StopPct, 3)

	if c.Ledger.Path == "" {
		c.Ledger.Path = "public/historial.json"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 30 22 * * 1-5"
	}
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// HistoryStartTime parses forecast.history_start.
func (c *Config) HistoryStartTime() (time.Time, error) {
	return time.Parse(model.DateLayout, c.Forecast.HistoryStart)
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("tickers: at least one ticker is required")
	}
	seen := make(map[string]bool, len(c.Tickers))
	for i, t := range c.Tickers {
		if t.Symbol == "" {
			return fmt.Errorf("tickers[%d]: symbol is required", i)
		}
		if seen[t.Symbol] {
			return fmt.Errorf("tickers[%d]: duplicate symbol %s", i, t.Symbol)
		}
		seen[t.Symbol] = true
	}
	if c.Forecast.Horizon < 1 {
		return fmt.Errorf("forecast.horizon must be >= 1, got %d", c.Forecast.Horizon)
	}
	if _, err := c.HistoryStartTime(); err != nil {
		return fmt.Errorf("forecast.history_start: %w", err)
	}
	if c.Thresholds.HitPct <= 0 {
		return fmt.Errorf("thresholds.hit_pct must be positive")
	}
	if c.Thresholds.StopPct <= 0 {
		return fmt.Errorf("thresholds.stop_pct must be positive")
	}
	if c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path is required")
	}
	switch c.DataSource.Provider {
	case "yahoo", "financego", "mock":
	default:
		return fmt.Errorf("data_source.provider: unknown provider %q", c.DataSource.Provider)
	}
	return nil
}
