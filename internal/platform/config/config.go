package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up inside the data directory.
const FileName = "dawn.yaml"

type Config struct {
	DataDir    string           `yaml:"-" validate:"required"`
	OwnerID    string           `yaml:"owner_id"`
	Storage    StorageConfig    `yaml:"storage"`
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
	Trial      TrialConfig      `yaml:"trial"`
	Adaptation AdaptationConfig `yaml:"adaptation"`
	Billing    BillingConfig    `yaml:"billing"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver" validate:"oneof=sqlite file"`
	DBPath     string `yaml:"db_path" validate:"required"`
	FilePath   string `yaml:"file_path" validate:"required"`
	JournalDir string `yaml:"journal_dir"`
}

type HTTPConfig struct {
	Addr                   string `yaml:"addr" validate:"required,hostname_port"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds" validate:"min=1"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// TrialConfig bounds the free tier: full adaptive protocols are offered for
// the first FreeFullSessions days, maintenance protocols afterwards.
type TrialConfig struct {
	FreeFullSessions int `yaml:"free_full_sessions" validate:"min=0"`
	ProgramDays      int `yaml:"program_days" validate:"min=1"`
}

type AdaptationConfig struct {
	HistoryWindow int `yaml:"history_window" validate:"min=3"`
}

// BillingConfig maps provider price ids to plans. It is read at the boundary
// only; scoring and protocol selection never see it.
type BillingConfig struct {
	PlusPriceID string `yaml:"plus_price_id"`
	ProPriceID  string `yaml:"pro_price_id"`
}

// Default returns the configuration used when no file exists.
func Default(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		Storage: StorageConfig{
			Driver:   "sqlite",
			DBPath:   filepath.Join(dataDir, "dawn.db"),
			FilePath: filepath.Join(dataDir, "local-sessions.json"),
		},
		HTTP:       HTTPConfig{Addr: "127.0.0.1:8787", ShutdownTimeoutSeconds: 5},
		Logging:    LoggingConfig{Level: "info", Format: "console"},
		Trial:      TrialConfig{FreeFullSessions: 3, ProgramDays: 14},
		Adaptation: AdaptationConfig{HistoryWindow: 5},
	}
}

// New returns the default configuration for dataDir.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Default(dataDir)
	return cfg, cfg.Validate()
}

// Load reads path (or <dataDir>/dawn.yaml when empty) over the defaults and
// applies DAWN_* environment overrides. A missing file is not an error.
func Load(dataDir, path string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Default(dataDir)
	if path == "" {
		path = filepath.Join(dataDir, FileName)
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.resolvePaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	overrides := map[string]*string{
		"DAWN_OWNER_ID":       &c.OwnerID,
		"DAWN_STORAGE_DRIVER": &c.Storage.Driver,
		"DAWN_DB_PATH":        &c.Storage.DBPath,
		"DAWN_JOURNAL_DIR":    &c.Storage.JournalDir,
		"DAWN_HTTP_ADDR":      &c.HTTP.Addr,
		"DAWN_LOG_LEVEL":      &c.Logging.Level,
		"DAWN_PLUS_PRICE_ID":  &c.Billing.PlusPriceID,
		"DAWN_PRO_PRICE_ID":   &c.Billing.ProPriceID,
	}
	for key, target := range overrides {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			*target = value
		}
	}
}

func (c *Config) resolvePaths() {
	for _, p := range []*string{&c.Storage.DBPath, &c.Storage.FilePath, &c.Storage.JournalDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(c.DataDir, *p)
		}
	}
}
