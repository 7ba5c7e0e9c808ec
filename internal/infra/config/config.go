package config

// Layered configuration for the chart generator
// Order (later wins): defaults -> config.yaml -> .env -> environment -> flags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Render   RenderConfig   `mapstructure:"render"`
	Workbook WorkbookConfig `mapstructure:"workbook"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type AppConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	DataDir   string `mapstructure:"data_dir"` // JSON snapshots of generated tables
	Seed      uint64 `mapstructure:"seed"`
	LogDir    string `mapstructure:"log_dir"`
	LogLevel  string `mapstructure:"log_level"`
}

type RenderConfig struct {
	Variants []string `mapstructure:"variants"` // empty = every variant
}

type WorkbookConfig struct {
	Path string `mapstructure:"path"`
}

// TelegramConfig is only needed by the publish command.
type TelegramConfig struct {
	BotToken          string  `mapstructure:"bot_token"`
	ChatID            int64   `mapstructure:"chat_id"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	MaxRetries        int     `mapstructure:"max_retries"`
}

var ErrTelegramNotConfigured = errors.New("telegram.bot_token and telegram.chat_id are required")

// Validate reports whether publishing can run.
func (t TelegramConfig) Validate() error {
	if t.BotToken == "" || t.ChatID == 0 {
		return ErrTelegramNotConfigured
	}
	return nil
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"output-dir": "app.output_dir",
	"data-dir":   "app.data_dir",
	"seed":       "app.seed",
	"log-dir":    "app.log_dir",
	"log-level":  "app.log_level",
	"variants":   "render.variants",
	"workbook":   "workbook.path",
	"chat-id":    "telegram.chat_id",
}

// LoadConfig reads configuration from configDir (config.yaml and .env) plus the
// environment, then applies any flags from fs that were set explicitly.
// fs may be nil.
func LoadConfig(configDir string, fs *pflag.FlagSet) (*Config, error) {
	if configDir == "" {
		configDir = "."
	}
	envFile := strings.TrimSuffix(configDir, "/") + "/.env"

	// .env fills the process environment for the BindEnv aliases below;
	// variables already set win.
	_ = godotenv.Load(envFile)

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	v.AutomaticEnv()
	setupEnvAliases(v)

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// From env or a flag the list arrives as one comma separated string.
	cfg.Render.Variants = splitList(v.Get("render.variants"))

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.output_dir", ".")
	v.SetDefault("app.data_dir", "data_out")
	v.SetDefault("app.seed", 42)
	v.SetDefault("app.log_dir", "logs")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("render.variants", []string{})

	v.SetDefault("workbook.path", "report.xlsx")

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.requests_per_second", 1.0)
	v.SetDefault("telegram.max_retries", 3)
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("app.output_dir", "CHARTS_OUTPUT_DIR")
	v.BindEnv("app.data_dir", "CHARTS_DATA_DIR")
	v.BindEnv("app.seed", "CHARTS_SEED")
	v.BindEnv("app.log_dir", "CHARTS_LOG_DIR")
	v.BindEnv("app.log_level", "CHARTS_LOG_LEVEL")

	v.BindEnv("render.variants", "CHARTS_VARIANTS")

	v.BindEnv("workbook.path", "CHARTS_WORKBOOK")

	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("telegram.requests_per_second", "TELEGRAM_REQUESTS_PER_SECOND")
	v.BindEnv("telegram.max_retries", "TELEGRAM_MAX_RETRIES")
}

// bindFlags binds only flags the user changed, so an unset flag's zero
// default never shadows config.yaml or the environment.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func splitList(raw interface{}) []string {
	var items []string
	switch val := raw.(type) {
	case string:
		items = strings.Split(val, ",")
	case []string:
		items = val
	case []interface{}:
		for _, item := range val {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func validateConfig(cfg *Config) error {
	if cfg.App.OutputDir == "" {
		return fmt.Errorf("app.output_dir must not be empty")
	}
	if cfg.Telegram.RequestsPerSecond <= 0 {
		return fmt.Errorf("telegram.requests_per_second must be positive, got %v", cfg.Telegram.RequestsPerSecond)
	}
	if cfg.Telegram.MaxRetries < 0 {
		return fmt.Errorf("telegram.max_retries must not be negative, got %d", cfg.Telegram.MaxRetries)
	}
	return nil
}
