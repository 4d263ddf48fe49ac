package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Server   ServerConfig   `mapstructure:"server"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	App      AppConfig      `mapstructure:"app"`
}

// UpstreamConfig points at the public JSON documents the charts are built from.
type UpstreamConfig struct {
	SupplyURL       string `mapstructure:"supply_url"`
	BalancesURL     string `mapstructure:"balances_url"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	MaxRetries      int    `mapstructure:"max_retries"`
	MaxResponseSize int64  `mapstructure:"max_response_size"`
}

type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	RatePerSec int    `mapstructure:"rate_per_sec"`
	Burst      int    `mapstructure:"burst"`
}

type ChartConfig struct {
	Width   int    `mapstructure:"width"`
	Height  int    `mapstructure:"height"`
	OutDir  string `mapstructure:"out_dir"`
	Wallets string `mapstructure:"wallets"`
}

type TelegramConfig struct {
	BotToken      string `mapstructure:"bot_token"`
	ChatID        string `mapstructure:"chat_id"`
	SendTime      string `mapstructure:"send_time"`
	CheckInterval int    `mapstructure:"check_interval"`
}

type AppConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LoadConfig merges defaults, config.yaml, .env, environment and flags,
// in that order of increasing precedence.
func LoadConfig() (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // optional file, ignore missing

	v.AutomaticEnv()
	setupEnvAliases(v)
	setupFlags(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("upstream.supply_url", "ZPOOL_SUPPLY_URL")
	v.BindEnv("upstream.balances_url", "ZPOOL_BALANCES_URL")
	v.BindEnv("upstream.request_timeout", "ZPOOL_REQUEST_TIMEOUT")
	v.BindEnv("upstream.max_retries", "ZPOOL_MAX_RETRIES")
	v.BindEnv("upstream.max_response_size", "ZPOOL_MAX_RESPONSE_SIZE")

	v.BindEnv("server.addr", "ZPOOL_SERVER_ADDR")
	v.BindEnv("server.rate_per_sec", "ZPOOL_SERVER_RATE_PER_SEC")
	v.BindEnv("server.burst", "ZPOOL_SERVER_BURST")

	v.BindEnv("chart.width", "ZPOOL_CHART_WIDTH")
	v.BindEnv("chart.height", "ZPOOL_CHART_HEIGHT")
	v.BindEnv("chart.out_dir", "ZPOOL_CHART_OUT_DIR")
	v.BindEnv("chart.wallets", "ZPOOL_WALLETS_FILE")

	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("telegram.send_time", "TELEGRAM_SEND_TIME")
	v.BindEnv("telegram.check_interval", "TELEGRAM_CHECK_INTERVAL")

	v.BindEnv("app.data_dir", "ZPOOL_DATA_DIR")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("upstream.supply_url", "https://z.cash/data/shielded-supply.json")
	v.SetDefault("upstream.balances_url", "https://z.cash/data/pool-balances.json")
	v.SetDefault("upstream.request_timeout", 30)
	v.SetDefault("upstream.max_retries", 0) // the loader is one-shot; retries are opt-in
	v.SetDefault("upstream.max_response_size", 10*1024*1024)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_per_sec", 10)
	v.SetDefault("server.burst", 20)

	v.SetDefault("chart.width", 0) // 0 = fall back to the renderer defaults
	v.SetDefault("chart.height", 0)
	v.SetDefault("chart.out_dir", "data_out")
	v.SetDefault("chart.wallets", "etc/wallets/wallets.yaml")

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.send_time", "10:00")
	v.SetDefault("telegram.check_interval", 3600)

	v.SetDefault("app.data_dir", "data_in")
}

func setupFlags(v *viper.Viper) {
	if !pflag.Parsed() {
		pflag.String("upstream.supply_url", "", "URL of the shielded supply JSON document (env: ZPOOL_SUPPLY_URL)")
		pflag.String("upstream.balances_url", "", "URL of the pool balances JSON document (env: ZPOOL_BALANCES_URL)")
		pflag.Int("upstream.request_timeout", 30, "Upstream request timeout in seconds (env: ZPOOL_REQUEST_TIMEOUT)")
		pflag.Int("upstream.max_retries", 0, "Max transport retries for upstream requests (env: ZPOOL_MAX_RETRIES)")

		pflag.String("server.addr", ":8080", "HTTP listen address (env: ZPOOL_SERVER_ADDR)")
		pflag.Int("server.rate_per_sec", 10, "Per-client request rate limit (env: ZPOOL_SERVER_RATE_PER_SEC)")

		pflag.Int("chart.width", 0, "Chart width in pixels, 0 for default (env: ZPOOL_CHART_WIDTH)")
		pflag.Int("chart.height", 0, "Chart height in pixels, 0 for default (env: ZPOOL_CHART_HEIGHT)")
		pflag.String("chart.out_dir", "data_out", "Directory for exported charts (env: ZPOOL_CHART_OUT_DIR)")
		pflag.String("chart.wallets", "etc/wallets/wallets.yaml", "Wallet directory YAML file (env: ZPOOL_WALLETS_FILE)")

		pflag.String("telegram.bot_token", "", "Telegram bot token (env: TELEGRAM_BOT_TOKEN)")
		pflag.String("telegram.chat_id", "", "Telegram chat ID (env: TELEGRAM_CHAT_ID)")
		pflag.String("telegram.send_time", "10:00", "Daily chart send time, HH:MM (env: TELEGRAM_SEND_TIME)")

		pflag.String("app.data_dir", "data_in", "Data directory for the snapshot store (env: ZPOOL_DATA_DIR)")

		pflag.Parse()
	}
	v.BindPFlags(pflag.CommandLine)
}

func validateConfig(cfg *Config) error {
	if cfg.Upstream.SupplyURL == "" {
		return fmt.Errorf("upstream.supply_url is required")
	}
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if cfg.Upstream.RequestTimeout <= 0 {
		cfg.Upstream.RequestTimeout = 30
	}
	if cfg.Upstream.MaxResponseSize <= 0 {
		cfg.Upstream.MaxResponseSize = 10 * 1024 * 1024
	}
	return nil
}
