// Package config loads the settings of the pft tool from a yaml file and FOLIO_* variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Benchmark BenchmarkConfig `mapstructure:"benchmark"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type AppConfig struct {
	User      string  `mapstructure:"user"`
	StartCash float64 `mapstructure:"start_cash"`
	Currency  string  `mapstructure:"currency"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// DBConfig selects the database: a postgres:// DSN opens postgres, anything else is the path
// of a sqlite file (":memory:" for a throw-away database).
type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type BenchmarkConfig struct {
	Ticker string `mapstructure:"ticker"`
}

type ProviderConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type FetchConfig struct {
	LookbackDays int    `mapstructure:"lookback_days"`
	Schedule     string `mapstructure:"schedule"`
}

type CacheConfig struct {
	MaxCost int64         `mapstructure:"max_cost"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Load reads the configuration file at path, then FOLIO_* environment variables on top of
// it (FOLIO_DB_DSN overrides db.dsn). With envOnly the file is not read at all.
func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.user", "demo")
	v.SetDefault("app.start_cash", 1_000_000)
	v.SetDefault("app.currency", "SEK")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.dsn", "data/data.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("benchmark.ticker", "^OMXSPI")
	v.SetDefault("provider.base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("provider.timeout", "15s")
	v.SetDefault("provider.cache_ttl", "1h")
	v.SetDefault("fetch.lookback_days", 365)
	v.SetDefault("fetch.schedule", "0 30 18 * * 1-5")
	v.SetDefault("cache.max_cost", 1<<24)
	v.SetDefault("cache.ttl", "10m")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
