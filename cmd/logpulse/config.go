package main

import "time"

const (
	defaultBindHost        = "0.0.0.0"
	defaultPort            = 3000
	defaultDBPath          = "./data/logs.db"
	defaultQueryTimeout    = 30 * time.Second
	defaultLogRetention    = 24 * time.Hour
	defaultRetentionTick   = time.Hour
	defaultRateLimitMax    = 100
	defaultRateLimitWindow = 60 * time.Second
	defaultRateLimitSweep  = 5 * time.Minute
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Host                  string        `mapstructure:"host" yaml:"host"`
	Port                  int           `mapstructure:"port" yaml:"port"`
	Addr                  string        `mapstructure:"addr" yaml:"addr"`
	DBPath                string        `mapstructure:"db-path" yaml:"db-path"`
	QueryTimeout          time.Duration `mapstructure:"query-timeout" yaml:"query-timeout"`
	LogRetention          time.Duration `mapstructure:"log-retention" yaml:"log-retention"`
	RetentionInterval     time.Duration `mapstructure:"retention-interval" yaml:"retention-interval"`
	RateLimitMax          int           `mapstructure:"rate-limit-max" yaml:"rate-limit-max"`
	RateLimitWindow       time.Duration `mapstructure:"rate-limit-window" yaml:"rate-limit-window"`
	RateLimitSweep        time.Duration `mapstructure:"rate-limit-sweep" yaml:"rate-limit-sweep"`
	AdminRequireWhitelist bool          `mapstructure:"admin-require-whitelist" yaml:"admin-require-whitelist"`
	ConfigPath            string        `mapstructure:"-" yaml:"-"` // not from config file
}
