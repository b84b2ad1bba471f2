package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	LogLevel   string        `mapstructure:"log_level"`
	Secret     string        `mapstructure:"secret"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`

	AllowedOrigins        []string `mapstructure:"allowed_origins"`
	AllowedOriginPatterns []string `mapstructure:"allowed_origin_patterns"`

	Database     DatabaseConfig  `mapstructure:"database"`
	HistoryLimit int             `mapstructure:"history_limit"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
	Redis        RedisConfig     `mapstructure:"redis"`
	ICEServers   []ICEServer     `mapstructure:"ice_servers"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RateLimitConfig struct {
	// Backend is memory, redis or none.
	Backend string        `mapstructure:"backend"`
	Events  int           `mapstructure:"events"`
	Window  time.Duration `mapstructure:"window"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"mode":      "mode",
	"port":      "port",
	"log-level": "log_level",
	"db":        "database.dsn",
}

// Load reads config/config.<CONFIG_ENV>.yaml (or the --config file), then
// HUDDLE_* environment variables, then any flags the caller set.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	fileName := ""
	if flags != nil {
		fileName, _ = flags.GetString("config")
	}
	if fileName == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		fileName = fmt.Sprintf("config/config.%s.yaml", env)
	}
	v.SetConfigFile(fileName)

	setDefaults(v)

	v.SetEnvPrefix("HUDDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).
		Str("db", cfg.Database.DSN).Str("rate_limit", cfg.RateLimit.Backend).Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", "change-me")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("allowed_origin_patterns", []string{})
	v.SetDefault("database.dsn", "huddle.db")
	v.SetDefault("history_limit", 50)
	v.SetDefault("rate_limit.backend", "memory")
	v.SetDefault("rate_limit.events", 30)
	v.SetDefault("rate_limit.window", "1s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
	v.SetDefault("shutdown_timeout", "10s")
}

var (
	ErrBadPort        = errors.New("port out of range")
	ErrBadKeepalive   = errors.New("ping_period must be positive and shorter than pong_wait")
	ErrBadRateBackend = errors.New("rate_limit.backend must be memory, redis or none")
	ErrBadRateLimit   = errors.New("rate_limit.events and rate_limit.window must be positive")
)

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrBadPort, c.Port)
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		return ErrBadKeepalive
	}
	switch c.RateLimit.Backend {
	case "none":
	case "memory", "redis":
		if c.RateLimit.Events <= 0 || c.RateLimit.Window <= 0 {
			return ErrBadRateLimit
		}
	default:
		return fmt.Errorf("%w: %q", ErrBadRateBackend, c.RateLimit.Backend)
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 64
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 50
	}
	return nil
}
