package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the digest worker.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	SES      SESConfig      `yaml:"ses"`
	Digest   DigestConfig   `yaml:"digest"`
}

// ServerConfig holds the worker's operational HTTP endpoint settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port the ops server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds the connection settings for the recipe store.
// The schema is owned by the web application; this worker only reads it.
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_minutes"`
}

// RedisConfig holds Redis settings for run locking and the optional
// unchanged-digest skip. Disabled means locks fall back to PG advisory
// locks and the skip feature is inert.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SESConfig holds AWS SES credentials for digest delivery.
type SESConfig struct {
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	Region         string `yaml:"region"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-send deadline.
func (s SESConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// DigestConfig holds the digest content and schedule settings.
type DigestConfig struct {
	Subject   string `yaml:"subject"`
	FromName  string `yaml:"from_name"`
	FromEmail string `yaml:"from_email"`

	// Daily fire time, wall clock in Timezone.
	Hour     int    `yaml:"hour"`
	Minute   int    `yaml:"minute"`
	Timezone string `yaml:"timezone"`

	// SkipUnchanged suppresses sends whose body is byte-identical to the
	// previous run's. Requires Redis; fails open when Redis is down.
	SkipUnchanged bool `yaml:"skip_unchanged"`
}

// Load reads configuration from a YAML file and fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8081
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 5
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-west-2"
	}
	if cfg.SES.TimeoutSeconds == 0 {
		cfg.SES.TimeoutSeconds = 30
	}
	if cfg.Digest.Subject == "" {
		cfg.Digest.Subject = "Your daily recipe digest"
	}
	if cfg.Digest.FromName == "" {
		cfg.Digest.FromName = "Savora"
	}
	if cfg.Digest.Timezone == "" {
		cfg.Digest.Timezone = "UTC"
	}
	// Hour/Minute zero values mean midnight, which is a valid schedule;
	// no defaulting is applied to them.
}

// LoadFromEnv loads the YAML config (if path is non-empty and the file
// exists) and then applies environment variable overrides. A .env file in
// the working directory is honored for local development.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := Load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if accessKey := os.Getenv("AWS_SES_ACCESS_KEY"); accessKey != "" {
		cfg.SES.AccessKey = accessKey
	}
	if secretKey := os.Getenv("AWS_SES_SECRET_KEY"); secretKey != "" {
		cfg.SES.SecretKey = secretKey
	}
	if region := os.Getenv("AWS_SES_REGION"); region != "" {
		cfg.SES.Region = region
	}
	if from := os.Getenv("DIGEST_FROM_EMAIL"); from != "" {
		cfg.Digest.FromEmail = from
	}
	if hour := os.Getenv("DIGEST_HOUR"); hour != "" {
		if v, err := strconv.Atoi(hour); err == nil {
			cfg.Digest.Hour = v
		}
	}
	if minute := os.Getenv("DIGEST_MINUTE"); minute != "" {
		if v, err := strconv.Atoi(minute); err == nil {
			cfg.Digest.Minute = v
		}
	}
	if tz := os.Getenv("DIGEST_TIMEZONE"); tz != "" {
		cfg.Digest.Timezone = tz
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Validate checks settings that have no sensible default.
func (cfg *Config) Validate() error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("database url is required (database.url or DATABASE_URL)")
	}
	if cfg.Digest.FromEmail == "" {
		return fmt.Errorf("digest sender address is required (digest.from_email or DIGEST_FROM_EMAIL)")
	}
	if cfg.Digest.Hour < 0 || cfg.Digest.Hour > 23 {
		return fmt.Errorf("digest hour %d out of range [0,23]", cfg.Digest.Hour)
	}
	if cfg.Digest.Minute < 0 || cfg.Digest.Minute > 59 {
		return fmt.Errorf("digest minute %d out of range [0,59]", cfg.Digest.Minute)
	}
	if _, err := time.LoadLocation(cfg.Digest.Timezone); err != nil {
		return fmt.Errorf("invalid digest timezone %q: %w", cfg.Digest.Timezone, err)
	}
	return nil
}
