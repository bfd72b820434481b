package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSessionSecret signs session handles when none is configured. It is
// public, so deployments must override it.
const DefaultSessionSecret = "change-me"

type Config struct {
	Server struct {
		Port            string        `mapstructure:"port"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`
	Backend struct {
		URL        string        `mapstructure:"url"`
		UploadsURL string        `mapstructure:"uploads_url"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"backend"`
	Session struct {
		Secret       string        `mapstructure:"secret"`
		TTL          time.Duration `mapstructure:"ttl"`
		CookieSecure bool          `mapstructure:"cookie_secure"`
	} `mapstructure:"session"`
	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Database struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Kafka struct {
		Enabled bool     `mapstructure:"enabled"`
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	Notifications struct {
		PollInterval time.Duration `mapstructure:"poll_interval"`
	} `mapstructure:"notifications"`
	Tracing struct {
		Enabled  bool   `mapstructure:"enabled"`
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"tracing"`
}

// InsecureSessionSecret reports whether handles are signed with the
// built-in or an empty secret.
func (c *Config) InsecureSessionSecret() bool {
	secret := strings.TrimSpace(c.Session.Secret)
	return secret == "" || secret == DefaultSessionSecret
}

func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
}

// env names kept short for docker-compose files
var envKeys = map[string]string{
	"server.port":                 "PORT",
	"backend.url":                 "BACKEND_URL",
	"backend.uploads_url":         "UPLOADS_URL",
	"session.secret":              "SESSION_SECRET",
	"redis.enabled":               "REDIS_ENABLED",
	"redis.host":                  "REDIS_HOST",
	"redis.port":                  "REDIS_PORT",
	"redis.password":              "REDIS_PASSWORD",
	"database.enabled":            "DB_ENABLED",
	"database.host":               "DB_HOST",
	"database.port":               "DB_PORT",
	"database.user":               "DB_USER",
	"database.password":           "DB_PASSWORD",
	"database.name":               "DB_NAME",
	"kafka.enabled":               "KAFKA_ENABLED",
	"kafka.brokers":               "KAFKA_BROKER",
	"kafka.topic":                 "KAFKA_TOPIC",
	"notifications.poll_interval": "NOTIFICATION_POLL_INTERVAL",
	"tracing.enabled":             "TRACING_ENABLED",
	"tracing.endpoint":            "JAEGER_ENDPOINT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("backend.url", "http://localhost:3000")
	v.SetDefault("backend.uploads_url", "http://localhost:3000/uploads")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("session.secret", DefaultSessionSecret)
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "campingadmin")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "admin_notifications")
	v.SetDefault("notifications.poll_interval", 10*time.Second)
	v.SetDefault("tracing.enabled", true)
	v.SetDefault("tracing.endpoint", "http://localhost:14268/api/traces")
}

// Load reads ./config/config.yaml when present, then applies environment
// overrides on top of the defaults.
func Load() (*Config, error) {
	return load(viper.New(), "./config")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Backend.URL == "" {
		return nil, errors.New("backend url is required")
	}
	return &cfg, nil
}
