package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, когда значения конфигурации некорректны
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	MemberService MemberServiceConfig `toml:"member_service"`
	Kafka         KafkaConfig         `toml:"kafka"`
	NoShowSweep   NoShowSweepConfig   `toml:"no_show_sweep"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	TxMaxAttempts   int    `toml:"tx_max_attempts"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled           bool   `toml:"enabled"`
	Path              string `toml:"path"`
	ServiceName       string `toml:"service_name"`
	PoolStatsInterval int    `toml:"pool_stats_interval"`
}

type MemberServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type KafkaConfig struct {
	Enabled      bool     `toml:"enabled"`
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	WriteTimeout int      `toml:"write_timeout"`
	RequiredAcks int      `toml:"required_acks"`
}

type NoShowSweepConfig struct {
	Enabled  bool `toml:"enabled"`
	Interval int  `toml:"interval"`
}

// Load читает TOML файл, подтягивает .env (если есть) и применяет переопределения из окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			TxMaxAttempts:   3,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:              "/metrics",
			ServiceName:       "meeting-room-service",
			PoolStatsInterval: 15,
		},
		MemberService: MemberServiceConfig{Timeout: 5},
		Kafka: KafkaConfig{
			Topic:        "room-bookings",
			WriteTimeout: 5,
			RequiredAcks: -1,
		},
		NoShowSweep: NoShowSweepConfig{Interval: 300},
	}
}

// applyEnv переопределяет значения из переменных окружения ROOMS_*
func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	setString("ROOMS_DB_HOST", &c.Database.Host)
	setString("ROOMS_DB_USER", &c.Database.User)
	setString("ROOMS_DB_PASSWORD", &c.Database.Password)
	setString("ROOMS_DB_NAME", &c.Database.DBName)
	setString("ROOMS_MEMBER_SERVICE_URL", &c.MemberService.URL)
	setString("ROOMS_LOG_LEVEL", &c.Logs.Level)

	if err := setInt("ROOMS_DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if err := setInt("ROOMS_HTTP_PORT", &c.Server.HTTPPort); err != nil {
		return err
	}

	if v, ok := os.LookupEnv("ROOMS_KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = splitList(v)
	}

	return nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("%w: database.max_open_conns must be positive", ErrInvalidConfig)
	}
	if c.Database.TxMaxAttempts < 1 {
		return fmt.Errorf("%w: database.tx_max_attempts must be positive", ErrInvalidConfig)
	}
	if c.MemberService.URL == "" {
		return fmt.Errorf("%w: member_service.url is required", ErrInvalidConfig)
	}
	if c.MemberService.Timeout <= 0 {
		return fmt.Errorf("%w: member_service.timeout must be positive", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && c.Metrics.PoolStatsInterval <= 0 {
		return fmt.Errorf("%w: metrics.pool_stats_interval must be positive", ErrInvalidConfig)
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("%w: kafka.brokers is required when kafka is enabled", ErrInvalidConfig)
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("%w: kafka.topic is required when kafka is enabled", ErrInvalidConfig)
		}
	}
	if c.NoShowSweep.Enabled && c.NoShowSweep.Interval <= 0 {
		return fmt.Errorf("%w: no_show_sweep.interval must be positive", ErrInvalidConfig)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
