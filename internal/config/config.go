package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Locks    LocksConfig    `toml:"locks"`
	Redis    RedisConfig    `toml:"redis"`
	Hubspot  HubspotConfig  `toml:"hubspot"`
	Sync     SyncConfig     `toml:"sync"`
	Kafka    KafkaConfig    `toml:"kafka"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type LocksConfig struct {
	Backend       string `toml:"backend"`        // local | redis
	WaitTimeoutMs int    `toml:"wait_timeout_ms"` // сколько запрос ждет блокировку подрядчика
	TTLMs         int    `toml:"ttl_ms"`
	RetryMs       int    `toml:"retry_ms"`
}

func (l LocksConfig) WaitTimeout() time.Duration {
	return time.Duration(l.WaitTimeoutMs) * time.Millisecond
}

func (l LocksConfig) TTL() time.Duration {
	return time.Duration(l.TTLMs) * time.Millisecond
}

func (l LocksConfig) RetryInterval() time.Duration {
	return time.Duration(l.RetryMs) * time.Millisecond
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type HubspotConfig struct {
	Enabled           bool   `toml:"enabled"`
	BaseURL           string `toml:"base_url"`
	AccessToken       string `toml:"access_token"`
	Timeout           int    `toml:"timeout"` // секунды
	AppointmentObject string `toml:"appointment_object"`
	ConfigObject      string `toml:"config_object"`
	ServiceObject     string `toml:"service_object"`
}

// hubspotCallsPerJob worst case of one reconcile: update, search, create
const hubspotCallsPerJob = 3

type SyncConfig struct {
	MaxAttempts      int     `toml:"max_attempts"`
	PollIntervalMs   int     `toml:"poll_interval_ms"`
	BatchSize        int     `toml:"batch_size"`
	LeaseSeconds     int     `toml:"lease_seconds"`
	InitialBackoffMs int     `toml:"initial_backoff_ms"`
	MaxBackoffMs     int     `toml:"max_backoff_ms"`
	Jitter           float64 `toml:"jitter"`
}

type KafkaConfig struct {
	Enabled   bool   `toml:"enabled"`
	Brokers   string `toml:"brokers"` // через запятую
	Topic     string `toml:"topic"`
	TimeoutMs int    `toml:"timeout_ms"`
}

// Load читает .env (если есть), затем TOML файл, затем секреты из окружения
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения, которые перекрываются файлом
func Default() *Config {
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
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "smc-scheduling-service",
		},
		Locks: LocksConfig{
			Backend:       LockBackendLocal,
			WaitTimeoutMs: 3000,
			TTLMs:         10000,
			RetryMs:       25,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Hubspot: HubspotConfig{
			BaseURL:           "https://api.hubapi.com",
			Timeout:           10,
			AppointmentObject: "appointments",
			ConfigObject:      "p_schedule_configs",
			ServiceObject:     "p_schedule_services",
		},
		Sync: SyncConfig{
			MaxAttempts:      8,
			PollIntervalMs:   2000,
			BatchSize:        5,
			LeaseSeconds:     180,
			InitialBackoffMs: 1000,
			MaxBackoffMs:     300000,
			Jitter:           0.2,
		},
		Kafka: KafkaConfig{
			Topic:     "smc.scheduling.appointments",
			TimeoutMs: 2000,
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("HUBSPOT_ACCESS_TOKEN"); v != "" {
		c.Hubspot.AccessToken = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

// Validate отклоняет невозможные значения
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port=%d", c.Server.HTTPPort))
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Errorf("database.port=%d", c.Database.Port))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is empty"))
	}
	if c.Sync.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("sync.max_attempts=%d, must be >= 1", c.Sync.MaxAttempts))
	}
	if c.Sync.Jitter < 0 || c.Sync.Jitter >= 1 {
		errs = append(errs, fmt.Errorf("sync.jitter=%v, must be in [0,1)", c.Sync.Jitter))
	}

	switch c.Locks.Backend {
	case LockBackendLocal:
	case LockBackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for the redis lock backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("locks.backend=%q, expected local or redis", c.Locks.Backend))
	}

	if c.Hubspot.Enabled && c.Hubspot.AccessToken == "" {
		errs = append(errs, errors.New("hubspot.access_token is required when hubspot is enabled"))
	}
	// вся пачка должна уложиться в аренду, иначе хвост заберет другой воркер
	if c.Hubspot.Enabled {
		need := c.Sync.BatchSize * hubspotCallsPerJob * c.Hubspot.Timeout
		if c.Sync.LeaseSeconds < need {
			errs = append(errs, fmt.Errorf("sync.lease_seconds=%d, must be >= batch_size*%d*hubspot.timeout=%d",
				c.Sync.LeaseSeconds, hubspotCallsPerJob, need))
		}
	}
	if c.Kafka.Enabled && (c.Kafka.Brokers == "" || c.Kafka.Topic == "") {
		errs = append(errs, errors.New("kafka.brokers and kafka.topic are required when kafka is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
