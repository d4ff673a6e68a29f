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

var (
	// ErrLoadConfig не удалось прочитать или разобрать файл конфигурации
	ErrLoadConfig = errors.New("config: failed to load")

	// ErrInvalidConfig значения конфигурации некорректны
	ErrInvalidConfig = errors.New("config: invalid value")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	Calendar  CalendarConfig  `toml:"calendar"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	Booking   BookingConfig   `toml:"booking"`
	Schedule  ScheduleConfig  `toml:"schedule"`
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
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CalendarConfig внешний календарь Google, из которого читаются занятые интервалы
type CalendarConfig struct {
	Enabled         bool   `toml:"enabled"`
	CalendarID      string `toml:"calendar_id"`
	CredentialsFile string `toml:"credentials_file"`
	Timeout         int    `toml:"timeout"` // секунды
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

// RateLimitConfig ограничение частоты запросов к публичным эндпоинтам доступности
type RateLimitConfig struct {
	Enabled        bool     `toml:"enabled"`
	Requests       int      `toml:"requests"`
	WindowSeconds  int      `toml:"window_seconds"`
	TrustedProxies []string `toml:"trusted_proxies"` // CIDR или IP; X-Forwarded-For от остальных игнорируется
}

// BookingConfig параметры фиксации бронирования
type BookingConfig struct {
	LockTTLSeconds int `toml:"lock_ttl_seconds"`
}

// ScheduleConfig сырые настройки расписания.
// Разбор и проверка выполняются в service/schedule.
type ScheduleConfig struct {
	Timezone            string                    `toml:"timezone"`
	BufferMinutes       *int                      `toml:"buffer_minutes"`
	SlotIntervalMinutes *int                      `toml:"slot_interval_minutes"`
	BookingWindowDays   *int                      `toml:"booking_window_days"`
	HoursJSON           string                    `toml:"hours_json"`
	Hours               map[string]DayHoursConfig `toml:"hours"`
}

// DayHoursConfig часы работы одного дня недели в TOML: open/close либо closed = true
type DayHoursConfig struct {
	Open   string `toml:"open"`
	Close  string `toml:"close"`
	Closed bool   `toml:"closed"`
}

// Load читает файл конфигурации, подгружает .env (если есть) и применяет переменные окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrLoadConfig, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
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
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis:     RedisConfig{Addr: "localhost:6379"},
		Calendar:  CalendarConfig{Timeout: 10},
		Logs:      LogsConfig{Level: "info"},
		Metrics:   MetricsConfig{Path: "/metrics", ServiceName: "appointment_service"},
		RateLimit: RateLimitConfig{Requests: 60, WindowSeconds: 60},
		Booking:   BookingConfig{LockTTLSeconds: 10},
	}
}

// applyEnv переопределяет значения из переменных окружения
func (c *Config) applyEnv() error {
	if v, ok := lookup("BUSINESS_TIMEZONE"); ok {
		c.Schedule.Timezone = v
	}
	if v, ok := lookup("BUSINESS_HOURS_JSON"); ok {
		c.Schedule.HoursJSON = v
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{"APPOINTMENT_BUFFER_MINUTES", &c.Schedule.BufferMinutes},
		{"SLOT_INTERVAL_MINUTES", &c.Schedule.SlotIntervalMinutes},
		{"BOOKING_WINDOW_DAYS", &c.Schedule.BookingWindowDays},
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, e.name, v)
		}
		*e.dst = &n
	}

	if v, ok := lookup("GOOGLE_CALENDAR_ID"); ok {
		c.Calendar.CalendarID = v
	}
	if v, ok := lookup("GOOGLE_APPLICATION_CREDENTIALS"); ok {
		c.Calendar.CredentialsFile = v
	}
	if v, ok := lookup("DATABASE_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := lookup("REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}

	return nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Calendar.Enabled && c.Calendar.CalendarID == "" {
		return fmt.Errorf("%w: calendar.calendar_id is required when calendar is enabled", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.WindowSeconds <= 0) {
		return fmt.Errorf("%w: ratelimit requests and window_seconds must be positive", ErrInvalidConfig)
	}
	if c.Booking.LockTTLSeconds <= 0 {
		return fmt.Errorf("%w: booking.lock_ttl_seconds=%d", ErrInvalidConfig, c.Booking.LockTTLSeconds)
	}
	return nil
}

// lookup возвращает непустое значение переменной окружения
func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
