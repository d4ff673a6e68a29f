package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
port = 5433
user = "booking"
password = "secret"
dbname = "appointments"

[calendar]
enabled = true
calendar_id = "primary"

[ratelimit]
enabled = true
trusted_proxies = ["10.0.0.0/8", "192.0.2.1"]

[schedule]
timezone = "America/Chicago"
buffer_minutes = 0

[schedule.hours.monday]
open = "08:00"
close = "16:00"

[schedule.hours.sunday]
closed = true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "host=db port=5433 user=booking password=secret dbname=appointments sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "America/Chicago", cfg.Schedule.Timezone)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.RateLimit.TrustedProxies)
	assert.Equal(t, 60, cfg.RateLimit.Requests)

	require.NotNil(t, cfg.Schedule.BufferMinutes)
	assert.Equal(t, 0, *cfg.Schedule.BufferMinutes)
	assert.Nil(t, cfg.Schedule.SlotIntervalMinutes)

	assert.Equal(t, DayHoursConfig{Open: "08:00", Close: "16:00"}, cfg.Schedule.Hours["monday"])
	assert.True(t, cfg.Schedule.Hours["sunday"].Closed)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BUSINESS_TIMEZONE", "Europe/Berlin")
	t.Setenv("APPOINTMENT_BUFFER_MINUTES", "10")
	t.Setenv("BOOKING_WINDOW_DAYS", "14")
	t.Setenv("BUSINESS_HOURS_JSON", `{"monday":{"open":"10:00","close":"12:00"}}`)
	t.Setenv("DATABASE_PASSWORD", "from-env")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", cfg.Schedule.Timezone)
	assert.Equal(t, 10, *cfg.Schedule.BufferMinutes)
	assert.Equal(t, 14, *cfg.Schedule.BookingWindowDays)
	assert.Contains(t, cfg.Schedule.HoursJSON, "monday")
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrLoadConfig)

	_, err = Load(writeConfig(t, "[server\nhttp_port = 1"))
	assert.ErrorIs(t, err, ErrLoadConfig)

	t.Setenv("SLOT_INTERVAL_MINUTES", "half-hour")
	_, err = Load(writeConfig(t, sampleConfig))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_CalendarRequiresID(t *testing.T) {
	t.Setenv("GOOGLE_CALENDAR_ID", "")

	_, err := Load(writeConfig(t, "[calendar]\nenabled = true\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
