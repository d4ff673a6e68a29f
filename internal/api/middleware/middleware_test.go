package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	clock := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(rdb, 2, time.Minute, "availability:", logger.Nop())
	l.now = func() time.Time { return clock }

	h := l.Middleware(http.HandlerFunc(okHandler))
	serve := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/availability/dates", nil)
		req.RemoteAddr = ip + ":51234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1"))

	// другой клиент - свой бакет
	assert.Equal(t, http.StatusOK, serve("10.0.0.2"))

	// через половину окна пополняется один токен
	clock = clock.Add(30 * time.Second)
	assert.Equal(t, http.StatusOK, serve("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1"))

	assert.True(t, mr.Exists("rl:availability:10.0.0.1"))
}

func TestRateLimiter_RedisDownPassesThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	l := NewRateLimiter(rdb, 1, time.Minute, "", logger.Nop())
	rr := httptest.NewRecorder()
	l.Middleware(http.HandlerFunc(okHandler)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestClientIP(t *testing.T) {
	l := NewRateLimiter(nil, 1, time.Minute, "", logger.Nop())
	require.NoError(t, l.TrustProxies([]string{"10.0.0.0/8", "192.0.2.1"}))

	tests := []struct {
		name   string
		remote string
		fwd    string
		want   string
	}{
		{name: "без заголовка", remote: "198.51.100.7:4000", want: "198.51.100.7"},
		{name: "заголовок от клиента игнорируется", remote: "198.51.100.7:4000", fwd: "203.0.113.5", want: "198.51.100.7"},
		{name: "доверенный прокси", remote: "10.1.2.3:4000", fwd: "203.0.113.5", want: "203.0.113.5"},
		{name: "доверенный прокси по IP", remote: "192.0.2.1:4000", fwd: "203.0.113.5", want: "203.0.113.5"},
		{name: "подделка слева не помогает", remote: "10.1.2.3:4000", fwd: "1.1.1.1, 203.0.113.5, 10.0.0.9", want: "203.0.113.5"},
		{name: "мусор в заголовке", remote: "10.1.2.3:4000", fwd: "not-an-ip", want: "10.1.2.3"},
		{name: "вся цепочка доверенная", remote: "10.1.2.3:4000", fwd: "10.0.0.5, 10.0.0.9", want: "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.fwd != "" {
				req.Header.Set("X-Forwarded-For", tt.fwd)
			}
			assert.Equal(t, tt.want, l.clientIP(req))
		})
	}
}

func TestRateLimiter_SpoofedHeaderSharesBucket(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRateLimiter(rdb, 1, time.Minute, "", logger.Nop())
	h := l.Middleware(http.HandlerFunc(okHandler))

	serve := func(fwd string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		req.Header.Set("X-Forwarded-For", fwd)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, serve("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, serve("203.0.113.2"))
}

func TestTrustProxies_Invalid(t *testing.T) {
	l := NewRateLimiter(nil, 1, time.Minute, "", logger.Nop())

	assert.Error(t, l.TrustProxies([]string{"10.0.0.0/33"}))
	assert.Error(t, l.TrustProxies([]string{"proxy.local"}))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/def", nil))

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/bookings/{bookingId}", "404"))
	assert.Equal(t, float64(2), got)
}
