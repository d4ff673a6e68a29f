package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgRateLimited = "слишком много запросов"

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RateLimiter token bucket в Redis, ключ - IP клиента
type RateLimiter struct {
	rdb    *redis.Client
	limit  int           // токенов на окно
	window time.Duration // окно пополнения
	prefix string
	now    func() time.Time
	logger Logger

	trustedProxies []*net.IPNet // X-Forwarded-For учитывается только от этих адресов
}

// NewRateLimiter создает лимитер. prefix разделяет ключи разных лимитеров.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, prefix string, logger Logger) *RateLimiter {
	if prefix == "" {
		prefix = "rl:"
	} else if !strings.HasPrefix(prefix, "rl:") {
		prefix = "rl:" + prefix
	}
	return &RateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		prefix: prefix,
		now:    time.Now,
		logger: logger,
	}
}

// TrustProxies задаёт адреса прокси (CIDR или IP), которым разрешено передавать X-Forwarded-For.
// Без доверенных прокси ключом всегда служит RemoteAddr.
func (l *RateLimiter) TrustProxies(proxies []string) error {
	nets := make([]*net.IPNet, 0, len(proxies))
	for _, p := range proxies {
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return fmt.Errorf("invalid trusted proxy %q", p)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 8 * net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(p)
		if err != nil {
			return fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		nets = append(nets, ipNet)
	}
	l.trustedProxies = nets
	return nil
}

// Allow забирает токен для key, если он есть
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.rdb == nil || l.limit <= 0 {
		return true, nil
	}
	interval := l.window.Milliseconds() / int64(l.limit)
	if interval <= 0 {
		interval = 1
	}
	res, err := l.rdb.Eval(ctx, tokenBucketScript, []string{l.prefix + key}, l.limit, interval, l.now().UnixMilli()).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// Middleware ограничивает частоту запросов по IP клиента.
// При недоступности Redis запрос пропускается.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.clientIP(r)

		ok, err := l.Allow(r.Context(), key)
		if err != nil {
			l.logger.Error("RateLimiter: redis error for key=%s: %v", key, err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			l.logger.Warn("RateLimiter: rate limited key=%s path=%s", key, r.URL.Path)
			handlers.RespondTooManyRequests(w, msgRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP IP клиента. X-Forwarded-For разбирается справа налево, только если
// запрос пришёл от доверенного прокси: ключом становится первый недоверенный адрес.
func (l *RateLimiter) clientIP(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}

	fwd := r.Header.Get("X-Forwarded-For")
	if fwd == "" || !l.trusted(remote) {
		return remote
	}

	hops := strings.Split(fwd, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if net.ParseIP(hop) == nil {
			return remote
		}
		if !l.trusted(hop) || i == 0 {
			return hop
		}
	}
	return remote
}

func (l *RateLimiter) trusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range l.trustedProxies {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// tokenBucketScript хранит остаток токенов и время последнего пополнения в hash на ключ
const tokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local interval = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local data = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = capacity
  ts = now
else
  local add = math.floor((now - ts) / interval)
  if add > 0 then
    tokens = math.min(tokens + add, capacity)
    ts = ts + add * interval
  end
end
local allowed = 0
if tokens > 0 then
  tokens = tokens - 1
  allowed = 1
end
redis.call('HSET', key, 'tokens', tokens, 'ts', ts)
redis.call('PEXPIRE', key, interval * capacity)
return allowed
`
