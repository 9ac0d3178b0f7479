package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"skill-hire/internal/config"
	"skill-hire/internal/pkg/logger"
)

var ErrUnavailable = errors.New("redis unavailable")

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Redis is a best-effort cache. Every call degrades to a miss or a no-op
// when the server is unreachable or the breaker is open.
type Redis struct {
	client  *redis.Client
	logger  logrus.FieldLogger
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
	release *redis.Script

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, log logrus.FieldLogger) *Redis {
	log = logger.OrDefault(log)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unavailable, bypassing cache")
		_ = client.Close()
		return &Redis{logger: log, ttl: cfg.TTL}
	}

	return newRedis(client, cfg.TTL, log)
}

func newRedis(client *redis.Client, ttl time.Duration, log logrus.FieldLogger) *Redis {
	r := &Redis{
		client:  client,
		logger:  logger.OrDefault(log),
		ttl:     ttl,
		release: redis.NewScript(releaseScript),
	}
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("cache breaker state changed")
		},
	})
	return r
}

// Client exposes the underlying client, nil when Redis is unavailable.
func (r *Redis) Client() *redis.Client {
	if r == nil {
		return nil
	}
	return r.client
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

// Available reports whether a Redis client is configured. It says nothing
// about the breaker state.
func (r *Redis) Available() bool {
	return !r.isUnavailable()
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.WithError(err).Warn("redis call failed, bypassing cache")
	}
}

func (r *Redis) exec(fn func() (any, error)) (any, error) {
	v, err := r.breaker.Execute(fn)
	if err != nil && !errors.Is(err, redis.Nil) {
		r.warnUnavailableOnce(err)
	}
	return v, err
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	v, err := r.exec(func() (any, error) {
		return r.client.Get(ctx, key).Bytes()
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	b, _ := v.([]byte)
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = r.exec(func() (any, error) {
		return nil, r.client.Set(ctx, key, b, ttl).Err()
	})
	return err
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.isUnavailable() {
		return nil
	}
	_, err := r.exec(func() (any, error) {
		return nil, r.client.Del(ctx, key).Err()
	})
	return err
}

// Acquire takes a short-lived lock on key. The returned token must be passed
// to Release. ok is false when another holder owns the key.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if r.isUnavailable() {
		return "", false, ErrUnavailable
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	token := newToken()
	v, err := r.exec(func() (any, error) {
		return r.client.SetNX(ctx, key, token, ttl).Result()
	})
	if err != nil {
		return "", false, err
	}
	ok, _ := v.(bool)
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the lock only if token still owns it.
func (r *Redis) Release(ctx context.Context, key, token string) error {
	if r.isUnavailable() {
		return nil
	}
	_, err := r.exec(func() (any, error) {
		return r.release.Run(ctx, r.client, []string{key}, token).Result()
	})
	return err
}
