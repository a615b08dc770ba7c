package utils

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions selects the redis instance used for session revocation.
type RedisOptions struct {
	Host     string
	Port     int
	DB       int
	Password string
}

// NewRedis connects to redis and returns nil when Host is empty or the server does not answer,
// so callers fall back to in-process state.
func NewRedis(opts RedisOptions) *redis.Client {
	if opts.Host == "" {
		return nil
	}
	rc := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		Sugar.Warnf("redis unavailable at %s, using in-memory session revocation: %v", rc.Options().Addr, err)
		_ = rc.Close()
		return nil
	}
	return rc
}
