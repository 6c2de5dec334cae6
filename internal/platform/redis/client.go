// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the Redis client used by the postgres driver for
short-lived authentication state: OTP codes (10 minutes) and bearer sessions
(24 hours). Every key carries a TTL, so abandoned entries expire server-side.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Auth traffic is a handful of GET/SET/DEL per request.
const (
	poolSize    = 5
	ioTimeout   = 2 * time.Second
	dialTimeout = 3 * time.Second
)

// NewClient connects to redisURL and fails fast when the server is unreachable.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = poolSize
	options.MinIdleConns = 1
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	if err := Probe(client)(context); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected", slog.String("addr", options.Addr), slog.Int("db", options.DB))
	return client, nil
}

// Probe returns the readiness check of client: a PING bounded by the I/O timeout.
func Probe(client redis.UniversalClient) func(stdctx.Context) error {
	return func(context stdctx.Context) error {
		pingCtx, cancel := stdctx.WithTimeout(context, ioTimeout)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("redis: ping failed: %w", err)
		}
		return nil
	}
}
