// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/fruitlog/internal/platform/constants"
)

// redisExpiryGrace keeps entries readable past their logical expiry so the
// service can still answer CODE_EXPIRED or SESSION_EXPIRED instead of a miss.
const redisExpiryGrace = time.Hour

// redisScanBatch is the COUNT hint used when sweeping expired keys.
const redisScanBatch = 100

// # OTP Codes

// RedisOTPRepository implements [OTPRepository] with one key per email.
type RedisOTPRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisOTPRepository creates a new Redis-backed OTP repository.
func NewRedisOTPRepository(client redis.UniversalClient) *RedisOTPRepository {
	return &RedisOTPRepository{client: client, now: time.Now}
}

/*
Replace stores the code under auth:otp:<email>.

Description: SET overwrites any earlier code, which keeps a single code per
email without a read-modify-write cycle.

Returns:
  - error: Serialization or connectivity errors
*/
func (repository *RedisOTPRepository) Replace(context context.Context, code *OTPCode) error {
	if err := setJSON(context, repository.client, constants.RedisPrefixOTP+code.Email, code, ttlUntil(code.ExpiresAt, repository.now())); err != nil {
		return fmt.Errorf("redis_otp_replace_failed: %w", err)
	}
	return nil
}

func (repository *RedisOTPRepository) Find(context context.Context, email string) (*OTPCode, error) {
	code := &OTPCode{}
	if err := getJSON(context, repository.client, constants.RedisPrefixOTP+email, code); err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("redis_otp_find_failed: %w", err)
	}
	return code, nil
}

/*
Consume reads and conditionally deletes auth:otp:<email> in a WATCH/MULTI
transaction.

Description: When another client deletes or replaces the key between the GET
and the DEL, the transaction aborts and the caller sees [ErrNoRecord], so a
code can only ever be removed by one verifier.
*/
func (repository *RedisOTPRepository) Consume(context context.Context, email string, remove func(code *OTPCode) bool) (*OTPCode, bool, error) {
	key := constants.RedisPrefixOTP + email

	var (
		found   *OTPCode
		removed bool
	)

	err := repository.client.Watch(context, func(tx *redis.Tx) error {
		code := &OTPCode{}
		if err := getJSON(context, tx, key, code); err != nil {
			return err
		}

		found = code
		if !remove(code) {
			return nil
		}

		_, err := tx.TxPipelined(context, func(pipe redis.Pipeliner) error {
			pipe.Del(context, key)
			return nil
		})
		removed = err == nil
		return err
	}, key)

	switch {
	case errors.Is(err, ErrNoRecord), errors.Is(err, redis.TxFailedErr):
		return nil, false, ErrNoRecord
	case err != nil:
		return nil, false, fmt.Errorf("redis_otp_consume_failed: %w", err)
	}
	return found, removed, nil
}

func (repository *RedisOTPRepository) DeleteExpired(context context.Context, before time.Time) (int, error) {
	return sweep(context, repository.client, constants.RedisPrefixOTP, func(raw []byte) (bool, error) {
		code := &OTPCode{}
		if err := json.Unmarshal(raw, code); err != nil {
			return false, err
		}
		return code.Expired(before), nil
	})
}

// # Sessions

// RedisSessionRepository implements [SessionRepository] with one key per token digest.
type RedisSessionRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisSessionRepository creates a new Redis-backed session repository.
func NewRedisSessionRepository(client redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, now: time.Now}
}

/*
Create stores the session under auth:session:<digest> with SETNX.

Returns:
  - error: [ErrDuplicateSession] when the key exists, or connectivity errors
*/
func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	key := constants.RedisPrefixSession + session.TokenHash
	created, err := repository.client.SetNX(context, key, payload, ttlUntil(session.ExpiresAt, repository.now())).Result()
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	if !created {
		return ErrDuplicateSession
	}

	return nil
}

func (repository *RedisSessionRepository) Find(context context.Context, tokenHash string) (*Session, error) {
	session := &Session{}
	if err := getJSON(context, repository.client, constants.RedisPrefixSession+tokenHash, session); err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("redis_session_find_failed: %w", err)
	}
	return session, nil
}

func (repository *RedisSessionRepository) Delete(context context.Context, tokenHash string) error {
	if err := repository.client.Del(context, constants.RedisPrefixSession+tokenHash).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

func (repository *RedisSessionRepository) DeleteExpired(context context.Context, before time.Time) (int, error) {
	return sweep(context, repository.client, constants.RedisPrefixSession, func(raw []byte) (bool, error) {
		session := &Session{}
		if err := json.Unmarshal(raw, session); err != nil {
			return false, err
		}
		return session.Expired(before), nil
	})
}

// # Helpers

// ttlUntil returns the key TTL for an entry expiring at expiresAt.
func ttlUntil(expiresAt, now time.Time) time.Duration {
	return max(expiresAt.Sub(now), 0) + redisExpiryGrace
}

func setJSON(context context.Context, client redis.UniversalClient, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(context, key, payload, ttl).Err()
}

func getJSON(context context.Context, client redis.Cmdable, key string, target any) error {
	raw, err := client.Get(context, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNoRecord
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

// sweep deletes every key under prefix whose payload the expired predicate accepts.
func sweep(context context.Context, client redis.UniversalClient, prefix string, expired func([]byte) (bool, error)) (int, error) {
	removed := 0
	iter := client.Scan(context, 0, prefix+"*", redisScanBatch).Iterator()

	for iter.Next(context) {
		key := iter.Val()

		raw, err := client.Get(context, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("redis_sweep_get_failed: %w", err)
		}

		isExpired, err := expired(raw)
		if err != nil || !isExpired {
			continue
		}

		if err := client.Del(context, key).Err(); err != nil {
			return removed, fmt.Errorf("redis_sweep_delete_failed: %w", err)
		}
		removed++
	}

	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis_sweep_scan_failed: %w", err)
	}

	return removed, nil
}
