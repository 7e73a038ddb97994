package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pixeloid/hgye-webinar/domain"
)

// OTPStoreImpl implements domain.OTPStore on Redis. One store serves every
// purpose (login, device verification, session transfer); keys are
// subject+purpose pairs so the purposes cannot collide.
//
// The Redis TTL is the challenge expiry plus a grace window: within the
// grace a stale code is still present and reports ErrOTPExpired, after it
// the key is gone and the caller sees ErrOTPNotFound.
type OTPStoreImpl struct {
	redisClient *redis.Client
	config      OTPConfig
	now         func() time.Time
}

type OTPConfig struct {
	Length      int
	EmailTTL    time.Duration // login, device_verification
	TransferTTL time.Duration // session_transfer
	MaxAttempts int
	Grace       time.Duration
}

// consumeScript deletes the challenge only if it is still the exact value
// the caller verified, so a concurrent verification of the same code can
// succeed at most once.
var consumeScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	redis.call('DEL', KEYS[1], KEYS[2])
	return 1
end
return 0
`)

// NewOTPStore creates a new Redis-backed OTP store
func NewOTPStore(redisClient *redis.Client, config OTPConfig) domain.OTPStore {
	return &OTPStoreImpl{
		redisClient: redisClient,
		config:      config,
		now:         time.Now,
	}
}

func otpKey(subject, purpose string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, subject)
}

func attemptsKey(subject, purpose string) string {
	return fmt.Sprintf("otp:att:%s:%s", purpose, subject)
}

func (s *OTPStoreImpl) ttlFor(purpose string) time.Duration {
	if purpose == domain.PurposeSessionTransfer {
		return s.config.TransferTTL
	}
	return s.config.EmailTTL
}

// Issue implements domain.OTPStore. Writing the key unconditionally
// replaces any outstanding code for the same subject+purpose, so codes
// never accumulate.
func (s *OTPStoreImpl) Issue(ctx context.Context, subject, purpose string, cctx domain.ChallengeContext) (*domain.OTPChallenge, error) {
	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	now := s.now()
	ttl := s.ttlFor(purpose)
	challenge := &domain.OTPChallenge{
		Subject:    subject,
		Code:       code,
		Purpose:    purpose,
		DeviceHash: cctx.DeviceHash,
		IP:         cctx.IP,
		UserAgent:  cctx.UserAgent,
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}

	data, err := json.Marshal(challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal challenge: %w", err)
	}

	retention := ttl + s.config.Grace
	if err := s.redisClient.Set(ctx, otpKey(subject, purpose), data, retention).Err(); err != nil {
		return nil, fmt.Errorf("failed to store OTP in Redis: %w", err)
	}
	if err := s.redisClient.Set(ctx, attemptsKey(subject, purpose), 0, retention).Err(); err != nil {
		return nil, fmt.Errorf("failed to initialize attempts counter: %w", err)
	}

	return challenge, nil
}

// Verify implements domain.OTPStore. A successful match consumes the
// challenge atomically; replaying the same code yields ErrOTPNotFound.
func (s *OTPStoreImpl) Verify(ctx context.Context, subject, purpose, code string) (*domain.OTPChallenge, error) {
	key := otpKey(subject, purpose)
	attKey := attemptsKey(subject, purpose)

	data, err := s.redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get OTP from Redis: %w", err)
	}

	var challenge domain.OTPChallenge
	if err := json.Unmarshal([]byte(data), &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}

	if challenge.Expired(s.now()) {
		s.redisClient.Del(ctx, key, attKey)
		return nil, domain.ErrOTPExpired
	}

	if challenge.Code != code {
		attempts, err := s.redisClient.Incr(ctx, attKey).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to increment attempts: %w", err)
		}
		if attempts >= int64(s.config.MaxAttempts) {
			s.redisClient.Del(ctx, key, attKey)
			return nil, domain.ErrOTPMaxAttempts
		}
		return nil, domain.ErrOTPMismatch
	}

	consumed, err := consumeScript.Run(ctx, s.redisClient, []string{key, attKey}, data).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to consume OTP: %w", err)
	}
	if consumed != 1 {
		// A concurrent verification won the race.
		return nil, domain.ErrOTPNotFound
	}

	return &challenge, nil
}

// generateCode produces a uniformly random numeric code. For the default
// length of 6 the range is 100000-999999.
func (s *OTPStoreImpl) generateCode() (string, error) {
	length := s.config.Length
	if length < 4 {
		length = 6
	}
	low := int64(1)
	for i := 1; i < length; i++ {
		low *= 10
	}
	span := low*10 - low
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%d", low+n.Int64()), nil
}
