// Package otp implements the one-time-password login flow backed by an
// expiring key-value store: otp:<mobile> holds the code, attempt counter and
// the token it will mint; auth_token:<token> holds the short-lived session.
package otp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	ErrMissingMobile   = errors.New("mobile number is required")
	ErrOTPNotFound     = errors.New("no active OTP for this mobile number")
	ErrOTPMismatch     = errors.New("incorrect OTP")
	ErrTooManyAttempts = errors.New("too many verification attempts, request a new OTP")
	ErrTokenInvalid    = errors.New("auth token is invalid or expired")
)

// SMSSender delivers the OTP text. Satisfied by the sms gateway client.
type SMSSender interface {
	Send(ctx context.Context, mobile, message string) error
}

type Config struct {
	OTPTTL       time.Duration
	AuthTokenTTL time.Duration
	MaxAttempts  int
}

type Service struct {
	rdb    *redis.Client
	sender SMSSender
	cfg    Config
	log    zerolog.Logger
}

func NewService(rdb *redis.Client, sender SMSSender, cfg Config, log zerolog.Logger) *Service {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	if cfg.AuthTokenTTL <= 0 {
		cfg.AuthTokenTTL = 50 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	return &Service{
		rdb:    rdb,
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

type otpRecord struct {
	OTP      string `json:"otp"`
	Attempts int    `json:"attempts"`
	Token    string `json:"token"`
}

type tokenRecord struct {
	Mobile     string    `json:"mobile"`
	VerifiedAt time.Time `json:"verified_at"`
}

func otpKey(mobile string) string  { return "otp:" + mobile }
func tokenKey(token string) string { return "auth_token:" + token }

// Send issues a fresh OTP for the mobile number, replacing any previous one,
// and delivers it by SMS.
func (s *Service) Send(ctx context.Context, mobile string) error {
	if mobile == "" {
		return ErrMissingMobile
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	rec := otpRecord{
		OTP:   code,
		Token: uuid.NewString(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}

	if err := s.rdb.Set(ctx, otpKey(mobile), data, s.cfg.OTPTTL).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	msg := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.cfg.OTPTTL.Minutes()))
	if err := s.sender.Send(ctx, mobile, msg); err != nil {
		// The OTP stays stored; the client can retry the send.
		return fmt.Errorf("send otp sms: %w", err)
	}

	s.log.Info().Str("mobile", mobile).Msg("otp sent")
	return nil
}

// Verify checks the submitted code. A correct code consumes the OTP and
// mints a short-lived auth token; a third wrong attempt invalidates the OTP.
func (s *Service) Verify(ctx context.Context, mobile, code string) (string, error) {
	if mobile == "" {
		return "", ErrMissingMobile
	}

	key := otpKey(mobile)

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrOTPNotFound
		}
		return "", fmt.Errorf("load otp: %w", err)
	}

	var rec otpRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("unmarshal otp record: %w", err)
	}

	if rec.OTP != code {
		rec.Attempts++
		if rec.Attempts >= s.cfg.MaxAttempts {
			_ = s.rdb.Del(ctx, key).Err()
			return "", ErrTooManyAttempts
		}

		updated, err := json.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("marshal otp record: %w", err)
		}
		// KeepTTL preserves the original expiry across attempt updates.
		if err := s.rdb.Set(ctx, key, updated, redis.KeepTTL).Err(); err != nil {
			return "", fmt.Errorf("update otp attempts: %w", err)
		}

		return "", ErrOTPMismatch
	}

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return "", fmt.Errorf("consume otp: %w", err)
	}

	tok := tokenRecord{
		Mobile:     mobile,
		VerifiedAt: time.Now().UTC(),
	}
	tokData, err := json.Marshal(tok)
	if err != nil {
		return "", fmt.Errorf("marshal token record: %w", err)
	}

	if err := s.rdb.Set(ctx, tokenKey(rec.Token), tokData, s.cfg.AuthTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("store auth token: %w", err)
	}

	s.log.Info().Str("mobile", mobile).Msg("otp verified")
	return rec.Token, nil
}

// ValidateToken resolves an auth token back to its mobile number.
func (s *Service) ValidateToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrTokenInvalid
	}

	data, err := s.rdb.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenInvalid
		}
		return "", fmt.Errorf("load auth token: %w", err)
	}

	var rec tokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("unmarshal token record: %w", err)
	}

	return rec.Mobile, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
