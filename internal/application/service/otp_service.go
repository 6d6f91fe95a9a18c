package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/billpoint/billpoint-api/pkg/apperror"
)

// OTP purposes. Each purpose keeps its own challenge per email, so a
// pending password-reset code never satisfies an account-deletion check.
const (
	OTPPurposeRegister = "register"
	OTPPurposeReset    = "reset"
	OTPPurposeDelete   = "delete"
)

// Mailer delivers transactional mail. Satisfied by email.EmailService.
type Mailer interface {
	SendOTPEmail(toEmail, code string, validity time.Duration, purpose string) error
	SendDeletionConfirmation(toEmail string) error
}

// OTPConfig tunes challenge lifetime and throttling.
type OTPConfig struct {
	TTL          time.Duration
	ResendWindow time.Duration
	// MaxAttempts locks a challenge after that many wrong guesses.
	// Zero disables the lockout.
	MaxAttempts int
}

// OTPService issues and verifies short-lived numeric codes backed by
// Redis. Expiry is lazy: a key past its TTL simply stops existing, no
// sweeper runs.
type OTPService struct {
	redis  *redis.Client
	mailer Mailer
	cfg    OTPConfig
}

func NewOTPService(redisClient *redis.Client, mailer Mailer, cfg OTPConfig) *OTPService {
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Minute
	}
	if cfg.ResendWindow <= 0 {
		cfg.ResendWindow = cfg.TTL
	}
	return &OTPService{redis: redisClient, mailer: mailer, cfg: cfg}
}

func otpKey(purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

func otpThrottleKey(purpose, email string) string {
	return fmt.Sprintf("otp:throttle:%s:%s", purpose, email)
}

func otpAttemptsKey(purpose, email string) string {
	return fmt.Sprintf("otp:attempts:%s:%s", purpose, email)
}

func otpVerifiedKey(purpose, email string) string {
	return fmt.Sprintf("otp:verified:%s:%s", purpose, email)
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue creates a fresh challenge for (purpose, email), replacing any
// pending one, and emails the code. A request inside the resend window
// is throttled. Mail delivery is best-effort: the challenge stays
// issued even if the SMTP call fails.
func (s *OTPService) Issue(ctx context.Context, purpose, email string) error {
	ok, err := s.redis.SetNX(ctx, otpThrottleKey(purpose, email), 1, s.cfg.ResendWindow).Result()
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrOTPThrottled
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, otpKey(purpose, email), code, s.cfg.TTL)
	pipe.Del(ctx, otpAttemptsKey(purpose, email))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if err := s.mailer.SendOTPEmail(email, code, s.cfg.TTL, purpose); err != nil {
		log.Printf("otp: failed to send code to %s: %v", email, err)
	}
	return nil
}

// Verify checks a submitted code against the pending challenge. A
// correct code is single-use: the challenge is deleted before Verify
// returns. A wrong code leaves the challenge usable, unless MaxAttempts
// is enabled and exhausted.
func (s *OTPService) Verify(ctx context.Context, purpose, email, code string) error {
	stored, err := s.redis.Get(ctx, otpKey(purpose, email)).Result()
	if err == redis.Nil {
		return apperror.ErrOTPExpired
	}
	if err != nil {
		return err
	}

	if stored != code {
		if s.cfg.MaxAttempts > 0 {
			attempts, err := s.redis.Incr(ctx, otpAttemptsKey(purpose, email)).Result()
			if err != nil {
				return err
			}
			s.redis.Expire(ctx, otpAttemptsKey(purpose, email), s.cfg.TTL)
			if attempts >= int64(s.cfg.MaxAttempts) {
				s.redis.Del(ctx, otpKey(purpose, email), otpAttemptsKey(purpose, email))
				return apperror.ErrOTPMaxAttempts
			}
		}
		return apperror.ErrOTPInvalid
	}

	s.redis.Del(ctx, otpKey(purpose, email), otpAttemptsKey(purpose, email), otpThrottleKey(purpose, email))
	return nil
}

// MarkVerified records a successful challenge so a follow-up operation
// (registration after email verification) can require it. The marker
// outlives the code but still expires on its own.
func (s *OTPService) MarkVerified(ctx context.Context, purpose, email string) error {
	if err := s.redis.Set(ctx, otpVerifiedKey(purpose, email), 1, 15*time.Minute).Err(); err != nil {
		return err
	}
	return nil
}

// ConsumeVerified checks and clears the verified marker in one step.
func (s *OTPService) ConsumeVerified(ctx context.Context, purpose, email string) (bool, error) {
	n, err := s.redis.Del(ctx, otpVerifiedKey(purpose, email)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
