package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpoint/billpoint-api/internal/mocks"
	"github.com/billpoint/billpoint-api/pkg/apperror"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newTestOTPService(t *testing.T, cfg OTPConfig) (*miniredis.Miniredis, *OTPService, *mocks.MockMailer) {
	t.Helper()
	mr, client := newTestRedis(t)
	mailer := &mocks.MockMailer{}
	return mr, NewOTPService(client, mailer, cfg), mailer
}

func TestOTPService_IssueAndVerify(t *testing.T) {
	ctx := context.Background()
	_, svc, mailer := newTestOTPService(t, OTPConfig{TTL: 2 * time.Minute})

	require.NoError(t, svc.Issue(ctx, OTPPurposeRegister, "shop@example.com"))
	require.Len(t, mailer.SentCodes, 1)
	code := mailer.SentCodes[0]
	assert.Len(t, code, 6)
	assert.Equal(t, OTPPurposeRegister, mailer.SentPurposes[0])

	require.NoError(t, svc.Verify(ctx, OTPPurposeRegister, "shop@example.com", code))

	// Single use: the same code never works twice.
	err := svc.Verify(ctx, OTPPurposeRegister, "shop@example.com", code)
	assert.ErrorIs(t, err, apperror.ErrOTPExpired)
}

func TestOTPService_WrongCodeLeavesChallengeUsable(t *testing.T) {
	ctx := context.Background()
	_, svc, mailer := newTestOTPService(t, OTPConfig{TTL: 2 * time.Minute})

	require.NoError(t, svc.Issue(ctx, OTPPurposeReset, "shop@example.com"))
	code := mailer.SentCodes[0]

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err := svc.Verify(ctx, OTPPurposeReset, "shop@example.com", wrong)
	assert.ErrorIs(t, err, apperror.ErrOTPInvalid)

	require.NoError(t, svc.Verify(ctx, OTPPurposeReset, "shop@example.com", code))
}

func TestOTPService_PurposesAreIsolated(t *testing.T) {
	ctx := context.Background()
	_, svc, mailer := newTestOTPService(t, OTPConfig{TTL: 2 * time.Minute})

	require.NoError(t, svc.Issue(ctx, OTPPurposeReset, "shop@example.com"))
	code := mailer.SentCodes[0]

	err := svc.Verify(ctx, OTPPurposeDelete, "shop@example.com", code)
	assert.ErrorIs(t, err, apperror.ErrOTPExpired, "a reset code must not satisfy a delete challenge")
}

func TestOTPService_Expiry(t *testing.T) {
	ctx := context.Background()
	mr, svc, mailer := newTestOTPService(t, OTPConfig{TTL: 2 * time.Minute})

	require.NoError(t, svc.Issue(ctx, OTPPurposeRegister, "shop@example.com"))
	code := mailer.SentCodes[0]

	mr.FastForward(2*time.Minute + time.Second)

	err := svc.Verify(ctx, OTPPurposeRegister, "shop@example.com", code)
	assert.ErrorIs(t, err, apperror.ErrOTPExpired)
}

func TestOTPService_ResendThrottleAndSupersede(t *testing.T) {
	ctx := context.Background()
	mr, svc, mailer := newTestOTPService(t, OTPConfig{TTL: 2 * time.Minute, ResendWindow: time.Minute})

	require.NoError(t, svc.Issue(ctx, OTPPurposeRegister, "shop@example.com"))
	first := mailer.SentCodes[0]

	err := svc.Issue(ctx, OTPPurposeRegister, "shop@example.com")
	assert.ErrorIs(t, err, apperror.ErrOTPThrottled)

	mr.FastForward(time.Minute + time.Second)
	require.NoError(t, svc.Issue(ctx, OTPPurposeRegister, "shop@example.com"))
	require.Len(t, mailer.SentCodes, 2)
	second := mailer.SentCodes[1]

	if first != second {
		err = svc.Verify(ctx, OTPPurposeRegister, "shop@example.com", first)
		assert.ErrorIs(t, err, apperror.ErrOTPInvalid, "a reissue replaces the pending code")
	}
	require.NoError(t, svc.Verify(ctx, OTPPurposeRegister, "shop@example.com", second))
}

func TestOTPService_MaxAttemptsLockout(t *testing.T) {
	ctx := context.Background()
	_, svc, mailer := newTestOTPService(t, OTPConfig{TTL: 2 * time.Minute, MaxAttempts: 3})

	require.NoError(t, svc.Issue(ctx, OTPPurposeDelete, "shop@example.com"))
	code := mailer.SentCodes[0]

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	assert.ErrorIs(t, svc.Verify(ctx, OTPPurposeDelete, "shop@example.com", wrong), apperror.ErrOTPInvalid)
	assert.ErrorIs(t, svc.Verify(ctx, OTPPurposeDelete, "shop@example.com", wrong), apperror.ErrOTPInvalid)
	assert.ErrorIs(t, svc.Verify(ctx, OTPPurposeDelete, "shop@example.com", wrong), apperror.ErrOTPMaxAttempts)

	// The lockout destroys the challenge; even the right code is dead.
	err := svc.Verify(ctx, OTPPurposeDelete, "shop@example.com", code)
	assert.ErrorIs(t, err, apperror.ErrOTPExpired)
}

func TestOTPService_MailFailureDoesNotBlockIssue(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	mailer := &mocks.MockMailer{
		SendOTPEmailFunc: func(toEmail, code string, validity time.Duration, purpose string) error {
			return errors.New("smtp unreachable")
		},
	}
	svc := NewOTPService(client, mailer, OTPConfig{TTL: 2 * time.Minute})

	require.NoError(t, svc.Issue(ctx, OTPPurposeRegister, "shop@example.com"))
	assert.True(t, mr.Exists("otp:register:shop@example.com"), "the challenge stays issued when mail fails")
}

func TestOTPService_VerifiedMarkerIsConsumedOnce(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newTestOTPService(t, OTPConfig{TTL: 2 * time.Minute})

	require.NoError(t, svc.MarkVerified(ctx, OTPPurposeRegister, "shop@example.com"))

	ok, err := svc.ConsumeVerified(ctx, OTPPurposeRegister, "shop@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ConsumeVerified(ctx, OTPPurposeRegister, "shop@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
