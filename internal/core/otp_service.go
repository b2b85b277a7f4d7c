package core

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"nidhi-backend-go/internal/db"
	"nidhi-backend-go/internal/models"
	"nidhi-backend-go/pkg/mailer"
)

// Custom errors for the OTPService.
var (
	ErrOTPNotFound = errors.New("otp not found or expired")
	ErrOTPExpired  = errors.New("otp expired")
	ErrOTPInvalid  = errors.New("invalid otp")
	// ErrOTPStoreFailed and ErrOTPDispatchFailed keep the two upstream
	// failure modes of issuance distinguishable for the handler.
	ErrOTPStoreFailed    = errors.New("failed to store otp")
	ErrOTPDispatchFailed = errors.New("failed to send otp")
	// ErrMailDisabled is returned when no SMTP credentials are configured.
	ErrMailDisabled = errors.New("otp mail dispatch is not configured")
)

const otpValidity = 5 * time.Minute

// otpService implements the OTPService interface.
type otpService struct {
	otpRepo db.OTPRepository
	mail    mailer.Mailer
	now     func() time.Time
}

// NewOTPService creates a new OTPService instance. mail may be nil, in which
// case Generate fails with ErrMailDisabled and Verify keeps working.
func NewOTPService(otpRepo db.OTPRepository, mail mailer.Mailer) OTPService {
	return &otpService{
		otpRepo: otpRepo,
		mail:    mail,
		now:     time.Now,
	}
}

// randomCode draws a uniformly random 6-digit code in [100000, 999999].
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to draw random otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Generate issues a new code for the email, replacing any prior live one, and
// emails it. There is no rate limiting and no resend cooldown.
func (s *otpService) Generate(ctx context.Context, email string) error {
	if s.otpRepo == nil {
		return errors.New("otpService: OTPRepository not initialized")
	}
	if s.mail == nil {
		return ErrMailDisabled
	}

	code, err := randomCode()
	if err != nil {
		return err
	}

	record := &models.OTPRecord{
		OTP:       code,
		ExpiresAt: s.now().Add(otpValidity).UnixMilli(),
	}
	if err := s.otpRepo.Upsert(ctx, email, record); err != nil {
		return fmt.Errorf("%w: %v", ErrOTPStoreFailed, err)
	}

	subject := "Your OTP Code"
	body := fmt.Sprintf("Your OTP code is %s. It is valid for 5 minutes.", code)
	if err := s.mail.Send(email, subject, body); err != nil {
		return fmt.Errorf("%w: %v", ErrOTPDispatchFailed, err)
	}
	return nil
}

// Verify consumes the code for the email, mapping the repository sentinels to
// service-level errors: not-found, expired (record deleted as a side effect)
// or invalid (record left retriable until expiry).
func (s *otpService) Verify(ctx context.Context, email, code string) error {
	if s.otpRepo == nil {
		return errors.New("otpService: OTPRepository not initialized")
	}

	err := s.otpRepo.Consume(ctx, email, code, s.now().UnixMilli())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNotFound):
		return ErrOTPNotFound
	case errors.Is(err, db.ErrOTPExpired):
		return ErrOTPExpired
	case errors.Is(err, db.ErrOTPMismatch):
		return ErrOTPInvalid
	default:
		return fmt.Errorf("failed to verify otp for %s: %w", email, err)
	}
}
