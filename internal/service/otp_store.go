package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"

	"kova-store/internal/domain"
	"kova-store/internal/repository"
)

const defaultOTPTTL = 300 * time.Second

// ErrInvalidOrExpired is the only verification failure callers ever see.
// Unknown email, missing code, wrong code and expired code are indistinguishable.
var ErrInvalidOrExpired = errors.New("invalid or expired otp")

// OTPStore keeps the per-user pending passcode inside the user record.
type OTPStore struct {
	users    repository.UserRepository
	ttl      time.Duration
	now      func() time.Time
	generate func() (string, error)
}

func NewOTPStore(users repository.UserRepository, ttl time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	return &OTPStore{
		users:    users,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		generate: generateOTPCode,
	}
}

// IssuePasscode creates the user if needed and replaces any outstanding
// passcode with a fresh one.
func (s *OTPStore) IssuePasscode(ctx context.Context, email string) (string, time.Time, error) {
	code, err := s.generate()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate otp: %w", err)
	}
	expiresAt := s.now().Add(s.ttl)
	if _, err := s.users.UpsertOTP(ctx, email, code, expiresAt); err != nil {
		return "", time.Time{}, fmt.Errorf("store otp: %w", err)
	}
	return code, expiresAt, nil
}

// ConsumePasscode checks candidate against the pending passcode and clears it
// on success. A passcode can be consumed at most once.
func (s *OTPStore) ConsumePasscode(ctx context.Context, email, candidate string) (domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidOrExpired
		}
		return domain.User{}, err
	}
	if !user.HasPendingOTP() {
		return domain.User{}, ErrInvalidOrExpired
	}
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(user.OtpCode)) != 1 {
		return domain.User{}, ErrInvalidOrExpired
	}
	if !s.now().Before(*user.OtpExpiresAt) {
		return domain.User{}, ErrInvalidOrExpired
	}

	cleared, err := s.users.ClearOTP(ctx, user.ID, user.OtpCode)
	if err != nil {
		return domain.User{}, err
	}
	if !cleared {
		// Consumed or re-issued by a concurrent request.
		return domain.User{}, ErrInvalidOrExpired
	}

	user.OtpCode = ""
	user.OtpExpiresAt = nil
	return user, nil
}

// generateOTPCode returns a uniformly random code in 000000-999999.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
