package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"kova-store/internal/domain"
	"kova-store/internal/email"
)

var (
	ErrInvalidEmail   = errors.New("invalid email")
	ErrRateLimited    = errors.New("rate limited")
	ErrDeliveryFailed = errors.New("otp delivery failed")
)

const defaultSendTimeout = 15 * time.Second

// LoginResult is returned after a successful passcode verification.
type LoginResult struct {
	AccessToken string
	Role        domain.Role
	ExpiresAt   time.Time
}

// AuthService drives the passcode login flow: request, deliver, verify, mint.
type AuthService struct {
	logger      *zap.Logger
	otp         *OTPStore
	tokens      *JWTService
	sender      email.Sender
	limiter     OTPRateLimiter
	sendTimeout time.Duration
}

// NewAuthService wires the flow. limiter may be nil, which disables rate limiting.
func NewAuthService(logger *zap.Logger, otp *OTPStore, tokens *JWTService, sender email.Sender, limiter OTPRateLimiter) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		logger:      logger,
		otp:         otp,
		tokens:      tokens,
		sender:      sender,
		limiter:     limiter,
		sendTimeout: defaultSendTimeout,
	}
}

// RequestPasscode issues a new passcode and hands it to the sender. The code is
// committed before delivery, so only a hard delivery failure is reported back.
func (s *AuthService) RequestPasscode(ctx context.Context, emailAddr string) error {
	emailAddr, err := parseEmail(emailAddr)
	if err != nil {
		return err
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, emailAddr) {
		return ErrRateLimited
	}

	code, expiresAt, err := s.otp.IssuePasscode(ctx, emailAddr)
	if err != nil {
		return err
	}

	return s.deliver(ctx, emailAddr, code, expiresAt)
}

func (s *AuthService) deliver(ctx context.Context, emailAddr, code string, expiresAt time.Time) error {
	if s.sender == nil {
		s.logger.Warn("otp sender not configured", zap.String("email", emailAddr))
		return nil
	}

	// Delivery outlives the inbound request: a client disconnect must not abort it.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sendTimeout)
	defer cancel()

	if err := s.sender.SendOTP(sendCtx, emailAddr, code, expiresAt); err != nil {
		s.logger.Warn("send otp failed", zap.Error(err), zap.String("email", emailAddr))
		if errors.Is(err, email.ErrHardFailure) {
			return ErrDeliveryFailed
		}
		return nil
	}
	s.logger.Info("otp sent", zap.String("email", emailAddr))
	return nil
}

// VerifyPasscode consumes the passcode and mints a session token for the user.
func (s *AuthService) VerifyPasscode(ctx context.Context, emailAddr, code string) (LoginResult, error) {
	emailAddr, err := parseEmail(emailAddr)
	if err != nil {
		return LoginResult{}, ErrInvalidOrExpired
	}

	user, err := s.otp.ConsumePasscode(ctx, emailAddr, code)
	if err != nil {
		return LoginResult{}, err
	}

	token, expiresAt, err := s.tokens.Issue(user.Email)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		AccessToken: token,
		Role:        user.Role,
		ExpiresAt:   expiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseEmail(raw string) (string, error) {
	normalized := normalizeEmail(raw)
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
