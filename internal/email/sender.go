package email

import (
	"context"
	"errors"
	"time"
)

// ErrHardFailure marks a delivery the provider permanently rejected.
// Transient or configuration problems are reported without it.
var ErrHardFailure = errors.New("email delivery rejected")

// Sender delivers one-time passcodes.
type Sender interface {
	SendOTP(ctx context.Context, toEmail string, code string, expiresAt time.Time) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendOTP(_ context.Context, _ string, _ string, _ time.Time) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
