package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"kova-store/internal/domain"
	"kova-store/internal/repository"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidProfile = errors.New("invalid profile")
)

const maxProfileFieldLen = 100

// UserService handles profile management and out-of-band role changes.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{logger: logger, users: users}
}

// UpdateProfile overwrites the editable profile fields of user.
func (s *UserService) UpdateProfile(ctx context.Context, user domain.User, input domain.Profile) (domain.User, error) {
	profile := domain.Profile{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
	}
	for _, v := range []string{profile.FirstName, profile.LastName, profile.Phone} {
		if utf8.RuneCountInString(v) > maxProfileFieldLen {
			return domain.User{}, ErrInvalidProfile
		}
	}

	if err := s.users.UpdateProfile(ctx, user.ID, profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	user.FirstName = &profile.FirstName
	user.LastName = &profile.LastName
	user.Phone = &profile.Phone
	return user, nil
}

// PromoteToAdmin grants the administrator role. The user must already exist,
// i.e. have requested a passcode at least once.
func (s *UserService) PromoteToAdmin(ctx context.Context, emailAddr string) error {
	emailAddr, err := parseEmail(emailAddr)
	if err != nil {
		return err
	}
	if err := s.users.SetRole(ctx, emailAddr, domain.RoleAdministrator); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info("user promoted to administrator", zap.String("email", emailAddr))
	return nil
}
