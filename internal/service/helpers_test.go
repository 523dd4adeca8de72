package service

import (
	"time"

	"kova-store/internal/domain"
)

func domainUser(email string) domain.User {
	return domain.User{Email: email, Role: domain.RoleStandard, CreatedAt: time.Now().UTC()}
}
