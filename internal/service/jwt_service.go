package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultTokenTTL = 7 * 24 * time.Hour
	tokenIssuer     = "kova-store"
)

// ErrInvalidToken covers every decode failure: malformed, forged, expired.
var ErrInvalidToken = errors.New("invalid token")

// JWTService mints and decodes stateless HS256 session tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Claims is the payload of a session token. Subject carries the user email.
type Claims struct {
	jwt.RegisteredClaims
}

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: tokenIssuer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// TTL returns the lifetime of minted tokens.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Mint signs a token for subject valid from now for the configured TTL.
func (s *JWTService) Mint(subject string) (string, error) {
	token, _, err := s.Issue(subject)
	return token, err
}

// Issue is Mint that also returns the exp claim it signed.
func (s *JWTService) Issue(subject string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrInvalidToken
	}
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, ErrInvalidToken
	}
	now := s.now()
	expiresAt := jwt.NewNumericDate(now.Add(s.ttl))
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expiresAt,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt.Time, nil
}

// Decode verifies signature, algorithm, issuer and expiry, and returns the subject.
func (s *JWTService) Decode(tokenString string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(tokenString) == "" {
		return "", ErrInvalidToken
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
