package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTService_MintDecode(t *testing.T) {
	svc := NewJWTService("secret", 0)

	token, err := svc.Mint("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected three dot-separated segments, got %d", len(parts))
	}

	subject, err := svc.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if subject != "a@x.com" {
		t.Fatalf("expected subject a@x.com, got %s", subject)
	}
}

func TestJWTService_DefaultTTLIsSevenDays(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTService("secret", 0)
	svc.now = fixedClock(issued)

	token, err := svc.Mint("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		t.Fatalf("parse unverified: %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(issued.Add(7 * 24 * time.Hour)) {
		t.Fatalf("expected exp issued+7d, got %v", claims.ExpiresAt.Time)
	}
	if !claims.IssuedAt.Time.Equal(issued) {
		t.Fatalf("expected iat %v, got %v", issued, claims.IssuedAt.Time)
	}
}

func TestJWTService_RejectsTamperedSignature(t *testing.T) {
	svc := NewJWTService("secret", 0)
	token, err := svc.Mint("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	// Flip a character in the middle of the signature segment.
	sigStart := strings.LastIndex(token, ".") + 1
	i := sigStart + (len(token)-sigStart)/2
	replacement := byte('A')
	if token[i] == 'A' {
		replacement = 'B'
	}
	tampered := token[:i] + string(replacement) + token[i+1:]

	if _, err := svc.Decode(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestJWTService_DecodesOnlyItsOwnSubject(t *testing.T) {
	svc := NewJWTService("secret", 0)
	tokenA, err := svc.Mint("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	tokenB, err := svc.Mint("b@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	subA, _ := svc.Decode(tokenA)
	subB, _ := svc.Decode(tokenB)
	if subA != "a@x.com" || subB != "b@x.com" {
		t.Fatalf("subjects crossed: %q %q", subA, subB)
	}
}

func TestJWTService_RejectsExpired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTService("secret", 0)
	svc.now = fixedClock(issued)

	token, err := svc.Mint("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	svc.now = fixedClock(issued.Add(7*24*time.Hour - time.Minute))
	if _, err := svc.Decode(token); err != nil {
		t.Fatalf("expected token valid just before expiry, got %v", err)
	}

	svc.now = fixedClock(issued.Add(7*24*time.Hour + time.Second))
	if _, err := svc.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestJWTService_RejectsOtherSecret(t *testing.T) {
	token, err := NewJWTService("other", 0).Mint("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := NewJWTService("secret", 0).Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}
}

func TestJWTService_RejectsEmptySecret(t *testing.T) {
	svc := NewJWTService("", 0)
	if _, err := svc.Mint("a@x.com"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on empty secret, got %v", err)
	}
}

func TestJWTService_RejectsMalformed(t *testing.T) {
	svc := NewJWTService("secret", 0)
	for _, token := range []string{"", "   ", "not-a-token", "a.b.c"} {
		if _, err := svc.Decode(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	svc := NewJWTService("secret", 0)
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "other-issuer",
			Subject:   "a@x.com",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Decode(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}

func TestJWTService_RejectsMissingExpiry(t *testing.T) {
	svc := NewJWTService("secret", 0)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  tokenIssuer,
			Subject: "a@x.com",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.Decode(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without exp, got %v", err)
	}
}

func TestJWTService_RejectsOtherAlgorithm(t *testing.T) {
	svc := NewJWTService("secret", 0)
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "a@x.com",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.Decode(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512, got %v", err)
	}
}

func TestJWTService_IssueReturnsSignedExpiry(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	svc.now = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 400_000_000, time.UTC))

	token, expiresAt, err := svc.Issue("a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		t.Fatalf("parse unverified: %v", err)
	}
	if !expiresAt.Equal(claims.ExpiresAt.Time) {
		t.Fatalf("expected %v, got signed exp %v", expiresAt, claims.ExpiresAt.Time)
	}
	if !expiresAt.Equal(time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected exp truncated to the second, got %v", expiresAt)
	}
}
