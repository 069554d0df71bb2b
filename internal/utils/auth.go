package utils

import (
	"crypto/rand"
	"fmt"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// 🔐 HashPassword hashes plain with bcrypt at the given cost, clamped to bcrypt's range.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// 🔑 VerifyPassword reports whether plain matches hash. An empty or malformed hash never matches.
func VerifyPassword(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

type LoginKind int

const (
	LoginInvalid LoginKind = iota
	LoginByEmail
	LoginByPhone
)

func (k LoginKind) String() string {
	switch k {
	case LoginByEmail:
		return "email"
	case LoginByPhone:
		return "phone"
	default:
		return "invalid"
	}
}

// LoginKey is a classified login identifier; Value is normalized for lookup.
type LoginKey struct {
	Kind  LoginKind
	Value string
}

var loginValidator = playgroundvalidator.New()

// ClassifyLogin decides whether raw is an email address, a phone number, or neither.
func ClassifyLogin(raw string) LoginKey {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LoginKey{Kind: LoginInvalid}
	}
	if strings.Contains(raw, "@") {
		if loginValidator.Var(raw, "email") == nil {
			return LoginKey{Kind: LoginByEmail, Value: strings.ToLower(raw)}
		}
		return LoginKey{Kind: LoginInvalid}
	}
	if phone := NormalizePhone(raw); IsPhone(phone) {
		return LoginKey{Kind: LoginByPhone, Value: phone}
	}
	return LoginKey{Kind: LoginInvalid}
}

// 🎲 GenerateRandomString generates a random string of specified length using crypto/rand
func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random string: %w", err)
	}

	for i := 0; i < length; i++ {
		b[i] = charset[b[i]%byte(len(charset))]
	}

	return string(b), nil
}

// GenerateNumericCode returns a random code of digits, used for password resets sent by SMS or email.
func GenerateNumericCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	for i := range b {
		b[i] = '0' + b[i]%10
	}
	return string(b), nil
}
