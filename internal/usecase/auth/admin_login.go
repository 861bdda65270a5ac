package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"` // seconds
}

// AdminLoginUsecase authenticates the single configured operator account.
// The password hash comes from configuration, not a user table; this bot has
// exactly one trusted admin identity.
type AdminLoginUsecase struct {
	adminEmail   string
	passwordHash string
	jwtSecret    []byte
	expMin       int
}

func NewAdminLoginUsecase(adminEmail, passwordHash, jwtSecret string, expiresMinutes int) *AdminLoginUsecase {
	if expiresMinutes <= 0 {
		expiresMinutes = 60
	}
	return &AdminLoginUsecase{
		adminEmail:   adminEmail,
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
		expMin:       expiresMinutes,
	}
}

func (u *AdminLoginUsecase) Execute(_ context.Context, email, password string) (*LoginResult, error) {
	// Constant error shape: never reveal whether the email or the password
	// was the wrong half.
	if !strings.EqualFold(strings.TrimSpace(email), u.adminEmail) {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	exp := now.Add(time.Duration(u.expMin) * time.Minute)

	claims := jwt.MapClaims{
		"sub":   u.adminEmail,
		"typ":   "admin",
		"email": u.adminEmail,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(u.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: signed,
		ExpiresIn:   u.expMin * 60,
	}, nil
}
