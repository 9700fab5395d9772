package service

import (
	"testing"
	"time"

	"axentra_crm_backend/internal/auth/repository"
	"axentra_crm_backend/internal/config"
	"axentra_crm_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestSignToken_Claims(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  168 * time.Hour,
	}
	svc := New(nil, cfg, logger.New("test"))

	user := repository.User{
		ID:    uuid.New(),
		Email: "ada@example.com",
	}

	signed, err := svc.signToken(user)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			t.Fatalf("signing method = %v, want HS256", token.Method)
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		t.Fatal("token claims invalid")
	}
	if claims["sub"] != user.ID.String() {
		t.Fatalf("sub = %v, want %s", claims["sub"], user.ID)
	}
	if claims["email"] != user.Email {
		t.Fatalf("email = %v, want %s", claims["email"], user.Email)
	}

	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	if got := time.Duration(exp-iat) * time.Second; got != cfg.TokenTTL {
		t.Fatalf("token lifetime = %v, want %v", got, cfg.TokenTTL)
	}
}

func TestSignToken_RejectedWithWrongSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: "right-secret", TokenTTL: time.Hour}
	svc := New(nil, cfg, logger.New("test"))

	signed, err := svc.signToken(repository.User{ID: uuid.New(), Email: "x@example.com"})
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}

	_, err = jwt.Parse(signed, func(*jwt.Token) (any, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}
