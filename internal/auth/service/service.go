package service

import (
	"context"
	"time"

	"axentra_crm_backend/internal/auth/password"
	"axentra_crm_backend/internal/auth/repository"
	"axentra_crm_backend/internal/config"
	"axentra_crm_backend/platform/apperr"
	"axentra_crm_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const invalidCredentialsMessage = "invalid credentials"

type Service struct {
	repo *repository.Repository
	cfg  *config.Config
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Company   *string
}

// Register creates a new user account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, params RegisterParams) (repository.User, error) {
	hash, err := password.Hash(params.Password)
	if err != nil {
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Email:        params.Email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Company:      params.Company,
	})
	if err != nil {
		s.log.AuthEvent("register", params.Email, false, err.Error())
		return repository.User{}, err
	}

	s.log.AuthEvent("register", user.Email, true, "")
	return user, nil
}

// Login verifies credentials and issues a signed JWT.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (string, repository.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return "", repository.User{}, apperr.Unauthorized(invalidCredentialsMessage)
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return "", repository.User{}, apperr.Unauthorized(invalidCredentialsMessage)
	}

	token, err := s.signToken(user)
	if err != nil {
		return "", repository.User{}, apperr.Wrap(apperr.KindInternal, "sign token", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return token, user, nil
}

// Me returns the profile of the authenticated user.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Service) signToken(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
