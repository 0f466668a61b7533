// Package service implements signup, login and token issuance.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bloodconnect_backend/internal/auth/repository"
	"bloodconnect_backend/internal/events"
	"bloodconnect_backend/platform/apperr"
	"bloodconnect_backend/platform/config"
	"bloodconnect_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	bus  events.Bus
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// AuthResult is returned on successful signup or login.
type AuthResult struct {
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Roles       []string  `json:"roles"`
	AccessToken string    `json:"accessToken"`
	ExpiresIn   int64     `json:"expiresIn"`
}

// SignUp registers a new user and issues an access token.
func (s *Service) SignUp(ctx context.Context, email, name, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to hash password", Op: "auth.SignUp", Err: err}
	}

	user, err := s.repo.CreateUser(ctx, email, strings.TrimSpace(name), string(hash))
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return AuthResult{}, &apperr.Error{Kind: apperr.KindConflict, Message: "email already registered", Op: "auth.SignUp"}
	}
	if err != nil {
		s.log.DatabaseError("auth.SignUp", err)
		return AuthResult{}, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to create user", Op: "auth.SignUp", Err: err}
	}

	s.bus.Publish(ctx, events.UserSignedUp{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
	})
	s.log.AuthEvent("signup", user.Email, true, "")

	return s.issue(ctx, user)
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.AuthEvent("login", email, false, "unknown email")
		return AuthResult{}, invalidCredentials()
	}
	if err != nil {
		s.log.DatabaseError("auth.Login", err)
		return AuthResult{}, &apperr.Error{Kind: apperr.KindInternal, Message: "login failed", Op: "auth.Login", Err: err}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return AuthResult{}, invalidCredentials()
	}

	s.log.AuthEvent("login", email, true, "")
	return s.issue(ctx, user)
}

func (s *Service) issue(ctx context.Context, user repository.User) (AuthResult, error) {
	roles, err := s.repo.GetUserRoles(ctx, user.ID)
	if err != nil {
		s.log.DatabaseError("auth.roles", err)
		return AuthResult{}, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to load roles", Op: "auth.issue", Err: err}
	}

	ttl := s.cfg.GetAccessTokenTTL()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"roles": roles,
		"type":  "access",
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return AuthResult{}, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to sign token", Op: "auth.issue", Err: err}
	}

	return AuthResult{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Roles:       roles,
		AccessToken: signed,
		ExpiresIn:   int64(ttl.Seconds()),
	}, nil
}

func invalidCredentials() error {
	return &apperr.Error{Kind: apperr.KindUnauthorized, Message: "invalid email or password"}
}
