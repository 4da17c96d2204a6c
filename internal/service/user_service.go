// Package service holds the business rules behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"strings"

	"devconnector/internal/avatar"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"
	"devconnector/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 10

const msgInvalidCredentials = "Invalid credentials"

// TokenSigner mints identity tokens. *auth.TokenIssuer satisfies it.
type TokenSigner interface {
	Sign(userID uint) (string, error)
}

type UserService struct {
	userRepo repository.UserRepository
	tokens   TokenSigner
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewUserService(userRepo repository.UserRepository, tokens TokenSigner) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens}
}

// Register creates an account and returns a token for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (token string, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService", "Register")
	defer func() {
		observability.EndSpan(span, err)
		observability.RecordAuthEvent("register", outcome(err))
	}()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.Validate(
		validation.F("name", in.Name, validation.Required("Name is required")),
		validation.F("email", in.Email, validation.Email("Please include a valid email")...),
		validation.F("password", in.Password, validation.MinLength(6, "Please enter a password with 6 or more characters")...),
	); err != nil {
		return "", err
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Avatar:   avatar.Gravatar(in.Email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	return s.sign(user.ID)
}

// Login checks credentials and returns a fresh token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (token string, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService", "Login")
	defer func() {
		observability.EndSpan(span, err)
		observability.RecordAuthEvent("login", outcome(err))
	}()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.Validate(
		validation.F("email", in.Email, validation.Email("Please include a valid email")...),
		validation.F("password", in.Password, validation.Required("Password is required")),
	); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewValidationError(msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", models.NewValidationError(msgInvalidCredentials)
		}
		return "", models.NewInternalError(err)
	}

	return s.sign(user.ID)
}

// Me returns the authenticated user's account.
func (s *UserService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) sign(userID uint) (string, error) {
	token, err := s.tokens.Sign(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case models.IsCode(err, models.CodeInternal):
		return "error"
	default:
		return "rejected"
	}
}
