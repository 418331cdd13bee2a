// Package service holds the business rules behind each route. Services take
// repositories as interfaces and return models.AppError values.
package service

import (
	"context"
	"strings"

	"devconnect/internal/models"
	"devconnect/internal/observability"
	"devconnect/internal/repository"
	"devconnect/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs access tokens for a user id.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

type AuthService struct {
	userRepo   repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{userRepo: userRepo, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a user with a gravatar avatar and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		observability.RecordAuthEvent("register", "conflict")
		return "", models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Avatar:   validation.GravatarURL(in.Email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if models.HasCode(err, models.CodeConflict) {
			observability.RecordAuthEvent("register", "conflict")
		}
		return "", err
	}

	observability.RecordAuthEvent("register", "ok")
	return s.issue(user.ID)
}

// Login checks the credentials and returns a fresh token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		observability.RecordAuthEvent("login", "invalid_credentials")
		return "", models.NewValidationError("Invalid credentials")
	}

	observability.RecordAuthEvent("login", "ok")
	return s.issue(user.ID)
}

// CurrentUser returns the authenticated user without the password hash.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) issue(userID uint) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}
