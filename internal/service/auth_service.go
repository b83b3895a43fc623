package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"notesmith-server/internal/domain"
	"notesmith-server/internal/repository"
	"notesmith-server/pkg/hash"
	"notesmith-server/pkg/jwt"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExp time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExp,
	}
}

func (s *AuthService) Register(req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	emailExists, err := s.userRepo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if emailExists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := hash.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:                  uuid.New().String(),
		Name:                strings.TrimSpace(req.Name),
		Email:               email,
		Password:            hashedPassword,
		Role:                domain.RoleUser,
		ViewPreference:      domain.ViewPreferenceSplit,
		LLMRequestCount:     0,
		LLMRequestLastReset: now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.tokenResponse(user)
}

func (s *AuthService) Login(req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := hash.Compare(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

// Authenticate resolves a bearer token to its user. It fails if the token is
// invalid or expired, the user no longer exists, or the password changed
// after the token was issued.
func (s *AuthService) Authenticate(token string) (*domain.User, error) {
	claims, err := jwt.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, errors.New("the user belonging to this token no longer exists")
	}

	if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, errors.New("password changed after token was issued")
	}

	user.Password = ""
	return user, nil
}

func (s *AuthService) GetUser(id string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	user.Password = ""
	return user, nil
}

// UpdatePassword verifies the current password, stores the new hash, and
// stamps passwordChangedAt so outstanding tokens stop validating. A fresh
// token is returned for the current session.
func (s *AuthService) UpdatePassword(userID string, req *domain.UpdatePasswordRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := hash.Compare(user.Password, req.CurrentPassword); err != nil {
		return nil, ErrIncorrectPassword
	}

	hashedPassword, err := hash.Hash(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Backdated one second so the token issued below postdates the change
	changedAt := time.Now().Add(-time.Second)

	user.Password = hashedPassword
	user.PasswordChangedAt = &changedAt
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.tokenResponse(user)
}

func (s *AuthService) UpdateViewPreference(userID string, pref domain.ViewPreference) (*domain.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	user.ViewPreference = pref
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user.Password = ""
	return user, nil
}

func (s *AuthService) tokenResponse(user *domain.User) (*domain.AuthResponse, error) {
	token, err := jwt.GenerateToken(user.ID, s.jwtExpiration, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	out := *user
	out.Password = ""

	return &domain.AuthResponse{
		Token: token,
		User:  &out,
	}, nil
}
