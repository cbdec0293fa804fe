package service

import (
	"context"
	"errors"
	"time"
	"unimatch/research-app/internal/apperror"
	"unimatch/research-app/internal/domain"
	"unimatch/research-app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, and token issuance.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if name == "" || email == "" || password == "" || role == "" {
		return nil, apperror.New(apperror.KindValidation, "name, email, password, and role are required")
	}
	if role != domain.RoleProfessor && role != domain.RoleStudent {
		return nil, apperror.New(apperror.KindValidation, "role must be professor or student")
	}

	// Check if user already exists
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict("user with this email already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Infrastructure("failed to check existing user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Infrastructure("failed to hash password", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		// ID, CreatedAt, UpdatedAt set by the repository layer
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Unique email index turns a register race into a duplicate key error
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.Conflict("user with this email already exists")
		}
		return nil, apperror.Infrastructure("failed to create user", err)
	}
	user.ID = userID

	return user, nil
}

// Login verifies credentials and issues a signed JWT.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, apperror.New(apperror.KindValidation, "email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same message for unknown email and wrong password
			return "", nil, apperror.New(apperror.KindAuth, "invalid email or password")
		}
		return "", nil, apperror.Infrastructure("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperror.New(apperror.KindAuth, "invalid email or password")
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, apperror.Infrastructure("failed to generate authentication token", err)
	}

	return token, user, nil
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  user.ID.Hex(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.jwtExpiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
