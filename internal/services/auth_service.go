package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"fbay/internal/auctionerrors"
	"fbay/internal/models"
	"fbay/internal/repositories"
	"fbay/pkg/logger"
)

// Welcomer sends the signup notification.
type Welcomer interface {
	Welcome(ctx context.Context, user *models.User) error
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	welcomer  Welcomer
	jwtSecret []byte
	tokenTTL  time.Duration // Duration for which a JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, welcomer Welcomer, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		welcomer:  welcomer,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// RegisterUser validates the signup data, hashes the password, saves the
// user and sends the welcome notification. A failed notification is logged
// and does not undo the signup.
func (s *AuthService) RegisterUser(ctx context.Context, input SignupInput) (*models.User, error) {
	input = input.trimmed()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	dob, err := parseDate("dob", input.DOB)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)

	// Check if email already exists
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email '%s': %w", email, auctionerrors.ErrEmailTaken)
	} else if !errors.Is(err, auctionerrors.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, Password: hashedPassword, DOB: dob}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.welcomer.Welcome(ctx, user); err != nil {
		logger.Error("failed to send welcome email", map[string]any{
			"user_id": user.ID,
			"email":   user.Email,
			"error":   err.Error(),
		})
	}
	return user, nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return "", nil, auctionerrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, auctionerrors.ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		logger.Debug("token validation failed", map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
