package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photo-gallery-backend/internal/models"
	"photo-gallery-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	jwtExpDays        = 365
)

// UserRepo is the user persistence contract the service consumes.
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Stats(ctx context.Context, userID string) (*models.DashboardStats, error)
}

// UserService handles user-related business logic
type UserService struct {
	userRepo  UserRepo
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepo, jwtSecret string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// CreateUser registers a user and returns it with a signed token
func (s *UserService) CreateUser(ctx context.Context, username string) (*models.User, error) {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return nil, newValidationError("username",
			"username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newValidationError("username", "username %q is taken", username)
		}
		return nil, err
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.Token = token
	return user, nil
}

// Stats returns the user's dashboard aggregates
func (s *UserService) Stats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	return s.userRepo.Stats(ctx, userID)
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}
	return userID, nil
}
