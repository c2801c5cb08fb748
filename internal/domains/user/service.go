package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/liuwen-dev/vocana/pkg/Logger"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the JWT claims carried by a connect token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// UserService is the user directory plus the profile surface. Sessions only
// consume the EnsureUser/ValidateToken slice; the rest serves the REST API.
type UserService interface {
	// EnsureUser validates a pre-validated identity against the directory,
	// auto-provisioning a minimal profile when absent.
	EnsureUser(ctx context.Context, userID string) error
	Exists(ctx context.Context, userID string) (bool, error)

	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context, offset, limit int) ([]User, int64, error)
	GetStats(ctx context.Context, userID string) (*UserStats, error)

	IssueToken(ctx context.Context, userID string) (token string, expiresAt time.Time, err error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

type userService struct {
	repository UserRepository
	usage      UsageReader
	logger     *Logger.Logger
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewUserService(repository UserRepository, usage UsageReader, logger *Logger.Logger, jwtSecret string, tokenTTL time.Duration) UserService {
	return &userService{
		repository: repository,
		usage:      usage,
		logger:     logger,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

// EnsureUser implements UserService.
func (s *userService) EnsureUser(ctx context.Context, userID string) error {
	exists, err := s.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if exists {
		// best effort: activity tracking never blocks a connect
		if err := s.repository.TouchActivity(ctx, userID); err != nil {
			s.logger.Warnf("failed to touch activity for user %s: %v", userID, err)
		}
		return nil
	}

	now := time.Now()
	u := &User{
		ID:                userID,
		Username:          userID,
		ResponseFrequency: 1.0,
		LastActive:        &now,
		IsActive:          true,
	}
	if err := s.repository.Create(ctx, u); err != nil {
		return fmt.Errorf("failed to auto-provision user %s: %w", userID, err)
	}
	s.logger.Infof("auto-provisioned user %s", userID)
	return nil
}

// Exists implements UserService.
func (s *userService) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := s.repository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateUser implements UserService.
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	exists, err := s.Exists(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	freq := req.ResponseFrequency
	if freq == 0 {
		freq = 1.0
	}
	u := &User{
		ID:                req.ID,
		Username:          req.Username,
		Email:             req.Email,
		Description:       req.Description,
		ResponseFrequency: freq,
		Preferences:       req.Preferences,
		IsActive:          true,
	}
	if err := s.repository.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Infof("user created: %s", u.ID)
	return u, nil
}

// GetUser implements UserService.
func (s *userService) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.repository.GetByID(ctx, userID)
}

// UpdateUser implements UserService.
func (s *userService) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*User, error) {
	return s.repository.Update(ctx, userID, req)
}

// DeleteUser implements UserService.
func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	return s.repository.Delete(ctx, userID)
}

// ListUsers implements UserService.
func (s *userService) ListUsers(ctx context.Context, offset, limit int) ([]User, int64, error) {
	return s.repository.List(ctx, offset, limit)
}

// GetStats implements UserService.
func (s *userService) GetStats(ctx context.Context, userID string) (*UserStats, error) {
	u, err := s.repository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	conversations, messages, err := s.usage.GetUsage(ctx, userID)
	if err != nil {
		s.logger.Warnf("failed to read usage counters for %s: %v", userID, err)
	}
	return &UserStats{
		UserID:             u.ID,
		TotalConversations: conversations,
		TotalMessages:      messages,
		LastActive:         u.LastActive,
		CreatedAt:          u.CreatedAt,
	}, nil
}

// IssueToken implements UserService.
func (s *userService) IssueToken(ctx context.Context, userID string) (string, time.Time, error) {
	if _, err := s.repository.GetByID(ctx, userID); err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(s.tokenTTL)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ValidateToken implements UserService.
func (s *userService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
