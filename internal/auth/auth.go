package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/service"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens
var ErrInvalidToken = errors.New("invalid token")

// SignupInput is the registration form
type SignupInput struct {
	Username  string `json:"username" validate:"required,min=3,max=150,username"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// Claims are the JWT claims issued at login
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service registers users and issues and checks their tokens
type Service struct {
	repo   *db.Repository
	cfg    config.AuthConfig
	logger *zap.Logger
}

// NewService creates a new auth service
func NewService(repo *db.Repository, cfg config.AuthConfig) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logging.WithComponent("auth"),
	}
}

// Signup creates a new user account
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.signup")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := service.Validate(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		users := db.NewUserRepository(tx)
		existing, err := users.GetByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: username %q is taken", service.ErrConflict, in.Username)
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login checks a username and password and returns a signed token
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.login")
	defer span.End()

	user, err := db.NewUserRepository(s.repo).GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, service.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("Login rejected", zap.String("username", username))
		return "", nil, service.ErrUnauthorized
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs an HS256 token for user
func (s *Service) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.cfg.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns its claims
func (s *Service) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// UserFromToken resolves the user a token was issued to. A user deleted after
// the token was issued makes the token invalid.
func (s *Service) UserFromToken(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.ParseToken(raw)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	user, err := db.NewUserRepository(s.repo).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: unknown user", ErrInvalidToken)
	}
	return user, nil
}
