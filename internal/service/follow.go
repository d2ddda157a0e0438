package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// FollowService creates and removes follow edges between users
type FollowService struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewFollowService creates a new follow service
func NewFollowService(repo *db.Repository) *FollowService {
	return &FollowService{
		repo:   repo,
		logger: logging.WithComponent("follow-service"),
	}
}

// Follow subscribes current to the posts of username. Following yourself and
// following someone twice are both no-ops.
func (s *FollowService) Follow(ctx context.Context, current *models.User, username string) error {
	ctx, span := telemetry.StartSpan(ctx, "follow.follow")
	defer span.End()

	if current == nil {
		return ErrUnauthorized
	}

	author, err := s.resolve(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == current.ID {
		s.logger.Debug("Ignoring self-follow", zap.String("username", username))
		return nil
	}

	created, err := db.NewFollowRepository(s.repo).Create(ctx, current.ID, author.ID)
	if err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	if created {
		followsCreated.Add(ctx, 1)
	}

	s.logger.Debug("Processed follow",
		zap.Int64("user_id", current.ID),
		zap.Int64("author_id", author.ID),
		zap.Bool("created", created))
	return nil
}

// Unfollow removes the current -> username edge. A missing edge is not an
// error.
func (s *FollowService) Unfollow(ctx context.Context, current *models.User, username string) error {
	ctx, span := telemetry.StartSpan(ctx, "follow.unfollow")
	defer span.End()

	if current == nil {
		return ErrUnauthorized
	}

	author, err := s.resolve(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == current.ID {
		return nil
	}

	removed, err := db.NewFollowRepository(s.repo).Delete(ctx, current.ID, author.ID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	if removed {
		followsRemoved.Add(ctx, 1)
	}

	s.logger.Debug("Processed unfollow",
		zap.Int64("user_id", current.ID),
		zap.Int64("author_id", author.ID),
		zap.Bool("removed", removed))
	return nil
}

// IsFollowing reports whether viewer follows author. Anonymous viewers follow
// nobody.
func (s *FollowService) IsFollowing(ctx context.Context, viewer *models.User, authorID int64) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	return db.NewFollowRepository(s.repo).Exists(ctx, viewer.ID, authorID)
}

func (s *FollowService) resolve(ctx context.Context, username string) (*models.User, error) {
	user, err := db.NewUserRepository(s.repo).GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", username)
	}
	return user, nil
}
