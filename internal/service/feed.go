package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/paginator"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// PostPage is one page of posts, newest first
type PostPage = paginator.Page[models.Post]

// GroupPage is a group together with a page of its posts
type GroupPage struct {
	Group *models.Group
	Page  PostPage
}

// Profile is an author's page as seen by a viewer
type Profile struct {
	Author      *models.User
	PostCount   int64
	Followers   int64
	Following   int64
	IsFollowing bool
	Page        PostPage
}

// FeedService serves the post listings: the personal feed, the public index,
// group pages and author profiles.
type FeedService struct {
	repo       *db.Repository
	cache      *cache.Cache
	pagination config.PaginationConfig
	indexTTL   time.Duration
	logger     *zap.Logger
}

// NewFeedService creates a new feed service. pageCache may be nil.
func NewFeedService(repo *db.Repository, pageCache *cache.Cache, pagination config.PaginationConfig, indexTTL time.Duration) *FeedService {
	return &FeedService{
		repo:       repo,
		cache:      pageCache,
		pagination: pagination,
		indexTTL:   indexTTL,
		logger:     logging.WithComponent("feed-service"),
	}
}

// Feed returns page number of the posts written by authors current follows
func (s *FeedService) Feed(ctx context.Context, current *models.User, number int) (PostPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.feed")
	defer span.End()

	if current == nil {
		return PostPage{}, ErrUnauthorized
	}

	var page PostPage
	err := s.repo.Snapshot(ctx, func(tx *db.Repository) error {
		var err error
		page, err = paginator.Query[models.Post](ctx,
			db.NewPostRepository(tx).FollowedBy(ctx, current.ID),
			s.pagination.FeedPerPage, number, db.ListScope)
		return err
	})
	if err != nil {
		return PostPage{}, fmt.Errorf("failed to load feed: %w", err)
	}
	return page, nil
}

// Index returns page number of every post. Pages are served from the page
// cache for indexTTL; ClearCache drops them early.
func (s *FeedService) Index(ctx context.Context, number int) (PostPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.index")
	defer span.End()

	if number < 1 {
		number = 1
	}
	key := "page:index:" + cache.HashKey(strconv.Itoa(number))

	var page PostPage
	err := s.cache.GetJSON(ctx, key, &page)
	switch {
	case err == nil:
		indexCacheHits.Add(ctx, 1)
		return page, nil
	case errors.Is(err, cache.ErrCacheMiss):
		indexCacheMiss.Add(ctx, 1)
	case errors.Is(err, cache.ErrCacheDisabled):
	default:
		s.logger.Warn("Index cache read failed", zap.Error(err))
	}

	page, err = paginator.Query[models.Post](ctx,
		db.NewPostRepository(s.repo).All(ctx),
		s.pagination.PerPage, number, db.ListScope)
	if err != nil {
		return PostPage{}, fmt.Errorf("failed to load index: %w", err)
	}

	if s.indexTTL > 0 {
		if err := s.cache.SetJSON(ctx, key, page, s.indexTTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
			s.logger.Warn("Index cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

// ClearCache drops every cached page. Only staff may do this.
func (s *FeedService) ClearCache(ctx context.Context, current *models.User) (int64, error) {
	if err := requireStaff(current); err != nil {
		return 0, err
	}
	removed, err := s.cache.Clear(ctx)
	if errors.Is(err, cache.ErrCacheDisabled) {
		return 0, nil
	}
	if err != nil {
		return removed, fmt.Errorf("failed to clear cache: %w", err)
	}
	s.logger.Info("Page cache cleared", zap.Int64("keys", removed), zap.String("by", current.Username))
	return removed, nil
}

// GroupPosts returns a group and page number of its posts
func (s *FeedService) GroupPosts(ctx context.Context, slug string, number int) (*GroupPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.group")
	defer span.End()

	result := &GroupPage{}
	err := s.repo.Snapshot(ctx, func(tx *db.Repository) error {
		group, err := db.NewGroupRepository(tx).GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if group == nil {
			return notFound("group", slug)
		}
		result.Group = group
		result.Page, err = paginator.Query[models.Post](ctx,
			db.NewPostRepository(tx).ByGroup(ctx, group.ID),
			s.pagination.PerPage, number, db.ListScope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Profile returns an author's profile and page number of their posts.
// viewer may be nil.
func (s *FeedService) Profile(ctx context.Context, viewer *models.User, username string, number int) (*Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.profile")
	defer span.End()

	result := &Profile{}
	err := s.repo.Snapshot(ctx, func(tx *db.Repository) error {
		author, err := db.NewUserRepository(tx).GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if author == nil {
			return notFound("user", username)
		}
		result.Author = author

		posts := db.NewPostRepository(tx)
		if result.PostCount, err = posts.CountByAuthor(ctx, author.ID); err != nil {
			return err
		}

		follows := db.NewFollowRepository(tx)
		if result.Followers, err = follows.CountFollowers(ctx, author.ID); err != nil {
			return err
		}
		if result.Following, err = follows.CountFollowing(ctx, author.ID); err != nil {
			return err
		}
		if viewer != nil && viewer.ID != author.ID {
			if result.IsFollowing, err = follows.Exists(ctx, viewer.ID, author.ID); err != nil {
				return err
			}
		}

		result.Page, err = paginator.Query[models.Post](ctx,
			posts.ByAuthor(ctx, author.ID),
			s.pagination.PerPage, number, db.ListScope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
