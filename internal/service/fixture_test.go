package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/config"
)

var testPagination = config.PaginationConfig{PerPage: 10, FeedPerPage: 5}

type fixture struct {
	db    *db.DB
	repo  *db.Repository
	cache *cache.Cache
	redis *miniredis.Miniredis
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database, err := db.New(&config.DatabaseConfig{URL: ":memory:"}, "ERROR")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &fixture{
		db:    database,
		repo:  db.NewRepository(database.DB),
		cache: cache.NewFromClient(client),
		redis: mr,
		ctx:   ctx,
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.NewUserRepository(f.repo).Create(f.ctx, user))
	return user
}

func (f *fixture) staff(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", IsStaff: true}
	require.NoError(t, db.NewUserRepository(f.repo).Create(f.ctx, user))
	return user
}

func (f *fixture) group(t *testing.T, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, db.NewGroupRepository(f.repo).Create(f.ctx, group))
	return group
}

// post inserts a post with a fixed creation time; a zero time means now
func (f *fixture) post(t *testing.T, author *models.User, group *models.Group, text string, created time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID, CreatedAt: created}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.NewPostRepository(f.repo).Create(f.ctx, post))
	return post
}

func (f *fixture) followCount(t *testing.T) int64 {
	t.Helper()
	n, err := db.NewFollowRepository(f.repo).CountAll(f.ctx)
	require.NoError(t, err)
	return n
}

func (f *fixture) feeds() *FeedService {
	return NewFeedService(f.repo, f.cache, testPagination, 20*time.Second)
}

func postIDs(posts []models.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
