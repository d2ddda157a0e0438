package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube/yatube/internal/db"
)

func TestFeed_FollowedAuthorInGroup(t *testing.T) {
	f := newFixture(t)
	group := f.group(t, "test-slug")
	author := f.user(t, "author_user")
	reader := f.user(t, "reader")
	post := f.post(t, author, group, "Тестовый пост", time.Time{})

	require.NoError(t, NewFollowService(f.repo).Follow(f.ctx, reader, "author_user"))

	page, err := f.feeds().Feed(f.ctx, reader, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, post.ID, page.Items[0].ID)
	require.NotNil(t, page.Items[0].Author)
	assert.Equal(t, "author_user", page.Items[0].Author.Username)
	require.NotNil(t, page.Items[0].Group)
	assert.Equal(t, "test-slug", page.Items[0].Group.Slug)
}

func TestFeed_OnlyFollowedAuthors(t *testing.T) {
	f := newFixture(t)
	reader := f.user(t, "reader")
	followed := f.user(t, "followed")
	other := f.user(t, "other")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var want []int64
	for i := 0; i < 3; i++ {
		p := f.post(t, followed, nil, "followed post", base.Add(time.Duration(i)*time.Minute))
		want = append([]int64{p.ID}, want...)
		f.post(t, other, nil, "other post", base.Add(time.Duration(i)*time.Minute))
	}
	f.post(t, reader, nil, "own post", base)

	require.NoError(t, NewFollowService(f.repo).Follow(f.ctx, reader, "followed"))

	page, err := f.feeds().Feed(f.ctx, reader, 1)
	require.NoError(t, err)
	assert.Equal(t, want, postIDs(page.Items))
	assert.Equal(t, int64(3), page.Total)
	for _, p := range page.Items {
		assert.Equal(t, followed.ID, p.AuthorID)
	}
}

func TestFeed_NewestFirst(t *testing.T) {
	f := newFixture(t)
	reader := f.user(t, "reader")
	a := f.user(t, "a")
	b := f.user(t, "b")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	created := []time.Duration{5, 1, 9, 3, 3, 7, 0, 2}
	for i, d := range created {
		author := a
		if i%2 == 1 {
			author = b
		}
		f.post(t, author, nil, "post", base.Add(d*time.Hour))
	}

	follows := NewFollowService(f.repo)
	require.NoError(t, follows.Follow(f.ctx, reader, "a"))
	require.NoError(t, follows.Follow(f.ctx, reader, "b"))

	svc := f.feeds()
	var seen int
	var prev *time.Time
	var prevID int64
	for number := 1; number <= 2; number++ {
		page, err := svc.Feed(f.ctx, reader, number)
		require.NoError(t, err)
		assert.Equal(t, 2, page.NumPages)
		for _, p := range page.Items {
			if prev != nil {
				assert.False(t, p.CreatedAt.After(*prev), "feed must be newest first")
				if p.CreatedAt.Equal(*prev) {
					assert.Less(t, p.ID, prevID, "ties must be broken by id")
				}
			}
			ts := p.CreatedAt
			prev = &ts
			prevID = p.ID
			seen++
		}
	}
	assert.Equal(t, len(created), seen)
}

func TestFeed_Pages(t *testing.T) {
	f := newFixture(t)
	reader := f.user(t, "reader")
	author := f.user(t, "author")
	for i := 0; i < 14; i++ {
		f.post(t, author, nil, "post", time.Time{})
	}
	require.NoError(t, NewFollowService(f.repo).Follow(f.ctx, reader, "author"))

	tests := []struct {
		number  int
		want    int
		wantNum int
	}{
		{1, 5, 1},
		{3, 4, 3},
		{99, 4, 3},
		{0, 5, 1},
	}
	for _, tt := range tests {
		page, err := f.feeds().Feed(f.ctx, reader, tt.number)
		require.NoError(t, err)
		assert.Len(t, page.Items, tt.want, "page %d", tt.number)
		assert.Equal(t, tt.wantNum, page.Number)
	}
}

func TestFeed_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	_, err := f.feeds().Feed(f.ctx, nil, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFeed_EmptyWhenFollowingNobody(t *testing.T) {
	f := newFixture(t)
	reader := f.user(t, "reader")
	f.post(t, f.user(t, "author"), nil, "post", time.Time{})

	page, err := f.feeds().Feed(f.ctx, reader, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Number)
}

func TestIndex_CachedUntilCleared(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	admin := f.staff(t, "admin")
	first := f.post(t, author, nil, "first", time.Time{})

	svc := f.feeds()
	page, err := svc.Index(f.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID}, postIDs(page.Items))

	second := f.post(t, author, nil, "second", time.Now().UTC().Add(time.Minute))

	page, err = svc.Index(f.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID}, postIDs(page.Items), "index should be served from cache")

	_, err = svc.ClearCache(f.ctx, author)
	assert.ErrorIs(t, err, ErrForbidden)

	removed, err := svc.ClearCache(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	page, err = svc.Index(f.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID, first.ID}, postIDs(page.Items))
}

func TestIndex_Expires(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	f.post(t, author, nil, "first", time.Time{})

	svc := f.feeds()
	_, err := svc.Index(f.ctx, 1)
	require.NoError(t, err)

	f.post(t, author, nil, "second", time.Now().UTC().Add(time.Minute))
	f.redis.FastForward(21 * time.Second)

	page, err := svc.Index(f.ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestIndex_WithoutCache(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	admin := f.staff(t, "admin")
	f.post(t, author, nil, "first", time.Time{})

	svc := NewFeedService(f.repo, nil, testPagination, 20*time.Second)
	page, err := svc.Index(f.ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	removed, err := svc.ClearCache(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}

func TestGroupPosts(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	cats := f.group(t, "cats")
	dogs := f.group(t, "dogs")
	cat := f.post(t, author, cats, "cat", time.Time{})
	f.post(t, author, dogs, "dog", time.Time{})
	f.post(t, author, nil, "none", time.Time{})

	result, err := f.feeds().GroupPosts(f.ctx, "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, cats.ID, result.Group.ID)
	assert.Equal(t, []int64{cat.ID}, postIDs(result.Page.Items))

	_, err = f.feeds().GroupPosts(f.ctx, "birds", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	reader := f.user(t, "reader")
	fan := f.user(t, "fan")
	for i := 0; i < 3; i++ {
		f.post(t, author, nil, "post", time.Time{})
	}
	f.post(t, reader, nil, "reader post", time.Time{})

	follows := NewFollowService(f.repo)
	require.NoError(t, follows.Follow(f.ctx, reader, "author"))
	require.NoError(t, follows.Follow(f.ctx, fan, "author"))
	require.NoError(t, follows.Follow(f.ctx, author, "fan"))

	profile, err := f.feeds().Profile(f.ctx, reader, "author", 1)
	require.NoError(t, err)
	assert.Equal(t, author.ID, profile.Author.ID)
	assert.Equal(t, int64(3), profile.PostCount)
	assert.Equal(t, int64(2), profile.Followers)
	assert.Equal(t, int64(1), profile.Following)
	assert.True(t, profile.IsFollowing)
	assert.Len(t, profile.Page.Items, 3)

	anon, err := f.feeds().Profile(f.ctx, nil, "author", 1)
	require.NoError(t, err)
	assert.False(t, anon.IsFollowing)

	_, err = f.feeds().Profile(f.ctx, nil, "ghost", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserDeleteCascades(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	reader := f.user(t, "reader")
	post := f.post(t, author, nil, "post", time.Time{})

	_, err := NewPostService(f.repo).AddComment(f.ctx, reader, post.ID, CommentInput{Text: "nice"})
	require.NoError(t, err)
	require.NoError(t, NewFollowService(f.repo).Follow(f.ctx, reader, "author"))

	require.NoError(t, db.NewUserRepository(f.repo).Delete(f.ctx, author.ID))

	page, err := f.feeds().Index(f.ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), f.followCount(t))

	comments, err := db.NewCommentRepository(f.repo).ListByPost(f.ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
