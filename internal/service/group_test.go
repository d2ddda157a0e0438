package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupService_Create(t *testing.T) {
	f := newFixture(t)
	svc := NewGroupService(f.repo)
	admin := f.staff(t, "admin")
	user := f.user(t, "user")

	input := GroupInput{Title: "Cats", Slug: "cats", Description: "All about cats"}

	_, err := svc.Create(f.ctx, nil, input)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Create(f.ctx, user, input)
	assert.ErrorIs(t, err, ErrForbidden)

	group, err := svc.Create(f.ctx, admin, input)
	require.NoError(t, err)
	assert.NotZero(t, group.ID)

	_, err = svc.Create(f.ctx, admin, input)
	assert.ErrorIs(t, err, ErrConflict, "duplicate slug is the same clash as on update")

	var ve *ValidationError
	_, err = svc.Create(f.ctx, admin, GroupInput{Title: "Bad", Slug: "bad slug!", Description: "x"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "slug")

	got, err := svc.Get(f.ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "Cats", got.Title)

	_, err = svc.Get(f.ctx, "dogs")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupService_Update(t *testing.T) {
	f := newFixture(t)
	svc := NewGroupService(f.repo)
	admin := f.staff(t, "admin")
	author := f.user(t, "author")

	empty := f.group(t, "empty")
	used := f.group(t, "used")
	f.group(t, "taken")
	f.post(t, author, used, "post", time.Time{})

	t.Run("rename unused slug", func(t *testing.T) {
		group, err := svc.Update(f.ctx, admin, "empty", GroupInput{Title: "Renamed", Slug: "renamed", Description: "d"})
		require.NoError(t, err)
		assert.Equal(t, empty.ID, group.ID)
		assert.Equal(t, "renamed", group.Slug)
	})

	t.Run("referenced slug is immutable", func(t *testing.T) {
		_, err := svc.Update(f.ctx, admin, "used", GroupInput{Title: "Used", Slug: "moved", Description: "d"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("referenced group keeps editable title", func(t *testing.T) {
		group, err := svc.Update(f.ctx, admin, "used", GroupInput{Title: "New title", Slug: "used", Description: "d"})
		require.NoError(t, err)
		assert.Equal(t, used.ID, group.ID)
		assert.Equal(t, "New title", group.Title)
	})

	t.Run("slug already taken", func(t *testing.T) {
		_, err := svc.Update(f.ctx, admin, "renamed", GroupInput{Title: "x", Slug: "taken", Description: "d"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("non staff", func(t *testing.T) {
		_, err := svc.Update(f.ctx, author, "used", GroupInput{Title: "x", Slug: "used", Description: "d"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing group", func(t *testing.T) {
		_, err := svc.Update(f.ctx, admin, "nope", GroupInput{Title: "x", Slug: "nope", Description: "d"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"text": "required", "group": "bad"}}
	assert.Equal(t, "validation failed: group: bad; text: required", err.Error())
}
