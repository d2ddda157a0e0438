package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// GroupInput is the editable part of a group
type GroupInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"required,max=200,slug"`
	Description string `json:"description" validate:"required"`
}

// GroupService manages groups. Writes are restricted to staff.
type GroupService struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewGroupService creates a new group service
func NewGroupService(repo *db.Repository) *GroupService {
	return &GroupService{
		repo:   repo,
		logger: logging.WithComponent("group-service"),
	}
}

// Get returns the group with the given slug
func (s *GroupService) Get(ctx context.Context, slug string) (*models.Group, error) {
	group, err := db.NewGroupRepository(s.repo).GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, notFound("group", slug)
	}
	return group, nil
}

// Create adds a new group
func (s *GroupService) Create(ctx context.Context, current *models.User, in GroupInput) (*models.Group, error) {
	ctx, span := telemetry.StartSpan(ctx, "groups.create")
	defer span.End()

	if err := requireStaff(current); err != nil {
		return nil, err
	}
	in = in.normalize()
	if err := Validate(in); err != nil {
		return nil, err
	}

	group := &models.Group{Title: in.Title, Slug: in.Slug, Description: in.Description}
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		groups := db.NewGroupRepository(tx)
		existing, err := groups.GetBySlug(ctx, in.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: group slug %q is taken", ErrConflict, in.Slug)
		}
		return groups.Create(ctx, group)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Group created", zap.String("slug", group.Slug), zap.String("by", current.Username))
	return group, nil
}

// Update edits a group. The slug is part of every post URL in the group, so
// it may only change while no post references the group.
func (s *GroupService) Update(ctx context.Context, current *models.User, slug string, in GroupInput) (*models.Group, error) {
	ctx, span := telemetry.StartSpan(ctx, "groups.update")
	defer span.End()

	if err := requireStaff(current); err != nil {
		return nil, err
	}
	in = in.normalize()
	if err := Validate(in); err != nil {
		return nil, err
	}

	var group *models.Group
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		groups := db.NewGroupRepository(tx)
		var err error
		group, err = groups.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if group == nil {
			return notFound("group", slug)
		}

		if in.Slug != group.Slug {
			used, err := groups.HasPosts(ctx, group.ID)
			if err != nil {
				return err
			}
			if used {
				return fmt.Errorf("%w: group %q has posts, its slug cannot change", ErrConflict, group.Slug)
			}
			taken, err := groups.GetBySlug(ctx, in.Slug)
			if err != nil {
				return err
			}
			if taken != nil {
				return fmt.Errorf("%w: group slug %q is taken", ErrConflict, in.Slug)
			}
		}

		group.Title = in.Title
		group.Slug = in.Slug
		group.Description = in.Description
		return groups.Update(ctx, group)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (in GroupInput) normalize() GroupInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func requireStaff(user *models.User) error {
	if user == nil {
		return ErrUnauthorized
	}
	if !user.IsStaff {
		return ErrForbidden
	}
	return nil
}
