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

// PostInput is the client-supplied part of a post. The author always comes
// from the authenticated caller.
type PostInput struct {
	Text  string `json:"text" validate:"required,max=200"`
	Group string `json:"group" validate:"omitempty,max=200,slug"`
	Image string `json:"image" validate:"omitempty,max=255"`
}

// CommentInput is the client-supplied part of a comment
type CommentInput struct {
	Text string `json:"text" validate:"required"`
}

// PostDetail is a post with its comments
type PostDetail struct {
	Post            *models.Post
	AuthorPostCount int64
	Comments        []*models.Comment
}

// IsAuthor reports whether user may edit post
func IsAuthor(user *models.User, post *models.Post) bool {
	return user != nil && post != nil && user.ID == post.AuthorID
}

// PostService creates, edits and comments on posts
type PostService struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(repo *db.Repository) *PostService {
	return &PostService{
		repo:   repo,
		logger: logging.WithComponent("post-service"),
	}
}

// Create publishes a new post by current
func (s *PostService) Create(ctx context.Context, current *models.User, in PostInput) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "posts.create")
	defer span.End()

	if current == nil {
		return nil, ErrUnauthorized
	}
	in.Text = strings.TrimSpace(in.Text)
	in.Group = strings.TrimSpace(in.Group)
	if err := Validate(in); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     in.Text,
		AuthorID: current.ID,
		Image:    in.Image,
	}
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		groupID, err := resolveGroup(ctx, tx, in.Group)
		if err != nil {
			return err
		}
		post.GroupID = groupID
		return db.NewPostRepository(tx).Create(ctx, post)
	})
	if err != nil {
		return nil, err
	}

	postsCreated.Add(ctx, 1)
	s.logger.Info("Post created", zap.Int64("post_id", post.ID), zap.String("author", current.Username))
	return db.NewPostRepository(s.repo).GetByID(ctx, post.ID)
}

// Edit rewrites the text, group and image of a post. Only its author may edit
// it; the creation time never changes.
func (s *PostService) Edit(ctx context.Context, current *models.User, postID int64, in PostInput) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "posts.edit")
	defer span.End()

	if current == nil {
		return nil, ErrUnauthorized
	}

	posts := db.NewPostRepository(s.repo)
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, notFound("post", fmt.Sprint(postID))
	}
	if !IsAuthor(current, post) {
		return nil, ErrForbidden
	}

	in.Text = strings.TrimSpace(in.Text)
	in.Group = strings.TrimSpace(in.Group)
	if err := Validate(in); err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		groupID, err := resolveGroup(ctx, tx, in.Group)
		if err != nil {
			return err
		}
		update := &models.Post{ID: post.ID, Text: in.Text, GroupID: groupID, Image: in.Image}
		return db.NewPostRepository(tx).UpdateContent(ctx, update)
	})
	if err != nil {
		return nil, err
	}
	return posts.GetByID(ctx, post.ID)
}

// Detail returns a post, how many posts its author has and its comments
func (s *PostService) Detail(ctx context.Context, postID int64) (*PostDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, "posts.detail")
	defer span.End()

	detail := &PostDetail{}
	err := s.repo.Snapshot(ctx, func(tx *db.Repository) error {
		posts := db.NewPostRepository(tx)
		post, err := posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return notFound("post", fmt.Sprint(postID))
		}
		detail.Post = post
		if detail.AuthorPostCount, err = posts.CountByAuthor(ctx, post.AuthorID); err != nil {
			return err
		}
		detail.Comments, err = db.NewCommentRepository(tx).ListByPost(ctx, post.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// AddComment attaches a comment by current to a post. The post lookup and
// the insert share one transaction.
func (s *PostService) AddComment(ctx context.Context, current *models.User, postID int64, in CommentInput) (*models.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "posts.add_comment")
	defer span.End()

	if current == nil {
		return nil, ErrUnauthorized
	}
	in.Text = strings.TrimSpace(in.Text)
	if err := Validate(in); err != nil {
		return nil, err
	}

	comment := &models.Comment{AuthorID: current.ID, Text: in.Text}
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		post, err := db.NewPostRepository(tx).GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return notFound("post", fmt.Sprint(postID))
		}
		comment.PostID = post.ID
		return db.NewCommentRepository(tx).Create(ctx, comment)
	})
	if err != nil {
		return nil, err
	}

	commentsCreated.Add(ctx, 1)
	comment.Author = current
	return comment, nil
}

func resolveGroup(ctx context.Context, repo *db.Repository, slug string) (*int64, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := db.NewGroupRepository(repo).GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, notFound("group", slug)
	}
	return &group.ID, nil
}
