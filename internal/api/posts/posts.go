package posts

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/api/objects"
	"github.com/yatube/yatube/internal/api/params"
	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/service"
	"github.com/yatube/yatube/pkg/logging"
)

// PostsAPI provides the post listing, detail and authoring methods
type PostsAPI struct {
	feeds  *service.FeedService
	posts  *service.PostService
	logger *zap.Logger
}

// NewPostsAPI creates a new posts API
func NewPostsAPI(feeds *service.FeedService, posts *service.PostService) *PostsAPI {
	return &PostsAPI{
		feeds:  feeds,
		posts:  posts,
		logger: logging.WithComponent("api-posts"),
	}
}

// Index handles posts.index
func (a *PostsAPI) Index(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p params.Page
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}

	page, err := a.feeds.Index(c.Request.Context(), p.Number())
	if err != nil {
		return nil, err
	}
	return objects.Posts(page), nil
}

// Group handles posts.group
func (a *PostsAPI) Group(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		Slug string `json:"slug"`
		params.Page
	}
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}
	if err := params.Require(map[string]string{"slug": p.Slug}); err != nil {
		return nil, err
	}

	result, err := a.feeds.GroupPosts(c.Request.Context(), p.Slug, p.Number())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"group": objects.Group(result.Group),
		"posts": objects.Posts(result.Page),
	}, nil
}

// Profile handles posts.profile
func (a *PostsAPI) Profile(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		Username string `json:"username"`
		params.Page
	}
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}
	if err := params.Require(map[string]string{"username": p.Username}); err != nil {
		return nil, err
	}

	profile, err := a.feeds.Profile(c.Request.Context(), auth.CurrentUser(c), p.Username, p.Number())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"author":       objects.Author(profile.Author),
		"post_count":   profile.PostCount,
		"followers":    profile.Followers,
		"following":    profile.Following,
		"is_following": profile.IsFollowing,
		"posts":        objects.Posts(profile.Page),
	}, nil
}

// Detail handles posts.detail
func (a *PostsAPI) Detail(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		PostID int64 `json:"post_id"`
	}
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}
	if p.PostID <= 0 {
		return nil, fmt.Errorf("%w: post_id must be positive", params.ErrInvalid)
	}

	detail, err := a.posts.Detail(c.Request.Context(), p.PostID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"post":              objects.Post(detail.Post),
		"author_post_count": detail.AuthorPostCount,
		"comments":          objects.Comments(detail.Comments),
		"can_edit":          service.IsAuthor(auth.CurrentUser(c), detail.Post),
	}, nil
}

// Create handles posts.create
func (a *PostsAPI) Create(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p service.PostInput
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}

	post, err := a.posts.Create(c.Request.Context(), auth.CurrentUser(c), p)
	if err != nil {
		return nil, err
	}
	return objects.Post(post), nil
}

// Edit handles posts.edit
func (a *PostsAPI) Edit(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		PostID int64 `json:"post_id"`
		service.PostInput
	}
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}
	if p.PostID <= 0 {
		return nil, fmt.Errorf("%w: post_id must be positive", params.ErrInvalid)
	}

	post, err := a.posts.Edit(c.Request.Context(), auth.CurrentUser(c), p.PostID, p.PostInput)
	if err != nil {
		return nil, err
	}
	return objects.Post(post), nil
}

// AddComment handles posts.add_comment
func (a *PostsAPI) AddComment(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		PostID int64 `json:"post_id"`
		service.CommentInput
	}
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}
	if p.PostID <= 0 {
		return nil, fmt.Errorf("%w: post_id must be positive", params.ErrInvalid)
	}

	comment, err := a.posts.AddComment(c.Request.Context(), auth.CurrentUser(c), p.PostID, p.CommentInput)
	if err != nil {
		return nil, err
	}
	return objects.Comment(comment), nil
}
