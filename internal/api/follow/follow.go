package follow

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/api/objects"
	"github.com/yatube/yatube/internal/api/params"
	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/service"
	"github.com/yatube/yatube/pkg/logging"
)

// FollowAPI provides the subscription methods and the personal feed
type FollowAPI struct {
	follows *service.FollowService
	feeds   *service.FeedService
	logger  *zap.Logger
}

// NewFollowAPI creates a new follow API
func NewFollowAPI(follows *service.FollowService, feeds *service.FeedService) *FollowAPI {
	return &FollowAPI{
		follows: follows,
		feeds:   feeds,
		logger:  logging.WithComponent("api-follow"),
	}
}

type usernameParams struct {
	Username string `json:"username"`
}

// Feed handles follow.feed
func (f *FollowAPI) Feed(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p params.Page
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}

	page, err := f.feeds.Feed(c.Request.Context(), auth.CurrentUser(c), p.Number())
	if err != nil {
		return nil, err
	}
	return objects.Posts(page), nil
}

// Follow handles follow.follow
func (f *FollowAPI) Follow(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p usernameParams
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}
	if err := params.Require(map[string]string{"username": p.Username}); err != nil {
		return nil, err
	}

	if err := f.follows.Follow(c.Request.Context(), auth.CurrentUser(c), p.Username); err != nil {
		return nil, err
	}
	return f.state(c, p.Username)
}

// Unfollow handles follow.unfollow
func (f *FollowAPI) Unfollow(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p usernameParams
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}
	if err := params.Require(map[string]string{"username": p.Username}); err != nil {
		return nil, err
	}

	if err := f.follows.Unfollow(c.Request.Context(), auth.CurrentUser(c), p.Username); err != nil {
		return nil, err
	}
	return f.state(c, p.Username)
}

// state reports the edge as it stands after a follow or unfollow
func (f *FollowAPI) state(c *gin.Context, username string) (interface{}, error) {
	profile, err := f.feeds.Profile(c.Request.Context(), auth.CurrentUser(c), username, 1)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"username":     username,
		"is_following": profile.IsFollowing,
		"followers":    profile.Followers,
	}, nil
}
