package groups

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/internal/api/objects"
	"github.com/yatube/yatube/internal/api/params"
	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/service"
)

// GroupsAPI provides group lookup and staff-only group management
type GroupsAPI struct {
	groups *service.GroupService
}

// NewGroupsAPI creates a new groups API
func NewGroupsAPI(groups *service.GroupService) *GroupsAPI {
	return &GroupsAPI{groups: groups}
}

// Get handles groups.get
func (g *GroupsAPI) Get(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		Slug string `json:"slug"`
	}
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}
	if err := params.Require(map[string]string{"slug": p.Slug}); err != nil {
		return nil, err
	}

	group, err := g.groups.Get(c.Request.Context(), p.Slug)
	if err != nil {
		return nil, err
	}
	return objects.Group(group), nil
}

// Create handles groups.create
func (g *GroupsAPI) Create(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p service.GroupInput
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}

	group, err := g.groups.Create(c.Request.Context(), auth.CurrentUser(c), p)
	if err != nil {
		return nil, err
	}
	return objects.Group(group), nil
}

// Update handles groups.update. slug names the group to edit; group holds
// its new fields.
func (g *GroupsAPI) Update(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		Slug  string             `json:"slug"`
		Group service.GroupInput `json:"group"`
	}
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}
	if err := params.Require(map[string]string{"slug": p.Slug}); err != nil {
		return nil, err
	}

	group, err := g.groups.Update(c.Request.Context(), auth.CurrentUser(c), p.Slug, p.Group)
	if err != nil {
		return nil, err
	}
	return objects.Group(group), nil
}
