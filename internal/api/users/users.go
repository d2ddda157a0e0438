package users

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/internal/api/objects"
	"github.com/yatube/yatube/internal/api/params"
	"github.com/yatube/yatube/internal/auth"
)

// UsersAPI provides registration and login
type UsersAPI struct {
	auth *auth.Service
}

// NewUsersAPI creates a new users API
func NewUsersAPI(authService *auth.Service) *UsersAPI {
	return &UsersAPI{auth: authService}
}

// Signup handles auth.signup
func (u *UsersAPI) Signup(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p auth.SignupInput
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}

	user, err := u.auth.Signup(c.Request.Context(), p)
	if err != nil {
		return nil, err
	}
	return objects.Author(user), nil
}

// Login handles auth.login
func (u *UsersAPI) Login(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := params.Bind(raw, &p); err != nil {
		return nil, err
	}
	if err := params.Require(map[string]string{"username": p.Username, "password": p.Password}); err != nil {
		return nil, err
	}

	token, user, err := u.auth.Login(c.Request.Context(), p.Username, p.Password)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"token":      token,
		"token_type": "Bearer",
		"user":       objects.Author(user),
	}, nil
}
