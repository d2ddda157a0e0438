package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/models"
)

const userKey = "yatube.user"

// Authenticate resolves a "Bearer" token into the current user. Requests
// without a usable token continue anonymously; operations that need a user
// reject them later.
func (s *Service) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.Next()
			return
		}

		user, err := s.UserFromToken(c.Request.Context(), strings.TrimSpace(raw))
		switch {
		case err == nil:
			c.Set(userKey, user)
		case errors.Is(err, ErrInvalidToken):
			s.logger.Debug("Ignoring invalid token", zap.Error(err))
		default:
			s.logger.Error("Failed to resolve token user", zap.Error(err))
		}
		c.Next()
	}
}

// SetCurrentUser attaches user to the request
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
