package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/api/follow"
	"github.com/yatube/yatube/internal/api/groups"
	"github.com/yatube/yatube/internal/api/params"
	"github.com/yatube/yatube/internal/api/posts"
	"github.com/yatube/yatube/internal/api/users"
	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/service"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

// Router sets up API routes
type Router struct {
	handler *JSONRPCHandler
	db      *db.DB
	cache   *cache.Cache
	cfg     *config.Config
	auth    *auth.Service
	feeds   *service.FeedService
	logger  *zap.Logger
}

// NewRouter creates a new API router. pageCache may be nil.
func NewRouter(database *db.DB, pageCache *cache.Cache, cfg *config.Config) *Router {
	repo := db.NewRepository(database.DB)
	router := &Router{
		handler: NewJSONRPCHandler(NewIPLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)),
		db:      database,
		cache:   pageCache,
		cfg:     cfg,
		auth:    auth.NewService(repo, cfg.Auth),
		feeds:   service.NewFeedService(repo, pageCache, cfg.Pagination, cfg.Cache.IndexTTL),
		logger:  logging.WithComponent("api-router"),
	}

	// Register all API methods
	router.registerMethods(repo)

	return router
}

// Handler returns the JSON-RPC dispatcher
func (r *Router) Handler() *JSONRPCHandler {
	return r.handler
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	if r.cfg.Telemetry.PrometheusEnabled {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// JSON-RPC endpoint
	engine.POST("/", r.auth.Authenticate(), r.handler.Handle)
}

// registerMethods registers all API methods. Methods that write are rate
// limited per client.
func (r *Router) registerMethods(repo *db.Repository) {
	postService := service.NewPostService(repo)
	followService := service.NewFollowService(repo)
	groupService := service.NewGroupService(repo)

	// Accounts
	usersAPI := users.NewUsersAPI(r.auth)
	r.handler.RegisterLimitedMethod("auth.signup", usersAPI.Signup)
	r.handler.RegisterLimitedMethod("auth.login", usersAPI.Login)

	// Posts
	postsAPI := posts.NewPostsAPI(r.feeds, postService)
	r.handler.RegisterMethod("posts.index", postsAPI.Index)
	r.handler.RegisterMethod("posts.group", postsAPI.Group)
	r.handler.RegisterMethod("posts.profile", postsAPI.Profile)
	r.handler.RegisterMethod("posts.detail", postsAPI.Detail)
	r.handler.RegisterLimitedMethod("posts.create", postsAPI.Create)
	r.handler.RegisterLimitedMethod("posts.edit", postsAPI.Edit)
	r.handler.RegisterLimitedMethod("posts.add_comment", postsAPI.AddComment)

	// Follow
	followAPI := follow.NewFollowAPI(followService, r.feeds)
	r.handler.RegisterMethod("follow.feed", followAPI.Feed)
	r.handler.RegisterLimitedMethod("follow.follow", followAPI.Follow)
	r.handler.RegisterLimitedMethod("follow.unfollow", followAPI.Unfollow)

	// Groups
	groupsAPI := groups.NewGroupsAPI(groupService)
	r.handler.RegisterMethod("groups.get", groupsAPI.Get)
	r.handler.RegisterLimitedMethod("groups.create", groupsAPI.Create)
	r.handler.RegisterLimitedMethod("groups.update", groupsAPI.Update)

	// Admin
	r.handler.RegisterMethod("admin.clear_cache", r.clearCache)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "OK", "cache": "disabled"}

	if err := r.db.Health(ctx); err != nil {
		r.logger.Warn("Database health check failed", zap.Error(err))
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if r.cache != nil {
		checks["cache"] = "OK"
		if err := r.cache.Health(ctx); err != nil {
			r.logger.Warn("Cache health check failed", zap.Error(err))
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	label := "OK"
	if status != http.StatusOK {
		label = "DEGRADED"
	}
	c.JSON(status, gin.H{
		"status":  label,
		"service": "yatube-api",
		"checks":  checks,
	})
}

// clearCache handles admin.clear_cache
func (r *Router) clearCache(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	if err := params.Bind(raw, &struct{}{}); err != nil {
		return nil, err
	}
	removed, err := r.feeds.ClearCache(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		return nil, err
	}
	return gin.H{"removed": removed}, nil
}
