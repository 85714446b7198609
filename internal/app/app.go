package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/HYG-0822/myauth/internal/config"
	"github.com/HYG-0822/myauth/internal/domain"
	"github.com/HYG-0822/myauth/internal/handler"
	"github.com/HYG-0822/myauth/internal/repository"
	"github.com/HYG-0822/myauth/internal/service"
	"github.com/HYG-0822/myauth/internal/utils"
	"github.com/HYG-0822/myauth/pkg/observability"
)

const (
	shutdownTimeout      = 5 * time.Second
	sessionPruneInterval = time.Hour
)

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
	auth   service.AuthService
}

type handlers struct {
	auth     *handler.AuthHandler
	user     *handler.UserHandler
	post     *handler.PostHandler
	comment  *handler.CommentHandler
	like     *handler.LikeHandler
	follow   *handler.FollowHandler
	bookmark *handler.BookmarkHandler
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	blacklistService := service.NewTokenBlacklistService(infra.Redis())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		repos.Token,
		jwtManager,
		blacklistService,
		cfg.Security.BCryptCost,
		infra.Logger(),
	)
	userService := service.NewUserService(repos.User, repos.Token, repos.Mention)
	postService := service.NewPostService(
		repos.Post,
		repos.Hashtag,
		repos.Mention,
		repos.Like,
		repos.Follow,
		repos.User,
		infra.Logger(),
	)
	commentService := service.NewCommentService(
		repos.Comment,
		repos.Post,
		repos.Follow,
		repos.Like,
		repos.Mention,
		repos.User,
	)
	likeService := service.NewLikeService(repos.Like, repos.Post, repos.Comment, repos.Follow)
	followService := service.NewFollowService(repos.Follow, repos.User)
	bookmarkService := service.NewBookmarkService(
		repos.Bookmark,
		repos.Post,
		repos.Follow,
		repos.Like,
		repos.Hashtag,
	)

	h := handlers{
		auth:     handler.NewAuthHandler(authService),
		user:     handler.NewUserHandler(userService),
		post:     handler.NewPostHandler(postService),
		comment:  handler.NewCommentHandler(commentService),
		like:     handler.NewLikeHandler(likeService),
		follow:   handler.NewFollowHandler(followService),
		bookmark: handler.NewBookmarkHandler(bookmarkService),
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("myauth"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))
	router.Use(handler.IdentityMiddleware(authService, infra.Logger()))

	setupRoutes(router, cfg, h, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
		auth:   authService,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h handlers,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	rateLimit := handler.RateLimitMiddleware(
		rateLimiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.IPBasedKey,
	)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", rateLimit, h.auth.Signup)
			auth.POST("/login", rateLimit, h.auth.Login)
			auth.POST("/refresh", h.auth.Refresh)
			auth.POST("/logout", handler.RequireAuth(), h.auth.Logout)
		}

		authed := api.Group("", handler.RequireAuth())
		{
			users := authed.Group("/users")
			{
				users.GET("/me", h.user.Me)
				users.GET("/me/mentions", h.user.Mentions)
				users.GET("/me/bookmarks", h.bookmark.List)
				users.GET("/:id/posts", h.post.ByUser)
				users.GET("/:id/followers", h.follow.Followers)
				users.GET("/:id/following", h.follow.Following)
				users.POST("/:id/follow", h.follow.Follow)
				users.DELETE("/:id/follow", h.follow.Unfollow)
				users.PUT("/:id/status", handler.RequireRole(domain.RoleAdmin), h.user.UpdateStatus)
			}

			posts := authed.Group("/posts")
			{
				posts.POST("", h.post.Create)
				posts.GET("", h.post.Feed)
				posts.GET("/:id", h.post.Get)
				posts.PUT("/:id", h.post.Update)
				posts.DELETE("/:id", h.post.Delete)
				posts.POST("/:id/like", h.like.LikePost)
				posts.DELETE("/:id/like", h.like.UnlikePost)
				posts.GET("/:id/likes", h.like.PostLikers)
				posts.POST("/:id/bookmark", h.bookmark.Bookmark)
				posts.DELETE("/:id/bookmark", h.bookmark.Unbookmark)
				posts.POST("/:id/comments", h.comment.Create)
				posts.GET("/:id/comments", h.comment.List)
			}

			comments := authed.Group("/comments")
			{
				comments.PUT("/:id", h.comment.Update)
				comments.DELETE("/:id", h.comment.Delete)
				comments.GET("/:id/replies", h.comment.Replies)
				comments.POST("/:id/like", h.like.LikeComment)
				comments.DELETE("/:id/like", h.like.UnlikeComment)
			}

			authed.GET("/hashtags/:name/posts", h.post.ByHashtag)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go a.pruneSessions(ctx)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

// pruneSessions periodically deletes expired refresh token rows. Rotation
// and logout revoke rows but never remove them.
func (a *App) pruneSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.auth.PruneSessions(ctx)
			if err != nil {
				a.infra.Logger().Warn("Session prune failed", zap.Error(err))
				continue
			}
			if n > 0 {
				a.infra.Logger().Info("Pruned expired sessions", zap.Int64("count", n))
			}
		}
	}
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
