package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/remcostoeten/testauth/internal/auth/credentials"
	"github.com/remcostoeten/testauth/internal/auth/handler"
	"github.com/remcostoeten/testauth/internal/auth/provider"
	"github.com/remcostoeten/testauth/internal/auth/provider/github"
	"github.com/remcostoeten/testauth/internal/auth/provider/google"
	"github.com/remcostoeten/testauth/internal/config"
	"github.com/remcostoeten/testauth/internal/logger"
	"github.com/remcostoeten/testauth/internal/middleware"
	"github.com/remcostoeten/testauth/internal/ratelimit"
	"github.com/remcostoeten/testauth/internal/session"
	"github.com/remcostoeten/testauth/internal/token"
)

const (
	loginMaxAttempts = 10
	loginWindow      = 15 * time.Minute
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	secret := cfg.TokenSecret
	if secret == "" {
		// config.Load rejects this in production.
		logger.Warn("TOKEN_SECRET not set, using insecure development secret", nil)
		secret = "insecure-development-secret"
	}

	codec, err := token.New(secret)
	if err != nil {
		return nil, nil, err
	}

	sessions := session.NewService(codec, session.CookieOptions{
		Secure: cfg.Production(),
	})

	creds := credentials.NewService(infra.DB)
	limiter := ratelimit.NewLoginLimiter(infra.Redis.Client, loginMaxAttempts, loginWindow)

	registry, err := buildProviders(cfg)
	if err != nil {
		return nil, nil, err
	}

	authHandler := handler.NewHandler(registry, sessions, creds, limiter, cfg.Production())
	gatekeeper := middleware.NewGatekeeper(sessions)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gatekeeper.Handle())

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Pages
	// ----------------------------

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})

	router.GET("/login", func(c *gin.Context) {
		page(c, `<h1>Sign in</h1>
<a href="/api/auth/github/login">Continue with GitHub</a>
<a href="/api/auth/google/login">Continue with Google</a>`)
	})

	router.GET("/register", func(c *gin.Context) {
		page(c, `<h1>Create account</h1>`)
	})

	router.GET("/dashboard", func(c *gin.Context) {
		user, ok := sessions.Require(c)
		if !ok {
			return
		}
		page(c, "<h1>Dashboard</h1><p>Signed in as "+user.Email+"</p>")
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	router.GET("/api/protected", func(c *gin.Context) {
		if !sessions.Get(c.Request).IsAuthenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Protected data"})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}

// buildProviders registers each OAuth provider that has credentials
// configured. Missing providers are skipped with a warning so local
// development works with a partial .env.
func buildProviders(cfg config.Config) (*provider.Registry, error) {
	var list []provider.Provider

	if cfg.GitHubClientID != "" || cfg.GitHubClientSecret != "" {
		p, err := github.New(
			cfg.GitHubClientID,
			cfg.GitHubClientSecret,
			cfg.RedirectURL("github"),
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	} else {
		logger.Warn("github oauth not configured", nil)
	}

	if cfg.GoogleClientID != "" || cfg.GoogleClientSecret != "" {
		p, err := google.New(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.RedirectURL("google"),
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	} else {
		logger.Warn("google oauth not configured", nil)
	}

	return provider.NewRegistry(list...), nil
}

func page(c *gin.Context, body string) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}
