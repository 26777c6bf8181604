package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/api/handlers"
	"github.com/sahil-lab/realEstate/internal/api/middleware"
	"github.com/sahil-lab/realEstate/internal/cache"
	"github.com/sahil-lab/realEstate/internal/config"
	"github.com/sahil-lab/realEstate/internal/email"
	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/services"
)

// Services bundles the domain services the public API is built on.
type Services struct {
	Accounts  services.IAccountService
	Listings  services.IListingService
	Inquiries services.IInquiryService
	Favorites services.IFavoriteService
	Analytics services.IAnalyticsService
}

// SetupRouter configures and returns the main Gin engine. limiter may be nil
// to disable rate limiting.
func SetupRouter(cfg *config.Config, svc Services, limiter *middleware.RateLimiterMiddleware, m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()

	// Apply global middleware first (order matters)
	r.Use(middleware.RequestIDMiddleware(log))
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware(m))
	r.Use(middleware.CORSMiddleware(cfg.CorsAllowedOrigin))
	if limiter != nil {
		r.Use(limiter.Limit())
	}

	authHandler := handlers.NewRestAuthHandler(svc.Accounts, cfg.JwtSecret, cfg.JwtTTL, cfg.IdentityGatewayKey, m, log)
	userHandler := handlers.NewRestUserHandler(svc.Accounts, log)
	listingHandler := handlers.NewRestListingHandler(svc.Listings, log)
	inquiryHandler := handlers.NewRestInquiryHandler(svc.Inquiries, log)
	favoriteHandler := handlers.NewRestFavoriteHandler(svc.Favorites, log)
	analyticsHandler := handlers.NewRestAnalyticsHandler(svc.Analytics, log)

	requireAuth := middleware.AuthMiddleware(cfg.JwtSecret)

	v1 := r.Group("/api")
	{
		v1.GET("/health", handlers.HealthHandler(cfg.AppName))
		v1.POST("/auth/login", authHandler.Login)

		// Profiles
		v1.GET("/users/:userId", userHandler.GetUser)
		v1.PUT("/users/:userId", userHandler.UpdateUser)
		v1.PUT("/users/:userId/onboarding", requireAuth, userHandler.CompleteOnboarding)

		// Listings
		v1.GET("/properties", listingHandler.ListProperties)
		v1.GET("/properties/:propertyId", listingHandler.GetProperty)

		// Inquiries may be sent anonymously
		v1.POST("/inquiries", middleware.OptionalAuthMiddleware(cfg.JwtSecret), inquiryHandler.CreateInquiry)
		v1.GET("/inquiries/user/:userId", inquiryHandler.ListUserInquiries)

		// Favorites
		v1.GET("/favorites/:userId", favoriteHandler.ListFavorites)
		v1.POST("/favorites", favoriteHandler.AddFavorite)
		v1.DELETE("/favorites", favoriteHandler.RemoveFavorite)

		// Admin routes. Role checks happen in the services against the stored role.
		admin := v1.Group("/admin")
		admin.Use(requireAuth)
		{
			admin.GET("/users", userHandler.ListUsers)
			admin.PUT("/users/:userId/role", userHandler.SetUserRole)

			admin.POST("/properties", listingHandler.CreateProperty)
			admin.PUT("/properties/:propertyId", listingHandler.UpdateProperty)
			admin.DELETE("/properties/:propertyId", listingHandler.DeleteProperty)
			admin.POST("/properties/:propertyId/images", listingHandler.RequestImageUpload)
			admin.POST("/properties/:propertyId/images/confirm", listingHandler.ConfirmImageUpload)

			admin.GET("/inquiries", inquiryHandler.ListAllInquiries)
			admin.PUT("/inquiries/:inquiryId", inquiryHandler.UpdateInquiryStatus)

			admin.GET("/analytics", analyticsHandler.GetAnalytics)
		}
	}

	return r
}

// MockEmailStore is the part of the Redis client the service API reads
// captured emails from.
type MockEmailStore interface {
	cache.Getter
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var (
	testEmailPollAttempts = 10
	testEmailPollInterval = 200 * time.Millisecond
)

// SetupServiceRouter configures the internal service Gin engine. rdb may be
// nil, in which case getTestEmail reports the store as unavailable.
func SetupServiceRouter(rdb MockEmailStore, gatherer prometheus.Gatherer, shutdownChan chan<- struct{}, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(log), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			log.Info("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
			default:
				log.Warn("Shutdown channel already signaled")
			}
		case "getTestEmail":
			handleGetTestEmail(c, rdb, req.Arguments, log)
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}

// handleGetTestEmail returns, and consumes, the email captured for
// arguments [actionType, email]. It polls briefly since delivery is async.
func handleGetTestEmail(c *gin.Context, rdb MockEmailStore, arguments json.RawMessage, log *zap.Logger) {
	var args []string
	if err := json.Unmarshal(arguments, &args); err != nil || len(args) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [actionType, email]"})
		return
	}
	if rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Mock email store not configured"})
		return
	}
	key := email.MockEmailKey(args[1], args[0])

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var (
		raw   []byte
		found bool
	)
	for i := 0; i < testEmailPollAttempts; i++ {
		data, err := cache.GetBytes(ctx, rdb, key)
		if err == nil {
			raw, found = data, true
			rdb.Del(ctx, key)
			break
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Error("Service API: failed to read mock email", zap.String("key", key), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
			return
		}
		select {
		case <-ctx.Done():
			i = testEmailPollAttempts
		case <-time.After(testEmailPollInterval):
		}
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test email not found in Redis for key %s", key)})
		return
	}

	var emailData map[string]interface{}
	if err := json.Unmarshal(raw, &emailData); err != nil {
		log.Error("Service API: failed to parse mock email", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to parse stored email data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": emailData})
}
