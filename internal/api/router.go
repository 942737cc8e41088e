package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"factory-chatbot-backend/config"
	"factory-chatbot-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.RequestID(), mw.AccessLog(log.Named("http")), gin.Recovery())

	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	rateLimit := mw.RateLimiter(limiter, cfg.RequestIPHeader)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	caching := mw.Cache(cache.New(ttl, 2*ttl), ttl)

	r.GET("/healthz", h.Healthz)
	r.POST("/chatbot", rateLimit, h.Chat)

	api := r.Group("/api")
	api.Use(rateLimit)
	{
		api.POST("/chat", h.Chat)

		api.GET("/machines", caching, h.GetMachines)
		api.GET("/alerts", caching, h.GetAlerts)
		api.GET("/lines/:line_id/downtime", caching, h.GetLineDowntime)
		api.GET("/production/trend", caching, h.GetProductionTrend)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
