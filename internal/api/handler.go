// Package api exposes the chatbot and the factory read models over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"factory-chatbot-backend/config"
	"factory-chatbot-backend/internal/chatbot"
	"factory-chatbot-backend/internal/store"
)

// Dispatcher answers chat messages.
type Dispatcher interface {
	Dispatch(ctx context.Context, message string) chatbot.Response
}

// AlertChecker reports today's downtime alerts.
type AlertChecker interface {
	Check(ctx context.Context) ([]chatbot.Alert, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	bot        Dispatcher
	alerts     AlertChecker
	webpush    *webpush.Options
	chartDays  int
	recentRows int
	log        *zap.Logger
}

// NewHandler creates a new API handler. webpushOptions may be nil when push is not configured.
func NewHandler(s store.Store, bot Dispatcher, alerts AlertChecker, cfg config.ChatbotConfig, webpushOptions *webpush.Options, log *zap.Logger) *Handler {
	return &Handler{
		store:      s,
		bot:        bot,
		alerts:     alerts,
		webpush:    webpushOptions,
		chartDays:  cfg.ChartDays,
		recentRows: cfg.RecentDowntimeRowsLimit,
		log:        log.Named("api"),
	}
}

// fail maps store errors to status codes.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrUnavailable):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
