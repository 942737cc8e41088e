package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	// A pointer so that an empty message is accepted while a missing one is not.
	Message *string `json:"message" binding:"required"`
}

// Chat handles POST /chatbot.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	c.JSON(http.StatusOK, h.bot.Dispatch(c.Request.Context(), *req.Message))
}
