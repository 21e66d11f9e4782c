package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"quiz_duel/internal/ws"

	"github.com/gin-gonic/gin"
)

// GetSession снимок сессии с точки зрения участника: публичное состояние и его рука
func (h *Handler) GetSession(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	sessionID := c.Param("id")
	if err := h.Hub.Authorize(sessionID, playerID); err != nil {
		if errors.Is(err, ws.ErrNotSeated) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	room, err := h.Hub.Room(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	snap, err := room.Snapshot(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}
