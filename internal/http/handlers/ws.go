package handlers

import (
	"errors"
	"net/http"
	"strings"

	"quiz_duel/internal/logger"
	"quiz_duel/internal/ws"

	"github.com/gin-gonic/gin"
)

// WS апгрейд до websocket: ?session=<id>&token=<jwt> (или Authorization: Bearer)
func (h *Handler) WS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token, _ = strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}
	claims, err := h.Auth.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	sessionID := c.Query("session")
	if err := h.Hub.Authorize(sessionID, claims.Subject); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, ws.ErrNotSeated) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "error", err)
		return
	}

	go func() {
		if err := h.Hub.ServeConn(conn, sessionID, claims.Subject, claims.Name); err != nil {
			logger.Warn("ws serve failed", "session", sessionID, "player", claims.Subject, "error", err)
			_ = conn.Close()
		}
	}()
}
