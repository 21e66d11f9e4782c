package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"quiz_duel/internal/duel"
	"quiz_duel/internal/logger"
	"quiz_duel/internal/ws"

	"github.com/gin-gonic/gin"
)

type seatRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name"`
}

type createMatchRequest struct {
	SessionID string        `json:"sessionId"`
	Players   []seatRequest `json:"players" binding:"required,len=2,dive"`
}

// CreateMatch лобби сообщает о сформированной паре, ответ - id сессии и токены игроков
func (h *Handler) CreateMatch(c *gin.Context) {
	if h.LobbyKey == "" || subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Lobby-Key")), []byte(h.LobbyKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid lobby key"})
		return
	}

	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seats := [2]duel.Seat{
		{ID: req.Players[0].ID, Name: req.Players[0].Name},
		{ID: req.Players[1].ID, Name: req.Players[1].Name},
	}
	room, err := h.Hub.CreateSession(req.SessionID, seats)
	switch {
	case errors.Is(err, ws.ErrSessionExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ws.ErrInvalidSeats):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Error("create session failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	tokens := make(map[string]string, 2)
	for _, s := range seats {
		token, err := h.Auth.IssueToken(s.ID, s.Name, h.TokenTTL)
		if err != nil {
			logger.Error("issue token failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		tokens[s.ID] = token
	}

	c.JSON(http.StatusCreated, gin.H{
		"sessionId": room.ID,
		"tokens":    tokens,
	})
}
