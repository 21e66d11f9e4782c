package handlers

import (
	"net/http"
	"strings"
	"time"

	"quiz_duel/internal/service"
	"quiz_duel/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	playerKey       = "player_id"
	defaultTokenTTL = 2 * time.Hour
)

type Handler struct {
	Hub      *ws.Hub
	Auth     *service.Auth
	LobbyKey string
	TokenTTL time.Duration

	upgrader websocket.Upgrader
}

func New(hub *ws.Hub, auth *service.Auth, lobbyKey, allowedOrigin string) *Handler {
	return &Handler{
		Hub:      hub,
		Auth:     auth,
		LobbyKey: lobbyKey,
		TokenTTL: defaultTokenTTL,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// RequirePlayer проверяет Bearer токен и кладёт id игрока в контекст
func (h *Handler) RequirePlayer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		claims, err := h.Auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(playerKey, claims.Subject)
		c.Next()
	}
}

func getPlayerID(c *gin.Context) (string, bool) {
	id := c.GetString(playerKey)
	return id, id != ""
}
