package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quiz_duel/internal/domain"
	"quiz_duel/internal/duel"
	"quiz_duel/internal/questions"
	"quiz_duel/internal/service"
	"quiz_duel/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const lobbyKey = "lobby-secret"

func setup(t *testing.T) (*Handler, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := ws.NewHub(ctx, questions.NewStaticPool(nil), duel.DefaultPolicy())
	h := New(hub, service.NewAuth("secret"), lobbyKey, "")

	r := gin.New()
	r.GET("/healthz", Health(map[string]Checker{
		"ok": CheckFunc(func(context.Context) error { return nil }),
	}))
	r.GET("/ws", h.WS)
	r.POST("/api/matches", h.CreateMatch)
	r.GET("/api/sessions/:id", h.RequirePlayer(), h.GetSession)
	return h, r
}

type matchResponse struct {
	SessionID string            `json:"sessionId"`
	Tokens    map[string]string `json:"tokens"`
}

func createMatch(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, matchResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/matches", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Lobby-Key", lobbyKey)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp matchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

const matchBody = `{"sessionId":"s1","players":[{"id":"alice","name":"Alice"},{"id":"bob","name":"Bob"}]}`

func TestCreateMatch(t *testing.T) {
	_, r := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/matches", strings.NewReader(matchBody))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("без ключа лобби: %d", w.Code)
	}

	w, resp := createMatch(t, r, matchBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("CreateMatch: %d %s", w.Code, w.Body.String())
	}
	if resp.SessionID != "s1" || resp.Tokens["alice"] == "" || resp.Tokens["bob"] == "" {
		t.Fatalf("неверный ответ: %+v", resp)
	}

	if w, _ := createMatch(t, r, matchBody); w.Code != http.StatusConflict {
		t.Fatalf("повторная сессия: %d", w.Code)
	}
	if w, _ := createMatch(t, r, `{"players":[{"id":"alice"}]}`); w.Code != http.StatusBadRequest {
		t.Fatalf("один игрок: %d", w.Code)
	}
	if w, _ := createMatch(t, r, `{"players":[{"id":"alice"},{"id":"alice"}]}`); w.Code != http.StatusBadRequest {
		t.Fatalf("одинаковые игроки: %d", w.Code)
	}
}

func TestGetSession(t *testing.T) {
	h, r := setup(t)
	_, resp := createMatch(t, r, matchBody)

	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions/s1", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := get(""); w.Code != http.StatusUnauthorized {
		t.Fatalf("без токена: %d", w.Code)
	}
	carol, _ := h.Auth.IssueToken("carol", "", time.Minute)
	if w := get(carol); w.Code != http.StatusForbidden {
		t.Fatalf("чужой игрок: %d", w.Code)
	}

	w := get(resp.Tokens["alice"])
	if w.Code != http.StatusOK {
		t.Fatalf("GetSession: %d %s", w.Code, w.Body.String())
	}
	var snap duel.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Phase != domain.PhaseWaiting || snap.SessionID != "s1" || snap.You != "alice" {
		t.Fatalf("неверный снимок: phase=%s session=%s you=%s", snap.Phase, snap.SessionID, snap.You)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("correctAnswer")) {
		t.Fatalf("снимок содержит ответы")
	}
}

func TestHealth(t *testing.T) {
	_, r := setup(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: %d", w.Code)
	}

	failing := gin.New()
	failing.GET("/healthz", Health(map[string]Checker{
		"postgres": CheckFunc(func(context.Context) error { return errors.New("down") }),
	}))
	w = httptest.NewRecorder()
	failing.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("healthz с упавшей зависимостью: %d", w.Code)
	}
}

type wsMsg struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readUntil(t *testing.T, conn *websocket.Conn, typ string) wsMsg {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var m wsMsg
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("ждали %s: %v", typ, err)
		}
		if m.Type == typ {
			return m
		}
	}
}

func TestWSDuelStart(t *testing.T) {
	_, r := setup(t)
	_, resp := createMatch(t, r, matchBody)

	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=s1&token="

	if _, w, err := websocket.DefaultDialer.Dial(base+"garbage", nil); err == nil || w.StatusCode != http.StatusUnauthorized {
		t.Fatalf("невалидный токен должен давать 401")
	}

	alice, _, err := websocket.DefaultDialer.Dial(base+resp.Tokens["alice"], nil)
	if err != nil {
		t.Fatalf("dial alice: %v", err)
	}
	defer alice.Close()
	bob, _, err := websocket.DefaultDialer.Dial(base+resp.Tokens["bob"], nil)
	if err != nil {
		t.Fatalf("dial bob: %v", err)
	}
	defer bob.Close()

	readUntil(t, alice, "rpsStart")
	readUntil(t, bob, "rpsStart")

	if err := alice.WriteJSON(map[string]any{"type": "rpsChoice", "phase": "rps", "payload": map[string]string{"choice": "rock"}}); err != nil {
		t.Fatal(err)
	}
	if err := bob.WriteJSON(map[string]any{"type": "rpsChoice", "phase": "rps", "payload": map[string]string{"choice": "scissors"}}); err != nil {
		t.Fatal(err)
	}

	var res duel.RPSResult
	if err := json.Unmarshal(readUntil(t, bob, "rpsResult").Payload, &res); err != nil {
		t.Fatal(err)
	}
	if res.WinnerID != "alice" {
		t.Fatalf("победитель: %q", res.WinnerID)
	}

	if err := bob.WriteJSON(map[string]any{"type": "timeout"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, bob, "rejected")
}
