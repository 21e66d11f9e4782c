package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"quiz_duel/internal/duel"
	"quiz_duel/internal/logger"
	"quiz_duel/internal/metrics"
	"quiz_duel/internal/questions"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrInvalidSeats    = errors.New("two distinct players required")
	ErrNotSeated       = errors.New("player is not seated in this session")
)

const defaultPoolTimeout = 5 * time.Second

// Hub реестр активных сессий
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	ctx    context.Context
	pool   questions.Pool
	policy duel.Policy

	PoolTimeout time.Duration
	// MachineOptions передаются каждому новому автомату (в тестах - детерминированный rand)
	MachineOptions []duel.Option
}

func NewHub(ctx context.Context, pool questions.Pool, policy duel.Policy) *Hub {
	return &Hub{
		rooms:       make(map[string]*Room),
		ctx:         ctx,
		pool:        pool,
		policy:      policy,
		PoolTimeout: defaultPoolTimeout,
	}
}

// CreateSession вызывается лобби, когда пара сформирована. Пустой id - сгенерировать
func (h *Hub) CreateSession(id string, seats [2]duel.Seat) (*Room, error) {
	if seats[0].ID == "" || seats[1].ID == "" || seats[0].ID == seats[1].ID {
		return nil, ErrInvalidSeats
	}
	if id == "" {
		id = uuid.NewString()
	}

	h.mu.Lock()
	if _, ok := h.rooms[id]; ok {
		h.mu.Unlock()
		return nil, ErrSessionExists
	}
	m := duel.New(id, seats, h.policy, h.MachineOptions...)
	room := NewRoom(h.ctx, m, h.pool, h.PoolTimeout)
	room.onClose = h.remove
	h.rooms[id] = room
	h.mu.Unlock()

	metrics.ActiveSessions.Inc()
	logger.Info("session created", "session", id, "player1", seats[0].ID, "player2", seats[1].ID)
	go room.Run()
	return room, nil
}

func (h *Hub) Room(id string) (*Room, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return room, nil
}

// Len количество живых сессий
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	_, ok := h.rooms[id]
	delete(h.rooms, id)
	h.mu.Unlock()
	if ok {
		metrics.ActiveSessions.Dec()
	}
}

// Shutdown закрывает все сессии и ждёт их завершения
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		r.Close()
	}
	for _, r := range rooms {
		select {
		case <-r.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
