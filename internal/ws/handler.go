package ws

import (
	"github.com/gorilla/websocket"
)

// ServeConn подключает игрока к его сессии и блокируется до обрыва соединения
func (h *Hub) ServeConn(conn *websocket.Conn, sessionID, playerID, name string) error {
	room, err := h.Room(sessionID)
	if err != nil {
		return err
	}
	NewClient(playerID, name, conn, room).Run()
	return nil
}

// Authorize проверяет до апгрейда, что игрок назначен в сессию
func (h *Hub) Authorize(sessionID, playerID string) error {
	room, err := h.Room(sessionID)
	if err != nil {
		return err
	}
	if !room.machine.HasPlayer(playerID) {
		return ErrNotSeated
	}
	return nil
}
