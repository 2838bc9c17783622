package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/morris-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *entity.Game   `json:"game,omitempty"`
	Move   string         `json:"move,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func newMessage(action string, payload Payload) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return Message{Action: action, Payload: data}, nil
}

func (that *Server) sendMessage(conn *connection, action string, payload Payload) error {
	message, err := newMessage(action, payload)
	if err != nil {
		return err
	}

	return conn.send(message)
}

// sendError answers the sender only. A rejected move carries the unchanged game.
func (that *Server) sendError(conn *connection, action, errorMsg string, game *entity.Game) {
	if err := that.sendMessage(conn, action, Payload{Error: errorMsg, Game: game}); err != nil {
		that.logger.Error("failed to send error response", "action", action, "error", err)
	}
}

// broadcast pushes the game to every connected player of it.
func (that *Server) broadcast(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcast", "gameID", game.ID)

	for _, playerID := range game.Players() {
		that.connectionsMutex.RLock()
		conn, ok := that.connections[playerID]
		that.connectionsMutex.RUnlock()

		if !ok {
			log.Debug("connection not found for player", "playerID", playerID)
			continue
		}

		seat, _ := game.Seat(playerID)
		payload := Payload{
			Player: &entity.Player{ID: playerID, GameID: game.ID, Seat: seat},
			Game:   game,
		}
		if game.IsFinished() {
			payload.Player.Leave()
		}

		if err := that.sendMessage(conn, action, payload); err != nil {
			log.Error("failed to send game update", "playerID", playerID, "error", err)
		}
	}
}
