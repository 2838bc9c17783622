package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

var clientErrors = []error{
	morris.ErrMalformedCoordinate,
	apperror.ErrGameFinished,
	apperror.ErrGameIsNotStarted,
	apperror.ErrNotYourTurn,
	apperror.ErrGameNotFound,
	apperror.ErrPlayerNotFound,
	apperror.ErrGameFull,
	apperror.ErrNotInGame,
	apperror.ErrAlreadyInGame,
	apperror.ErrUnknownGameType,
}

// describe returns the text shown to the client; internal failures stay in the log.
func describe(err error, fallback string) string {
	if morris.IsRuleViolation(err) {
		return err.Error()
	}

	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return err.Error()
		}
	}

	return fallback
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

// actingPlayer returns the player bound to the connection by a connect
// message. Requests naming another player are rejected.
func (that *Server) actingPlayer(conn *connection, msg *Message, payload *Payload) (string, bool) {
	playerID := that.boundPlayer(conn)
	if playerID == "" {
		that.sendError(conn, msg.Action, "Connect first", nil)
		return "", false
	}

	if payload.Player != nil && payload.Player.ID != "" && payload.Player.ID != playerID {
		that.sendError(conn, msg.Action, "Player does not match connection", nil)
		return "", false
	}

	return playerID, true
}

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload", nil)
		return err
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.games.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		that.sendError(conn, msg.Action, describe(err, "failed to create a new player"), nil)
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	that.register(player.ID, conn)

	payloadResp := Payload{Player: player}

	if player.InGame() {
		game, getErr := that.games.GetGame(ctx, player.GameID)
		if getErr != nil {
			log.Warn("failed to get current game", "gameID", player.GameID, "error", getErr)
		} else {
			payloadResp.Game = game
		}
	}

	if err = that.sendMessage(conn, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload", nil)
		return err
	}

	playerID, ok := that.actingPlayer(conn, msg, payloadReq)
	if !ok {
		return nil
	}

	if payloadReq.Game == nil {
		that.sendError(conn, msg.Action, "Game is required", nil)
		return nil
	}

	game, err := that.games.CreateGame(ctx, playerID, payloadReq.Game.Type)
	if err != nil {
		that.sendError(conn, msg.Action, describe(err, "failed to create a new game"), nil)
		return fmt.Errorf("failed to create game: %w", err)
	}

	that.broadcast(msg.Action, game)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload", nil)
		return err
	}

	playerID, ok := that.actingPlayer(conn, msg, payloadReq)
	if !ok {
		return nil
	}

	if payloadReq.Game == nil {
		that.sendError(conn, msg.Action, "Game is required", nil)
		return nil
	}

	game, err := that.games.JoinGame(ctx, payloadReq.Game.ID, playerID)
	if err != nil {
		that.sendError(conn, msg.Action, describe(err, "failed to join game"), nil)
		return fmt.Errorf("failed to join game %s: %w", payloadReq.Game.ID, err)
	}

	that.broadcast(msg.Action, game)

	return nil
}

func (that *Server) handleGameMove(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameMove")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload", nil)
		return err
	}

	playerID, ok := that.actingPlayer(conn, msg, payloadReq)
	if !ok {
		return nil
	}

	if payloadReq.Move == "" {
		that.sendError(conn, msg.Action, "Move is required", nil)
		return nil
	}

	game, err := that.games.MakeMove(ctx, playerID, payloadReq.Move)
	if errors.Is(err, apperror.ErrGameFinished) {
		log.Info("game finished", "gameID", game.ID, "winner", game.Winner)
		that.broadcast(msg.Action, game)
		return nil
	}

	if err != nil {
		that.sendError(conn, msg.Action, describe(err, "failed to make move"), game)
		if morris.IsRuleViolation(err) || errors.Is(err, apperror.ErrNotYourTurn) {
			return nil
		}
		return fmt.Errorf("failed to make move: %w", err)
	}

	that.broadcast(msg.Action, game)

	return nil
}

func (that *Server) connected(playerID string) bool {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	_, ok := that.connections[playerID]
	return ok
}
