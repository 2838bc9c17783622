package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
	"github.com/rocketscienceinc/morris-backend/internal/entity"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

var errStorage = errors.New("storage is down")

// fakeGames serves a single pvp game between alice and bob.
type fakeGames struct {
	game    *entity.Game
	moveErr error

	// seatedIn maps known player ids to their current game id.
	seatedIn map[string]string

	createdType string
	lastMove    string
}

func newFakeGames(t *testing.T) *fakeGames {
	t.Helper()

	game := entity.NewGame("g1", entity.PvPType)
	game.Start("alice", "bob")

	return &fakeGames{
		game:     game,
		seatedIn: map[string]string{"alice": "g1", "bob": "g1", "carol": ""},
	}
}

func (that *fakeGames) GetOrCreatePlayer(_ context.Context, id string) (*entity.Player, error) {
	if id == "" {
		return &entity.Player{ID: "new-player"}, nil
	}

	gameID, ok := that.seatedIn[id]
	if !ok {
		return nil, fmt.Errorf("failed to get player: %w", apperror.ErrPlayerNotFound)
	}

	player := &entity.Player{ID: id, GameID: gameID}
	if gameID == that.game.ID {
		player.Seat, _ = that.game.Seat(id)
	}

	return player, nil
}

func (that *fakeGames) CreateGame(_ context.Context, playerID, gameType string) (*entity.Game, error) {
	if !entity.ValidGameType(gameType) {
		return nil, apperror.ErrUnknownGameType
	}
	that.createdType = gameType

	game := entity.NewGame("g2", gameType)
	game.PlayerOne = playerID

	return game, nil
}

func (that *fakeGames) JoinGame(_ context.Context, gameID, _ string) (*entity.Game, error) {
	if gameID != that.game.ID {
		return nil, apperror.ErrGameNotFound
	}

	return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameFull, gameID)
}

func (that *fakeGames) GetGame(_ context.Context, gameID string) (*entity.Game, error) {
	if gameID != that.game.ID {
		return nil, fmt.Errorf("failed to get game: %w", apperror.ErrGameNotFound)
	}

	return that.game, nil
}

func (that *fakeGames) MakeMove(_ context.Context, _, move string) (*entity.Game, error) {
	that.lastMove = move
	return that.game, that.moveErr
}

func (that *fakeGames) History(_ context.Context, playerID string) ([]*entity.History, error) {
	if playerID == "broken" {
		return nil, errStorage
	}

	return []*entity.History{{ID: "g0", PlayerOne: playerID, PlayerTwo: "bob", Winner: playerID, Moves: []morris.Move{}}}, nil
}

func serve(t *testing.T, games *fakeGames, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	server := New(slog.New(slog.NewTextHandler(io.Discard, nil)), games)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestServer_Ping(t *testing.T) {
	rec := serve(t, newFakeGames(t), http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServer_CreatePlayer(t *testing.T) {
	t.Run("Without body a new player is created", func(t *testing.T) {
		rec := serve(t, newFakeGames(t), http.MethodPost, "/players", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "new-player", decode(t, rec)["id"])
	})

	t.Run("Existing player is returned", func(t *testing.T) {
		rec := serve(t, newFakeGames(t), http.MethodPost, "/players", `{"id":"alice"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "alice", body["id"])
		assert.Equal(t, "g1", body["game_id"])
	})

	t.Run("Unknown player", func(t *testing.T) {
		rec := serve(t, newFakeGames(t), http.MethodPost, "/players", `{"id":"mallory"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Broken body", func(t *testing.T) {
		rec := serve(t, newFakeGames(t), http.MethodPost, "/players", `{"id":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_CreateGame(t *testing.T) {
	t.Run("Bot game", func(t *testing.T) {
		games := newFakeGames(t)

		rec := serve(t, games, http.MethodPost, "/games", `{"player_id":"alice","type":"bot"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, entity.WithBotType, games.createdType)
		assert.Equal(t, "g2", decode(t, rec)["id"])
	})

	t.Run("Unknown type", func(t *testing.T) {
		rec := serve(t, newFakeGames(t), http.MethodPost, "/games", `{"player_id":"alice","type":"blitz"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing player", func(t *testing.T) {
		rec := serve(t, newFakeGames(t), http.MethodPost, "/games", `{"type":"bot"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GetGame(t *testing.T) {
	t.Run("Known game", func(t *testing.T) {
		rec := serve(t, newFakeGames(t), http.MethodGet, "/games/g1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "000000000", body["board"])
		assert.Equal(t, "alice", body["turn"])
		assert.Equal(t, entity.StatusOngoing, body["status"])
	})

	t.Run("Unknown game", func(t *testing.T) {
		rec := serve(t, newFakeGames(t), http.MethodGet, "/games/nope", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_JoinGame(t *testing.T) {
	rec := serve(t, newFakeGames(t), http.MethodPost, "/games/g1/join", `{"player_id":"carol"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "two players")
}

func TestServer_MakeMove(t *testing.T) {
	t.Run("Move is passed to the game", func(t *testing.T) {
		games := newFakeGames(t)

		rec := serve(t, games, http.MethodPost, "/games/g1/moves", `{"player_id":"alice","move":"a1b2"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a1b2", games.lastMove)
	})

	t.Run("Finishing move returns the final game", func(t *testing.T) {
		games := newFakeGames(t)
		games.moveErr = apperror.ErrGameFinished

		rec := serve(t, games, http.MethodPost, "/games/g1/moves", `{"player_id":"alice","move":"c1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Rule violation returns the unchanged game", func(t *testing.T) {
		games := newFakeGames(t)
		games.moveErr = fmt.Errorf("move a1 rejected: %w", &morris.RuleError{Rule: morris.ErrCellOccupied})

		rec := serve(t, games, http.MethodPost, "/games/g1/moves", `{"player_id":"alice","move":"a1"}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode(t, rec)
		assert.Contains(t, body["error"], "occupied")
		assert.NotNil(t, body["game"])
	})

	t.Run("Malformed move", func(t *testing.T) {
		games := newFakeGames(t)
		games.moveErr = morris.ErrMalformedCoordinate

		rec := serve(t, games, http.MethodPost, "/games/g1/moves", `{"player_id":"alice","move":"z9"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Not your turn", func(t *testing.T) {
		games := newFakeGames(t)
		games.moveErr = apperror.ErrNotYourTurn

		rec := serve(t, games, http.MethodPost, "/games/g1/moves", `{"player_id":"bob","move":"a1"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Player from another game", func(t *testing.T) {
		games := newFakeGames(t)

		rec := serve(t, games, http.MethodPost, "/games/g1/moves", `{"player_id":"carol","move":"a1"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Empty(t, games.lastMove)
	})

	t.Run("Player whose current game differs from the path", func(t *testing.T) {
		// Given: g1 still lists bob but bob is now seated in g2
		games := newFakeGames(t)
		games.seatedIn["bob"] = "g2"

		// When: bob posts a move to g1
		rec := serve(t, games, http.MethodPost, "/games/g1/moves", `{"player_id":"bob","move":"a1"}`)

		// Then: the move is rejected before it reaches any game
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decode(t, rec)["error"], apperror.ErrNotInGame.Error())
		assert.Empty(t, games.lastMove)
	})

	t.Run("Unknown player", func(t *testing.T) {
		games := newFakeGames(t)

		rec := serve(t, games, http.MethodPost, "/games/g1/moves", `{"player_id":"mallory","move":"a1"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, games.lastMove)
	})
}

func TestServer_History(t *testing.T) {
	t.Run("Lists finished games", func(t *testing.T) {
		rec := serve(t, newFakeGames(t), http.MethodGet, "/players/alice/history", "")

		require.Equal(t, http.StatusOK, rec.Code)

		var histories []entity.History
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &histories))
		require.Len(t, histories, 1)
		assert.Equal(t, "alice", histories[0].Winner)
	})

	t.Run("Storage errors are hidden", func(t *testing.T) {
		rec := serve(t, newFakeGames(t), http.MethodGet, "/players/broken/history", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decode(t, rec)["error"])
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&morris.RuleError{Rule: morris.ErrNotAdjacent}, http.StatusUnprocessableEntity},
		{morris.ErrMalformedCoordinate, http.StatusBadRequest},
		{apperror.ErrUnknownGameType, http.StatusBadRequest},
		{apperror.ErrGameNotFound, http.StatusNotFound},
		{apperror.ErrPlayerNotFound, http.StatusNotFound},
		{apperror.ErrNotYourTurn, http.StatusConflict},
		{apperror.ErrGameFull, http.StatusConflict},
		{apperror.ErrGameIsNotStarted, http.StatusConflict},
		{apperror.ErrNotInGame, http.StatusConflict},
		{apperror.ErrAlreadyInGame, http.StatusConflict},
		{errStorage, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
}
