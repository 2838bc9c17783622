package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		// Given: a game with StatusFinished
		game := &Game{Status: StatusFinished}

		// When: checking if the game is finished
		isFinished := game.IsFinished()

		// Then: it should return true
		assert.True(t, isFinished)
	})

	t.Run("IsOngoing returns true when game status is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}

		assert.True(t, game.IsOngoing())
	})

	t.Run("IsWaiting returns true when game status is waiting", func(t *testing.T) {
		game := &Game{Status: StatusWaiting}

		assert.True(t, game.IsWaiting())
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when game is ongoing", func(t *testing.T) {
		// Given: a game with StatusOngoing
		game := &Game{Status: StatusOngoing}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return nil error
		assert.NoError(t, err)
	})

	t.Run("Returns ErrGameIsNotStarted when game is waiting", func(t *testing.T) {
		game := &Game{Status: StatusWaiting}

		err := game.ConfirmOngoingState()

		assert.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Returns ErrGameFinished when game is finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}

		err := game.ConfirmOngoingState()

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		// Given: a game with unknown status
		game := &Game{Status: "unknown"}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return an error
		require.ErrorIs(t, err, ErrUnknownGameStatus)
		assert.Contains(t, err.Error(), "unknown game status")
	})
}

func TestNewGame(t *testing.T) {
	// When: a new game is created
	game := NewGame("123", PvPType)

	// Then: it waits for players with an empty board and full hands
	assert.Equal(t, "123", game.ID)
	assert.Equal(t, StatusWaiting, game.Status)
	assert.Equal(t, "000000000", game.Board)
	assert.Equal(t, 3, game.RemainingOne)
	assert.Equal(t, 3, game.RemainingTwo)
	assert.Empty(t, game.Turn)
	assert.False(t, game.IsWithBot())
}

func TestGame_Seats(t *testing.T) {
	// Given: a started game
	game := NewGame("123", WithBotType)
	game.Start("alice", "bot")

	// Then: seats map to ids in both directions
	seat, ok := game.Seat("alice")
	require.True(t, ok)
	assert.Equal(t, morris.PlayerOne, seat)

	seat, ok = game.Seat("bot")
	require.True(t, ok)
	assert.Equal(t, morris.PlayerTwo, seat)

	_, ok = game.Seat("mallory")
	assert.False(t, ok)

	_, ok = game.Seat("")
	assert.False(t, ok)

	assert.Equal(t, "alice", game.PlayerID(morris.PlayerOne))
	assert.Equal(t, "bot", game.PlayerID(morris.PlayerTwo))
	assert.Equal(t, "alice", game.Turn)
	assert.Equal(t, []string{"alice", "bot"}, game.Players())
	assert.True(t, game.IsFull())
	assert.True(t, game.IsOngoing())
	assert.True(t, game.IsWithBot())
}

func TestGame_StateRoundTrip(t *testing.T) {
	t.Run("Sync then State keeps the game", func(t *testing.T) {
		// Given: a started game and a few moves played on the engine
		game := NewGame("123", PvPType)
		game.Start("alice", "bob")

		state, err := game.State()
		require.NoError(t, err)

		for _, text := range []string{"a1", "b2", "c3"} {
			move, err := morris.ParseMove(text)
			require.NoError(t, err)
			require.NoError(t, state.Apply(move))
		}

		// When: the state is written to the record and read back
		game.Sync(state)
		restored, err := game.State()

		// Then: the record holds the expected fields and the state is identical
		require.NoError(t, err)
		assert.Equal(t, "100020001", game.Board)
		assert.Equal(t, 1, game.RemainingOne)
		assert.Equal(t, 2, game.RemainingTwo)
		assert.Equal(t, "bob", game.Turn)
		assert.Equal(t, state, restored)
	})

	t.Run("JSON round trip", func(t *testing.T) {
		// Given: a record with moves
		game := NewGame("123", PvPType)
		game.Start("alice", "bob")
		game.Moves = []morris.Move{morris.Place(0, 0), morris.Relocate(0, 0, 1, 1)}

		// When: it is stored as JSON and loaded back
		data, err := json.Marshal(game)
		require.NoError(t, err)

		var loaded Game
		require.NoError(t, json.Unmarshal(data, &loaded))

		// Then: the record is unchanged and moves are readable strings
		assert.Equal(t, game, &loaded)
		assert.Contains(t, string(data), `"moves":["a1","a1b2"]`)
	})

	t.Run("Corrupt board", func(t *testing.T) {
		game := NewGame("123", PvPType)
		game.Start("alice", "bob")

		game.Board = "0000"
		_, err := game.State()
		require.ErrorIs(t, err, ErrInvalidBoard)

		game.Board = "00000000x"
		_, err = game.State()
		require.ErrorIs(t, err, ErrInvalidBoard)
	})

	t.Run("Counters do not match the board", func(t *testing.T) {
		game := NewGame("123", PvPType)
		game.Start("alice", "bob")
		game.Board = "100000000"

		_, err := game.State()

		require.ErrorIs(t, err, morris.ErrInvalidState)
	})

	t.Run("Turn is not a seated player", func(t *testing.T) {
		game := NewGame("123", PvPType)

		_, err := game.State()

		require.ErrorIs(t, err, morris.ErrInvalidState)
	})
}

func TestGame_Finish(t *testing.T) {
	// Given: an ongoing game
	game := NewGame("123", PvPType)
	game.Start("alice", "bob")

	// When: seat Two wins
	game.Finish(morris.PlayerTwo)

	// Then: the winner id is stored and nobody is to move
	assert.Equal(t, "bob", game.Winner)
	assert.Equal(t, StatusFinished, game.Status)
	assert.Empty(t, game.Turn)
	assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameFinished)
}

func TestNewHistory(t *testing.T) {
	game := NewGame("123", PvPType)
	game.Start("alice", "bob")
	game.Moves = []morris.Move{morris.Place(0, 0)}
	game.Finish(morris.PlayerOne)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	history := NewHistory(game, at)

	assert.Equal(t, &History{
		ID:         "123",
		PlayerOne:  "alice",
		PlayerTwo:  "bob",
		Winner:     "alice",
		Moves:      []morris.Move{morris.Place(0, 0)},
		FinishedAt: at,
	}, history)
}

func TestPlayer_Leave(t *testing.T) {
	player := &Player{ID: "alice", GameID: "123", Seat: morris.PlayerOne}
	require.True(t, player.InGame())

	player.Leave()

	assert.False(t, player.InGame())
	assert.Equal(t, morris.Player(0), player.Seat)
}
