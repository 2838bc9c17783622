package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

const (
	WithBotType = "bot"
	PvPType     = "pvp"
)

const emptyBoard = "000000000"

var (
	ErrInvalidBoard      = errors.New("invalid board")
	ErrUnknownGameStatus = errors.New("unknown game status")
)

// Game is the stored record of a game session. Turn and Winner hold
// player ids, Board holds nine cell digits in row-major order.
type Game struct {
	ID           string        `json:"id"`
	PlayerOne    string        `json:"player_one"`
	PlayerTwo    string        `json:"player_two"`
	Turn         string        `json:"turn"`
	RemainingOne int           `json:"remaining_one"`
	RemainingTwo int           `json:"remaining_two"`
	Board        string        `json:"board"`
	Moves        []morris.Move `json:"moves"`
	Winner       string        `json:"winner,omitempty"`
	Status       string        `json:"status"`
	Type         string        `json:"type,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:           id,
		RemainingOne: morris.PiecesPerPlayer,
		RemainingTwo: morris.PiecesPerPlayer,
		Board:        emptyBoard,
		Moves:        []morris.Move{},
		Status:       StatusWaiting,
		Type:         gameType,
	}
}

// Start seats both players and gives the first turn to seat One.
func (that *Game) Start(playerOne, playerTwo string) {
	that.PlayerOne = playerOne
	that.PlayerTwo = playerTwo
	that.Turn = playerOne
	that.Status = StatusOngoing
}

// State rebuilds the rule engine state from the record.
func (that *Game) State() (*morris.State, error) {
	board, err := decodeBoard(that.Board)
	if err != nil {
		return nil, err
	}

	turn, ok := that.Seat(that.Turn)
	if !ok {
		return nil, fmt.Errorf("%w: turn %q is not seated in game %s", morris.ErrInvalidState, that.Turn, that.ID)
	}

	state, err := morris.Restore(board, that.RemainingOne, that.RemainingTwo, turn, that.Moves)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", that.ID, err)
	}

	return state, nil
}

// Sync copies the engine state back into the record.
func (that *Game) Sync(state *morris.State) {
	that.Board = encodeBoard(state.Board())
	that.RemainingOne = state.Remaining(morris.PlayerOne)
	that.RemainingTwo = state.Remaining(morris.PlayerTwo)
	that.Turn = that.PlayerID(state.Turn())
	that.Moves = state.Moves()
}

// Finish closes the game in favour of the given seat.
func (that *Game) Finish(winner morris.Player) {
	that.Winner = that.PlayerID(winner)
	that.Status = StatusFinished
	that.Turn = ""
}

// Seat reports which seat the player occupies.
func (that *Game) Seat(playerID string) (morris.Player, bool) {
	switch {
	case playerID == "":
		return 0, false
	case playerID == that.PlayerOne:
		return morris.PlayerOne, true
	case playerID == that.PlayerTwo:
		return morris.PlayerTwo, true
	default:
		return 0, false
	}
}

func (that *Game) PlayerID(seat morris.Player) string {
	switch seat {
	case morris.PlayerOne:
		return that.PlayerOne
	case morris.PlayerTwo:
		return that.PlayerTwo
	default:
		return ""
	}
}

// Players lists the ids of the seated players.
func (that *Game) Players() []string {
	players := make([]string, 0, 2)
	for _, id := range []string{that.PlayerOne, that.PlayerTwo} {
		if id != "" {
			players = append(players, id)
		}
	}
	return players
}

func (that *Game) HasPlayer(playerID string) bool {
	_, ok := that.Seat(playerID)
	return ok
}

func (that *Game) IsFull() bool {
	return that.PlayerOne != "" && that.PlayerTwo != ""
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func ValidGameType(gameType string) bool {
	return gameType == WithBotType || gameType == PvPType
}

func encodeBoard(board morris.Board) string {
	var sb strings.Builder
	sb.Grow(morris.BoardSize * morris.BoardSize)

	for _, row := range board {
		for _, cell := range row {
			sb.WriteString(cell.String())
		}
	}

	return sb.String()
}

func decodeBoard(text string) (morris.Board, error) {
	var board morris.Board

	if len(text) != morris.BoardSize*morris.BoardSize {
		return board, fmt.Errorf("%w: %q must have %d cells", ErrInvalidBoard, text, morris.BoardSize*morris.BoardSize)
	}

	for i := 0; i < len(text); i++ {
		digit := text[i]
		if digit < '0' || digit > '2' {
			return board, fmt.Errorf("%w: %q has cell value %q", ErrInvalidBoard, text, digit)
		}
		board[i/morris.BoardSize][i%morris.BoardSize] = morris.Cell(digit - '0')
	}

	return board, nil
}
