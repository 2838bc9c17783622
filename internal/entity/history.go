package entity

import (
	"time"

	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

// History is the archived record of a finished game.
type History struct {
	ID         string        `json:"id"`
	PlayerOne  string        `json:"player_one"`
	PlayerTwo  string        `json:"player_two"`
	Winner     string        `json:"winner"`
	Moves      []morris.Move `json:"moves"`
	FinishedAt time.Time     `json:"finished_at"`
}

func NewHistory(game *Game, finishedAt time.Time) *History {
	return &History{
		ID:         game.ID,
		PlayerOne:  game.PlayerOne,
		PlayerTwo:  game.PlayerTwo,
		Winner:     game.Winner,
		Moves:      append([]morris.Move(nil), game.Moves...),
		FinishedAt: finishedAt.UTC(),
	}
}
