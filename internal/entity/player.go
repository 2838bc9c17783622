package entity

import "github.com/rocketscienceinc/morris-backend/internal/morris"

type Player struct {
	ID     string        `json:"id"`
	GameID string        `json:"game_id,omitempty"`
	Seat   morris.Player `json:"seat,omitempty"`
}

func (that *Player) InGame() bool {
	return that.GameID != ""
}

// Leave detaches the player from its game.
func (that *Player) Leave() {
	that.GameID = ""
	that.Seat = 0
}
