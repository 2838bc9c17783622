package morris

import "strconv"

// PiecesPerPlayer is the number of pieces each player places before relocating.
const PiecesPerPlayer = 3

// Player is one of the two seats of a game.
type Player uint8

const (
	PlayerOne Player = 1
	PlayerTwo Player = 2
)

// Players lists both seats in turn order.
var Players = [2]Player{PlayerOne, PlayerTwo}

func (that Player) Valid() bool {
	return that == PlayerOne || that == PlayerTwo
}

// Opponent returns the other seat.
func (that Player) Opponent() Player {
	if that == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (that Player) String() string {
	return strconv.Itoa(int(that))
}

// index maps a player to its slot in per-player arrays.
func (that Player) index() int {
	return int(that) - 1
}

// Cell is the content of a board square: Empty or owned by a player.
type Cell uint8

const Empty Cell = 0

// OwnedBy returns the cell value owned by p.
func OwnedBy(p Player) Cell {
	return Cell(p)
}

// Owner reports which player owns the cell, if any.
func (that Cell) Owner() (Player, bool) {
	if that == Empty {
		return 0, false
	}
	return Player(that), true
}

func (that Cell) IsEmpty() bool {
	return that == Empty
}

func (that Cell) String() string {
	return strconv.Itoa(int(that))
}

// Phase is derived per player from the remaining piece counter.
type Phase uint8

const (
	Placing Phase = iota
	Moving
)

func (that Phase) String() string {
	if that == Moving {
		return "moving"
	}
	return "placing"
}
