package morris

// Threat is an empty cell that would complete a line for Player.
type Threat struct {
	Player   Player   `json:"player"`
	Position Position `json:"position"`
}

// FindThreats lists every (player, cell) where the player owns two cells
// of a line and the third is empty. Each pair appears once, ordered by
// player and then row-major by cell.
func FindThreats(state *State) []Threat {
	board := state.Board()

	var found [2][BoardSize][BoardSize]bool
	for _, line := range Lines {
		for _, p := range Players {
			owned := 0
			var open []Position
			for _, pos := range line {
				switch board.at(pos) {
				case OwnedBy(p):
					owned++
				case Empty:
					open = append(open, pos)
				}
			}
			if owned == 2 && len(open) == 1 {
				found[p.index()][open[0].Row][open[0].Col] = true
			}
		}
	}

	var threats []Threat
	for _, p := range Players {
		for row := 0; row < BoardSize; row++ {
			for col := 0; col < BoardSize; col++ {
				if found[p.index()][row][col] {
					threats = append(threats, Threat{Player: p, Position: Position{row, col}})
				}
			}
		}
	}

	return threats
}

// ThreatsOf filters threats down to those of player p.
func ThreatsOf(threats []Threat, p Player) []Position {
	var positions []Position
	for _, t := range threats {
		if t.Player == p {
			positions = append(positions, t.Position)
		}
	}
	return positions
}
