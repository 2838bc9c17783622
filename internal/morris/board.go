package morris

// BoardSize is the number of rows and columns of the board.
const BoardSize = 3

// Position addresses a cell with zero-based row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Position) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// Board is the 3x3 grid indexed [row][col].
type Board [BoardSize][BoardSize]Cell

func (that *Board) at(p Position) Cell {
	return that[p.Row][p.Col]
}

func (that *Board) set(p Position, c Cell) {
	that[p.Row][p.Col] = c
}

// Count returns how many cells p owns.
func (that *Board) Count(p Player) int {
	n := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == OwnedBy(p) {
				n++
			}
		}
	}
	return n
}

// Lines are the eight mills: three rows, three columns and both diagonals.
var Lines = [8][3]Position{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// unlinked are grid-diagonal pairs with no drawn line between them.
var unlinked = [4][2]Position{
	{{0, 1}, {1, 0}},
	{{0, 1}, {1, 2}},
	{{1, 0}, {2, 1}},
	{{2, 1}, {1, 2}},
}

// IsAdjacent reports whether a piece may slide from (r1, c1) to (r2, c2).
func IsAdjacent(r1, c1, r2, c2 int) bool {
	a, b := Position{r1, c1}, Position{r2, c2}
	if !a.InBounds() || !b.InBounds() {
		return false
	}

	if max(abs(r1-r2), abs(c1-c2)) != 1 {
		return false
	}

	for _, pair := range unlinked {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return false
		}
	}

	return true
}

// Neighbors returns the cells adjacent to (r, c) in row-major order.
func Neighbors(r, c int) []Position {
	neighbors := make([]Position, 0, 8)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if IsAdjacent(r, c, row, col) {
				neighbors = append(neighbors, Position{row, col})
			}
		}
	}
	return neighbors
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
