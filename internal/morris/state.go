package morris

import (
	"fmt"
	"strconv"
	"strings"
)

// State is a Three Men's Morris game in progress.
// It is not safe for concurrent use.
type State struct {
	board     Board
	remaining [2]int
	turn      Player
	moves     []Move
}

// NewState returns an empty board with Player One to move.
func NewState() *State {
	return &State{
		remaining: [2]int{PiecesPerPlayer, PiecesPerPlayer},
		turn:      PlayerOne,
	}
}

// Restore rebuilds a state from stored fields and validates its invariants.
func Restore(board Board, remainingOne, remainingTwo int, turn Player, moves []Move) (*State, error) {
	if !turn.Valid() {
		return nil, fmt.Errorf("%w: unknown turn %d", ErrInvalidState, turn)
	}

	for _, row := range board {
		for _, cell := range row {
			if cell != Empty && !Player(cell).Valid() {
				return nil, fmt.Errorf("%w: unknown cell value %d", ErrInvalidState, cell)
			}
		}
	}

	state := &State{
		board:     board,
		remaining: [2]int{remainingOne, remainingTwo},
		turn:      turn,
		moves:     append([]Move(nil), moves...),
	}

	for _, p := range Players {
		remaining := state.remaining[p.index()]
		if remaining < 0 || remaining > PiecesPerPlayer {
			return nil, fmt.Errorf("%w: player %s has %d remaining pieces", ErrInvalidState, p, remaining)
		}
		if board.Count(p)+remaining != PiecesPerPlayer {
			return nil, fmt.Errorf("%w: player %s has %d pieces on board and %d remaining", ErrInvalidState, p, board.Count(p), remaining)
		}
	}

	return state, nil
}

func (that *State) Turn() Player {
	return that.turn
}

func (that *State) Board() Board {
	return that.board
}

// Cell returns Empty for positions off the board.
func (that *State) Cell(row, col int) Cell {
	if !(Position{Row: row, Col: col}).InBounds() {
		return Empty
	}
	return that.board[row][col]
}

// Remaining is the number of pieces p has not placed yet, 0 for an unknown player.
func (that *State) Remaining(p Player) int {
	if !p.Valid() {
		return 0
	}
	return that.remaining[p.index()]
}

func (that *State) Phase(p Player) Phase {
	if that.Remaining(p) > 0 {
		return Placing
	}
	return Moving
}

// Moves returns a copy of the applied move log.
func (that *State) Moves() []Move {
	return append([]Move(nil), that.moves...)
}

func (that *State) Clone() *State {
	clone := *that
	clone.moves = that.Moves()
	return &clone
}

// Apply validates the move for the player to move and applies it.
// On error the state is left untouched.
func (that *State) Apply(move Move) error {
	if err := that.validate(move); err != nil {
		return err
	}

	player := that.turn
	if move.IsRelocation() {
		to, _ := move.To()
		that.board.set(move.From(), Empty)
		that.board.set(to, OwnedBy(player))
	} else {
		that.board.set(move.From(), OwnedBy(player))
		that.remaining[player.index()]--
	}

	that.moves = append(that.moves, move)
	that.turn = player.Opponent()

	return nil
}

func (that *State) validate(move Move) error {
	if !move.inBounds() {
		return fmt.Errorf("%w: move outside the board", ErrMalformedCoordinate)
	}

	player := that.turn
	from := move.From()

	if !move.IsRelocation() {
		if !that.board.at(from).IsEmpty() {
			return &RuleError{Rule: ErrCellOccupied, Player: player, From: from}
		}
		if that.Remaining(player) == 0 {
			return &RuleError{Rule: ErrNoPiecesRemaining, Player: player, From: from}
		}
		return nil
	}

	to, _ := move.To()

	owner, occupied := that.board.at(from).Owner()
	if !occupied {
		return &RuleError{Rule: ErrNoPieceToMove, Player: player, From: from, To: &to}
	}
	if owner != player {
		return &RuleError{Rule: ErrNotOwnedByPlayer, Player: player, From: from, To: &to}
	}
	if that.Remaining(player) > 0 {
		return &RuleError{Rule: ErrPiecesStillUnplaced, Player: player, From: from, To: &to}
	}
	if !that.board.at(to).IsEmpty() {
		return &RuleError{Rule: ErrCellOccupied, Player: player, From: to}
	}
	if !IsAdjacent(from.Row, from.Col, to.Row, to.Col) {
		return &RuleError{Rule: ErrNotAdjacent, Player: player, From: from, To: &to}
	}

	return nil
}

// CheckWin returns the owner of a complete line. If both players own one,
// the player who moved last is reported.
func (that *State) CheckWin() (Player, bool) {
	lastMover := that.turn.Opponent()
	if that.hasLine(lastMover) {
		return lastMover, true
	}
	if that.hasLine(that.turn) {
		return that.turn, true
	}
	return 0, false
}

func (that *State) hasLine(p Player) bool {
	for _, line := range Lines {
		if that.board.at(line[0]) == OwnedBy(p) &&
			that.board.at(line[1]) == OwnedBy(p) &&
			that.board.at(line[2]) == OwnedBy(p) {
			return true
		}
	}
	return false
}

// LegalMoves enumerates every move p could make on the current board:
// placements on empty cells while p has pieces left, otherwise
// relocations of p's pieces to adjacent empty cells.
func (that *State) LegalMoves(p Player) []Move {
	if !p.Valid() {
		return nil
	}

	var moves []Move

	if that.Remaining(p) > 0 {
		for row := 0; row < BoardSize; row++ {
			for col := 0; col < BoardSize; col++ {
				if that.board[row][col].IsEmpty() {
					moves = append(moves, Place(row, col))
				}
			}
		}
		return moves
	}

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that.board[row][col] != OwnedBy(p) {
				continue
			}
			for _, n := range Neighbors(row, col) {
				if that.board.at(n).IsEmpty() {
					moves = append(moves, Relocate(row, col, n.Row, n.Col))
				}
			}
		}
	}

	return moves
}

// SerializeCompact encodes turn, both remaining counters and the nine
// cells in row-major order, comma separated: "1,3,3,0,0,0,0,0,0,0,0,0".
func (that *State) SerializeCompact() string {
	fields := make([]string, 0, 3+BoardSize*BoardSize)
	fields = append(fields,
		that.turn.String(),
		strconv.Itoa(that.remaining[0]),
		strconv.Itoa(that.remaining[1]),
	)

	for _, row := range that.board {
		for _, cell := range row {
			fields = append(fields, cell.String())
		}
	}

	return strings.Join(fields, ",")
}
