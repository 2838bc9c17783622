package morris

import (
	"fmt"
	"strings"
)

const (
	columns = "abc"
	rows    = "123"
)

// Move is either a placement of a new piece or a relocation of an owned piece.
// Moves are values; the zero Move is a placement at a1.
type Move struct {
	from       Position
	to         Position
	relocation bool
}

// Place builds a placement at (row, col).
func Place(row, col int) Move {
	return Move{from: Position{row, col}}
}

// Relocate builds a relocation from (fromRow, fromCol) to (toRow, toCol).
func Relocate(fromRow, fromCol, toRow, toCol int) Move {
	return Move{
		from:       Position{fromRow, fromCol},
		to:         Position{toRow, toCol},
		relocation: true,
	}
}

// ParseMove reads "a1" (placement) or "a1c3" (relocation from a1 to c3).
// Column letters are case-insensitive.
func ParseMove(text string) (Move, error) {
	switch len(text) {
	case 2:
		from, err := parseCoordinate(text)
		if err != nil {
			return Move{}, err
		}
		return Move{from: from}, nil
	case 4:
		from, err := parseCoordinate(text[:2])
		if err != nil {
			return Move{}, err
		}
		to, err := parseCoordinate(text[2:])
		if err != nil {
			return Move{}, err
		}
		return Move{from: from, to: to, relocation: true}, nil
	default:
		return Move{}, fmt.Errorf("%w: %q must be 2 or 4 characters", ErrMalformedCoordinate, text)
	}
}

func parseCoordinate(text string) (Position, error) {
	col := strings.IndexByte(columns, lower(text[0]))
	row := strings.IndexByte(rows, text[1])
	if col < 0 || row < 0 {
		return Position{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, text)
	}
	return Position{Row: row, Col: col}, nil
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// IsRelocation reports whether the move slides an existing piece.
func (that Move) IsRelocation() bool {
	return that.relocation
}

// From is the placement cell or the relocation source.
func (that Move) From() Position {
	return that.from
}

// To is the relocation destination; ok is false for placements.
func (that Move) To() (Position, bool) {
	return that.to, that.relocation
}

// Coordinates returns zero-based indices. A placement has no destination.
func (that Move) Coordinates() (from Position, to Position, relocation bool) {
	return that.from, that.to, that.relocation
}

// Target is the cell the moving player ends up occupying.
func (that Move) Target() Position {
	if that.relocation {
		return that.to
	}
	return that.from
}

func (that Move) inBounds() bool {
	if !that.from.InBounds() {
		return false
	}
	return !that.relocation || that.to.InBounds()
}

func (that Move) String() string {
	if !that.inBounds() {
		return fmt.Sprintf("invalid(%d,%d)", that.from.Row, that.from.Col)
	}

	s := formatCoordinate(that.from)
	if that.relocation {
		s += formatCoordinate(that.to)
	}
	return s
}

func formatCoordinate(p Position) string {
	return string([]byte{columns[p.Col], rows[p.Row]})
}

func (that Move) MarshalText() ([]byte, error) {
	if !that.inBounds() {
		return nil, fmt.Errorf("%w: move out of board", ErrMalformedCoordinate)
	}
	return []byte(that.String()), nil
}

func (that *Move) UnmarshalText(text []byte) error {
	m, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*that = m
	return nil
}
