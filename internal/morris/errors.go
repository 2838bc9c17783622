package morris

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	ErrInvalidState        = errors.New("invalid game state")

	ErrCellOccupied        = errors.New("cell is already occupied")
	ErrNoPiecesRemaining   = errors.New("all pieces are already placed")
	ErrNoPieceToMove       = errors.New("no piece to move")
	ErrNotOwnedByPlayer    = errors.New("piece does not belong to player")
	ErrPiecesStillUnplaced = errors.New("pieces must be placed before moving")
	ErrNotAdjacent         = errors.New("cells are not connected")
)

// RuleError describes a move rejected by a legality check.
// errors.Is matches the sentinel of the violated rule.
type RuleError struct {
	Rule   error
	Player Player
	From   Position
	To     *Position
}

func (that *RuleError) Error() string {
	switch {
	case errors.Is(that.Rule, ErrNoPiecesRemaining), errors.Is(that.Rule, ErrPiecesStillUnplaced):
		return fmt.Sprintf("player %s: %v", that.Player, that.Rule)
	case errors.Is(that.Rule, ErrNotOwnedByPlayer):
		return fmt.Sprintf("(%d, %d): %v %s", that.From.Row, that.From.Col, that.Rule, that.Player)
	case that.To != nil:
		return fmt.Sprintf("(%d, %d) -> (%d, %d): %v", that.From.Row, that.From.Col, that.To.Row, that.To.Col, that.Rule)
	default:
		return fmt.Sprintf("(%d, %d): %v", that.From.Row, that.From.Col, that.Rule)
	}
}

func (that *RuleError) Unwrap() error {
	return that.Rule
}

// IsRuleViolation reports whether err is a rejected move rather than an input or internal error.
func IsRuleViolation(err error) bool {
	var ruleErr *RuleError
	return errors.As(err, &ruleErr)
}
