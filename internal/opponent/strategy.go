package opponent

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

const (
	RandomStrategy      = "random"
	ThreatAwareStrategy = "threat-aware"
)

var (
	ErrNoLegalMove     = errors.New("no legal move available")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrNotPlayersTurn  = errors.New("strategy asked to move out of turn")
)

// Strategy picks a move for player p in the given state.
// The state is never mutated. ChooseMove fails with ErrNotPlayersTurn
// when p is not to move and with ErrNoLegalMove when p is blocked.
type Strategy interface {
	ChooseMove(state *morris.State, p morris.Player) (morris.Move, error)
}

// New builds a strategy by its configuration name.
func New(name string, seed uint64) (Strategy, error) {
	switch name {
	case RandomStrategy, "":
		return NewRandom(seed), nil
	case ThreatAwareStrategy:
		return NewThreatAware(NewRandom(seed)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

func legalMoves(state *morris.State, p morris.Player) ([]morris.Move, error) {
	if state.Turn() != p {
		return nil, fmt.Errorf("%w: player %s, turn %s", ErrNotPlayersTurn, p, state.Turn())
	}

	moves := state.LegalMoves(p)
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: player %s", ErrNoLegalMove, p)
	}

	return moves, nil
}
