package opponent

import (
	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

// ThreatAware completes its own line when it can, otherwise occupies a
// cell that would complete an opponent line, otherwise plays randomly.
type ThreatAware struct {
	fallback *Random
}

func NewThreatAware(fallback *Random) *ThreatAware {
	return &ThreatAware{fallback: fallback}
}

func (that *ThreatAware) ChooseMove(state *morris.State, p morris.Player) (morris.Move, error) {
	moves, err := legalMoves(state, p)
	if err != nil {
		return morris.Move{}, err
	}

	if winning := winningMoves(state, p, moves); len(winning) > 0 {
		return winning[that.fallback.intn(len(winning))], nil
	}

	if blocking := blockingMoves(state, p, moves); len(blocking) > 0 {
		return blocking[that.fallback.intn(len(blocking))], nil
	}

	return moves[that.fallback.intn(len(moves))], nil
}

func winningMoves(state *morris.State, p morris.Player, moves []morris.Move) []morris.Move {
	var winning []morris.Move
	for _, move := range moves {
		next := state.Clone()
		if err := next.Apply(move); err != nil {
			continue
		}
		if winner, ok := next.CheckWin(); ok && winner == p {
			winning = append(winning, move)
		}
	}
	return winning
}

func blockingMoves(state *morris.State, p morris.Player, moves []morris.Move) []morris.Move {
	threats := morris.ThreatsOf(morris.FindThreats(state), p.Opponent())
	if len(threats) == 0 {
		return nil
	}

	var blocking []morris.Move
	for _, move := range moves {
		for _, cell := range threats {
			if move.Target() == cell {
				blocking = append(blocking, move)
				break
			}
		}
	}
	return blocking
}
