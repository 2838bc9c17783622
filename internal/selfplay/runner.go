package selfplay

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/morris-backend/internal/morris"
	"github.com/rocketscienceinc/morris-backend/internal/opponent"
)

// DefaultMaxMoves stops games that keep relocating without a line.
const DefaultMaxMoves = 200

var ErrNoStrategy = errors.New("strategy is required for both seats")

// Record is one played game. States holds the position before every move.
// Winner is zero when the move cap ended the game.
type Record struct {
	Game   int
	States []*morris.State
	Winner morris.Player
}

func (that *Record) Capped() bool {
	return that.Winner == 0
}

type Summary struct {
	Games   int
	WinsOne int
	WinsTwo int
	Capped  int
	Moves   int
}

func (that *Summary) add(record *Record) {
	that.Games++
	that.Moves += len(record.States)

	switch record.Winner {
	case morris.PlayerOne:
		that.WinsOne++
	case morris.PlayerTwo:
		that.WinsTwo++
	default:
		that.Capped++
	}
}

type Runner struct {
	one, two opponent.Strategy
	maxMoves int
}

func NewRunner(one, two opponent.Strategy, maxMoves int) (*Runner, error) {
	if one == nil || two == nil {
		return nil, ErrNoStrategy
	}

	if maxMoves <= 0 {
		maxMoves = DefaultMaxMoves
	}

	return &Runner{one: one, two: two, maxMoves: maxMoves}, nil
}

// Play runs one game from the empty board. A side left without a legal
// move loses.
func (that *Runner) Play(game int) (*Record, error) {
	record := &Record{Game: game}
	state := morris.NewState()

	for len(record.States) < that.maxMoves {
		p := state.Turn()

		move, err := that.strategyFor(p).ChooseMove(state, p)
		if errors.Is(err, opponent.ErrNoLegalMove) {
			record.Winner = p.Opponent()
			return record, nil
		}
		if err != nil {
			return nil, fmt.Errorf("game %d: player %s failed to choose move: %w", game, p, err)
		}

		record.States = append(record.States, state.Clone())

		if err = state.Apply(move); err != nil {
			return nil, fmt.Errorf("game %d: player %s chose illegal move %s: %w", game, p, move, err)
		}

		if winner, ok := state.CheckWin(); ok {
			record.Winner = winner
			return record, nil
		}
	}

	return record, nil
}

// Run plays games one after another and hands every record to the writer.
// Rows of completed games are flushed even when Run stops early.
func (that *Runner) Run(ctx context.Context, games int, writer *Writer) (summary Summary, err error) {
	defer func() {
		if flushErr := writer.Flush(); flushErr != nil {
			err = errors.Join(err, flushErr)
		}
	}()

	for i := 0; i < games; i++ {
		if err = ctx.Err(); err != nil {
			return summary, fmt.Errorf("self-play interrupted after %d games: %w", i, err)
		}

		record, playErr := that.Play(i)
		if playErr != nil {
			return summary, playErr
		}

		if err = writer.Write(record); err != nil {
			return summary, err
		}

		summary.add(record)
	}

	return summary, nil
}

func (that *Runner) strategyFor(p morris.Player) opponent.Strategy {
	if p == morris.PlayerOne {
		return that.one
	}
	return that.two
}
