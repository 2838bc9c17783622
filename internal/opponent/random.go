package opponent

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

// Random picks uniformly among the legal moves of the player.
// It is safe to share between game sessions.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom seeds the generator; a zero seed uses the current time.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Random{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (that *Random) ChooseMove(state *morris.State, p morris.Player) (morris.Move, error) {
	moves, err := legalMoves(state, p)
	if err != nil {
		return morris.Move{}, err
	}

	return moves[that.intn(len(moves))], nil
}

func (that *Random) intn(n int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rng.Intn(n) //nolint: gosec // it's ok
}
