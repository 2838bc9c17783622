package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rocketscienceinc/morris-backend/internal/opponent"
	"github.com/rocketscienceinc/morris-backend/internal/selfplay"
)

// main plays bot-vs-bot games and dumps every position as CSV training data.
func main() {
	games := flag.Int("games", 100, "number of games to play")
	maxMoves := flag.Int("max-moves", selfplay.DefaultMaxMoves, "moves after which a game is stopped without winner")
	one := flag.String("one", opponent.ThreatAwareStrategy, "strategy of player one")
	two := flag.String("two", opponent.RandomStrategy, "strategy of player two")
	seed := flag.Uint64("seed", 0, "random seed, 0 means time based")
	out := flag.String("out", "", "output file, defaults to <unix time>.csv")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(*games, *maxMoves, *one, *two, *seed, *out); err != nil {
		log.Fatal().Err(err).Msg("self-play failed")
	}
}

func run(games, maxMoves int, one, two string, seed uint64, out string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	first, err := opponent.New(one, seed)
	if err != nil {
		return fmt.Errorf("player one: %w", err)
	}

	// Different streams for the two seats when seeded.
	secondSeed := seed
	if seed != 0 {
		secondSeed = seed + 1
	}

	second, err := opponent.New(two, secondSeed)
	if err != nil {
		return fmt.Errorf("player two: %w", err)
	}

	runner, err := selfplay.NewRunner(first, second, maxMoves)
	if err != nil {
		return err
	}

	if out == "" {
		out = fmt.Sprintf("%d.csv", time.Now().Unix())
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	log.Info().Msgf("starting %d games between one=%s and two=%s...", games, one, two)

	summary, err := runner.Run(ctx, games, selfplay.NewWriter(f))
	if err != nil {
		return err
	}

	log.Info().Msgf("completed %d games: one won %d, two won %d, %d stopped at %d moves",
		summary.Games, summary.WinsOne, summary.WinsTwo, summary.Capped, maxMoves)
	log.Info().Msgf("stored %d positions in %s", summary.Moves, out)

	return nil
}
