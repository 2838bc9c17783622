package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
	"github.com/rocketscienceinc/morris-backend/internal/entity"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
	"github.com/rocketscienceinc/morris-backend/internal/opponent"
	"github.com/rocketscienceinc/morris-backend/internal/pkg"
)

const historyLimit = 50

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type historyRepo interface {
	Save(ctx context.Context, history *entity.History) error
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]*entity.History, error)
}

// GameManager keeps one game per id in storage and serializes all
// operations on the same game.
type GameManager struct {
	logger *slog.Logger

	playerRepo  playerRepo
	gameRepo    gameRepo
	historyRepo historyRepo

	bot   opponent.Strategy
	botID string

	locks *gameLocks
}

func NewGameManager(
	logger *slog.Logger,
	playerRepo playerRepo,
	gameRepo gameRepo,
	historyRepo historyRepo,
	bot opponent.Strategy,
	botID string,
) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo:  playerRepo,
		gameRepo:    gameRepo,
		historyRepo: historyRepo,

		bot:   bot,
		botID: botID,

		locks: newGameLocks(),
	}
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.createPlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create new player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// CreateGame returns the player's current game or opens a new one.
// Bot games get random seats; if the bot sits first it has already moved.
func (that *GameManager) CreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	log := that.logger.With("method", "CreateGame", "playerID", playerID)

	if !entity.ValidGameType(gameType) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownGameType, gameType)
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	current, err := that.currentGame(ctx, player)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return current, nil
	}

	game := entity.NewGame(pkg.GenerateGameID(), gameType)

	if game.IsWithBot() {
		if err = that.startBotGame(game, player.ID); err != nil {
			return nil, err
		}
	} else {
		game.PlayerOne = player.ID
	}

	seat, _ := game.Seat(player.ID)
	player.GameID = game.ID
	player.Seat = seat

	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Info("game created", "gameID", game.ID, "type", game.Type, "seat", seat)

	return game, nil
}

func (that *GameManager) startBotGame(game *entity.Game, playerID string) error {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		game.Start(playerID, that.botID)
		return nil
	}

	game.Start(that.botID, playerID)

	state, err := game.State()
	if err != nil {
		return fmt.Errorf("failed to build game state: %w", err)
	}

	if err = that.botTurn(game, state); err != nil {
		return err
	}

	game.Sync(state)

	return nil
}

// currentGame returns the unfinished game the player is seated in, or nil
// when the player is free. Stale references to archived games count as free.
func (that *GameManager) currentGame(ctx context.Context, player *entity.Player) (*entity.Game, error) {
	if !player.InGame() {
		return nil, nil //nolint: nilnil // no current game
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		return nil, nil //nolint: nilnil // no current game
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current game: %w", err)
	}

	if game.IsFinished() {
		return nil, nil //nolint: nilnil // no current game
	}

	return game, nil
}

// JoinGame seats the player in a waiting game and starts it.
func (that *GameManager) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	log := that.logger.With("method", "JoinGame", "gameID", gameID, "playerID", playerID)

	unlock := that.locks.lock(gameID)
	defer unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if game.HasPlayer(player.ID) {
		return game, nil
	}

	current, err := that.currentGame(ctx, player)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrAlreadyInGame, current.ID)
	}

	if game.IsWithBot() || game.IsFull() || !game.IsWaiting() {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameFull, gameID)
	}

	game.Start(game.PlayerOne, player.ID)

	player.GameID = game.ID
	player.Seat = morris.PlayerTwo
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Info("player joined game")

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	return that.getGameByID(ctx, gameID)
}

// MakeMove applies the player's move and, in bot games, the bot's reply.
// A finished game is archived and returned together with ErrGameFinished.
func (that *GameManager) MakeMove(ctx context.Context, playerID, text string) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove", "playerID", playerID)

	move, err := morris.ParseMove(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse move: %w", err)
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.InGame() {
		return nil, fmt.Errorf("%w: player %s", apperror.ErrNotInGame, playerID)
	}

	unlock := that.locks.lock(player.GameID)
	defer unlock()

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	if !game.HasPlayer(player.ID) {
		return nil, fmt.Errorf("%w: player %s, game %s", apperror.ErrNotInGame, playerID, game.ID)
	}

	if game.Turn != player.ID {
		return game, apperror.ErrNotYourTurn
	}

	state, err := game.State()
	if err != nil {
		return nil, fmt.Errorf("failed to build game state: %w", err)
	}

	if err = state.Apply(move); err != nil {
		return game, fmt.Errorf("move %s rejected: %w", move, err)
	}

	finished := that.settle(game, state)

	if !finished && game.IsWithBot() {
		err = that.botTurn(game, state)
		switch {
		case errors.Is(err, opponent.ErrNoLegalMove):
			// the bot is to move and blocked, so it loses
			game.Finish(state.Turn().Opponent())
			finished = true
		case err != nil:
			return nil, err
		default:
			finished = that.settle(game, state)
		}
	}

	if finished {
		if err = that.finishGame(ctx, game); err != nil {
			return nil, err
		}

		log.Info("game finished", "gameID", game.ID, "winner", game.Winner)

		return game, apperror.ErrGameFinished
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// History lists the player's finished games, newest first.
func (that *GameManager) History(ctx context.Context, playerID string) ([]*entity.History, error) {
	histories, err := that.historyRepo.ListByPlayer(ctx, playerID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return histories, nil
}

// settle syncs the record with the state and reports whether the game is over:
// a completed line wins, and a player left without a legal move loses.
func (that *GameManager) settle(game *entity.Game, state *morris.State) bool {
	game.Sync(state)

	if winner, ok := state.CheckWin(); ok {
		game.Finish(winner)
		return true
	}

	if len(state.LegalMoves(state.Turn())) == 0 {
		game.Finish(state.Turn().Opponent())
		return true
	}

	return false
}

func (that *GameManager) botTurn(game *entity.Game, state *morris.State) error {
	seat, ok := game.Seat(that.botID)
	if !ok {
		return fmt.Errorf("%w: bot %s, game %s", apperror.ErrNotInGame, that.botID, game.ID)
	}

	move, err := that.bot.ChooseMove(state, seat)
	if err != nil {
		return fmt.Errorf("bot failed to choose move: %w", err)
	}

	if err = state.Apply(move); err != nil {
		return fmt.Errorf("bot failed to make move %s: %w", move, err)
	}

	return nil
}

// finishGame archives the game, removes it from live storage and frees its players.
func (that *GameManager) finishGame(ctx context.Context, game *entity.Game) error {
	log := that.logger.With("method", "finishGame", "gameID", game.ID)

	if err := that.historyRepo.Save(ctx, entity.NewHistory(game, time.Now())); err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	for _, id := range game.Players() {
		if id == that.botID {
			continue
		}

		player, err := that.playerRepo.GetByID(ctx, id)
		if err != nil {
			log.Error("failed to get player", "playerID", id, "error", err)
			continue
		}

		player.Leave()
		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			log.Error("failed to update player", "playerID", id, "error", err)
		}
	}

	return nil
}

func (that *GameManager) createPlayer(ctx context.Context) (*entity.Player, error) {
	player := &entity.Player{
		ID: pkg.GenerateNewSessionID(),
	}

	if err := that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
