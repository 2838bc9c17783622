package usecase

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/morris-backend/internal/entity"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
	"github.com/rocketscienceinc/morris-backend/internal/opponent"
)

type mockPlayerRepo struct {
	mock.Mock
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	args := that.Called(ctx, player)
	return args.Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockHistoryRepo struct {
	mock.Mock
}

func (that *mockHistoryRepo) Save(ctx context.Context, history *entity.History) error {
	args := that.Called(ctx, history)
	return args.Error(0)
}

func (that *mockHistoryRepo) ListByPlayer(ctx context.Context, playerID string, limit int) ([]*entity.History, error) {
	args := that.Called(ctx, playerID, limit)
	histories, _ := args.Get(0).([]*entity.History)
	return histories, args.Error(1)
}

// scriptedStrategy plays the given moves in order and then reports being blocked.
type scriptedStrategy struct {
	moves []morris.Move
}

func (that *scriptedStrategy) ChooseMove(_ *morris.State, p morris.Player) (morris.Move, error) {
	if len(that.moves) == 0 {
		return morris.Move{}, fmt.Errorf("%w: player %s", opponent.ErrNoLegalMove, p)
	}

	move := that.moves[0]
	that.moves = that.moves[1:]
	return move, nil
}
