package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/morris-backend/internal/entity"
)

type HistoryRepository interface {
	Save(ctx context.Context, history *entity.History) error
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]*entity.History, error)
}

type historyRepository struct {
	conn *sql.DB
}

func NewHistoryRepository(conn *sql.DB) HistoryRepository {
	return &historyRepository{
		conn: conn,
	}
}

func (that *historyRepository) Save(ctx context.Context, history *entity.History) error {
	query := `INSERT OR REPLACE INTO game_history (id, player_one, player_two, winner, moves, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	moves, err := json.Marshal(history.Moves)
	if err != nil {
		return fmt.Errorf("can't marshal moves: %w", err)
	}

	_, err = that.conn.ExecContext(ctx, query,
		history.ID, history.PlayerOne, history.PlayerTwo, history.Winner, string(moves), history.FinishedAt)
	if err != nil {
		return fmt.Errorf("can't save game history: %w", err)
	}

	return nil
}

// ListByPlayer returns the most recent finished games of the player first.
func (that *historyRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]*entity.History, error) {
	query := `SELECT id, player_one, player_two, winner, moves, finished_at
		FROM game_history
		WHERE player_one = ? OR player_two = ?
		ORDER BY finished_at DESC
		LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, playerID, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("can't find game history: %w", err)
	}
	defer rows.Close()

	histories := make([]*entity.History, 0)
	for rows.Next() {
		var (
			history entity.History
			moves   string
		)

		if err = rows.Scan(&history.ID, &history.PlayerOne, &history.PlayerTwo, &history.Winner, &moves, &history.FinishedAt); err != nil {
			return nil, fmt.Errorf("can't scan game history: %w", err)
		}

		if err = json.Unmarshal([]byte(moves), &history.Moves); err != nil {
			return nil, fmt.Errorf("can't unmarshal moves of game %s: %w", history.ID, err)
		}

		histories = append(histories, &history)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read game history: %w", err)
	}

	return histories, nil
}
