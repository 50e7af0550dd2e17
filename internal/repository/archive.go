package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

// ArchiveRepository is the append-only history of concluded games and minted
// trophies. The live ledger state stays in redis; the archive is the durable,
// queryable record written once when a game reaches a terminal state.
type ArchiveRepository interface {
	Init(ctx context.Context) error
	RecordConcludedGame(ctx context.Context, game *entity.Game) error
	RecordTrophy(ctx context.Context, trophy *entity.Trophy) error
	ListConcluded(ctx context.Context) ([]*entity.Game, error)
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) Init(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS concluded_games (
			id INTEGER PRIMARY KEY,
			player1 TEXT NOT NULL,
			player2 TEXT NOT NULL,
			winner TEXT NOT NULL,
			state TEXT NOT NULL,
			board TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			last_move_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trophies (
			token_id INTEGER PRIMARY KEY,
			owner TEXT NOT NULL,
			game_id INTEGER NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := that.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("can't create table: %w", err)
		}
	}

	return nil
}

func (that *dbArchive) RecordConcludedGame(ctx context.Context, game *entity.Game) error {
	boardJSON, err := json.Marshal(game.Board)
	if err != nil {
		return fmt.Errorf("could not marshal board: %w", err)
	}

	query := `INSERT OR REPLACE INTO concluded_games
		(id, player1, player2, winner, state, board, created_at, last_move_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = that.conn.ExecContext(ctx, query,
		game.ID, game.Player1, game.Player2, game.Winner,
		game.State, string(boardJSON), game.CreatedAt, game.LastMoveAt,
	)
	if err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	return nil
}

func (that *dbArchive) RecordTrophy(ctx context.Context, trophy *entity.Trophy) error {
	query := `INSERT OR REPLACE INTO trophies (token_id, owner, game_id) VALUES (?, ?, ?)`

	if _, err := that.conn.ExecContext(ctx, query, trophy.TokenID, trophy.Owner, trophy.GameID); err != nil {
		return fmt.Errorf("failed to archive trophy: %w", err)
	}

	return nil
}

func (that *dbArchive) ListConcluded(ctx context.Context) ([]*entity.Game, error) {
	query := `SELECT id, player1, player2, winner, state, board, created_at, last_move_at
		FROM concluded_games ORDER BY id ASC`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query concluded games: %w", err)
	}
	defer rows.Close()

	var games []*entity.Game

	for rows.Next() {
		var (
			game      entity.Game
			boardJSON string
		)

		err = rows.Scan(&game.ID, &game.Player1, &game.Player2, &game.Winner,
			&game.State, &boardJSON, &game.CreatedAt, &game.LastMoveAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan concluded game: %w", err)
		}

		if err = json.Unmarshal([]byte(boardJSON), &game.Board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal board: %w", err)
		}

		games = append(games, &game)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate concluded games: %w", err)
	}

	return games, nil
}
