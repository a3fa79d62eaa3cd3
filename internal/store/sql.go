package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"

	"triviaduel-backend/api"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// StartingRank is the rank a newly seen user is created with.
const StartingRank = 1000

// SQLStore is the relational store for users and completed games, backed
// by SQLite.
type SQLStore struct {
	db *sql.DB
}

func OpenSQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Migrate applies every embedded migration not yet recorded as run, in
// filename order, each inside its own transaction.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (name TEXT PRIMARY KEY)`); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM schema_migrations WHERE name = ?`, name).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		b, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return err
		}

		if err := s.runMigration(ctx, name, string(b)); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) runMigration(ctx context.Context, name, stmts string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, stmts); err != nil {
		return fmt.Errorf("migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (name) VALUES (?)`, name); err != nil {
		return err
	}
	return tx.Commit()
}

// User is a persisted account; password credentials are out of the
// engine's scope (registration is a non-goal).
type User struct {
	ID       string
	Username string
	Rank     int
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, rank FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.Rank)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureUser creates a user row at StartingRank if one doesn't already
// exist for id; join tokens reference users minted by the (out-of-scope)
// registration flow, but the engine must tolerate a user id it has never
// persisted before (e.g. during tests or a training game).
func (s *SQLStore) EnsureUser(ctx context.Context, id, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, rank) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		id, username, StartingRank)
	return err
}

func (s *SQLStore) UpdateRank(ctx context.Context, id string, rank int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET rank = ? WHERE id = ?`, rank, id)
	return err
}

// GameType distinguishes how a finished game's UserGame rows are shaped:
// RANKED/NORMAL have exactly two, TRAINING has exactly one. The engine
// only ever produces RANKED or NORMAL games; TRAINING belongs to the
// out-of-scope solo mode and exists here only so the column's full domain
// is modeled.
type GameType string

const (
	GameTypeRanked   GameType = "ranked"
	GameTypeNormal   GameType = "normal"
	GameTypeTraining GameType = "training"
)

// GameResult is one user's outcome of a finished game, ready to be
// persisted as a UserGame row.
type GameResult struct {
	UserID     string
	OpponentID string
	Status     api.GameStatus
	RankAfter  int
}

// SaveGame writes one Game row and one UserGame row per result, atomically.
func (s *SQLStore) SaveGame(ctx context.Context, gameType GameType, results []GameResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`INSERT INTO games (type, created_at) VALUES (?, datetime('now'))`, string(gameType))
	if err != nil {
		return err
	}
	gameID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, r := range results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_games (game_id, user_id, opponent_id, status, rank_after)
			 VALUES (?, ?, ?, ?, ?)`,
			gameID, r.UserID, r.OpponentID, string(r.Status), r.RankAfter); err != nil {
			return err
		}
	}
	return tx.Commit()
}
