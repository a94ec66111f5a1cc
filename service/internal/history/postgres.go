package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS rummy_matches (
		id        TEXT PRIMARY KEY,
		played_at TIMESTAMPTZ NOT NULL,
		rounds    INTEGER NOT NULL,
		winner    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rummy_match_players (
		match_id   TEXT NOT NULL REFERENCES rummy_matches(id) ON DELETE CASCADE,
		seat       INTEGER NOT NULL,
		name       TEXT NOT NULL,
		score      INTEGER NOT NULL,
		round_wins INTEGER NOT NULL,
		won        BOOLEAN NOT NULL,
		PRIMARY KEY (match_id, seat)
	)`,
	`CREATE INDEX IF NOT EXISTS rummy_match_players_name ON rummy_match_players(name)`,
	`CREATE INDEX IF NOT EXISTS rummy_matches_played_at ON rummy_matches(played_at)`,
}

// PostgresStore keeps records in PostgreSQL through a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the tables if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) SaveMatch(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO rummy_matches (id, played_at, rounds, winner) VALUES ($1, $2, $3, $4)`,
			r.ID.String(), r.PlayedAt, r.Rounds, r.Winner); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for seat, name := range r.Players {
			batch.Queue(
				`INSERT INTO rummy_match_players (match_id, seat, name, score, round_wins, won) VALUES ($1, $2, $3, $4, $5, $6)`,
				r.ID.String(), seat, name, r.Scores[seat], r.RoundWins[seat], r.Won(seat))
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("save match %s: %w", r.ID, err)
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context, player string) (Stats, error) {
	var st Stats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(p.won::int), 0),
		       COALESCE(SUM(m.rounds), 0),
		       COALESCE(SUM(p.round_wins), 0)
		FROM rummy_match_players p JOIN rummy_matches m ON m.id = p.match_id
		WHERE p.name = $1`, player).
		Scan(&st.GamesPlayed, &st.GamesWon, &st.RoundsPlayed, &st.RoundsWon)
	if err != nil {
		return Stats{}, fmt.Errorf("stats for %q: %w", player, err)
	}
	st.settle()
	return st, nil
}

// Recent returns up to limit records, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.played_at, m.rounds, m.winner, p.name, p.score, p.round_wins
		FROM (SELECT * FROM rummy_matches ORDER BY played_at DESC, id LIMIT $1) m
		JOIN rummy_match_players p ON p.match_id = m.id
		ORDER BY m.played_at DESC, m.id, p.seat`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent matches: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			id, winner, name         string
			playedAt                 time.Time
			rounds, score, roundsWon int
		)
		if err := rows.Scan(&id, &playedAt, &rounds, &winner, &name, &score, &roundsWon); err != nil {
			return nil, fmt.Errorf("recent matches: %w", err)
		}
		matchID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("recent matches: bad id %q: %w", id, err)
		}
		out = appendSeat(out, Record{ID: matchID, PlayedAt: playedAt.UTC(), Rounds: rounds, Winner: winner}, name, score, roundsWon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent matches: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
