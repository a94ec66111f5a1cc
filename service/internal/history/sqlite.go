package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS matches (
	id        TEXT PRIMARY KEY,
	played_at INTEGER NOT NULL,
	rounds    INTEGER NOT NULL,
	winner    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS match_players (
	match_id   TEXT NOT NULL REFERENCES matches(id),
	seat       INTEGER NOT NULL,
	name       TEXT NOT NULL,
	score      INTEGER NOT NULL,
	round_wins INTEGER NOT NULL,
	won        INTEGER NOT NULL,
	PRIMARY KEY (match_id, seat)
);
CREATE INDEX IF NOT EXISTS match_players_name ON match_players(name);
CREATE INDEX IF NOT EXISTS matches_played_at ON matches(played_at);
`

// SQLiteStore keeps records in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveMatch(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO matches (id, played_at, rounds, winner) VALUES (?, ?, ?, ?)`,
		r.ID.String(), r.PlayedAt.UnixMicro(), r.Rounds, r.Winner); err != nil {
		return fmt.Errorf("save match %s: %w", r.ID, err)
	}
	for seat, name := range r.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_players (match_id, seat, name, score, round_wins, won) VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID.String(), seat, name, r.Scores[seat], r.RoundWins[seat], boolInt(r.Won(seat))); err != nil {
			return fmt.Errorf("save match %s seat %d: %w", r.ID, seat, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save match %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Stats(ctx context.Context, player string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(p.won), 0),
		       COALESCE(SUM(m.rounds), 0),
		       COALESCE(SUM(p.round_wins), 0)
		FROM match_players p JOIN matches m ON m.id = p.match_id
		WHERE p.name = ?`, player).
		Scan(&st.GamesPlayed, &st.GamesWon, &st.RoundsPlayed, &st.RoundsWon)
	if err != nil {
		return Stats{}, fmt.Errorf("stats for %q: %w", player, err)
	}
	st.settle()
	return st, nil
}

// Recent returns up to limit records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.played_at, m.rounds, m.winner, p.name, p.score, p.round_wins
		FROM (SELECT * FROM matches ORDER BY played_at DESC, id LIMIT ?) m
		JOIN match_players p ON p.match_id = m.id
		ORDER BY m.played_at DESC, m.id, p.seat`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent matches: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			id, winner, name         string
			playedAt                 int64
			rounds, score, roundsWon int
		)
		if err := rows.Scan(&id, &playedAt, &rounds, &winner, &name, &score, &roundsWon); err != nil {
			return nil, fmt.Errorf("recent matches: %w", err)
		}
		matchID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("recent matches: bad id %q: %w", id, err)
		}
		out = appendSeat(out, Record{
			ID:       matchID,
			PlayedAt: time.UnixMicro(playedAt).UTC(),
			Rounds:   rounds,
			Winner:   winner,
		}, name, score, roundsWon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent matches: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// appendSeat adds one seat row to the last record in out, starting a new
// record when head belongs to a different match.
func appendSeat(out []Record, head Record, name string, score, roundWins int) []Record {
	if len(out) == 0 || out[len(out)-1].ID != head.ID {
		out = append(out, head)
	}
	r := &out[len(out)-1]
	r.Players = append(r.Players, name)
	r.Scores = append(r.Scores, score)
	r.RoundWins = append(r.RoundWins, roundWins)
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
