// Package history records finished matches and derives per-player statistics
// from them. Several storage backends implement the same Store.
package history

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/SRathinaGiri/IndianRummy/service/internal/config"
)

// Record is one finished match.
type Record struct {
	ID        uuid.UUID `json:"id"`
	PlayedAt  time.Time `json:"playedAt"`
	Players   []string  `json:"players"`
	Scores    []int     `json:"scores"`    // cumulative, by seat
	RoundWins []int     `json:"roundWins"` // valid declarations, by seat
	Rounds    int       `json:"rounds"`
	Winner    string    `json:"winner"` // lowest score; the first such seat on a tie
}

// Stats summarises one player's matches.
type Stats struct {
	GamesPlayed  int `json:"gamesPlayed"`
	GamesWon     int `json:"gamesWon"`
	GamesLost    int `json:"gamesLost"`
	RoundsPlayed int `json:"roundsPlayed"`
	RoundsWon    int `json:"roundsWon"`
	RoundsLost   int `json:"roundsLost"`
}

// ErrInvalidRecord is returned by SaveMatch for a malformed record.
var ErrInvalidRecord = errors.New("invalid match record")

// Store persists match records.
type Store interface {
	SaveMatch(ctx context.Context, r Record) error
	Stats(ctx context.Context, player string) (Stats, error)
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open returns the Store selected by cfg.HistoryBackend.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.HistoryBackend {
	case config.BackendMemory, "":
		return NewMemoryStore(), nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN)
	case config.BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	}
	return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
}

// Validate checks that the per-seat slices line up.
func (r Record) Validate() error {
	n := len(r.Players)
	switch {
	case r.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	case n == 0:
		return fmt.Errorf("%w: no players", ErrInvalidRecord)
	case len(r.Scores) != n || len(r.RoundWins) != n:
		return fmt.Errorf("%w: %d players, %d scores, %d round wins", ErrInvalidRecord, n, len(r.Scores), len(r.RoundWins))
	case r.Rounds < 1:
		return fmt.Errorf("%w: %d rounds", ErrInvalidRecord, r.Rounds)
	}
	return nil
}

// Won reports whether seat finished with the lowest score. Every seat sharing
// the lowest score has won.
func (r Record) Won(seat int) bool {
	if seat < 0 || seat >= len(r.Scores) {
		return false
	}
	return r.Scores[seat] == slices.Min(r.Scores)
}

// Add folds the seats player held in r into s.
func (s *Stats) Add(r Record, player string) {
	for seat, name := range r.Players {
		if name != player {
			continue
		}
		s.GamesPlayed++
		if r.Won(seat) {
			s.GamesWon++
		}
		s.RoundsPlayed += r.Rounds
		s.RoundsWon += r.RoundWins[seat]
	}
	s.settle()
}

func (s *Stats) settle() {
	s.GamesLost = s.GamesPlayed - s.GamesWon
	s.RoundsLost = s.RoundsPlayed - s.RoundsWon
}
