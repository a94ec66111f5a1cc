package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	redisMatchKey   = "rummy:match:"  // + id: JSON record
	redisMatchIndex = "rummy:matches" // sorted set of ids by play time
	redisStatsKey   = "rummy:stats:"  // + player: hash of counters
)

// RedisStore keeps records as JSON strings, a time-ordered index and a
// counter hash per player.
type RedisStore struct {
	client *redis.Client
}

// OpenRedis connects to addr and selects db.
func OpenRedis(ctx context.Context, addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) SaveMatch(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("save match %s: %w", r.ID, err)
	}
	id := r.ID.String()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisMatchKey+id, data, 0)
		pipe.ZAdd(ctx, redisMatchIndex, redis.Z{Score: float64(r.PlayedAt.UnixMilli()), Member: id})
		for seat, name := range r.Players {
			key := redisStatsKey + name
			pipe.HIncrBy(ctx, key, "games_played", 1)
			if r.Won(seat) {
				pipe.HIncrBy(ctx, key, "games_won", 1)
			}
			pipe.HIncrBy(ctx, key, "rounds_played", int64(r.Rounds))
			pipe.HIncrBy(ctx, key, "rounds_won", int64(r.RoundWins[seat]))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save match %s: %w", r.ID, err)
	}
	return nil
}

func (s *RedisStore) Stats(ctx context.Context, player string) (Stats, error) {
	fields, err := s.client.HGetAll(ctx, redisStatsKey+player).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("stats for %q: %w", player, err)
	}
	var st Stats
	for name, dst := range map[string]*int{
		"games_played":  &st.GamesPlayed,
		"games_won":     &st.GamesWon,
		"rounds_played": &st.RoundsPlayed,
		"rounds_won":    &st.RoundsWon,
	} {
		v, ok := fields[name]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Stats{}, fmt.Errorf("stats for %q: field %s: %w", player, name, err)
		}
		*dst = n
	}
	st.settle()
	return st, nil
}

// Recent returns up to limit records, newest first.
func (s *RedisStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	ids, err := s.client.ZRevRange(ctx, redisMatchIndex, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("recent matches: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisMatchKey + id
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("recent matches: %w", err)
	}
	out := make([]Record, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("recent matches: %w: %s", errMissingRecord, ids[i])
		}
		var r Record
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, fmt.Errorf("recent matches: decode %s: %w", ids[i], err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var errMissingRecord = errors.New("indexed match has no record")
