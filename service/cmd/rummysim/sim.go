package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	engine "github.com/SRathinaGiri/IndianRummy/engine"
	"github.com/SRathinaGiri/IndianRummy/service/internal/game"
	"github.com/SRathinaGiri/IndianRummy/service/internal/history"
)

type simOptions struct {
	Players     int
	Rounds      int
	Games       int
	Seed        uint64 // match i uses Seed+i; 0 means random
	Parallel    int
	HiddenJoker bool
	Debug       bool
}

func seatNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("AI-%d", i+1)
	}
	return names
}

// simulate plays opts.Games all-AI matches, at most opts.Parallel at a time,
// and records each in store. The first failure cancels the rest.
func simulate(ctx context.Context, opts simOptions, store history.Store, logger *logrus.Logger) error {
	settings := engine.Settings{
		NumPlayers:  opts.Players,
		NumRounds:   opts.Rounds,
		HiddenJoker: opts.HiddenJoker,
		DebugMode:   opts.Debug,
		AllAI:       true,
	}
	names := seatNames(opts.Players)

	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i := range opts.Games {
		matchOpts := []game.Option{game.WithLogger(logger), game.WithHistory(store)}
		if opts.Seed != 0 {
			matchOpts = append(matchOpts, game.WithSeed(opts.Seed+uint64(i)))
		}
		g.Go(func() error {
			m, err := game.NewMatch(names, settings, matchOpts...)
			if err != nil {
				return err
			}
			if _, err := m.PlayMatch(ctx); err != nil {
				return fmt.Errorf("match %d: %w", i+1, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func printStats(ctx context.Context, out io.Writer, store history.Store, names []string) error {
	fmt.Fprintf(out, "%-8s %8s %8s %7s %8s %8s %7s\n", "player", "games", "won", "win%", "rounds", "won", "win%")
	for _, name := range names {
		st, err := store.Stats(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-8s %8s %8s %7s %8s %8s %7s\n", name,
			humanize.Comma(int64(st.GamesPlayed)), humanize.Comma(int64(st.GamesWon)), percent(st.GamesWon, st.GamesPlayed),
			humanize.Comma(int64(st.RoundsPlayed)), humanize.Comma(int64(st.RoundsWon)), percent(st.RoundsWon, st.RoundsPlayed))
	}
	return nil
}

func printRecent(ctx context.Context, out io.Writer, store history.Store, limit int) error {
	if limit <= 0 {
		return nil
	}
	recs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nRecent matches:")
	for _, r := range recs {
		fmt.Fprintf(out, "  %s  %s  winner %s  scores %v\n",
			r.ID.String()[:8], humanize.Time(r.PlayedAt), r.Winner, r.Scores)
	}
	return nil
}

func percent(n, of int) string {
	if of == 0 {
		return "-"
	}
	return humanize.FtoaWithDigits(100*float64(n)/float64(of), 1) + "%"
}
