// Command rummysim plays AI-only Indian Rummy matches, records them in the
// configured history store and prints per-player statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/SRathinaGiri/IndianRummy/service/internal/config"
	"github.com/SRathinaGiri/IndianRummy/service/internal/history"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "rummysim:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rummysim", flag.ContinueOnError)
	var opts simOptions
	fs.IntVar(&opts.Players, "players", 4, "seats per match (2-6)")
	fs.IntVar(&opts.Rounds, "rounds", 1, "rounds per match")
	fs.IntVar(&opts.Games, "games", 10, "matches to play")
	fs.Uint64Var(&opts.Seed, "seed", 0, "base shuffle seed; 0 shuffles randomly")
	fs.IntVar(&opts.Parallel, "parallel", runtime.NumCPU(), "matches played at once")
	hidden := fs.Bool("hidden-joker", false, "hide the wild joker until a pure sequence is melded")
	backend := fs.String("backend", "", "history backend: memory, sqlite, postgres or redis")
	debug := fs.Bool("debug", false, "debug logging and open hands")
	envFile := fs.String("env", ".env", "dotenv file read before the environment")
	recent := fs.Int("recent", 5, "recent matches to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	// Flags given on the command line win over the environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.HistoryBackend = *backend
		case "hidden-joker":
			cfg.HiddenJoker = *hidden
		case "debug":
			cfg.Debug = *debug
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	opts.HiddenJoker = cfg.HiddenJoker
	opts.Debug = cfg.Debug

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	store, err := history.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.WithFields(logrus.Fields{
		"games":    opts.Games,
		"players":  opts.Players,
		"rounds":   opts.Rounds,
		"parallel": opts.Parallel,
		"backend":  cfg.HistoryBackend,
	}).Info("simulation starting")

	start := time.Now()
	if err := simulate(ctx, opts, store, logger); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "Played %s matches of %s rounds in %s (%s matches/s)\n\n",
		humanize.Comma(int64(opts.Games)), humanize.Comma(int64(opts.Rounds)),
		elapsed.Round(time.Millisecond), humanize.FormatFloat("#,###.##", float64(opts.Games)/elapsed.Seconds()))
	if err := printStats(ctx, out, store, seatNames(opts.Players)); err != nil {
		return err
	}
	return printRecent(ctx, out, store, *recent)
}
