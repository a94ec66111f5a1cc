// Package game drives Indian Rummy matches on top of the engine: dealing,
// the AI turn loop, round transitions, event broadcasting and match history.
package game

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/SRathinaGiri/IndianRummy/engine"
	"github.com/SRathinaGiri/IndianRummy/engine/agent"
	"github.com/SRathinaGiri/IndianRummy/service/internal/history"
)

// MaxTurnsPerRound bounds the AI loop. A round still running after this many
// turns is ended as a stalemate.
const MaxTurnsPerRound = 2000

var (
	ErrMatchFinished = errors.New("match already finished")
	ErrHumanSeat     = errors.New("match has a human seat")
	ErrUnknownPlayer = errors.New("unknown player")
)

// EventType names an event broadcast to observers of a match.
type EventType string

// Event types, in roughly the order a round produces them.
const (
	EventRoundStart    EventType = "round_start"    // Cards dealt, play about to begin.
	EventPlayerTurn    EventType = "player_turn"    // A seat must draw.
	EventPlayerDraw    EventType = "player_draw"    // Card is set only for discard-pile draws.
	EventPlayerDiscard EventType = "player_discard" // Card thrown onto the discard pile.
	EventPlayerGroup   EventType = "player_group"   // Selected hand cards formed a meld.
	EventPlayerUngroup EventType = "player_ungroup" // A meld went back to the hand.
	EventJokerRevealed EventType = "joker_revealed" // Seat may now use the hidden wild joker.
	EventPlayerDeclare EventType = "player_declare" // Payload carries the verdict.
	EventRoundEnd      EventType = "round_end"      // Payload carries round points and totals.
	EventMatchEnd      EventType = "match_end"      // Final scores and winner.
)

// EventPlayer identifies the seat an event is about.
type EventPlayer struct {
	ID   uuid.UUID `json:"id"`
	Seat int       `json:"seat"`
	Name string    `json:"name"`
}

// Event is the payload handed to the broadcast callback.
type Event struct {
	Type    EventType      `json:"type"`
	Round   int            `json:"round"`
	Player  *EventPlayer   `json:"player,omitempty"`
	Card    string         `json:"card,omitempty"`
	Cards   []string       `json:"cards,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Match owns one engine game and everything around it. All exported methods
// are safe for concurrent use.
type Match struct {
	ID        uuid.UUID   // Unique identifier for this match.
	PlayerIDs []uuid.UUID // Seat index -> player ID.

	mu       sync.Mutex
	game     *engine.Game
	log      *logrus.Entry
	history  history.Store  // Nil disables recording.
	emit     func(ev Event) // Nil drops events.
	started  time.Time
	turns    int   // AI turns taken this round.
	roundWon []int // Valid declarations per seat.
	finished bool
}

type matchConfig struct {
	engineOpts []engine.Option
	strategy   engine.Strategy
	logger     *logrus.Logger
	history    history.Store
	broadcast  func(Event)
}

// Option configures a Match.
type Option func(*matchConfig)

// WithSeed makes the shuffles reproducible.
func WithSeed(seed uint64) Option {
	return func(c *matchConfig) { c.engineOpts = append(c.engineOpts, engine.WithSeed(seed)) }
}

// WithStrategy replaces the default heuristic AI.
func WithStrategy(s engine.Strategy) Option {
	return func(c *matchConfig) { c.strategy = s }
}

// WithLogger sets the logger; the standard logrus logger is used otherwise.
func WithLogger(l *logrus.Logger) Option {
	return func(c *matchConfig) { c.logger = l }
}

// WithHistory records the match in s when it finishes.
func WithHistory(s history.Store) Option {
	return func(c *matchConfig) { c.history = s }
}

// WithBroadcast sends every event to fn. fn runs with the match locked and
// must not call back into the Match.
func WithBroadcast(fn func(Event)) Option {
	return func(c *matchConfig) { c.broadcast = fn }
}

// NewMatch creates a match with one seat per name. The first round is set up
// but not dealt; call StartRound.
func NewMatch(names []string, settings engine.Settings, opts ...Option) (*Match, error) {
	cfg := matchConfig{
		strategy: agent.NewHeuristic(agent.DefaultTuning()),
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	g, err := engine.NewGame(names, settings, append(cfg.engineOpts, engine.WithStrategy(cfg.strategy))...)
	if err != nil {
		return nil, fmt.Errorf("new match: %w", err)
	}

	m := &Match{
		ID:        uuid.New(),
		PlayerIDs: make([]uuid.UUID, len(names)),
		game:      g,
		history:   cfg.history,
		emit:      cfg.broadcast,
		started:   time.Now(),
		roundWon:  make([]int, len(names)),
	}
	for i := range m.PlayerIDs {
		m.PlayerIDs[i] = uuid.New()
	}
	m.log = cfg.logger.WithField("match_id", m.ID)
	m.log.WithFields(logrus.Fields{
		"players":      names,
		"rounds":       g.Settings().NumRounds,
		"hidden_joker": g.Settings().HiddenJoker,
	}).Info("match created")
	return m, nil
}

// StartRound deals HandSize cards to every seat, one at a time in seat order,
// and opens play.
func (m *Match) StartRound() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startRound()
}

func (m *Match) startRound() error {
	if m.finished {
		return ErrMatchFinished
	}
	for range engine.HandSize {
		for seat := range m.game.NumPlayers() {
			if _, err := m.game.DealTo(seat); err != nil {
				return fmt.Errorf("start round %d: %w", m.game.Round(), err)
			}
		}
	}
	if err := m.game.BeginPlay(); err != nil {
		return fmt.Errorf("start round %d: %w", m.game.Round(), err)
	}
	m.turns = 0

	payload := map[string]any{
		"stock":       m.game.StockLen(),
		"hiddenJoker": m.game.Settings().HiddenJoker,
	}
	if !m.game.Settings().HiddenJoker {
		payload["wildJoker"] = m.game.WildJoker().String()
	}
	ev := Event{Type: EventRoundStart, Payload: payload}
	if top, ok := m.game.DiscardTop(); ok {
		ev.Card = top.String()
	}
	m.roundLog().WithField("wild_joker", m.game.WildJoker()).Info("round started")
	m.fire(ev)
	m.fireTurn()
	return nil
}

// RunAITurns plays AI seats until a human seat must act or the round ends. A
// stalled AI turn, or a round that outlives MaxTurnsPerRound, ends the round
// as a stalemate. ctx is checked between turns.
func (m *Match) RunAITurns(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.game.State() == engine.StateDraw && m.game.CurrentPlayer().IsAI {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.turns >= MaxTurnsPerRound {
			m.roundLog().WithField("turns", m.turns).Warn("turn limit reached, ending round as stalemate")
			return m.endStalemate()
		}
		if err := m.aiTurn(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Match) aiTurn() error {
	seat := m.game.CurrentSeat()
	p := m.game.CurrentPlayer()
	sawJoker := p.HasSeenJoker

	res, err := m.game.ExecuteAITurn()
	if err != nil {
		return fmt.Errorf("seat %d: %w", seat, err)
	}
	m.turns++
	if res.Stalled {
		m.roundLog().WithField("seat", seat).Info("stock exhausted, ending round as stalemate")
		return m.endStalemate()
	}

	if !sawJoker && p.HasSeenJoker {
		m.fire(Event{Type: EventJokerRevealed, Player: m.eventPlayer(seat)})
	}
	draw := Event{Type: EventPlayerDraw, Player: m.eventPlayer(seat), Payload: map[string]any{"source": res.Source.String()}}
	if res.Source == engine.DrawDiscard {
		draw.Card = res.Drawn.String()
	}
	m.fire(draw)
	m.fire(Event{Type: EventPlayerDiscard, Player: m.eventPlayer(seat), Card: res.Discarded.String()})

	if m.game.Settings().DebugMode {
		m.roundLog().WithFields(logrus.Fields{
			"seat":      seat,
			"source":    res.Source,
			"drawn":     res.Drawn,
			"discarded": res.Discarded,
			"declared":  res.Declared,
		}).Debug("ai turn")
	}

	if res.Declared {
		m.fireDeclare(seat, m.game.Winner() == seat)
	}
	if m.game.IsRoundOver() {
		m.finishRound()
		return nil
	}
	m.fireTurn()
	return nil
}

// EndStalledRound ends the round as a stalemate when the current seat cannot
// draw from the stock.
func (m *Match) EndStalledRound() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.game.IsStalled() {
		return fmt.Errorf("end stalled round: %w (stock %d)", engine.ErrWrongState, m.game.StockLen())
	}
	return m.endStalemate()
}

func (m *Match) endStalemate() error {
	if err := m.game.EndRound(engine.NoSeat, engine.NoSeat); err != nil {
		return err
	}
	m.finishRound()
	return nil
}

// finishRound records the round result and broadcasts it. The round must be
// over.
func (m *Match) finishRound() {
	winner := m.game.Winner()
	payload := map[string]any{
		"points":  m.game.RoundPoints(),
		"scores":  m.game.Scores(),
		"penalty": m.game.PenaltySeat(),
		"winner":  winner,
	}
	deadwood := make([][]string, m.game.NumPlayers())
	for i, p := range m.game.Players() {
		deadwood[i] = cardStrings(p.Hand)
	}
	payload["deadwood"] = deadwood
	if winner != engine.NoSeat {
		m.roundWon[winner]++
		payload["winnerId"] = m.PlayerIDs[winner].String()
	}
	m.roundLog().WithFields(logrus.Fields{
		"winner":  winner,
		"penalty": m.game.PenaltySeat(),
		"points":  m.game.RoundPoints(),
		"turns":   m.turns,
	}).Info("round ended")
	m.fire(Event{Type: EventRoundEnd, Payload: payload})
}

// NextRound moves on from a finished round and deals the next one.
func (m *Match) NextRound() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.game.StartNextRound(); err != nil {
		return err
	}
	return m.startRound()
}

// Finish closes a match whose last round is over: it stores the result when a
// history store is configured and broadcasts match_end.
func (m *Match) Finish(ctx context.Context) (history.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished {
		return history.Record{}, ErrMatchFinished
	}
	if !m.game.IsMatchOver() {
		return history.Record{}, fmt.Errorf("finish: %w (round %d of %d, state %s)",
			engine.ErrWrongState, m.game.Round(), m.game.Settings().NumRounds, m.game.State())
	}
	rec := m.record()
	if m.history != nil {
		if err := m.history.SaveMatch(ctx, rec); err != nil {
			return rec, fmt.Errorf("finish: %w", err)
		}
	}
	m.finished = true

	leader := m.game.Leader()
	m.log.WithFields(logrus.Fields{
		"winner": rec.Winner,
		"scores": rec.Scores,
		"rounds": rec.Rounds,
	}).Info("match finished")
	m.fire(Event{
		Type:   EventMatchEnd,
		Player: m.eventPlayer(leader),
		Payload: map[string]any{
			"scores":    rec.Scores,
			"roundWins": rec.RoundWins,
			"standings": m.game.Standings(),
		},
	})
	return rec, nil
}

func (m *Match) record() history.Record {
	players := m.game.Players()
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return history.Record{
		ID:        m.ID,
		PlayedAt:  m.started.UTC().Truncate(time.Microsecond),
		Players:   names,
		Scores:    m.game.Scores(),
		RoundWins: slices.Clone(m.roundWon),
		Rounds:    m.game.Round(),
		Winner:    names[m.game.Leader()],
	}
}

// PlayMatch plays an all-AI match from its first deal to Finish.
func (m *Match) PlayMatch(ctx context.Context) (history.Record, error) {
	for _, p := range m.Players() {
		if !p.IsAI {
			return history.Record{}, fmt.Errorf("play match: %w (%s)", ErrHumanSeat, p.Name)
		}
	}
	if err := m.StartRound(); err != nil {
		return history.Record{}, err
	}
	for {
		if err := m.RunAITurns(ctx); err != nil {
			return history.Record{}, err
		}
		if m.IsMatchOver() {
			break
		}
		if err := m.NextRound(); err != nil {
			return history.Record{}, err
		}
	}
	return m.Finish(ctx)
}

// IsMatchOver reports whether the last round has been played.
func (m *Match) IsMatchOver() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.IsMatchOver()
}

// Scores returns the cumulative scores by seat.
func (m *Match) Scores() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Scores()
}

// RoundWins returns the number of valid declarations by seat.
func (m *Match) RoundWins() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.roundWon)
}

// Players returns copies of the seated players.
func (m *Match) Players() []engine.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]engine.Player, m.game.NumPlayers())
	for i, p := range m.game.Players() {
		out[i] = *p
		out[i].Hand = slices.Clone(p.Hand)
		out[i].Melds = cloneMelds(p.Melds)
		out[i].Selected = slices.Clone(p.Selected)
	}
	return out
}

// Snapshot returns a deep copy of the engine state.
func (m *Match) Snapshot() *engine.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Clone()
}

// LegalActions lists what the current seat may do.
func (m *Match) LegalActions() engine.ActionSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.LegalActions()
}

func (m *Match) roundLog() *logrus.Entry {
	return m.log.WithField("round", m.game.Round())
}

func (m *Match) fire(ev Event) {
	if m.emit == nil {
		return
	}
	ev.Round = m.game.Round()
	m.emit(ev)
}

func (m *Match) fireTurn() {
	seat := m.game.CurrentSeat()
	m.fire(Event{
		Type:    EventPlayerTurn,
		Player:  m.eventPlayer(seat),
		Payload: map[string]any{"stock": m.game.StockLen(), "ai": m.game.CurrentPlayer().IsAI},
	})
}

func (m *Match) fireDeclare(seat int, valid bool) {
	m.fire(Event{
		Type:    EventPlayerDeclare,
		Player:  m.eventPlayer(seat),
		Cards:   meldStrings(m.game.Player(seat).Melds),
		Payload: map[string]any{"valid": valid},
	})
}
