// Package engine implements the rules of 13-card Indian Rummy played with
// three decks and a wild joker rank: meld and declaration validation, the
// greedy hand arranger, and the turn/round state machine that drives human
// and AI seats.
//
// The engine is synchronous and holds no locks; one Game serves one match and
// is driven by a single caller.
package engine

import (
	"errors"
	"fmt"
	"slices"
)

// TurnState is the phase of the current round.
type TurnState uint8

const (
	StateSetup     TurnState = iota // deck shuffled, hands being dealt
	StateDraw                       // current player must draw
	StateAction                     // current player holds 14 cards, must discard or declare
	StateRoundOver                  // scores final for the round
)

func (s TurnState) String() string {
	switch s {
	case StateSetup:
		return "SETUP"
	case StateDraw:
		return "DRAW"
	case StateAction:
		return "ACTION"
	case StateRoundOver:
		return "ROUND_OVER"
	}
	return fmt.Sprintf("TurnState(%d)", uint8(s))
}

// Errors returned for caller bugs. Rule violations are reported through
// ActionResult and DeclarationResult instead.
var (
	ErrBadSettings    = errors.New("invalid settings")
	ErrWrongState     = errors.New("action not allowed in this turn state")
	ErrNotHumanTurn   = errors.New("current player is an AI")
	ErrNotAITurn      = errors.New("current player is not an AI")
	ErrBadIndex       = errors.New("index out of range")
	ErrHandFull       = errors.New("player already holds a full hand")
	ErrDealIncomplete = errors.New("not every player holds a full hand")
	ErrNoStrategy     = errors.New("no AI strategy configured")
	ErrMatchOver      = errors.New("match is over")
	ErrBadPlan        = errors.New("strategy returned an inconsistent plan")
)

// Game holds the state of a match: the current round's piles and hands plus
// scores carried across rounds.
type Game struct {
	settings Settings
	rng      Source
	strategy Strategy

	players []*Player
	scores  []int
	round   int

	stock          *Deck
	discard        []Card
	wildJoker      Card
	current        int
	state          TurnState
	discardHistory []Card
	pickups        [][]Card // per seat, cards taken from the discard pile this round
	pickedDiscard  Card     // card the current player took from the discard pile this turn

	winner      int
	penalty     int
	roundPoints []int
}

// Option configures a Game.
type Option func(*Game)

// WithSource sets the shuffle source.
func WithSource(src Source) Option {
	return func(g *Game) { g.rng = src }
}

// WithSeed seeds a deterministic shuffle source.
func WithSeed(seed uint64) Option {
	return func(g *Game) { g.rng = NewSource(seed) }
}

// WithStrategy sets the strategy that plays AI seats.
func WithStrategy(s Strategy) Option {
	return func(g *Game) { g.strategy = s }
}

// NewGame creates a match and sets up its first round. Seat 0 is human unless
// settings.AllAI is set; every other seat is an AI.
func NewGame(names []string, settings Settings, opts ...Option) (*Game, error) {
	settings, err := settings.normalize(len(names))
	if err != nil {
		return nil, err
	}
	g := &Game{
		settings: settings,
		scores:   make([]int, len(names)),
		round:    1,
	}
	for i, name := range names {
		g.players = append(g.players, NewPlayer(name, settings.AllAI || i > 0))
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = randomSource()
	}
	g.setupRound()
	return g, nil
}

// setupRound shuffles a fresh deck, draws the wild joker and seeds the
// discard pile. Printed jokers turned up while choosing the wild joker go
// back under the stock.
func (g *Game) setupRound() {
	g.stock = NewDeck(NumDecks, g.rng)
	n := len(g.players)
	for _, p := range g.players {
		p.ResetForNewRound()
		if !g.settings.HiddenJoker {
			p.HasSeenJoker = true
		}
	}
	g.pickups = make([][]Card, n)
	g.discardHistory = nil
	g.discard = nil

	g.wildJoker = NoCard
	var redrawn []Card
	for {
		c, ok := g.stock.Draw()
		if !ok {
			break
		}
		if c.IsPrintedJoker() {
			redrawn = append(redrawn, c)
			continue
		}
		g.wildJoker = c
		break
	}
	for _, c := range redrawn {
		g.stock.PutBottom(c)
	}

	if c, ok := g.stock.Draw(); ok {
		g.discard = append(g.discard, c)
		g.discardHistory = append(g.discardHistory, c)
	}

	g.state = StateSetup
	g.current = 0
	g.pickedDiscard = NoCard
	g.winner = NoSeat
	g.penalty = NoSeat
	g.roundPoints = nil
}

// DealTo deals the top stock card to seat. Dealing is driven by the caller,
// one card at a time, until every seat holds HandSize cards.
func (g *Game) DealTo(seat int) (Card, error) {
	if g.state != StateSetup {
		return NoCard, fmt.Errorf("deal: %w (state %s)", ErrWrongState, g.state)
	}
	if seat < 0 || seat >= len(g.players) {
		return NoCard, fmt.Errorf("deal to seat %d: %w", seat, ErrBadIndex)
	}
	p := g.players[seat]
	if len(p.Hand) >= HandSize {
		return NoCard, fmt.Errorf("deal to seat %d: %w", seat, ErrHandFull)
	}
	c, ok := g.stock.Draw()
	if !ok {
		return NoCard, fmt.Errorf("deal to seat %d: stock exhausted", seat)
	}
	p.AddCards(c)
	return c, nil
}

// BeginPlay sorts every hand and hands the first turn to seat 0.
func (g *Game) BeginPlay() error {
	if g.state != StateSetup {
		return fmt.Errorf("begin play: %w (state %s)", ErrWrongState, g.state)
	}
	for i, p := range g.players {
		if len(p.Hand) != HandSize {
			return fmt.Errorf("begin play: seat %d holds %d cards: %w", i, len(p.Hand), ErrDealIncomplete)
		}
	}
	for _, p := range g.players {
		p.SortHand()
	}
	g.current = 0
	g.state = StateDraw
	return nil
}

// nextTurn passes play to the next seat. The outgoing player loses their
// selection and earns CanRevealJoker if they hold a pure sequence, melded or
// formable from the hand.
func (g *Game) nextTurn() {
	if g.state == StateRoundOver {
		return
	}
	p := g.players[g.current]
	p.Selected = nil
	if !p.HasSeenJoker && !p.CanRevealJoker && g.holdsPureSequence(p) {
		p.CanRevealJoker = true
	}
	g.current = (g.current + 1) % len(g.players)
	g.pickedDiscard = NoCard
	g.state = StateDraw
}

func (g *Game) holdsPureSequence(p *Player) bool {
	w := g.WildsFor(p)
	for _, m := range p.Melds {
		if IsPureSequence(m, w) {
			return true
		}
	}
	return HasPureSequence(p.Hand, w)
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// Settings returns the normalized match settings.
func (g *Game) Settings() Settings { return g.settings }

// State returns the turn state.
func (g *Game) State() TurnState { return g.state }

// Round returns the 1-based round number.
func (g *Game) Round() int { return g.round }

// CurrentSeat returns the index of the player to act.
func (g *Game) CurrentSeat() int { return g.current }

// CurrentPlayer returns the player to act.
func (g *Game) CurrentPlayer() *Player { return g.players[g.current] }

// NumPlayers returns the seat count.
func (g *Game) NumPlayers() int { return len(g.players) }

// Player returns the player at seat, or nil.
func (g *Game) Player(seat int) *Player {
	if seat < 0 || seat >= len(g.players) {
		return nil
	}
	return g.players[seat]
}

// Players returns the seats in order. The players are live.
func (g *Game) Players() []*Player { return slices.Clone(g.players) }

// WildJoker returns the card drawn to fix this round's wild rank.
func (g *Game) WildJoker() Card { return g.wildJoker }

// StockLen returns the number of cards in the stock pile.
func (g *Game) StockLen() int { return g.stock.Len() }

// DiscardLen returns the number of cards in the discard pile.
func (g *Game) DiscardLen() int { return len(g.discard) }

// DiscardTop returns the visible discard card.
func (g *Game) DiscardTop() (Card, bool) {
	if len(g.discard) == 0 {
		return NoCard, false
	}
	return g.discard[len(g.discard)-1], true
}

// DiscardHistory returns every card that reached the discard pile this round,
// the seed card first.
func (g *Game) DiscardHistory() []Card { return slices.Clone(g.discardHistory) }

// Pickups returns the cards seat has taken from the discard pile this round.
func (g *Game) Pickups(seat int) []Card {
	if seat < 0 || seat >= len(g.pickups) {
		return nil
	}
	return slices.Clone(g.pickups[seat])
}

// PickedFromDiscard returns the card the current player took from the discard
// pile this turn.
func (g *Game) PickedFromDiscard() (Card, bool) {
	return g.pickedDiscard, g.pickedDiscard != NoCard
}

// Scores returns the cumulative scores.
func (g *Game) Scores() []int { return slices.Clone(g.scores) }

// CardsInPlay counts stock, discard, hands, melds and the wild joker card.
// Within a round it always equals DeckSize.
func (g *Game) CardsInPlay() int {
	n := g.stock.Len() + len(g.discard)
	for _, p := range g.players {
		n += p.CardCount()
	}
	if g.wildJoker != NoCard {
		n++
	}
	return n
}
