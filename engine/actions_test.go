package engine

import (
	"errors"
	"slices"
	"testing"
)

// stage replaces seat's cards and pins the wild joker so meld checks do not
// depend on the shuffle. The staged cards are not conserved against the deck.
func stage(t *testing.T, g *Game, seat int, wild, hand string, melds ...string) *Player {
	t.Helper()
	g.wildJoker = mustCard(t, wild)
	p := g.Player(seat)
	p.Hand = mustCards(t, hand)
	p.Melds = meldsOf(t, melds...)
	p.Selected = nil
	return p
}

// newDealtGame returns a two-seat game in the DRAW state with seat 0 human.
func newDealtGame(t *testing.T, s Settings) *Game {
	t.Helper()
	g := newTestGame(t, []string{"Ada", "Bot"}, s)
	dealAll(t, g)
	return g
}

// TestDrawFromStock verifies a stock draw moves one card and opens ACTION.
func TestDrawFromStock(t *testing.T) {
	g := newDealtGame(t, Settings{})
	stock := g.StockLen()

	c, res, err := g.DrawFromStock()
	if err != nil || !res.Valid {
		t.Fatalf("DrawFromStock = %v, %+v", err, res)
	}
	if g.StockLen() != stock-1 {
		t.Errorf("StockLen = %d, want %d", g.StockLen(), stock-1)
	}
	if p := g.Player(0); len(p.Hand) != HandSize+1 || !slices.Contains(p.Hand, c) {
		t.Errorf("hand %v does not hold %s", p.Hand, c)
	}
	if g.State() != StateAction {
		t.Errorf("State = %s, want ACTION", g.State())
	}
	if _, ok := g.PickedFromDiscard(); ok {
		t.Error("stock draw recorded as a discard pickup")
	}
	checkConservation(t, g)

	if _, _, err := g.DrawFromStock(); !errors.Is(err, ErrWrongState) {
		t.Errorf("second draw err = %v, want ErrWrongState", err)
	}
}

// TestDrawFromDiscard verifies the pickup is logged and cannot be thrown back.
func TestDrawFromDiscard(t *testing.T) {
	g := newDealtGame(t, Settings{})
	top, _ := g.DiscardTop()

	c, res, err := g.DrawFromDiscard()
	if err != nil || !res.Valid {
		t.Fatalf("DrawFromDiscard = %v, %+v", err, res)
	}
	if c != top {
		t.Errorf("drew %s, want %s", c, top)
	}
	if g.DiscardLen() != 0 {
		t.Errorf("DiscardLen = %d, want 0", g.DiscardLen())
	}
	if got := g.Pickups(0); !slices.Equal(got, []Card{top}) {
		t.Errorf("Pickups(0) = %v, want [%s]", got, top)
	}
	if picked, ok := g.PickedFromDiscard(); !ok || picked != top {
		t.Errorf("PickedFromDiscard = %s, %v", picked, ok)
	}
	checkConservation(t, g)

	res, err = g.DiscardCard(top)
	if err != nil || res.Valid || res.Message != msgJustPicked {
		t.Errorf("discard of the picked card = %v, %+v", err, res)
	}
	if g.State() != StateAction {
		t.Fatalf("rejected discard changed state to %s", g.State())
	}

	p := g.Player(0)
	var other Card = NoCard
	for _, h := range p.Hand {
		if h != top {
			other = h
			break
		}
	}
	res, err = g.DiscardCard(other)
	if err != nil || !res.Valid {
		t.Fatalf("DiscardCard(%s) = %v, %+v", other, err, res)
	}
	if d, _ := g.DiscardTop(); d != other {
		t.Errorf("DiscardTop = %s, want %s", d, other)
	}
	if g.CurrentSeat() != 1 || g.State() != StateDraw {
		t.Errorf("seat=%d state=%s, want 1 DRAW", g.CurrentSeat(), g.State())
	}
	if _, ok := g.PickedFromDiscard(); ok {
		t.Error("pickup survived the turn change")
	}
	checkConservation(t, g)
}

// TestDiscardDuplicateOfPickedCard verifies the pickup rule compares by value,
// so another copy of the same card is blocked too.
func TestDiscardDuplicateOfPickedCard(t *testing.T) {
	g := newDealtGame(t, Settings{})
	stage(t, g, 0, "A♣", "2♥ 3♥ 4♥ 5♠ 6♠ 7♠ 8♠ 9♦ 9♣ 9♠ K♥ K♦ K♣")
	g.discard = []Card{mustCard(t, "K♥")}

	if _, res, _ := g.DrawFromDiscard(); !res.Valid {
		t.Fatalf("DrawFromDiscard: %+v", res)
	}
	res, err := g.DiscardCard(mustCard(t, "K♥"))
	if err != nil || res.Valid {
		t.Errorf("discarding the other K♥ = %v, %+v; want rejected", err, res)
	}
}

// TestDiscardNotInHand verifies a missing card is rejected.
func TestDiscardNotInHand(t *testing.T) {
	g := newDealtGame(t, Settings{})
	stage(t, g, 0, "A♣", "2♥ 3♥ 4♥ 5♠ 6♠ 7♠ 8♠ 9♦ 9♣ 9♠ K♥ K♦ K♣")
	g.DrawFromStock()

	res, err := g.DiscardCard(mustCard(t, "Q♣"))
	if err != nil || res.Valid || res.Message != msgNotInHand {
		t.Errorf("DiscardCard(Q♣) = %v, %+v", err, res)
	}
}

// TestEmptyPiles verifies draws from empty piles are rejected without a state
// change.
func TestEmptyPiles(t *testing.T) {
	g := newDealtGame(t, Settings{})
	g.stock.cards = nil
	g.discard = nil

	if _, res, err := g.DrawFromStock(); err != nil || res.Valid || res.Message != msgStockEmpty {
		t.Errorf("DrawFromStock = %v, %+v", err, res)
	}
	if _, res, err := g.DrawFromDiscard(); err != nil || res.Valid || res.Message != msgDiscardEmpty {
		t.Errorf("DrawFromDiscard = %v, %+v", err, res)
	}
	if g.State() != StateDraw {
		t.Errorf("State = %s, want DRAW", g.State())
	}
}

// TestHumanActionsRejectedOnAISeat verifies the human API refuses AI seats.
func TestHumanActionsRejectedOnAISeat(t *testing.T) {
	g := newDealtGame(t, Settings{})
	g.current = 1

	if _, _, err := g.DrawFromStock(); !errors.Is(err, ErrNotHumanTurn) {
		t.Errorf("DrawFromStock err = %v", err)
	}
	if err := g.ToggleSelection(0); !errors.Is(err, ErrNotHumanTurn) {
		t.Errorf("ToggleSelection err = %v", err)
	}
	if _, err := g.RevealJoker(); !errors.Is(err, ErrNotHumanTurn) {
		t.Errorf("RevealJoker err = %v", err)
	}
}

// TestGroupAndUngroup walks the selection, grouping and ungrouping flow.
func TestGroupAndUngroup(t *testing.T) {
	g := newDealtGame(t, Settings{})
	p := stage(t, g, 0, "A♣", "2♥ 3♥ 4♥ 5♠ 6♠ 7♠ 8♠ 9♦ 9♣ 9♠ K♥ K♦ K♣")

	if res, _ := g.GroupSelectedCards(); res.Valid || res.Message != msgNothingChosen {
		t.Errorf("empty group = %+v", res)
	}
	for _, i := range []int{0, 1, 2} {
		if err := g.ToggleSelection(i); err != nil {
			t.Fatalf("ToggleSelection(%d): %v", i, err)
		}
	}
	if err := g.ToggleSelection(HandSize); !errors.Is(err, ErrBadIndex) {
		t.Errorf("ToggleSelection(13) err = %v", err)
	}
	if res, err := g.GroupSelectedCards(); err != nil || !res.Valid {
		t.Fatalf("GroupSelectedCards = %v, %+v", err, res)
	}
	if len(p.Melds) != 1 || !slices.Equal(p.Melds[0], mustCards(t, "2♥ 3♥ 4♥")) {
		t.Errorf("Melds = %v", p.Melds)
	}
	if len(p.Hand) != 10 || p.Selected != nil {
		t.Errorf("hand=%v selected=%v", p.Hand, p.Selected)
	}

	if err := g.UngroupMeld(1); !errors.Is(err, ErrBadIndex) {
		t.Errorf("UngroupMeld(1) err = %v", err)
	}
	if err := g.UngroupMeld(0); err != nil {
		t.Fatalf("UngroupMeld(0): %v", err)
	}
	if len(p.Melds) != 0 || len(p.Hand) != HandSize || !slices.IsSorted(p.Hand) {
		t.Errorf("after ungroup hand=%v melds=%v", p.Hand, p.Melds)
	}
}

// TestRevealJokerAfterPureSequence verifies a hidden joker unlocks once a pure
// sequence is grouped.
func TestRevealJokerAfterPureSequence(t *testing.T) {
	g := newDealtGame(t, Settings{HiddenJoker: true})
	p := stage(t, g, 0, "A♣", "2♥ 3♥ 4♥ 5♠ 6♠ 7♠ 8♠ 9♦ 9♣ 9♠ K♥ K♦ K♣")

	if res, _ := g.RevealJoker(); res.Valid || res.Message != msgJokerLocked {
		t.Errorf("early reveal = %+v", res)
	}
	g.ToggleSelection(3)
	g.ToggleSelection(4)
	g.ToggleSelection(5)
	g.GroupSelectedCards()
	if !p.CanRevealJoker {
		t.Fatal("pure sequence did not unlock the reveal")
	}
	if res, err := g.RevealJoker(); err != nil || !res.Valid {
		t.Fatalf("RevealJoker = %v, %+v", err, res)
	}
	if !p.HasSeenJoker || !g.WildsFor(p).Active {
		t.Error("joker not visible after reveal")
	}
	if res, _ := g.RevealJoker(); res.Valid || res.Message != msgJokerKnown {
		t.Errorf("second reveal = %+v", res)
	}
}

// TestDeclareValid verifies a correct claim wins the round and the other seat
// is arranged and charged its deadwood.
func TestDeclareValid(t *testing.T) {
	g := newDealtGame(t, Settings{})
	p := stage(t, g, 0, "A♣", "K♥ K♦ K♣ Q♦", "2♥ 3♥ 4♥", "5♠ 6♠ 7♠ 8♠", "9♦ 9♣ 9♠")
	g.state = StateAction

	res, err := g.Declare(mustCard(t, "Q♦"))
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if !res.Valid || res.Message != "Valid declaration!" {
		t.Fatalf("Declare = %+v", res)
	}
	if !g.IsRoundOver() || g.Winner() != 0 || g.PenaltySeat() != NoSeat {
		t.Errorf("over=%v winner=%d penalty=%d", g.IsRoundOver(), g.Winner(), g.PenaltySeat())
	}
	if len(p.Hand) != 0 || len(p.Melds) != 4 {
		t.Errorf("declarer hand=%v melds=%v", p.Hand, p.Melds)
	}
	if top, _ := g.DiscardTop(); top != mustCard(t, "Q♦") {
		t.Errorf("DiscardTop = %s, want Q♦", top)
	}
	pts := g.RoundPoints()
	if pts[0] != 0 {
		t.Errorf("winner paid %d", pts[0])
	}
	if want := g.deadwoodPoints(g.Player(1)); pts[1] != want || g.Scores()[1] != want {
		t.Errorf("loser paid %d (score %d), want %d", pts[1], g.Scores()[1], want)
	}
	if g.Player(1).CardCount() != HandSize {
		t.Errorf("loser holds %d cards after arranging", g.Player(1).CardCount())
	}
}

// TestDeclareInvalid verifies a wrong claim costs only the declarer.
func TestDeclareInvalid(t *testing.T) {
	g := newDealtGame(t, Settings{})
	stage(t, g, 0, "A♣", "2♥ 3♥ 4♥ 5♠ 6♠ 7♠ 8♠ 9♦ 9♣ 9♠ K♥ K♦ K♣ Q♦")
	g.state = StateAction

	res, err := g.Declare(mustCard(t, "Q♦"))
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if res.Valid {
		t.Fatal("ungrouped hand declared valid")
	}
	if g.PenaltySeat() != 0 || g.Winner() != NoSeat {
		t.Errorf("winner=%d penalty=%d", g.Winner(), g.PenaltySeat())
	}
	if s := g.Scores(); s[0] != WrongDeclarationPenalty || s[1] != 0 {
		t.Errorf("Scores = %v, want [80 0]", s)
	}
}

// TestDeclareMissingCard verifies a declaration with a card not held changes
// nothing.
func TestDeclareMissingCard(t *testing.T) {
	g := newDealtGame(t, Settings{})
	stage(t, g, 0, "A♣", "K♥ K♦ K♣ Q♦", "2♥ 3♥ 4♥", "5♠ 6♠ 7♠ 8♠", "9♦ 9♣ 9♠")
	g.state = StateAction

	res, err := g.Declare(mustCard(t, "J♠"))
	if err != nil || res.Valid || res.Message != msgNotInHand {
		t.Errorf("Declare(J♠) = %v, %+v", err, res)
	}
	if g.State() != StateAction {
		t.Errorf("State = %s, want ACTION", g.State())
	}
}

// TestStartNextRound verifies scores carry over and the match limit holds.
func TestStartNextRound(t *testing.T) {
	g := newDealtGame(t, Settings{NumRounds: 2})
	if err := g.StartNextRound(); !errors.Is(err, ErrWrongState) {
		t.Errorf("mid-round err = %v", err)
	}
	stage(t, g, 0, "A♣", "2♥ 3♥ 4♥ 5♠ 6♠ 7♠ 8♠ 9♦ 9♣ 9♠ K♥ K♦ K♣ Q♦")
	g.state = StateAction
	g.Declare(mustCard(t, "Q♦"))

	if err := g.StartNextRound(); err != nil {
		t.Fatalf("StartNextRound: %v", err)
	}
	if g.Round() != 2 || g.State() != StateSetup {
		t.Errorf("round=%d state=%s", g.Round(), g.State())
	}
	if g.Scores()[0] != WrongDeclarationPenalty {
		t.Errorf("score lost across rounds: %v", g.Scores())
	}
	for i, p := range g.Players() {
		if p.CardCount() != 0 {
			t.Errorf("seat %d kept %d cards", i, p.CardCount())
		}
	}
	checkConservation(t, g)

	dealAll(t, g)
	g.EndRound(NoSeat, NoSeat)
	if err := g.StartNextRound(); !errors.Is(err, ErrMatchOver) {
		t.Errorf("past the last round err = %v, want ErrMatchOver", err)
	}
	if !g.IsMatchOver() {
		t.Error("IsMatchOver = false after the last round")
	}
}
