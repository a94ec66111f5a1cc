package engine

import (
	"fmt"
	"slices"
)

// ActionResult reports whether a player action was accepted. A rejected
// action leaves the game unchanged and Message says why.
type ActionResult struct {
	Valid   bool
	Message string
}

func accepted() ActionResult { return ActionResult{Valid: true} }

func rejected(msg string) ActionResult { return ActionResult{Message: msg} }

const (
	msgStockEmpty    = "The stock pile is empty."
	msgDiscardEmpty  = "The discard pile is empty."
	msgJustPicked    = "You cannot discard the card you just picked."
	msgNotInHand     = "That card is not in your hand."
	msgNothingChosen = "Select cards to group first."
	msgJokerKnown    = "The wild joker is already revealed."
	msgJokerLocked   = "Meld a pure sequence to reveal the wild joker."
)

// humanTurn returns the current player if it is a human and the state is one
// of states.
func (g *Game) humanTurn(op string, states ...TurnState) (*Player, error) {
	if !slices.Contains(states, g.state) {
		return nil, fmt.Errorf("%s: %w (state %s)", op, ErrWrongState, g.state)
	}
	p := g.players[g.current]
	if p.IsAI {
		return nil, fmt.Errorf("%s: %w (seat %d)", op, ErrNotHumanTurn, g.current)
	}
	return p, nil
}

// DrawFromStock moves the top stock card into the current player's hand.
func (g *Game) DrawFromStock() (Card, ActionResult, error) {
	p, err := g.humanTurn("draw from stock", StateDraw)
	if err != nil {
		return NoCard, ActionResult{}, err
	}
	c, ok := g.stock.Draw()
	if !ok {
		return NoCard, rejected(msgStockEmpty), nil
	}
	p.AddCards(c)
	g.pickedDiscard = NoCard
	g.state = StateAction
	return c, accepted(), nil
}

// DrawFromDiscard moves the top discard card into the current player's hand
// and logs the pickup. That card may not be discarded again this turn.
func (g *Game) DrawFromDiscard() (Card, ActionResult, error) {
	p, err := g.humanTurn("draw from discard", StateDraw)
	if err != nil {
		return NoCard, ActionResult{}, err
	}
	c, ok := g.takeDiscard()
	if !ok {
		return NoCard, rejected(msgDiscardEmpty), nil
	}
	p.AddCards(c)
	g.state = StateAction
	return c, accepted(), nil
}

func (g *Game) takeDiscard() (Card, bool) {
	if len(g.discard) == 0 {
		return NoCard, false
	}
	c := g.discard[len(g.discard)-1]
	g.discard = g.discard[:len(g.discard)-1]
	g.pickups[g.current] = append(g.pickups[g.current], c)
	g.pickedDiscard = c
	return c, true
}

func (g *Game) pushDiscard(c Card) {
	g.discard = append(g.discard, c)
	g.discardHistory = append(g.discardHistory, c)
}

// DiscardCard discards c from the current player's hand and ends the turn.
func (g *Game) DiscardCard(c Card) (ActionResult, error) {
	p, err := g.humanTurn("discard", StateAction)
	if err != nil {
		return ActionResult{}, err
	}
	if g.pickedDiscard != NoCard && c == g.pickedDiscard {
		return rejected(msgJustPicked), nil
	}
	i := slices.Index(p.Hand, c)
	if i < 0 {
		return rejected(msgNotInHand), nil
	}
	p.Hand = slices.Delete(p.Hand, i, i+1)
	p.Selected = nil
	g.pushDiscard(c)
	g.nextTurn()
	return accepted(), nil
}

// ToggleSelection selects or deselects hand index i for grouping.
func (g *Game) ToggleSelection(i int) error {
	p, err := g.humanTurn("toggle selection", StateDraw, StateAction)
	if err != nil {
		return err
	}
	if !p.ToggleSelection(i) {
		return fmt.Errorf("toggle selection %d: %w", i, ErrBadIndex)
	}
	return nil
}

// GroupSelectedCards moves the selected hand cards into a new meld. Groups are
// not validated here; the declaration checks them. With a hidden joker, a pure
// sequence earns the right to reveal it.
func (g *Game) GroupSelectedCards() (ActionResult, error) {
	p, err := g.humanTurn("group", StateDraw, StateAction)
	if err != nil {
		return ActionResult{}, err
	}
	if len(p.Selected) == 0 {
		return rejected(msgNothingChosen), nil
	}
	var meld, hand []Card
	for i, c := range p.Hand {
		if slices.Contains(p.Selected, i) {
			meld = append(meld, c)
		} else {
			hand = append(hand, c)
		}
	}
	p.Hand = hand
	p.Melds = append(p.Melds, meld)
	p.Selected = nil
	if g.settings.HiddenJoker && !p.CanRevealJoker && IsPureSequence(meld, g.WildsFor(p)) {
		p.CanRevealJoker = true
	}
	return accepted(), nil
}

// UngroupMeld returns meld i to the hand and re-sorts it.
func (g *Game) UngroupMeld(i int) error {
	p, err := g.humanTurn("ungroup", StateDraw, StateAction)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(p.Melds) {
		return fmt.Errorf("ungroup meld %d: %w", i, ErrBadIndex)
	}
	p.Hand = append(p.Hand, p.Melds[i]...)
	p.Melds = slices.Delete(p.Melds, i, i+1)
	p.SortHand()
	return nil
}

// RevealJoker lets the current player see the wild joker once they have
// earned it.
func (g *Game) RevealJoker() (ActionResult, error) {
	p, err := g.humanTurn("reveal joker", StateDraw, StateAction)
	if err != nil {
		return ActionResult{}, err
	}
	switch {
	case p.HasSeenJoker:
		return rejected(msgJokerKnown), nil
	case !p.CanRevealJoker:
		return rejected(msgJokerLocked), nil
	}
	p.HasSeenJoker = true
	return accepted(), nil
}

// Declare discards c and claims the round. The remaining hand cards are taken
// as one final group and the whole is checked on a copy of the player first.
// A valid claim wins the round and every other player is arranged and scored;
// an invalid one costs the declarer WrongDeclarationPenalty.
func (g *Game) Declare(c Card) (DeclarationResult, error) {
	p, err := g.humanTurn("declare", StateAction)
	if err != nil {
		return DeclarationResult{}, err
	}
	i := slices.Index(p.Hand, c)
	if i < 0 {
		return DeclarationResult{Message: msgNotInHand}, nil
	}
	trial := p.clone()
	trial.Hand = slices.Delete(trial.Hand, i, i+1)
	if len(trial.Hand) > 0 {
		trial.Melds = append(trial.Melds, trial.Hand)
		trial.Hand = nil
	}
	res := ValidateDeclaration(trial.Melds, g.WildsFor(p))

	seat := g.current
	if !res.Valid {
		return res, g.EndRound(NoSeat, seat)
	}
	p.Hand, p.Melds, p.Selected = []Card{}, trial.Melds, nil
	g.pushDiscard(c)
	g.arrangeLosers(seat)
	return res, g.EndRound(seat, NoSeat)
}

func (g *Game) arrangeLosers(winner int) {
	for i, p := range g.players {
		if i != winner {
			g.AutoArrange(p)
		}
	}
}

// StartNextRound begins the next round of the match.
func (g *Game) StartNextRound() error {
	if g.state != StateRoundOver {
		return fmt.Errorf("start next round: %w (state %s)", ErrWrongState, g.state)
	}
	if g.round >= g.settings.NumRounds {
		return fmt.Errorf("start next round: %w after %d rounds", ErrMatchOver, g.round)
	}
	g.round++
	g.setupRound()
	return nil
}
