package engine

import (
	"fmt"
	"slices"
)

// DrawSource names the pile a card is drawn from.
type DrawSource uint8

const (
	DrawNone DrawSource = iota
	DrawStock
	DrawDiscard
)

func (d DrawSource) String() string {
	switch d {
	case DrawStock:
		return "stock"
	case DrawDiscard:
		return "discard"
	}
	return "none"
}

// TurnView is what an AI seat may look at during its turn. Every slice is a
// copy, so a strategy cannot reach into the game.
type TurnView struct {
	Seat              int
	Cards             []Card // hand and melds, flattened
	Wilds             WildSet
	DiscardTop        Card // NoCard when the pile is empty
	StockLen          int
	DiscardHistory    []Card
	NextPickups       []Card // cards the next seat took from the discard pile, oldest first
	PickedFromDiscard Card   // NoCard unless the card was taken from the discard pile this turn
}

// TurnPlan is a strategy's answer once it holds 14 cards: how to group the 13
// it keeps and which card to let go. With Declare set the melds must hold all
// 13 cards.
type TurnPlan struct {
	Melds    [][]Card
	Deadwood []Card
	Discard  Card
	Declare  bool
}

// Strategy plays AI seats.
type Strategy interface {
	ChooseDraw(v TurnView) DrawSource
	PlanDiscard(v TurnView) TurnPlan
}

// TurnResult describes an AI turn. Stalled means the stock was empty and the
// discard was not taken, so nothing changed, the joker reveal included.
type TurnResult struct {
	Drawn     Card
	Source    DrawSource
	Discarded Card
	Declared  bool
	Stalled   bool
}

func (g *Game) turnView(seat int) TurnView {
	p := g.players[seat]
	top, _ := g.DiscardTop()
	return TurnView{
		Seat:              seat,
		Cards:             p.AllCards(),
		Wilds:             g.WildsFor(p),
		DiscardTop:        top,
		StockLen:          g.stock.Len(),
		DiscardHistory:    slices.Clone(g.discardHistory),
		NextPickups:       g.Pickups((seat + 1) % len(g.players)),
		PickedFromDiscard: g.pickedDiscard,
	}
}

// ExecuteAITurn plays one full turn for the current AI seat: reveal the joker
// if earned, draw, regroup, then discard or declare. The strategy works on a
// copy; its plan is checked against the cards the seat actually holds before
// anything is applied. A stalled turn or a rejected plan leaves the game as it
// was before the call.
func (g *Game) ExecuteAITurn() (TurnResult, error) {
	if g.state != StateDraw {
		return TurnResult{}, fmt.Errorf("ai turn: %w (state %s)", ErrWrongState, g.state)
	}
	seat := g.current
	p := g.players[seat]
	if !p.IsAI {
		return TurnResult{}, fmt.Errorf("ai turn: %w (seat %d)", ErrNotAITurn, seat)
	}
	if g.strategy == nil {
		return TurnResult{}, fmt.Errorf("ai turn: %w", ErrNoStrategy)
	}

	revealed := !p.HasSeenJoker && p.CanRevealJoker
	if revealed {
		p.HasSeenJoker = true
	}

	res := TurnResult{Drawn: NoCard, Discarded: NoCard}
	res.Source = g.strategy.ChooseDraw(g.turnView(seat))
	if res.Source != DrawDiscard || len(g.discard) == 0 {
		res.Source = DrawStock
	}
	switch res.Source {
	case DrawDiscard:
		res.Drawn, _ = g.takeDiscard()
	case DrawStock:
		c, ok := g.stock.Draw()
		if !ok {
			if revealed {
				p.HasSeenJoker = false
			}
			return TurnResult{Drawn: NoCard, Discarded: NoCard, Source: DrawNone, Stalled: true}, nil
		}
		res.Drawn = c
		g.pickedDiscard = NoCard
	}
	p.AddCards(res.Drawn)
	g.state = StateAction

	held := p.AllCards()
	view := g.turnView(seat)
	plan := g.strategy.PlanDiscard(view)
	if err := checkPlan(plan, held, g.pickedDiscard); err != nil {
		g.undoDraw(p, res, revealed)
		return TurnResult{Drawn: NoCard, Discarded: NoCard}, fmt.Errorf("ai turn seat %d: %w", seat, err)
	}

	p.Melds = cloneMelds(plan.Melds)
	p.Hand = slices.Clone(plan.Deadwood)
	p.Selected = nil
	g.pushDiscard(plan.Discard)
	res.Discarded = plan.Discard

	if plan.Declare {
		res.Declared = true
		w := g.WildsFor(p)
		if len(p.Hand) > 0 || !ValidateDeclaration(p.Melds, w).Valid {
			return res, g.EndRound(NoSeat, seat)
		}
		g.arrangeLosers(seat)
		return res, g.EndRound(seat, NoSeat)
	}
	g.nextTurn()
	return res, nil
}

// undoDraw puts the drawn card back where it came from and returns the seat
// to the draw step.
func (g *Game) undoDraw(p *Player, res TurnResult, revealed bool) {
	p.Hand = p.Hand[:len(p.Hand)-1]
	switch res.Source {
	case DrawDiscard:
		seat := g.current
		g.pickups[seat] = g.pickups[seat][:len(g.pickups[seat])-1]
		g.discard = append(g.discard, res.Drawn)
	case DrawStock:
		g.stock.cards = append(g.stock.cards, res.Drawn)
	}
	g.pickedDiscard = NoCard
	if revealed {
		p.HasSeenJoker = false
	}
	g.state = StateDraw
}

// checkPlan verifies that plan accounts for exactly the held cards and does
// not throw back picked, the card just taken from the discard pile.
func checkPlan(plan TurnPlan, held []Card, picked Card) error {
	if plan.Discard == NoCard {
		return fmt.Errorf("%w: no discard", ErrBadPlan)
	}
	if picked != NoCard && plan.Discard == picked {
		return fmt.Errorf("%w: discards %s just taken from the discard pile", ErrBadPlan, plan.Discard)
	}
	kept := append(Flatten(plan.Melds), plan.Deadwood...)
	if !SameCards(append(kept, plan.Discard), held) {
		return fmt.Errorf("%w: cards do not match the hand", ErrBadPlan)
	}
	return nil
}
