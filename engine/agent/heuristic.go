package agent

import (
	"slices"

	engine "github.com/SRathinaGiri/IndianRummy/engine"
)

// Heuristic is an engine.Strategy that plays from the hand arranger: it draws
// whatever lowers its deadwood, declares as soon as the cards allow, and lets
// go of the card it will miss least.
type Heuristic struct {
	tuning Tuning
}

var _ engine.Strategy = (*Heuristic)(nil)

// NewHeuristic returns a Heuristic with the given biases.
func NewHeuristic(t Tuning) *Heuristic {
	return &Heuristic{tuning: t}
}

// Tuning returns the biases in use.
func (h *Heuristic) Tuning() Tuning { return h.tuning }

// Potential scores an arrangement: its deadwood points shifted by the
// structure biases. Lower is better.
func (h *Heuristic) Potential(a engine.Arrangement, w engine.WildSet) int {
	p := a.DeadwoodPoints()
	if a.Structured(w) {
		p -= h.tuning.DeclarableBonus
	} else {
		p += h.tuning.UnstructuredPenalty
	}
	return p
}

func (h *Heuristic) potentialOf(cards []engine.Card, w engine.WildSet) int {
	return h.Potential(engine.Arrange(cards, w), w)
}

// ChooseDraw takes the discard when it is wild or when adding it lowers the
// hand potential by more than PickupMargin.
func (h *Heuristic) ChooseDraw(v engine.TurnView) engine.DrawSource {
	top := v.DiscardTop
	if top == engine.NoCard {
		return engine.DrawStock
	}
	if v.Wilds.IsWild(top) {
		return engine.DrawDiscard
	}
	without := h.potentialOf(v.Cards, v.Wilds)
	with := h.potentialOf(append(slices.Clone(v.Cards), top), v.Wilds)
	if with < without-h.tuning.PickupMargin {
		return engine.DrawDiscard
	}
	return engine.DrawStock
}

// PlanDiscard regroups the 14 cards held and picks the discard, declaring when
// the remaining 13 form a valid declaration.
func (h *Heuristic) PlanDiscard(v engine.TurnView) engine.TurnPlan {
	a := engine.Arrange(v.Cards, v.Wilds)
	if len(a.Deadwood) <= 1 {
		if plan, ok := h.declarePlan(v, a); ok {
			return plan
		}
	}
	return h.discardPlan(v, a)
}

// declarePlan looks for a winning declaration. The arrangement's own spare
// card is tried first, then every distinct card in turn.
func (h *Heuristic) declarePlan(v engine.TurnView, a engine.Arrangement) (engine.TurnPlan, bool) {
	if len(a.Deadwood) == 1 && a.Deadwood[0] != v.PickedFromDiscard &&
		engine.ValidateDeclaration(a.Melds, v.Wilds).Valid {
		return engine.TurnPlan{Melds: a.Melds, Deadwood: []engine.Card{}, Discard: a.Deadwood[0], Declare: true}, true
	}
	for _, c := range distinct(v.Cards) {
		if c == v.PickedFromDiscard {
			continue
		}
		rest, _ := engine.RemoveCards(v.Cards, []engine.Card{c})
		b := engine.Arrange(rest, v.Wilds)
		if b.Complete(v.Wilds) {
			return engine.TurnPlan{Melds: b.Melds, Deadwood: b.Deadwood, Discard: c, Declare: true}, true
		}
	}
	return engine.TurnPlan{}, false
}

// discardPlan scores each candidate discard and keeps the lowest:
//
//	score = potential of the 13 kept + feed penalty - seen-discard bonus
//
// Ties go to the higher-point card, then to sort order.
func (h *Heuristic) discardPlan(v engine.TurnView, a engine.Arrangement) engine.TurnPlan {
	mem := NewMemory(v.DiscardHistory)
	var best engine.TurnPlan
	bestScore := 0
	found := false
	for _, c := range h.discardCandidates(v, a) {
		rest, _ := engine.RemoveCards(v.Cards, []engine.Card{c})
		b := engine.Arrange(rest, v.Wilds)
		score := h.Potential(b, v.Wilds) + h.feedPenalty(c, v.NextPickups) - h.seenBonus(c, mem)
		if !found || score < bestScore || (score == bestScore && c.Points() > best.Discard.Points()) {
			best = engine.TurnPlan{Melds: b.Melds, Deadwood: b.Deadwood, Discard: c}
			bestScore = score
			found = true
		}
	}
	return best
}

// discardCandidates returns the distinct cards worth considering: the
// deadwood, or the cheapest meld when there is none. The card just picked is
// never offered, and wild cards only when nothing else is left.
func (h *Heuristic) discardCandidates(v engine.TurnView, a engine.Arrangement) []engine.Card {
	pool := a.Deadwood
	if len(pool) == 0 && len(a.Melds) > 0 {
		cheapest := a.Melds[0]
		for _, m := range a.Melds[1:] {
			if engine.Points(m) < engine.Points(cheapest) {
				cheapest = m
			}
		}
		pool = cheapest
	}
	out := allowed(pool, v)
	if len(out) == 0 {
		out = allowed(v.Cards, v)
	}
	return out
}

// allowed filters pool to distinct cards other than the one just picked,
// dropping wild cards if any natural card remains.
func allowed(pool []engine.Card, v engine.TurnView) []engine.Card {
	var natural, wild []engine.Card
	for _, c := range distinct(pool) {
		switch {
		case c == v.PickedFromDiscard:
		case v.Wilds.IsWild(c):
			wild = append(wild, c)
		default:
			natural = append(natural, c)
		}
	}
	if len(natural) > 0 {
		return natural
	}
	return wild
}

// feedPenalty applies when c shares a rank with, or sits within one rank in
// the same suit of, the next player's latest pickup.
func (h *Heuristic) feedPenalty(c engine.Card, pickups []engine.Card) int {
	if len(pickups) == 0 {
		return 0
	}
	last := pickups[len(pickups)-1]
	if c.Rank() == last.Rank() {
		return h.tuning.FeedPenalty
	}
	if c.Suit() == last.Suit() {
		d := int(c.Rank()) - int(last.Rank())
		if d >= -1 && d <= 1 {
			return h.tuning.FeedPenalty
		}
	}
	return 0
}

// seenBonus applies to high cards whose rank has already been thrown away.
func (h *Heuristic) seenBonus(c engine.Card, mem Memory) int {
	if c.Points() >= h.tuning.HighCardPoints && mem.RankCount(c.Rank()) > 0 {
		return h.tuning.SeenDiscardBonus
	}
	return 0
}

// distinct returns the unique cards of cs in sort order.
func distinct(cs []engine.Card) []engine.Card {
	out := slices.Clone(cs)
	engine.SortCards(out)
	return slices.Compact(out)
}
