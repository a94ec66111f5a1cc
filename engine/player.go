package engine

import "slices"

// Player holds one participant's cards and joker-visibility flags.
// A card sits either in Hand or in exactly one of Melds.
type Player struct {
	Name           string
	IsAI           bool
	Hand           []Card
	Melds          [][]Card
	Selected       []int // indices into Hand picked for grouping
	HasSeenJoker   bool  // wild joker rank counts as wild for this player
	CanRevealJoker bool  // earned the right to reveal a hidden wild joker
}

// NewPlayer returns an empty player.
func NewPlayer(name string, isAI bool) *Player {
	return &Player{Name: name, IsAI: isAI}
}

// AddCards appends cards to the hand.
func (p *Player) AddCards(cards ...Card) {
	p.Hand = append(p.Hand, cards...)
}

// SortHand sorts the hand and clears the selection, since indices move.
func (p *Player) SortHand() {
	p.Selected = nil
	SortCards(p.Hand)
}

// ToggleSelection adds or removes hand index i from the selection.
func (p *Player) ToggleSelection(i int) bool {
	if i < 0 || i >= len(p.Hand) {
		return false
	}
	if j := slices.Index(p.Selected, i); j >= 0 {
		p.Selected = slices.Delete(p.Selected, j, j+1)
	} else {
		p.Selected = append(p.Selected, i)
	}
	return true
}

// ResetForNewRound empties hand, melds and selection and hides the joker.
func (p *Player) ResetForNewRound() {
	p.Hand = nil
	p.Melds = nil
	p.Selected = nil
	p.HasSeenJoker = false
	p.CanRevealJoker = false
}

// CardCount returns hand plus meld cards.
func (p *Player) CardCount() int {
	n := len(p.Hand)
	for _, m := range p.Melds {
		n += len(m)
	}
	return n
}

// AllCards returns a copy of the hand followed by every meld.
func (p *Player) AllCards() []Card {
	out := make([]Card, 0, p.CardCount())
	out = append(out, p.Hand...)
	for _, m := range p.Melds {
		out = append(out, m...)
	}
	return out
}

func (p *Player) clone() *Player {
	cp := *p
	cp.Hand = slices.Clone(p.Hand)
	cp.Melds = cloneMelds(p.Melds)
	cp.Selected = slices.Clone(p.Selected)
	return &cp
}
