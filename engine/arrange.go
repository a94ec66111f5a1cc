package engine

import (
	"cmp"
	"slices"
)

// Arrangement partitions a player's cards into melds and deadwood.
type Arrangement struct {
	Melds    [][]Card
	Deadwood []Card
}

// DeadwoodPoints sums the points of cards left out of every meld.
func (a Arrangement) DeadwoodPoints() int { return Points(a.Deadwood) }

// Cards returns every card of the arrangement, melds first.
func (a Arrangement) Cards() []Card { return append(Flatten(a.Melds), a.Deadwood...) }

// Runs counts the melds that are runs.
func (a Arrangement) Runs(w WildSet) int {
	n := 0
	for _, m := range a.Melds {
		if Classify(m, w).IsRun() {
			n++
		}
	}
	return n
}

// Structured reports whether the melds meet the declaration minimum of two
// runs with one pure sequence.
func (a Arrangement) Structured(w WildSet) bool { return checkStructure(a.Melds, w).Valid }

// Complete reports whether the arrangement could be declared as it stands.
func (a Arrangement) Complete(w WildSet) bool { return len(a.Deadwood) == 0 && a.Structured(w) }

// Arrange greedily partitions cards into melds. Pure sequences are taken
// first, then any runs, and sets only once two runs including a pure one are
// in place. Melds longer than three may then give a card to a new meld built
// from the deadwood, and leftover cards are attached to melds that stay valid.
//
// The input is sorted before anything else, so the result depends only on
// the multiset of cards and feeding an arrangement back in reproduces it.
func Arrange(cards []Card, w WildSet) Arrangement {
	rest := slices.Clone(cards)
	SortCards(rest)

	var melds [][]Card
	take := func(gen func([]Card, WildSet) []candidate) {
		for {
			best, ok := pickBest(gen(rest, w))
			if !ok {
				return
			}
			rest, _ = RemoveCards(rest, best.cards)
			melds = append(melds, best.cards)
		}
	}
	take(pureCandidates)
	take(runCandidates)
	if checkStructure(melds, w).Valid {
		take(setCandidates)
	}
	melds, rest = rebalance(melds, rest, w)
	if checkStructure(melds, w).Valid {
		take(setCandidates)
	}
	melds, rest = attachLeftovers(melds, rest, w)

	for _, m := range melds {
		SortCards(m)
	}
	if rest == nil {
		rest = []Card{}
	}
	return Arrangement{Melds: melds, Deadwood: rest}
}

// HasPureSequence reports whether some pure sequence can be formed from cards.
func HasPureSequence(cards []Card, w WildSet) bool {
	sorted := slices.Clone(cards)
	SortCards(sorted)
	return len(pureCandidates(sorted, w)) > 0
}

// AutoArrange replaces p's hand and melds with the arrangement of all of p's
// cards.
func (g *Game) AutoArrange(p *Player) Arrangement {
	a := Arrange(p.AllCards(), g.WildsFor(p))
	p.Melds = cloneMelds(a.Melds)
	p.Hand = slices.Clone(a.Deadwood)
	p.Selected = nil
	return a
}

// ---------------------------------------------------------------------------
// Candidate generation
// ---------------------------------------------------------------------------

// candidate is a proposed meld and the natural points it takes out of the
// deadwood. Wild cards are not counted: any leftover wild can be absorbed by
// an impure meld later, so spending them buys nothing on its own.
type candidate struct {
	cards []Card
	value int
}

// pickBest returns the most valuable candidate, preferring fewer cards on a
// tie and then generation order.
func pickBest(cands []candidate) (candidate, bool) {
	if len(cands) == 0 {
		return candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.value > best.value || (c.value == best.value && len(c.cards) < len(best.cards)) {
			best = c
		}
	}
	return best, true
}

type window struct{ lo, hi int }

// runWindows lists rank-value spans of MaxMeldSize or fewer cards, Ace low
// (value 0) or Ace high (value 13).
var runWindows = func() []window {
	var ws []window
	for size := 3; size <= MaxMeldSize; size++ {
		for lo := 0; lo+size-1 <= aceHigh; lo++ {
			ws = append(ws, window{lo, lo + size - 1})
		}
	}
	return ws
}()

func rankAt(v int) Rank {
	if v == aceHigh {
		return RankAce
	}
	return Rank(v)
}

// suitSlots indexes one card per rank value of suit; slot 13 mirrors the Ace.
func suitSlots(cards []Card, suit Suit, skip func(Card) bool) [aceHigh + 1]Card {
	var slots [aceHigh + 1]Card
	for i := range slots {
		slots[i] = NoCard
	}
	for _, c := range cards {
		if c.Suit() != suit || skip(c) || slots[c.Rank()] != NoCard {
			continue
		}
		slots[c.Rank()] = c
	}
	slots[aceHigh] = slots[RankAce]
	return slots
}

// pureCandidates lists golden runs (identical cards) and gap-free windows of
// one suit. cards must be sorted.
func pureCandidates(cards []Card, w WildSet) []candidate {
	var out []candidate
	for i := 0; i < len(cards); {
		j := i
		for j < len(cards) && cards[j] == cards[i] {
			j++
		}
		if n := j - i; n >= 3 && !cards[i].IsPrintedJoker() {
			for size := 3; size <= min(n, MaxMeldSize); size++ {
				meld := slices.Repeat([]Card{cards[i]}, size)
				out = append(out, candidate{meld, Points(meld)})
			}
		}
		i = j
	}
	for _, suit := range standardSuit {
		slots := suitSlots(cards, suit, Card.IsPrintedJoker)
	windows:
		for _, win := range runWindows {
			meld := make([]Card, 0, win.hi-win.lo+1)
			for v := win.lo; v <= win.hi; v++ {
				if slots[v] == NoCard {
					continue windows
				}
				meld = append(meld, slots[v])
			}
			if IsPureSequence(meld, w) {
				out = append(out, candidate{meld, Points(meld)})
			}
		}
	}
	return out
}

// wildPool returns the wild cards among cards, highest points first.
func wildPool(cards []Card, w WildSet) []Card {
	var wilds []Card
	for _, c := range cards {
		if w.IsWild(c) {
			wilds = append(wilds, c)
		}
	}
	slices.SortStableFunc(wilds, func(a, b Card) int { return cmp.Compare(b.Points(), a.Points()) })
	return wilds
}

// runCandidates lists runs of one suit whose missing ranks are filled with
// wild cards. A run made only of wild cards is offered when nothing else is.
func runCandidates(cards []Card, w WildSet) []candidate {
	wilds := wildPool(cards, w)
	var out []candidate
	for _, suit := range standardSuit {
		slots := suitSlots(cards, suit, w.IsWild)
		for _, win := range runWindows {
			meld := make([]Card, 0, win.hi-win.lo+1)
			for v := win.lo; v <= win.hi; v++ {
				if slots[v] != NoCard {
					meld = append(meld, slots[v])
				}
			}
			natural := len(meld)
			need := win.hi - win.lo + 1 - natural
			if natural == 0 || need > len(wilds) {
				continue
			}
			value := Points(meld)
			meld = append(meld, wilds[:need]...)
			if ValidateRun(meld, w) {
				out = append(out, candidate{meld, value})
			}
		}
	}
	if len(out) == 0 && len(wilds) >= 3 {
		out = append(out, candidate{slices.Clone(wilds[:min(len(wilds), MaxMeldSize)]), 0})
	}
	return out
}

// setCandidates lists sets of one rank with distinct suits, padded with wild
// cards up to three or four cards.
func setCandidates(cards []Card, w WildSet) []candidate {
	wilds := wildPool(cards, w)
	var out []candidate
	for rank := RankAce; rank <= RankKing; rank++ {
		var distinct []Card
		var seen [16]bool
		for _, c := range cards {
			if c.Rank() != rank || w.IsWild(c) || seen[c.Suit()] {
				continue
			}
			seen[c.Suit()] = true
			distinct = append(distinct, c)
		}
		if len(distinct) == 0 {
			continue
		}
		for size := 3; size <= MaxSetSize; size++ {
			nat := min(len(distinct), size)
			need := size - nat
			if need > len(wilds) {
				continue
			}
			meld := append(slices.Clone(distinct[:nat]), wilds[:need]...)
			if ValidateSet(meld, w) {
				out = append(out, candidate{meld, Points(distinct[:nat])})
			}
		}
	}
	return out
}

// rebalance lets a meld longer than three give up one card when that card
// completes a new meld from the deadwood. The donor must keep its kind, the
// structure must hold if it held before, and every move has to lower the
// deadwood points.
func rebalance(melds [][]Card, rest []Card, w WildSet) ([][]Card, []Card) {
	structured := checkStructure(melds, w).Valid
	gens := []func([]Card, WildSet) []candidate{pureCandidates, runCandidates}
	if structured {
		gens = append(gens, setCandidates)
	}
	for moved := true; moved && len(rest) > 0; {
		moved = false
	search:
		for i, m := range melds {
			if len(m) <= 3 {
				continue
			}
			kind := Classify(m, w)
			for j, e := range m {
				short := slices.Delete(slices.Clone(m), j, j+1)
				if Classify(short, w) != kind {
					continue
				}
				pool := append(slices.Clone(rest), e)
				SortCards(pool)
				for _, gen := range gens {
					var fits []candidate
					for _, c := range gen(pool, w) {
						if slices.Contains(c.cards, e) {
							fits = append(fits, c)
						}
					}
					best, ok := pickBest(fits)
					if !ok || best.value <= e.Points() {
						continue
					}
					next := append(cloneMelds(melds), best.cards)
					next[i] = short
					if structured && !checkStructure(next, w).Valid {
						continue
					}
					melds = next
					rest, _ = RemoveCards(pool, best.cards)
					moved = true
					break search
				}
			}
		}
	}
	return melds, rest
}

// attachLeftovers moves deadwood cards, most expensive first, into melds that
// keep their kind. A second pass lets a pure sequence turn impure when another
// pure sequence remains.
func attachLeftovers(melds [][]Card, rest []Card, w WildSet) ([][]Card, []Card) {
	if len(melds) == 0 || len(rest) == 0 {
		return melds, rest
	}
	order := slices.Clone(rest)
	slices.SortStableFunc(order, func(a, b Card) int { return cmp.Compare(b.Points(), a.Points()) })

	pureCount := func() int {
		n := 0
		for _, m := range melds {
			if Classify(m, w) == MeldPureRun {
				n++
			}
		}
		return n
	}
	for pass := 0; pass < 2; pass++ {
		for _, c := range order {
			if !slices.Contains(rest, c) {
				continue
			}
			for i, m := range melds {
				before := Classify(m, w)
				grown := append(slices.Clone(m), c)
				after := Classify(grown, w)
				downgrade := pass == 1 && before == MeldPureRun && after == MeldImpureRun && pureCount() > 1
				if after == before || downgrade {
					melds[i] = grown
					rest, _ = RemoveCards(rest, []Card{c})
					break
				}
			}
		}
	}
	return melds, rest
}
