package engine

import "slices"

// WildSet describes which cards count as wild for one player: printed jokers
// always, and cards of the wild joker rank once the player has seen it.
type WildSet struct {
	Rank   Rank
	Active bool
}

// IsWild reports whether c may substitute for any card.
func (w WildSet) IsWild(c Card) bool {
	if c.IsPrintedJoker() {
		return true
	}
	return w.Active && c != NoCard && c.Rank() == w.Rank
}

// natural returns w as seen by a player who has not seen the joker.
func (w WildSet) natural() WildSet { return WildSet{Rank: w.Rank} }

// MeldKind classifies a group of cards.
type MeldKind uint8

const (
	MeldInvalid MeldKind = iota
	MeldSet
	MeldImpureRun
	MeldPureRun
)

func (k MeldKind) String() string {
	switch k {
	case MeldSet:
		return "set"
	case MeldImpureRun:
		return "impure run"
	case MeldPureRun:
		return "pure sequence"
	default:
		return "invalid"
	}
}

// IsRun reports whether k is a pure or impure run.
func (k MeldKind) IsRun() bool { return k == MeldImpureRun || k == MeldPureRun }

// ---------------------------------------------------------------------------
// Rank orderings
// ---------------------------------------------------------------------------

// aceHigh is the rank value of an Ace placed above the King (Q-K-A).
const aceHigh = 13

func rankValue(r Rank, highAce bool) int {
	if highAce && r == RankAce {
		return aceHigh
	}
	return int(r)
}

// rankGaps sorts the rank values of cards and returns the number of missing
// ranks between adjacent values.
func rankGaps(cards []Card, highAce bool) int {
	vals := make([]int, len(cards))
	for i, c := range cards {
		vals[i] = rankValue(c.Rank(), highAce)
	}
	slices.Sort(vals)
	gaps := 0
	for i := 1; i < len(vals); i++ {
		gaps += vals[i] - vals[i-1] - 1
	}
	return gaps
}

func allIdentical(cards []Card) bool {
	for _, c := range cards[1:] {
		if c != cards[0] {
			return false
		}
	}
	return true
}

func splitWild(cards []Card, w WildSet) (naturals []Card, wilds int) {
	naturals = make([]Card, 0, len(cards))
	for _, c := range cards {
		if w.IsWild(c) {
			wilds++
		} else {
			naturals = append(naturals, c)
		}
	}
	return naturals, wilds
}

// ---------------------------------------------------------------------------
// Validators
// ---------------------------------------------------------------------------

// ValidateRun reports whether cards form a run: three or more identical cards,
// or naturals of one suit with distinct ranks whose gaps can be filled by the
// wild cards, with the Ace either low (A-2-3) or high (Q-K-A). K-A-2 never
// wraps.
func ValidateRun(cards []Card, w WildSet) bool {
	if len(cards) < 3 {
		return false
	}
	if allIdentical(cards) {
		return true
	}
	naturals, wilds := splitWild(cards, w)
	if len(naturals) == 0 {
		return true
	}
	suit := naturals[0].Suit()
	var seen [16]bool
	hasAce := false
	for _, c := range naturals {
		if c.Suit() != suit || seen[c.Rank()] {
			return false
		}
		seen[c.Rank()] = true
		hasAce = hasAce || c.Rank() == RankAce
	}
	if rankGaps(naturals, false) <= wilds {
		return true
	}
	return hasAce && rankGaps(naturals, true) <= wilds
}

// ValidateSet reports whether cards form a set: 3 or 4 cards whose naturals
// share one rank and have distinct suits. A group made only of wild cards is
// a set at any size of at least 3.
func ValidateSet(cards []Card, w WildSet) bool {
	if len(cards) < 3 {
		return false
	}
	naturals, _ := splitWild(cards, w)
	if len(naturals) == 0 {
		return true
	}
	if len(cards) > MaxSetSize {
		return false
	}
	rank := naturals[0].Rank()
	var suits [16]bool
	for _, c := range naturals {
		if c.Rank() != rank || suits[c.Suit()] {
			return false
		}
		suits[c.Suit()] = true
	}
	return true
}

// IsPureSequence reports whether meld is a run that relies on no wild card.
// Printed jokers always disqualify it; a card of the wild rank is fine as long
// as the run still holds when that rank is not treated as wild.
func IsPureSequence(meld []Card, w WildSet) bool {
	if len(meld) < 3 {
		return false
	}
	if slices.ContainsFunc(meld, Card.IsPrintedJoker) {
		return false
	}
	return ValidateRun(meld, w.natural())
}

// Classify returns the strongest kind meld qualifies as. A group that is
// both a run and a set counts as a run.
func Classify(meld []Card, w WildSet) MeldKind {
	switch {
	case ValidateRun(meld, w):
		if IsPureSequence(meld, w) {
			return MeldPureRun
		}
		return MeldImpureRun
	case ValidateSet(meld, w):
		return MeldSet
	default:
		return MeldInvalid
	}
}

// ---------------------------------------------------------------------------
// Player-scoped wrappers
// ---------------------------------------------------------------------------

// WildsFor returns the wild cards as p sees them this round.
func (g *Game) WildsFor(p *Player) WildSet {
	if g.wildJoker == NoCard {
		return WildSet{}
	}
	return WildSet{Rank: g.wildJoker.Rank(), Active: p.HasSeenJoker}
}

// IsWild reports whether c is wild for p.
func (g *Game) IsWild(c Card, p *Player) bool { return g.WildsFor(p).IsWild(c) }

// ValidateRun checks cards as a run for p.
func (g *Game) ValidateRun(cards []Card, p *Player) bool { return ValidateRun(cards, g.WildsFor(p)) }

// ValidateSet checks cards as a set for p.
func (g *Game) ValidateSet(cards []Card, p *Player) bool { return ValidateSet(cards, g.WildsFor(p)) }

// IsPureSequence checks meld as a pure sequence for p.
func (g *Game) IsPureSequence(meld []Card, p *Player) bool {
	return IsPureSequence(meld, g.WildsFor(p))
}
