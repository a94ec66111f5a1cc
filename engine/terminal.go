package engine

import "slices"

// IsRoundOver reports whether the round has ended.
func (g *Game) IsRoundOver() bool { return g.state == StateRoundOver }

// IsMatchOver reports whether the last round of the match has ended.
func (g *Game) IsMatchOver() bool {
	return g.state == StateRoundOver && g.round >= g.settings.NumRounds
}

// Winner returns the seat that declared validly this round, or NoSeat.
func (g *Game) Winner() int { return g.winner }

// PenaltySeat returns the seat that declared wrongly this round, or NoSeat.
func (g *Game) PenaltySeat() int { return g.penalty }

// IsStalled reports whether the current player cannot draw from the stock.
// Play only continues if they take the discard.
func (g *Game) IsStalled() bool {
	return g.state == StateDraw && g.stock.Len() == 0
}

// Standings returns the seats ordered by cumulative score, lowest first. Ties
// keep seat order.
func (g *Game) Standings() []int {
	seats := make([]int, len(g.players))
	for i := range seats {
		seats[i] = i
	}
	slices.SortStableFunc(seats, func(a, b int) int { return g.scores[a] - g.scores[b] })
	return seats
}

// Leader returns the seat with the lowest cumulative score.
func (g *Game) Leader() int { return g.Standings()[0] }

// ---------------------------------------------------------------------------
// State fingerprint
// ---------------------------------------------------------------------------

// StateHash returns an FNV-1a hash over the piles, hands, melds, scores and
// turn position. Two games that went through the same moves from the same
// shuffle hash equal.
func (g *Game) StateHash() uint64 {
	h := uint64(14695981039346656037)
	const prime = uint64(1099511628211)
	mix := func(v uint64) {
		h ^= v
		h *= prime
	}
	cards := func(cs []Card) {
		for _, c := range cs {
			mix(uint64(c))
		}
		mix(uint64(len(cs)) << 8)
	}

	cards(g.stock.cards)
	cards(g.discard)
	for _, p := range g.players {
		cards(p.Hand)
		for _, m := range p.Melds {
			cards(m)
		}
		mix(uint64(len(p.Melds)) << 16)
	}
	for _, s := range g.scores {
		mix(uint64(int64(s)))
	}
	mix(uint64(g.wildJoker))
	mix(uint64(g.round) << 24)
	mix(uint64(g.current) << 40)
	mix(uint64(g.state) << 48)
	return h
}
