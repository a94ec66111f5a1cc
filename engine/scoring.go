package engine

import "fmt"

// EndRound finishes the round and adds each player's points to the scores.
//
//   - penalty set: the penalty seat pays WrongDeclarationPenalty, everyone
//     else 0.
//   - winner set: the winner pays 0, everyone else their deadwood.
//   - neither set (a stalled round): everyone pays their deadwood.
func (g *Game) EndRound(winner, penalty int) error {
	if g.state == StateRoundOver || g.state == StateSetup {
		return fmt.Errorf("end round: %w (state %s)", ErrWrongState, g.state)
	}
	for _, seat := range []int{winner, penalty} {
		if seat != NoSeat && (seat < 0 || seat >= len(g.players)) {
			return fmt.Errorf("end round: seat %d: %w", seat, ErrBadIndex)
		}
	}
	g.state = StateRoundOver
	g.winner, g.penalty = winner, penalty
	if winner != NoSeat {
		g.current = winner
	}

	g.roundPoints = make([]int, len(g.players))
	for i, p := range g.players {
		switch {
		case penalty != NoSeat:
			if i == penalty {
				g.roundPoints[i] = WrongDeclarationPenalty
			}
		case i != winner:
			g.roundPoints[i] = g.deadwoodPoints(p)
		}
		g.scores[i] += g.roundPoints[i]
	}
	return nil
}

// CalculatePlayerPoints returns what seat pays for the round. Once the round
// is over it follows the result: the penalty seat pays the penalty, the winner
// and everyone beside a penalty pay nothing. Otherwise it is the seat's
// deadwood as currently grouped.
func (g *Game) CalculatePlayerPoints(seat int) int {
	if seat < 0 || seat >= len(g.players) {
		return 0
	}
	if g.state == StateRoundOver {
		switch {
		case g.penalty == seat:
			return WrongDeclarationPenalty
		case g.penalty != NoSeat, g.winner == seat:
			return 0
		}
	}
	return g.deadwoodPoints(g.players[seat])
}

// deadwoodPoints charges p's hand cards and any group that is not a meld.
// The valid melds are charged too unless they alone would satisfy a
// declaration.
func (g *Game) deadwoodPoints(p *Player) int {
	w := g.WildsFor(p)
	pts := Points(p.Hand)
	var valid [][]Card
	for _, m := range p.Melds {
		if Classify(m, w) == MeldInvalid {
			pts += Points(m)
			continue
		}
		valid = append(valid, m)
	}
	if !checkStructure(valid, w).Valid {
		for _, m := range valid {
			pts += Points(m)
		}
	}
	return pts
}

// RoundPoints returns what each seat paid in the last finished round.
func (g *Game) RoundPoints() []int {
	out := make([]int, len(g.roundPoints))
	copy(out, g.roundPoints)
	return out
}
