package game

import (
	"slices"

	"github.com/google/uuid"

	engine "github.com/SRathinaGiri/IndianRummy/engine"
)

// Seat returns the seat held by playerID.
func (m *Match) Seat(playerID uuid.UUID) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seatOf(playerID)
}

// seatOf maps a player ID to its seat. Assumes lock is held.
func (m *Match) seatOf(playerID uuid.UUID) (int, bool) {
	i := slices.Index(m.PlayerIDs, playerID)
	return i, i >= 0
}

// eventPlayer describes seat for an event payload. Assumes lock is held.
func (m *Match) eventPlayer(seat int) *EventPlayer {
	p := m.game.Player(seat)
	if p == nil {
		return nil
	}
	return &EventPlayer{ID: m.PlayerIDs[seat], Seat: seat, Name: p.Name}
}

// viewCard renders c for a client. idx < 0 leaves Idx unset.
func viewCard(c engine.Card, w engine.WildSet, idx int) ViewCard {
	vc := ViewCard{
		Card:   c.String(),
		Rank:   c.Rank().String(),
		Suit:   c.Suit().String(),
		Points: c.Points(),
		Wild:   w.IsWild(c),
	}
	if idx >= 0 {
		vc.Idx = &idx
	}
	return vc
}

func cardStrings(cards []engine.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// meldStrings renders melds as "[a, b, c]" groups.
func meldStrings(melds [][]engine.Card) []string {
	out := make([]string, len(melds))
	for i, m := range melds {
		out[i] = engine.FormatCards(m)
	}
	return out
}

func cloneMelds(melds [][]engine.Card) [][]engine.Card {
	if melds == nil {
		return nil
	}
	out := make([][]engine.Card, len(melds))
	for i, m := range melds {
		out[i] = slices.Clone(m)
	}
	return out
}
