package agent

import engine "github.com/SRathinaGiri/IndianRummy/engine"

const (
	numSuits = int(engine.SuitJoker) + 1
	numRanks = int(engine.RankJoker) + 1
)

// Memory counts the cards that have reached the discard pile this round. It is
// a flat value type and copies with =.
type Memory struct {
	seen  [numSuits][numRanks]uint8
	ranks [numRanks]uint8
	total int
}

// NewMemory builds a Memory from a round's discard history.
func NewMemory(history []engine.Card) Memory {
	var m Memory
	for _, c := range history {
		m.Observe(c)
	}
	return m
}

// Observe records one discarded card. NoCard is ignored.
func (m *Memory) Observe(c engine.Card) {
	if c == engine.NoCard {
		return
	}
	m.seen[c.Suit()][c.Rank()]++
	m.ranks[c.Rank()]++
	m.total++
}

// Count returns how many copies of c have been discarded.
func (m Memory) Count(c engine.Card) int {
	if c == engine.NoCard {
		return 0
	}
	return int(m.seen[c.Suit()][c.Rank()])
}

// RankCount returns how many cards of rank r have been discarded.
func (m Memory) RankCount(r engine.Rank) int {
	if int(r) >= numRanks {
		return 0
	}
	return int(m.ranks[r])
}

// Total returns the number of discards observed.
func (m Memory) Total() int { return m.total }
