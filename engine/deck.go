package engine

import "math/rand/v2"

// Source supplies uniform random integers in [0, n). *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic Source seeded with seed.
func NewSource(seed uint64) Source {
	return newPCGSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func randomSource() Source {
	return newPCGSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// pcgSource is the engine's own Source. Unlike a bare *rand.Rand its state
// can be copied, so a cloned game shuffles independently of the original.
type pcgSource struct {
	pcg *rand.PCG
	*rand.Rand
}

func newPCGSource(pcg *rand.PCG) *pcgSource {
	return &pcgSource{pcg: pcg, Rand: rand.New(pcg)}
}

func (s *pcgSource) clone() Source {
	state, err := s.pcg.MarshalBinary()
	if err != nil {
		panic(err)
	}
	pcg := new(rand.PCG)
	if err := pcg.UnmarshalBinary(state); err != nil {
		panic(err)
	}
	return newPCGSource(pcg)
}

// Deck is an ordered pile of cards. The top of the pile is the end of the
// slice.
type Deck struct {
	cards []Card
}

// NewDeck builds numDecks standard 52-card packs plus two printed jokers per
// pack and shuffles them with src.
func NewDeck(numDecks int, src Source) *Deck {
	d := &Deck{cards: make([]Card, 0, numDecks*(52+JokersPerDeck))}
	for i := 0; i < numDecks; i++ {
		for _, suit := range standardSuit {
			for rank := RankAce; rank <= RankKing; rank++ {
				d.cards = append(d.cards, NewCard(suit, rank))
			}
		}
		for j := 0; j < JokersPerDeck; j++ {
			d.cards = append(d.cards, Joker())
		}
	}
	d.Shuffle(src)
	return d
}

// Shuffle applies a Fisher-Yates shuffle.
func (d *Deck) Shuffle(src Source) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. ok is false when the deck is empty.
func (d *Deck) Draw() (c Card, ok bool) {
	if len(d.cards) == 0 {
		return NoCard, false
	}
	c = d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// PutBottom places c underneath the pile.
func (d *Deck) PutBottom(c Card) {
	d.cards = append(d.cards, NoCard)
	copy(d.cards[1:], d.cards)
	d.cards[0] = c
}

// Len returns the number of cards left.
func (d *Deck) Len() int { return len(d.cards) }

// Cards returns a copy of the pile, bottom first.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

func (d *Deck) clone() *Deck {
	return &Deck{cards: d.Cards()}
}
