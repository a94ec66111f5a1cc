package engine

import (
	"fmt"
	"slices"
	"strings"
)

// Suit is packed into the upper 4 bits of a Card.
type Suit uint8

// Suit constants, in sort order.
const (
	SuitHearts   Suit = 0
	SuitDiamonds Suit = 1
	SuitClubs    Suit = 2
	SuitSpades   Suit = 3
	SuitJoker    Suit = 4
)

// Rank is packed into the lower 4 bits of a Card.
type Rank uint8

// Rank constants, in sort order (Ace low, printed Joker last).
const (
	RankAce   Rank = 0
	RankTwo   Rank = 1
	RankThree Rank = 2
	RankFour  Rank = 3
	RankFive  Rank = 4
	RankSix   Rank = 5
	RankSeven Rank = 6
	RankEight Rank = 7
	RankNine  Rank = 8
	RankTen   Rank = 9
	RankJack  Rank = 10
	RankQueen Rank = 11
	RankKing  Rank = 12
	RankJoker Rank = 13
)

var (
	suitSymbols  = [...]string{"♥", "♦", "♣", "♠", ""}
	suitLetters  = [...]string{"H", "D", "C", "S", ""}
	suitNames    = [...]string{"Hearts", "Diamonds", "Clubs", "Spades", "Joker"}
	rankSymbols  = [...]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "JOKER"}
	standardSuit = [...]Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}
)

// String returns the suit name.
func (s Suit) String() string {
	if int(s) < len(suitNames) {
		return suitNames[s]
	}
	return fmt.Sprintf("Suit(%d)", uint8(s))
}

// String returns the rank symbol ("A", "10", "K", "JOKER").
func (r Rank) String() string {
	if int(r) < len(rankSymbols) {
		return rankSymbols[r]
	}
	return fmt.Sprintf("Rank(%d)", uint8(r))
}

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
// Cards are values; two cards with the same suit and rank are equal.
type Card uint8

// NoCard represents the absence of a card.
const NoCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit Suit, rank Rank) Card {
	return Card((uint8(suit) << 4) | (uint8(rank) & 0x0F))
}

// Joker returns a printed joker.
func Joker() Card { return NewCard(SuitJoker, RankJoker) }

// Suit returns the suit bits (upper 4).
func (c Card) Suit() Suit { return Suit(uint8(c) >> 4) }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() Rank { return Rank(uint8(c) & 0x0F) }

// IsPrintedJoker reports whether c is one of the printed jokers.
func (c Card) IsPrintedJoker() bool { return c != NoCard && c.Rank() == RankJoker }

// Points returns the penalty value of the card.
//   - A, J, Q, K → 10
//   - Two–Ten → face value
//   - printed Joker → 0
func (c Card) Points() int {
	if c == NoCard {
		return 0
	}
	switch r := c.Rank(); r {
	case RankJoker:
		return 0
	case RankAce, RankJack, RankQueen, RankKing:
		return 10
	default:
		return int(r) + 1
	}
}

// String renders the card as rank plus suit symbol, e.g. "10♦", or "JOKER".
func (c Card) String() string {
	if c == NoCard {
		return "-"
	}
	if c.IsPrintedJoker() {
		return "JOKER"
	}
	s := c.Suit()
	if int(s) >= len(suitSymbols) || int(c.Rank()) >= len(rankSymbols) {
		return fmt.Sprintf("Card(%#02x)", uint8(c))
	}
	return c.Rank().String() + suitSymbols[s]
}

// ParseCard parses the String form of a card. Suit letters (H, D, C, S) are
// accepted in place of the symbols, and rank "T" in place of "10".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "JOKER") {
		return Joker(), nil
	}
	for i := range standardSuit {
		var rankPart string
		switch {
		case strings.HasSuffix(s, suitSymbols[i]):
			rankPart = strings.TrimSuffix(s, suitSymbols[i])
		case strings.HasSuffix(strings.ToUpper(s), suitLetters[i]):
			rankPart = s[:len(s)-1]
		default:
			continue
		}
		rankPart = strings.ToUpper(rankPart)
		if rankPart == "T" {
			rankPart = "10"
		}
		for r := RankAce; r <= RankKing; r++ {
			if rankSymbols[r] == rankPart {
				return NewCard(standardSuit[i], r), nil
			}
		}
		return NoCard, fmt.Errorf("parse card %q: unknown rank %q", s, rankPart)
	}
	return NoCard, fmt.Errorf("parse card %q: unknown suit", s)
}

// ParseCards parses a whitespace or comma separated list of cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Card slice helpers
// ---------------------------------------------------------------------------

// SortCards orders cards by suit (Hearts, Diamonds, Clubs, Spades, Joker) and
// then by rank (A..K, JOKER). The packed layout makes this a plain byte sort.
func SortCards(cards []Card) { slices.Sort(cards) }

// Points sums the point values of cards.
func Points(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

// FormatCards renders cards as "[a, b, c]".
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Flatten concatenates melds into one new slice.
func Flatten(melds [][]Card) []Card {
	n := 0
	for _, m := range melds {
		n += len(m)
	}
	out := make([]Card, 0, n)
	for _, m := range melds {
		out = append(out, m...)
	}
	return out
}

// RemoveCards returns a copy of from with one instance of each card in remove
// taken out. ok is false if some card in remove is not present.
func RemoveCards(from, remove []Card) (rest []Card, ok bool) {
	rest = slices.Clone(from)
	for _, c := range remove {
		i := slices.Index(rest, c)
		if i < 0 {
			return nil, false
		}
		rest = slices.Delete(rest, i, i+1)
	}
	return rest, true
}

// SameCards reports whether a and b hold the same multiset of cards.
func SameCards(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

func cloneMelds(melds [][]Card) [][]Card {
	if melds == nil {
		return nil
	}
	out := make([][]Card, len(melds))
	for i, m := range melds {
		out[i] = slices.Clone(m)
	}
	return out
}
