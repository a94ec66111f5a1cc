package engine

import "fmt"

const (
	NumDecks      = 3
	JokersPerDeck = 2
	DeckSize      = NumDecks * (52 + JokersPerDeck) // 162
	HandSize      = 13
	MinPlayers    = 2
	MaxPlayers    = 6
	MaxMeldSize   = 6 // largest meld the arranger proposes
	MaxSetSize    = 4

	// WrongDeclarationPenalty is charged to a player whose declaration fails.
	WrongDeclarationPenalty = 80

	// NoSeat marks "no player" for winner and penalty seats.
	NoSeat = -1
)

// Settings holds the per-match options.
type Settings struct {
	NumPlayers  int  // 2–6; 0 means len(names)
	NumRounds   int  // rounds in the match; 0 treated as 1
	HiddenJoker bool // wild joker rank stays hidden until a pure sequence is melded
	DebugMode   bool // presentation may reveal every hand
	AllAI       bool // seat 0 is an AI too
}

// DefaultSettings returns a two-player, single-round match with the wild joker
// visible from the start.
func DefaultSettings() Settings {
	return Settings{
		NumPlayers: 2,
		NumRounds:  1,
	}
}

// normalize fills zero values and checks the settings against the seat count.
func (s Settings) normalize(seats int) (Settings, error) {
	if s.NumPlayers == 0 {
		s.NumPlayers = seats
	}
	if s.NumRounds == 0 {
		s.NumRounds = 1
	}
	switch {
	case s.NumPlayers < MinPlayers || s.NumPlayers > MaxPlayers:
		return s, fmt.Errorf("%w: %d players, want %d–%d", ErrBadSettings, s.NumPlayers, MinPlayers, MaxPlayers)
	case s.NumPlayers != seats:
		return s, fmt.Errorf("%w: NumPlayers %d but %d names", ErrBadSettings, s.NumPlayers, seats)
	case s.NumRounds < 0:
		return s, fmt.Errorf("%w: %d rounds", ErrBadSettings, s.NumRounds)
	}
	return s, nil
}
