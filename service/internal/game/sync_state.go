package game

import (
	"fmt"

	"github.com/google/uuid"

	engine "github.com/SRathinaGiri/IndianRummy/engine"
)

// ViewCard is one card as shown to a client.
type ViewCard struct {
	Card   string `json:"card"` // "10♦", "JOKER"
	Rank   string `json:"rank"`
	Suit   string `json:"suit"`
	Points int    `json:"points"`
	Wild   bool   `json:"wild,omitempty"` // wild for the viewing seat
	Idx    *int   `json:"idx,omitempty"`  // hand index, for selection
}

// SeatView is one seat as seen by the viewer.
type SeatView struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	IsAI          bool      `json:"isAi"`
	Score         int       `json:"score"`
	RoundWins     int       `json:"roundWins"`
	HandSize      int       `json:"handSize"`
	MeldSizes     []int     `json:"meldSizes"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	HasSeenJoker  bool      `json:"hasSeenJoker"`
	// Hand, Melds and Selected are filled for the viewer's own seat, and for
	// every seat in debug mode or once the round is over.
	Hand     []ViewCard   `json:"hand,omitempty"`
	Melds    [][]ViewCard `json:"melds,omitempty"`
	Selected []int        `json:"selected,omitempty"`
	// Points is what the seat pays for the round as things stand.
	Points *int `json:"points,omitempty"`
}

// View is the match state as one seat may see it.
type View struct {
	MatchID         uuid.UUID  `json:"matchId"`
	Round           int        `json:"round"`
	NumRounds       int        `json:"numRounds"`
	State           string     `json:"state"`
	Finished        bool       `json:"finished"`
	CurrentPlayerID uuid.UUID  `json:"currentPlayerId"`
	StockSize       int        `json:"stockSize"`
	DiscardSize     int        `json:"discardSize"`
	DiscardTop      *ViewCard  `json:"discardTop,omitempty"`
	HiddenJoker     bool       `json:"hiddenJoker"`
	WildJoker       *ViewCard  `json:"wildJoker,omitempty"` // nil while hidden from the viewer
	Legal           []string   `json:"legal,omitempty"`     // viewer's moves when it is their turn
	Players         []SeatView `json:"players"`
}

// ViewFor builds the state visible to seat. engine.NoSeat gives a spectator
// view with no hands shown outside debug mode.
func (m *Match) ViewFor(seat int) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.game
	if seat != engine.NoSeat && g.Player(seat) == nil {
		return View{}, fmt.Errorf("view for seat %d: %w", seat, engine.ErrBadIndex)
	}
	settings := g.Settings()
	roundOver := g.IsRoundOver()
	playing := g.State() == engine.StateDraw || g.State() == engine.StateAction

	v := View{
		MatchID:     m.ID,
		Round:       g.Round(),
		NumRounds:   settings.NumRounds,
		State:       g.State().String(),
		Finished:    m.finished,
		StockSize:   g.StockLen(),
		DiscardSize: g.DiscardLen(),
		HiddenJoker: settings.HiddenJoker,
	}
	if playing {
		v.CurrentPlayerID = m.PlayerIDs[g.CurrentSeat()]
	}

	// Wilds follow the viewer; a spectator sees them only when they are public.
	w := engine.WildSet{Rank: g.WildJoker().Rank(), Active: !settings.HiddenJoker}
	if viewer := g.Player(seat); viewer != nil {
		w = g.WildsFor(viewer)
	}
	if w.Active || settings.DebugMode || roundOver {
		wc := viewCard(g.WildJoker(), w, -1)
		v.WildJoker = &wc
	}
	if top, ok := g.DiscardTop(); ok {
		tc := viewCard(top, w, -1)
		v.DiscardTop = &tc
	}
	if seat != engine.NoSeat && seat == g.CurrentSeat() && playing {
		for _, a := range g.LegalActions().List() {
			v.Legal = append(v.Legal, a.String())
		}
	}

	scores := g.Scores()
	for i, p := range g.Players() {
		sv := SeatView{
			PlayerID:      m.PlayerIDs[i],
			Name:          p.Name,
			IsAI:          p.IsAI,
			Score:         scores[i],
			RoundWins:     m.roundWon[i],
			HandSize:      len(p.Hand),
			MeldSizes:     make([]int, len(p.Melds)),
			IsCurrentTurn: playing && i == g.CurrentSeat(),
			HasSeenJoker:  p.HasSeenJoker,
		}
		for j, meld := range p.Melds {
			sv.MeldSizes[j] = len(meld)
		}
		if i == seat || settings.DebugMode || roundOver {
			pw := g.WildsFor(p)
			sv.Hand = make([]ViewCard, len(p.Hand))
			for j, c := range p.Hand {
				sv.Hand[j] = viewCard(c, pw, j)
			}
			sv.Melds = make([][]ViewCard, len(p.Melds))
			for j, meld := range p.Melds {
				sv.Melds[j] = make([]ViewCard, len(meld))
				for k, c := range meld {
					sv.Melds[j][k] = viewCard(c, pw, -1)
				}
			}
			if i == seat {
				sv.Selected = append([]int(nil), p.Selected...)
			}
			pts := g.CalculatePlayerPoints(i)
			sv.Points = &pts
		}
		v.Players = append(v.Players, sv)
	}
	return v, nil
}
