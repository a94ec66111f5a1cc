package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/SRathinaGiri/IndianRummy/engine"
)

// ErrNotYourTurn is returned when a player acts while another seat is up.
var ErrNotYourTurn = errors.New("not this player's turn")

// actor checks that playerID holds the current seat. Assumes lock is held.
func (m *Match) actor(playerID uuid.UUID, op string) (int, error) {
	seat, ok := m.seatOf(playerID)
	if !ok {
		return 0, fmt.Errorf("%s: %w %s", op, ErrUnknownPlayer, playerID)
	}
	if seat != m.game.CurrentSeat() {
		return seat, fmt.Errorf("%s: %w (seat %d, current %d)", op, ErrNotYourTurn, seat, m.game.CurrentSeat())
	}
	return seat, nil
}

// Draw takes the top card of the stock, or of the discard pile when
// fromDiscard is set.
func (m *Match) Draw(playerID uuid.UUID, fromDiscard bool) (engine.Card, engine.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seat, err := m.actor(playerID, "draw")
	if err != nil {
		return engine.NoCard, engine.ActionResult{}, err
	}

	var (
		c   engine.Card
		res engine.ActionResult
	)
	src := engine.DrawStock
	if fromDiscard {
		src = engine.DrawDiscard
		c, res, err = m.game.DrawFromDiscard()
	} else {
		c, res, err = m.game.DrawFromStock()
	}
	if err != nil || !res.Valid {
		return c, res, err
	}
	ev := Event{Type: EventPlayerDraw, Player: m.eventPlayer(seat), Payload: map[string]any{"source": src.String()}}
	if fromDiscard {
		ev.Card = c.String()
	}
	m.fire(ev)
	return c, res, nil
}

// Discard throws c from the hand and passes the turn.
func (m *Match) Discard(playerID uuid.UUID, c engine.Card) (engine.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seat, err := m.actor(playerID, "discard")
	if err != nil {
		return engine.ActionResult{}, err
	}
	res, err := m.game.DiscardCard(c)
	if err != nil || !res.Valid {
		return res, err
	}
	m.fire(Event{Type: EventPlayerDiscard, Player: m.eventPlayer(seat), Card: c.String()})
	m.fireTurn()
	return res, nil
}

// Toggle selects or deselects hand index i for grouping. Selection is private
// and broadcasts nothing.
func (m *Match) Toggle(playerID uuid.UUID, i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.actor(playerID, "toggle"); err != nil {
		return err
	}
	return m.game.ToggleSelection(i)
}

// Group turns the selected hand cards into a meld.
func (m *Match) Group(playerID uuid.UUID) (engine.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seat, err := m.actor(playerID, "group")
	if err != nil {
		return engine.ActionResult{}, err
	}
	res, err := m.game.GroupSelectedCards()
	if err != nil || !res.Valid {
		return res, err
	}
	melds := m.game.Player(seat).Melds
	m.fire(Event{
		Type:    EventPlayerGroup,
		Player:  m.eventPlayer(seat),
		Payload: map[string]any{"melds": len(melds), "size": len(melds[len(melds)-1])},
	})
	return res, nil
}

// Ungroup returns meld i to the hand.
func (m *Match) Ungroup(playerID uuid.UUID, i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seat, err := m.actor(playerID, "ungroup")
	if err != nil {
		return err
	}
	if err := m.game.UngroupMeld(i); err != nil {
		return err
	}
	m.fire(Event{Type: EventPlayerUngroup, Player: m.eventPlayer(seat), Payload: map[string]any{"meld": i}})
	return nil
}

// Reveal uncovers the hidden wild joker for a seat that has earned it.
func (m *Match) Reveal(playerID uuid.UUID) (engine.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seat, err := m.actor(playerID, "reveal")
	if err != nil {
		return engine.ActionResult{}, err
	}
	res, err := m.game.RevealJoker()
	if err != nil || !res.Valid {
		return res, err
	}
	m.fire(Event{Type: EventJokerRevealed, Player: m.eventPlayer(seat)})
	return res, nil
}

// Declare discards c and claims the round. Either verdict ends the round.
func (m *Match) Declare(playerID uuid.UUID, c engine.Card) (engine.DeclarationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seat, err := m.actor(playerID, "declare")
	if err != nil {
		return engine.DeclarationResult{}, err
	}
	res, err := m.game.Declare(c)
	if err != nil {
		return res, err
	}
	if !m.game.IsRoundOver() {
		// The card was not in the hand; nothing happened.
		return res, nil
	}
	m.roundLog().WithFields(logrus.Fields{
		"seat":    seat,
		"valid":   res.Valid,
		"message": res.Message,
	}).Info("declaration")
	if res.Valid {
		m.fire(Event{Type: EventPlayerDiscard, Player: m.eventPlayer(seat), Card: c.String()})
	}
	m.fireDeclare(seat, res.Valid)
	m.finishRound()
	return res, nil
}
