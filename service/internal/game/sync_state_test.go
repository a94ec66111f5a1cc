package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/SRathinaGiri/IndianRummy/engine"
)

func TestViewForShowsOnlyOwnHand(t *testing.T) {
	m, _ := startHumanMatch(t)

	v, err := m.ViewFor(0)
	require.NoError(t, err)
	assert.Equal(t, m.ID, v.MatchID)
	assert.Equal(t, engine.StateDraw.String(), v.State)
	assert.Equal(t, m.PlayerIDs[0], v.CurrentPlayerID)
	assert.Equal(t, []string{"draw_stock", "draw_discard", "toggle_selection"}, v.Legal)
	require.NotNil(t, v.DiscardTop)
	require.NotNil(t, v.WildJoker, "visible joker")
	require.Len(t, v.Players, 2)

	self, other := v.Players[0], v.Players[1]
	assert.True(t, self.IsCurrentTurn)
	assert.Len(t, self.Hand, engine.HandSize)
	require.NotNil(t, self.Points)
	for i, c := range self.Hand {
		require.NotNil(t, c.Idx)
		assert.Equal(t, i, *c.Idx)
	}
	assert.Equal(t, engine.HandSize, other.HandSize)
	assert.Nil(t, other.Hand)
	assert.Nil(t, other.Points)
	assert.True(t, other.IsAI)

	bot, err := m.ViewFor(1)
	require.NoError(t, err)
	assert.Empty(t, bot.Legal, "not the bot's turn")
	assert.Nil(t, bot.Players[0].Hand)
	assert.Len(t, bot.Players[1].Hand, engine.HandSize)
}

func TestViewForSpectatorAndErrors(t *testing.T) {
	m, _ := startHumanMatch(t)

	v, err := m.ViewFor(engine.NoSeat)
	require.NoError(t, err)
	for _, p := range v.Players {
		assert.Nil(t, p.Hand, p.Name)
	}
	assert.Empty(t, v.Legal)

	_, err = m.ViewFor(2)
	assert.ErrorIs(t, err, engine.ErrBadIndex)
}

func TestViewForHiddenJoker(t *testing.T) {
	s := engine.DefaultSettings()
	s.HiddenJoker = true
	m, _, _ := setupTestMatch(t, []string{"Ada", "Bot"}, s)
	require.NoError(t, m.StartRound())

	v, err := m.ViewFor(0)
	require.NoError(t, err)
	assert.True(t, v.HiddenJoker)
	assert.Nil(t, v.WildJoker)
	for _, c := range v.Players[0].Hand {
		assert.Equal(t, c.Card == engine.Joker().String(), c.Wild, "only printed jokers are wild: %s", c.Card)
	}

	m.game.Player(0).HasSeenJoker = true
	v, err = m.ViewFor(0)
	require.NoError(t, err)
	require.NotNil(t, v.WildJoker)
	assert.Equal(t, m.game.WildJoker().String(), v.WildJoker.Card)
}

func TestViewForDebugShowsEveryHand(t *testing.T) {
	s := engine.DefaultSettings()
	s.DebugMode = true
	s.HiddenJoker = true
	s.NumPlayers = 0
	m, _, _ := setupTestMatch(t, []string{"Ada", "Bot", "Cy"}, s)
	require.NoError(t, m.StartRound())

	v, err := m.ViewFor(engine.NoSeat)
	require.NoError(t, err)
	require.NotNil(t, v.WildJoker)
	for _, p := range v.Players {
		assert.Len(t, p.Hand, engine.HandSize, p.Name)
	}
}

func TestViewJSON(t *testing.T) {
	m, _ := startHumanMatch(t)
	v, err := m.ViewFor(0)
	require.NoError(t, err)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, m.ID.String(), decoded["matchId"])
	assert.Contains(t, decoded, "players")
	players := decoded["players"].([]any)
	assert.NotContains(t, players[1].(map[string]any), "hand")
}
