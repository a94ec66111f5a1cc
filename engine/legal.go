package engine

import (
	"slices"
	"strings"
)

// ActionKind is a move a caller may make on the game.
type ActionKind uint8

const (
	ActDeal ActionKind = iota
	ActBeginPlay
	ActDrawStock
	ActDrawDiscard
	ActToggleSelection
	ActGroup
	ActUngroup
	ActRevealJoker
	ActDiscard
	ActDeclare
	ActAITurn
	ActEndStalledRound
	ActNextRound
	numActionKinds
)

var actionNames = [numActionKinds]string{
	"deal", "begin_play", "draw_stock", "draw_discard", "toggle_selection",
	"group", "ungroup", "reveal_joker", "discard", "declare", "ai_turn",
	"end_stalled_round", "next_round",
}

func (a ActionKind) String() string {
	if a < numActionKinds {
		return actionNames[a]
	}
	return "unknown"
}

// ActionSet is a bitmask of ActionKinds.
type ActionSet uint16

// Has reports whether a is in the set.
func (s ActionSet) Has(a ActionKind) bool { return s&(1<<a) != 0 }

func (s *ActionSet) add(a ActionKind) { *s |= 1 << a }

// List returns the members in ActionKind order.
func (s ActionSet) List() []ActionKind {
	var out []ActionKind
	for a := ActionKind(0); a < numActionKinds; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	names := make([]string, 0, numActionKinds)
	for _, a := range s.List() {
		names = append(names, a.String())
	}
	return "{" + strings.Join(names, " ") + "}"
}

// LegalActions returns the moves open to the caller right now.
func (g *Game) LegalActions() ActionSet {
	var set ActionSet

	switch g.state {
	case StateSetup:
		g.legalSetup(&set)

	case StateDraw:
		if g.stock.Len() == 0 {
			set.add(ActEndStalledRound)
		}
		if g.players[g.current].IsAI {
			set.add(ActAITurn)
			return set
		}
		if g.stock.Len() > 0 {
			set.add(ActDrawStock)
		}
		if len(g.discard) > 0 {
			set.add(ActDrawDiscard)
		}
		g.legalGrouping(&set)

	case StateAction:
		p := g.players[g.current]
		if slices.ContainsFunc(p.Hand, func(c Card) bool { return c != g.pickedDiscard }) {
			set.add(ActDiscard)
		}
		if len(p.Hand) > 0 {
			set.add(ActDeclare)
		}
		g.legalGrouping(&set)

	case StateRoundOver:
		if g.round < g.settings.NumRounds {
			set.add(ActNextRound)
		}
	}
	return set
}

func (g *Game) legalSetup(set *ActionSet) {
	dealt := true
	for _, p := range g.players {
		if len(p.Hand) < HandSize {
			dealt = false
			break
		}
	}
	if dealt {
		set.add(ActBeginPlay)
	} else if g.stock.Len() > 0 {
		set.add(ActDeal)
	}
}

func (g *Game) legalGrouping(set *ActionSet) {
	p := g.players[g.current]
	if len(p.Hand) > 0 {
		set.add(ActToggleSelection)
	}
	if len(p.Selected) > 0 {
		set.add(ActGroup)
	}
	if len(p.Melds) > 0 {
		set.add(ActUngroup)
	}
	if !p.HasSeenJoker && p.CanRevealJoker {
		set.add(ActRevealJoker)
	}
}
