package engine

import "slices"

// Clone returns a deep copy of the game. The copy shares the strategy but no
// card slices. Sources made by NewSource or the default seeding are copied,
// so dealing on the clone leaves the original's shuffle stream alone; a
// Source passed to WithSource is shared.
func (g *Game) Clone() *Game {
	cp := *g
	if src, ok := g.rng.(*pcgSource); ok {
		cp.rng = src.clone()
	}
	cp.players = make([]*Player, len(g.players))
	for i, p := range g.players {
		cp.players[i] = p.clone()
	}
	cp.scores = slices.Clone(g.scores)
	cp.stock = g.stock.clone()
	cp.discard = slices.Clone(g.discard)
	cp.discardHistory = slices.Clone(g.discardHistory)
	cp.pickups = cloneMelds(g.pickups)
	cp.roundPoints = slices.Clone(g.roundPoints)
	return &cp
}
