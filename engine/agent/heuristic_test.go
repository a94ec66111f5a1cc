package agent

import (
	"testing"

	engine "github.com/SRathinaGiri/IndianRummy/engine"
)

// noWilds leaves every card but a printed joker natural.
var noWilds = engine.WildSet{Rank: engine.RankAce}

// scattered holds 14 cards that form no run and, lacking runs, no set.
const scattered = "2♥ 5♥ 8♥ 2♥ 2♦ 5♦ 8♦ 2♣ 5♣ 8♣ 2♠ 5♠ 8♠ 9♠"

func view(t *testing.T, hand string, w engine.WildSet) engine.TurnView {
	t.Helper()
	return engine.TurnView{
		Cards:             cards(t, hand),
		Wilds:             w,
		DiscardTop:        engine.NoCard,
		PickedFromDiscard: engine.NoCard,
	}
}

// checkPlan fails unless plan accounts for exactly the cards in v.
func checkPlan(t *testing.T, v engine.TurnView, plan engine.TurnPlan) {
	t.Helper()
	got := append(engine.Flatten(plan.Melds), plan.Deadwood...)
	got = append(got, plan.Discard)
	if !engine.SameCards(got, v.Cards) {
		t.Fatalf("plan %v + %v + %s does not match %v", plan.Melds, plan.Deadwood, plan.Discard, v.Cards)
	}
}

func TestDefaultTuning(t *testing.T) {
	tu := DefaultTuning()
	if tu.SeenDiscardBonus != 5 || tu.HighCardPoints != 10 || tu.FeedPenalty != 20 {
		t.Errorf("DefaultTuning = %+v", tu)
	}
	if NewHeuristic(tu).Tuning() != tu {
		t.Error("Tuning not kept")
	}
}

// TestPotentialBiases verifies the structure biases shift the potential.
func TestPotentialBiases(t *testing.T) {
	structured := engine.Arrange(cards(t, "2♥ 3♥ 4♥ 5♠ 6♠ 7♠ K♦"), noWilds)
	loose := engine.Arrange(cards(t, "2♥ 3♥ 4♥ K♦"), noWilds)

	h := NewHeuristic(Tuning{DeclarableBonus: 7, UnstructuredPenalty: 30})
	if got := h.Potential(structured, noWilds); got != 10-7 {
		t.Errorf("structured potential = %d, want 3", got)
	}
	if got := h.Potential(loose, noWilds); got != 10+30 {
		t.Errorf("loose potential = %d, want 40", got)
	}
}

// TestChooseDraw covers the pickup decision.
func TestChooseDraw(t *testing.T) {
	h := NewHeuristic(DefaultTuning())
	hand := "4♥ 6♥ 2♣ 9♦ K♠ Q♣ 7♦ J♥ 3♠ 8♣ 10♦ 6♠ 2♦"
	tests := []struct {
		name  string
		top   string
		wilds engine.WildSet
		want  engine.DrawSource
	}{
		{"completes a run", "5♥", noWilds, engine.DrawDiscard},
		{"useless card", "K♦", noWilds, engine.DrawStock},
		{"printed joker", "JOKER", noWilds, engine.DrawDiscard},
		{"seen wild rank", "K♦", engine.WildSet{Rank: engine.RankKing, Active: true}, engine.DrawDiscard},
		{"hidden wild rank", "K♦", engine.WildSet{Rank: engine.RankKing}, engine.DrawStock},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := view(t, hand, tc.wilds)
			v.DiscardTop = card(t, tc.top)
			if got := h.ChooseDraw(v); got != tc.want {
				t.Errorf("ChooseDraw = %s, want %s", got, tc.want)
			}
		})
	}

	if got := h.ChooseDraw(view(t, hand, noWilds)); got != engine.DrawStock {
		t.Errorf("empty discard: ChooseDraw = %s", got)
	}
}

// TestChooseDrawMargin verifies a margin can hold back a small improvement.
func TestChooseDrawMargin(t *testing.T) {
	v := view(t, "4♥ 6♥ 2♣ 9♦ K♠ Q♣ 7♦ J♥ 3♠ 8♣ 10♦ 6♠ 2♦", noWilds)
	v.DiscardTop = card(t, "5♥")
	h := NewHeuristic(Tuning{PickupMargin: 10})
	if got := h.ChooseDraw(v); got != engine.DrawStock {
		t.Errorf("ChooseDraw = %s, want stock when the gain equals the margin", got)
	}
}

// TestPlanDiscardDeclares verifies the direct declaration path.
func TestPlanDiscardDeclares(t *testing.T) {
	v := view(t, "2♥ 3♥ 4♥ 5♠ 6♠ 7♠ 8♠ 9♦ 9♣ 9♠ K♥ K♦ K♣ Q♦", noWilds)
	plan := NewHeuristic(DefaultTuning()).PlanDiscard(v)

	checkPlan(t, v, plan)
	if !plan.Declare || plan.Discard != card(t, "Q♦") {
		t.Fatalf("plan = %+v, want a declaration discarding Q♦", plan)
	}
	if res := engine.ValidateDeclaration(plan.Melds, v.Wilds); !res.Valid {
		t.Errorf("declared melds invalid: %s", res.Message)
	}
}

// TestPlanDiscardDeclaresFromFullMelds verifies the fallback when all 14
// cards are melded and one has to be pulled out.
func TestPlanDiscardDeclaresFromFullMelds(t *testing.T) {
	v := view(t, "2♥ 3♥ 4♥ 5♥ 5♠ 6♠ 7♠ 9♦ 9♣ 9♠ K♥ K♦ K♣ K♠", noWilds)
	plan := NewHeuristic(DefaultTuning()).PlanDiscard(v)

	checkPlan(t, v, plan)
	if !plan.Declare {
		t.Fatalf("plan = %+v, want a declaration", plan)
	}
	if res := engine.ValidateDeclaration(plan.Melds, v.Wilds); !res.Valid {
		t.Errorf("declared melds invalid: %s", res.Message)
	}
}

// TestPlanDiscardHighestDeadwood verifies the plain choice without biases.
func TestPlanDiscardHighestDeadwood(t *testing.T) {
	v := view(t, scattered, noWilds)
	plan := NewHeuristic(DefaultTuning()).PlanDiscard(v)

	checkPlan(t, v, plan)
	if plan.Declare || plan.Discard != card(t, "9♠") {
		t.Errorf("plan = %+v, want 9♠ discarded", plan)
	}
}

// TestPlanDiscardNeverPickedCard verifies the card taken from the discard
// pile is kept.
func TestPlanDiscardNeverPickedCard(t *testing.T) {
	v := view(t, scattered, noWilds)
	v.PickedFromDiscard = card(t, "9♠")
	plan := NewHeuristic(DefaultTuning()).PlanDiscard(v)

	checkPlan(t, v, plan)
	if plan.Discard == v.PickedFromDiscard {
		t.Error("discarded the card just picked")
	}
}

// TestPlanDiscardAvoidsFeeding verifies cards near the next player's latest
// pickup are held back.
func TestPlanDiscardAvoidsFeeding(t *testing.T) {
	v := view(t, scattered, noWilds)
	v.NextPickups = cards(t, "2♦ 9♣")
	plan := NewHeuristic(DefaultTuning()).PlanDiscard(v)

	checkPlan(t, v, plan)
	// 9♠ shares the rank and 8♣ neighbours 9♣; the next best is 8♥.
	if plan.Discard != card(t, "8♥") {
		t.Errorf("Discard = %s, want 8♥", plan.Discard)
	}
}

// TestPlanDiscardPrefersSeenHighCards verifies the seen-discard bonus.
func TestPlanDiscardPrefersSeenHighCards(t *testing.T) {
	hand := "2♥ 5♥ 8♥ 2♥ 2♦ 5♦ Q♦ 2♣ 5♣ 8♣ 2♠ 5♠ 8♠ K♠"
	h := NewHeuristic(DefaultTuning())

	v := view(t, hand, noWilds)
	if got := h.PlanDiscard(v).Discard; got != card(t, "Q♦") {
		t.Errorf("without history: Discard = %s, want Q♦", got)
	}
	v.DiscardHistory = cards(t, "K♥ 3♣")
	if got := h.PlanDiscard(v).Discard; got != card(t, "K♠") {
		t.Errorf("with K♥ seen: Discard = %s, want K♠", got)
	}
}

// TestPlanDiscardKeepsWilds verifies a wild card is kept while a natural
// card can go, even when the wild is worth more points.
func TestPlanDiscardKeepsWilds(t *testing.T) {
	w := engine.WildSet{Rank: engine.RankKing, Active: true}
	v := view(t, "2♥ 5♥ 8♥ 2♥ 2♦ 5♦ 8♦ 2♣ 5♣ 8♣ 2♠ 5♠ 8♠ K♣", w)
	plan := NewHeuristic(DefaultTuning()).PlanDiscard(v)

	checkPlan(t, v, plan)
	if w.IsWild(plan.Discard) {
		t.Errorf("discarded the wild %s", plan.Discard)
	}
}

// TestHeuristicPlaysMatches runs seeded all-AI matches through the engine; any
// inconsistent plan surfaces as ErrBadPlan.
func TestHeuristicPlaysMatches(t *testing.T) {
	for seed := uint64(1); seed <= 4; seed++ {
		g, err := engine.NewGame([]string{"A", "B", "C"},
			engine.Settings{AllAI: true, HiddenJoker: seed%2 == 0},
			engine.WithSeed(seed), engine.WithStrategy(NewHeuristic(DefaultTuning())))
		if err != nil {
			t.Fatalf("NewGame: %v", err)
		}
		for r := 0; r < engine.HandSize; r++ {
			for seat := 0; seat < g.NumPlayers(); seat++ {
				if _, err := g.DealTo(seat); err != nil {
					t.Fatalf("DealTo: %v", err)
				}
			}
		}
		if err := g.BeginPlay(); err != nil {
			t.Fatalf("BeginPlay: %v", err)
		}
		for turns := 0; !g.IsRoundOver(); turns++ {
			if turns > 500 {
				t.Fatalf("seed %d: round did not end", seed)
			}
			res, err := g.ExecuteAITurn()
			if err != nil {
				t.Fatalf("seed %d turn %d: %v", seed, turns, err)
			}
			if res.Stalled {
				g.EndRound(engine.NoSeat, engine.NoSeat)
			}
			if res.Source == engine.DrawDiscard && res.Discarded == res.Drawn {
				t.Fatalf("seed %d turn %d: threw back %s", seed, turns, res.Drawn)
			}
			if n := g.CardsInPlay(); n != engine.DeckSize {
				t.Fatalf("seed %d turn %d: %d cards in play", seed, turns, n)
			}
		}
		if w := g.Winner(); w != engine.NoSeat && g.RoundPoints()[w] != 0 {
			t.Errorf("seed %d: winner paid %d", seed, g.RoundPoints()[w])
		}
	}
}
