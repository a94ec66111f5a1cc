package engine

import "fmt"

// DeclarationResult reports whether a declaration holds and, if not, which
// rule it breaks. The message is meant for display.
type DeclarationResult struct {
	Valid   bool
	Message string
}

const (
	msgNeedTwoRuns = "You need at least two runs."
	msgNeedPure    = "You need at least one pure sequence."
	msgValid       = "Valid declaration!"
)

// ValidateDeclaration checks a full 13-card declaration: every group must be
// a run or a set, with at least two runs of which one is pure.
func ValidateDeclaration(melds [][]Card, w WildSet) DeclarationResult {
	n := 0
	for _, m := range melds {
		n += len(m)
	}
	if n != HandSize {
		return DeclarationResult{Message: fmt.Sprintf("Declaration must use %d cards. You have %d.", HandSize, n)}
	}
	return checkStructure(melds, w)
}

// checkStructure applies the group and run rules without the card count, for
// probing partial arrangements. Empty groups are skipped.
func checkStructure(melds [][]Card, w WildSet) DeclarationResult {
	runs, pure := 0, 0
	for _, m := range melds {
		if len(m) == 0 {
			continue
		}
		switch Classify(m, w) {
		case MeldInvalid:
			return DeclarationResult{Message: "Invalid group: " + FormatCards(m)}
		case MeldPureRun:
			runs++
			pure++
		case MeldImpureRun:
			runs++
		}
	}
	if runs < 2 {
		return DeclarationResult{Message: msgNeedTwoRuns}
	}
	if pure < 1 {
		return DeclarationResult{Message: msgNeedPure}
	}
	return DeclarationResult{Valid: true, Message: msgValid}
}

// ValidateDeclaration checks p's current melds as a declaration.
func (g *Game) ValidateDeclaration(p *Player) DeclarationResult {
	return ValidateDeclaration(p.Melds, g.WildsFor(p))
}
