// Package agent implements the heuristic AI that plays Indian Rummy seats.
package agent

// Tuning holds the scoring biases of the heuristic. Potentials are measured
// in deadwood points, so every field is in points too.
type Tuning struct {
	// PickupMargin is how much the discard must lower the hand potential
	// before it is taken. Zero takes it on any strict improvement.
	PickupMargin int

	// SeenDiscardBonus is subtracted from the score of a high card whose rank
	// has already been discarded this round.
	SeenDiscardBonus int

	// HighCardPoints is the point value at which a card counts as high.
	HighCardPoints int

	// FeedPenalty is added to the score of a card that matches or neighbours
	// the next player's latest pickup.
	FeedPenalty int

	// DeclarableBonus is subtracted from the potential of an arrangement whose
	// melds already satisfy a declaration.
	DeclarableBonus int

	// UnstructuredPenalty is added to the potential of an arrangement that
	// lacks two runs or a pure sequence.
	UnstructuredPenalty int
}

// DefaultTuning returns the biases the heuristic plays with unless told
// otherwise.
func DefaultTuning() Tuning {
	return Tuning{
		PickupMargin:        0,
		SeenDiscardBonus:    5,
		HighCardPoints:      10,
		FeedPenalty:         20,
		DeclarableBonus:     0,
		UnstructuredPenalty: 0,
	}
}
