package services

import "github.com/vsinha/doorshop/pkg/domain/entities"

// LeafAction is the leaf mutation a handing change requires
type LeafAction int

const (
	LeafActionNone LeafAction = iota
	LeafActionAddB
	LeafActionRemoveB
)

// String method for LeafAction enum
func (a LeafAction) String() string {
	switch a {
	case LeafActionNone:
		return "None"
	case LeafActionAddB:
		return "AddB"
	case LeafActionRemoveB:
		return "RemoveB"
	default:
		return "Unknown"
	}
}

// PlanLeafTransition returns the leaf mutation needed to move an entry from
// one handing to another. Only a change of leaf class mutates leaves.
func PlanLeafTransition(prev, next entities.Handing) LeafAction {
	switch {
	case prev.Class() == entities.SingleLeaf && next.Class() == entities.DoubleLeaf:
		return LeafActionAddB
	case prev.Class() == entities.DoubleLeaf && next.Class() == entities.SingleLeaf:
		return LeafActionRemoveB
	default:
		return LeafActionNone
	}
}

// TransitionLabel names a handing class change for logs and metrics ("Single->Double")
func TransitionLabel(prev, next entities.Handing) string {
	return prev.Class().String() + "->" + next.Class().String()
}
