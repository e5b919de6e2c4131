package allocation

import "github.com/commonshare/lib-patronage/patronage"

// Status is the lifecycle state of an allocation record. The period-close
// workflow (outside this library) drives the transitions; this type only
// enforces which transitions are legal.
//
//	PENDING → CALCULATED → DISTRIBUTED
type Status string

const (
	// StatusPending marks an allocation awaiting calculation.
	StatusPending Status = "PENDING"
	// StatusCalculated marks an allocation computed and verified.
	StatusCalculated Status = "CALCULATED"
	// StatusDistributed marks an allocation whose cash portion was paid out.
	StatusDistributed Status = "DISTRIBUTED"
)

// CanTransitionTo reports whether moving to next is a legal lifecycle step.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusCalculated
	case StatusCalculated:
		return next == StatusDistributed
	default:
		return false
	}
}

// Transition validates and performs a lifecycle step.
func (s Status) Transition(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return s, patronage.NewDomainError(patronage.ErrorInvalidStateTransition, "status",
			"cannot transition allocation from "+string(s)+" to "+string(next))
	}

	return next, nil
}
