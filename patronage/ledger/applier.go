package ledger

import (
	"strings"

	"github.com/commonshare/lib-patronage/patronage"
	"github.com/commonshare/lib-patronage/patronage/event"
)

// Applier is a pure per-event-type transition: it folds one event into a
// balance and returns the new balance. Appliers must not mutate the input
// or keep state between calls; replay determinism depends on it.
type Applier func(CapitalAccountBalance, event.Envelope) (CapitalAccountBalance, error)

// Registry maps event types to appliers. New contribution or event kinds
// register here without touching the fold's core.
type Registry struct {
	appliers map[event.Type]Applier
}

// NewRegistry creates a registry with the four built-in event kinds.
func NewRegistry() *Registry {
	r := &Registry{appliers: make(map[event.Type]Applier)}

	r.appliers[event.TypeCapitalContribution] = applyCapitalContribution
	r.appliers[event.TypeAllocationApproved] = applyAllocationApproved
	r.appliers[event.TypeDistributionCompleted] = applyDistributionCompleted
	r.appliers[event.TypeCapitalWithdrawal] = applyCapitalWithdrawal

	return r
}

// Register adds an applier for an event type. Re-registering a built-in
// type is rejected: the four core transitions define the audit contract.
func (r *Registry) Register(eventType event.Type, fn Applier) error {
	if strings.TrimSpace(string(eventType)) == "" {
		return patronage.NewDomainError(patronage.ErrorInvalidInput, "eventType", "event type is required")
	}

	if fn == nil {
		return patronage.NewDomainError(patronage.ErrorInvalidInput, "applier", "applier is required")
	}

	if _, exists := r.appliers[eventType]; exists {
		return patronage.NewDomainError(patronage.ErrorInvalidInput, "eventType", "applier already registered for event type "+string(eventType))
	}

	r.appliers[eventType] = fn

	return nil
}

func (r *Registry) applier(eventType event.Type) (Applier, bool) {
	fn, ok := r.appliers[eventType]
	return fn, ok
}

func applyCapitalContribution(b CapitalAccountBalance, e event.Envelope) (CapitalAccountBalance, error) {
	b.ContributedCapital = b.ContributedCapital.Add(e.Amount)
	b.BookBalance = b.BookBalance.Add(e.Amount)
	b.TaxBalance = b.TaxBalance.Add(e.Amount)

	return b, nil
}

func applyAllocationApproved(b CapitalAccountBalance, e event.Envelope) (CapitalAccountBalance, error) {
	b.RetainedPatronage = b.RetainedPatronage.Add(e.Amount)
	b.BookBalance = b.BookBalance.Add(e.Amount)
	b.TaxBalance = b.TaxBalance.Add(e.Amount)

	return b, nil
}

func applyDistributionCompleted(b CapitalAccountBalance, e event.Envelope) (CapitalAccountBalance, error) {
	b.DistributedPatronage = b.DistributedPatronage.Add(e.Amount)
	b.BookBalance = b.BookBalance.Sub(e.Amount)
	b.TaxBalance = b.TaxBalance.Sub(e.Amount)

	return b, nil
}

func applyCapitalWithdrawal(b CapitalAccountBalance, e event.Envelope) (CapitalAccountBalance, error) {
	b.ContributedCapital = b.ContributedCapital.Sub(e.Amount)
	b.BookBalance = b.BookBalance.Sub(e.Amount)
	b.TaxBalance = b.TaxBalance.Sub(e.Amount)

	return b, nil
}
