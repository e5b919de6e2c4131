package event

import (
	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage"
)

// Payload is the closed union of decoded event payloads. Exactly one
// variant exists per built-in event type; the marker method seals the set
// so dispatch over payloads is exhaustive at compile time.
type Payload interface {
	eventType() Type
}

// CapitalContribution is a member paying capital in. ContributionType
// carries the patronage category (labor, capital, usage) used for weighting.
type CapitalContribution struct {
	MemberID         string
	Amount           decimal.Decimal
	ContributionType string
}

func (CapitalContribution) eventType() Type { return TypeCapitalContribution }

// AllocationApproved is a patronage allocation approved for a member for a
// closed period. The retained portion increases the capital account.
type AllocationApproved struct {
	MemberID string
	Amount   decimal.Decimal
	PeriodID string
}

func (AllocationApproved) eventType() Type { return TypeAllocationApproved }

// DistributionCompleted is a cash distribution paid out to a member.
type DistributionCompleted struct {
	MemberID string
	Amount   decimal.Decimal
}

func (DistributionCompleted) eventType() Type { return TypeDistributionCompleted }

// CapitalWithdrawal is a member withdrawing contributed capital.
type CapitalWithdrawal struct {
	MemberID string
	Amount   decimal.Decimal
}

func (CapitalWithdrawal) eventType() Type { return TypeCapitalWithdrawal }

// metadata keys recognized when decoding envelopes.
const (
	metadataContributionType = "contributionType"
	metadataPeriodID         = "periodId"
)

// Decode converts the envelope into its typed payload variant. Unknown
// event types return ErrorUnknownEventType; the balance fold treats that as
// a soft failure (warn and skip), audit callers may treat it as hard.
func (e Envelope) Decode() (Payload, error) {
	switch e.Type {
	case TypeCapitalContribution:
		return CapitalContribution{
			MemberID:         e.MemberID,
			Amount:           e.Amount,
			ContributionType: metadataString(e.Metadata, metadataContributionType),
		}, nil
	case TypeAllocationApproved:
		return AllocationApproved{
			MemberID: e.MemberID,
			Amount:   e.Amount,
			PeriodID: metadataString(e.Metadata, metadataPeriodID),
		}, nil
	case TypeDistributionCompleted:
		return DistributionCompleted{MemberID: e.MemberID, Amount: e.Amount}, nil
	case TypeCapitalWithdrawal:
		return CapitalWithdrawal{MemberID: e.MemberID, Amount: e.Amount}, nil
	default:
		return nil, patronage.NewDomainError(patronage.ErrorUnknownEventType, "eventType", "no payload variant for event type "+string(e.Type))
	}
}

func metadataString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}

	if value, ok := metadata[key].(string); ok {
		return value
	}

	return ""
}
