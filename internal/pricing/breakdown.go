package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/sysnyx/syspay/internal/money"
)

// Entry types that bracket the audit trail. Everything in between carries the
// rule type of the rule that produced the delta.
const (
	EntryTypeBase  = "base"
	EntryTypeFinal = "final"
)

// BreakdownEntry is one step of the pricing audit trail. Rule entries record
// the delta the rule contributed, not the absolute running amount.
type BreakdownEntry struct {
	Type   string
	Name   string
	Amount decimal.Decimal
}

// Breakdown is the ordered trail from base amount to final amount. It is
// frozen onto the charge at creation time and never recomputed.
type Breakdown []BreakdownEntry

type breakdownEntryJSON struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Amount string `json:"amount"`
}

// MarshalJSON renders the amount as an exact two-digit decimal string.
// Amounts never cross a serialization boundary as floating point.
func (e BreakdownEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(breakdownEntryJSON{
		Type:   e.Type,
		Name:   e.Name,
		Amount: money.String(e.Amount),
	})
}

func (e *BreakdownEntry) UnmarshalJSON(data []byte) error {
	var raw breakdownEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := money.FromString(raw.Amount)
	if err != nil {
		return err
	}
	e.Type = raw.Type
	e.Name = raw.Name
	e.Amount = amount
	return nil
}

// Final returns the closing amount of the trail, or zero for an empty one.
func (b Breakdown) Final() decimal.Decimal {
	if len(b) == 0 {
		return decimal.Zero
	}
	return b[len(b)-1].Amount
}
