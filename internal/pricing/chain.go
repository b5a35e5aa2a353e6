package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
)

// ApplyRules runs the ordered rule chain over a base amount and returns the
// final amount together with the audit breakdown. Rules must already be in
// application order (priority ascending, creation order on ties); the chain
// is order-sensitive because chained percentages do not commute.
//
// The breakdown opens with a base entry, records a delta entry for every
// rule that changed the running amount (no-op rules leave no trace), and
// closes with a final entry.
func (e *Engine) ApplyRules(ctx context.Context, rules []catalogdomain.PricingRule, base decimal.Decimal, ev *EvalContext) (decimal.Decimal, Breakdown) {
	breakdown := Breakdown{{Type: EntryTypeBase, Amount: base}}
	running := base

	for _, rule := range rules {
		next := e.ApplyRule(ctx, rule, running, ev)
		if next.Equal(running) {
			continue
		}
		breakdown = append(breakdown, BreakdownEntry{
			Type:   string(rule.RuleType),
			Name:   rule.Name,
			Amount: next.Sub(running),
		})
		running = next
	}

	breakdown = append(breakdown, BreakdownEntry{Type: EntryTypeFinal, Amount: running})
	return running, breakdown
}
