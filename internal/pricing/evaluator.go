package pricing

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
	"github.com/sysnyx/syspay/internal/money"
)

// ApplyRule applies a single pricing rule to amount. A rule whose condition
// is not met returns the amount unchanged. Pure function.
func (e *Engine) ApplyRule(ctx context.Context, rule catalogdomain.PricingRule, amount decimal.Decimal, ev *EvalContext) decimal.Decimal {
	if !e.conditionMet(ctx, rule, ev) {
		return amount
	}
	factor := money.Factor(rule.Value, rule.RuleType.Increases())
	return money.Quantize(amount.Mul(factor))
}

func (e *Engine) conditionMet(ctx context.Context, rule catalogdomain.PricingRule, ev *EvalContext) bool {
	cond := rule.Conditions
	if cond.Empty() {
		return true
	}

	window, ok := parsePeakWindow(cond.PeakHours)
	if !ok {
		// Malformed condition strings make the rule a no-op rather than
		// failing the whole evaluation. Deliberate permissive policy.
		e.log.Warn("unparseable peak_hours condition, skipping rule",
			zap.String("rule", rule.Name),
			zap.String("peak_hours", cond.PeakHours))
		return false
	}

	now := e.clk.Now(ctx)
	if ev != nil && ev.Time != nil {
		now = *ev.Time
	}
	return window.contains(now)
}

// peakWindow is a daily time window in seconds since midnight, inclusive on
// both ends.
type peakWindow struct {
	start int
	end   int
}

func (w peakWindow) contains(t time.Time) bool {
	s := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return w.start <= s && s <= w.end
}

// parsePeakWindow parses "HH:MM-HH:MM".
func parsePeakWindow(s string) (peakWindow, bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return peakWindow{}, false
	}
	start, ok := parseHHMM(strings.TrimSpace(parts[0]))
	if !ok {
		return peakWindow{}, false
	}
	end, ok := parseHHMM(strings.TrimSpace(parts[1]))
	if !ok {
		return peakWindow{}, false
	}
	return peakWindow{start: start, end: end}, true
}

func parseHHMM(s string) (int, bool) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*3600 + m*60, true
}
