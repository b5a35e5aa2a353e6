package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
	"github.com/sysnyx/syspay/internal/money"
)

func TestApplyRuleFactors(t *testing.T) {
	e := newTestEngine(time.Now())
	ctx := context.Background()
	base := money.MustFromString("100.00")

	cases := []struct {
		ruleType catalogdomain.RuleType
		value    string
		want     string
	}{
		{catalogdomain.RuleTypeTax, "16.00", "116.00"},
		{catalogdomain.RuleTypeSurcharge, "10.00", "110.00"},
		{catalogdomain.RuleTypeDiscount, "10.00", "90.00"},
	}
	for _, tc := range cases {
		rule := catalogdomain.PricingRule{
			RuleType: tc.ruleType,
			Value:    money.MustFromString(tc.value),
		}
		got := e.ApplyRule(ctx, rule, base, nil)
		assert.Equal(t, tc.want, money.String(got), "%s %s", tc.ruleType, tc.value)
	}
}

func TestApplyRuleQuantizesResult(t *testing.T) {
	e := newTestEngine(time.Now())

	// 33.33 * 1.16 = 38.6628 -> 38.66
	rule := catalogdomain.PricingRule{
		RuleType: catalogdomain.RuleTypeTax,
		Value:    money.MustFromString("16.00"),
	}
	got := e.ApplyRule(context.Background(), rule, money.MustFromString("33.33"), nil)
	assert.Equal(t, "38.66", money.String(got))
}

func TestApplyRulePeakHoursWindow(t *testing.T) {
	mk := func(hhmm string) time.Time {
		ts, err := time.Parse("2006-01-02 15:04:05", "2025-06-01 "+hhmm)
		if err != nil {
			t.Fatalf("bad test time %q: %v", hhmm, err)
		}
		return ts
	}

	rule := catalogdomain.PricingRule{
		Name:       "Peak Hours Surcharge",
		RuleType:   catalogdomain.RuleTypeSurcharge,
		Value:      money.MustFromString("20.00"),
		Conditions: catalogdomain.RuleConditions{PeakHours: "18:00-22:00"},
	}
	base := money.MustFromString("50.00")

	cases := []struct {
		at   string
		want string
	}{
		{"17:59:59", "50.00"}, // before window: no-op
		{"18:00:00", "60.00"}, // inclusive start
		{"20:30:00", "60.00"},
		{"22:00:00", "60.00"}, // inclusive end
		{"22:00:01", "50.00"}, // after window: no-op
	}
	for _, tc := range cases {
		e := newTestEngine(mk(tc.at))
		got := e.ApplyRule(context.Background(), rule, base, nil)
		assert.Equal(t, tc.want, money.String(got), "at %s", tc.at)
	}
}

func TestApplyRuleEvalContextOverridesClock(t *testing.T) {
	// Engine clock sits outside the window; the context time is inside.
	e := newTestEngine(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	rule := catalogdomain.PricingRule{
		RuleType:   catalogdomain.RuleTypeSurcharge,
		Value:      money.MustFromString("20.00"),
		Conditions: catalogdomain.RuleConditions{PeakHours: "18:00-22:00"},
	}

	inside := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	got := e.ApplyRule(context.Background(), rule, money.MustFromString("50.00"), &EvalContext{Time: &inside})
	assert.Equal(t, "60.00", money.String(got))
}

func TestApplyRuleMalformedConditionIsNoOp(t *testing.T) {
	e := newTestEngine(time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC))
	base := money.MustFromString("50.00")

	for _, cond := range []string{"18:00", "24:99-26:00", "six to ten", "18:00-", "-22:00"} {
		rule := catalogdomain.PricingRule{
			RuleType:   catalogdomain.RuleTypeSurcharge,
			Value:      money.MustFromString("20.00"),
			Conditions: catalogdomain.RuleConditions{PeakHours: cond},
		}
		got := e.ApplyRule(context.Background(), rule, base, nil)
		assert.Equal(t, "50.00", money.String(got), "condition %q must be a no-op", cond)
	}
}
