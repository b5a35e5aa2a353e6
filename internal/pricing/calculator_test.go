package pricing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
	"github.com/sysnyx/syspay/internal/clock"
	"github.com/sysnyx/syspay/internal/money"
)

func newTestEngine(at time.Time) *Engine {
	return New(Params{
		Clock: clock.Fixed{T: at},
		Log:   zap.NewNop(),
	})
}

func TestCalculateAmountFixed(t *testing.T) {
	e := newTestEngine(time.Now())
	svc := &catalogdomain.Service{
		ServiceType: catalogdomain.ServiceTypeFixed,
		BasePrice:   money.MustFromString("100.00"),
	}

	// Quantity and extras are ignored for fixed services.
	for _, qty := range []int{0, 1, 5, -3} {
		amount, err := e.CalculateAmount(svc, qty, json.RawMessage(`[{"price": 9}]`))
		require.NoError(t, err)
		assert.Equal(t, "100.00", money.String(amount))
	}
}

func TestCalculateAmountPerUnit(t *testing.T) {
	e := newTestEngine(time.Now())
	svc := &catalogdomain.Service{
		ServiceType: catalogdomain.ServiceTypePerUnit,
		BasePrice:   money.MustFromString("5.00"),
	}

	amount, err := e.CalculateAmount(svc, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, "15.00", money.String(amount))

	for _, qty := range []int{0, -1} {
		_, err := e.CalculateAmount(svc, qty, nil)
		require.ErrorIs(t, err, ErrInvalidQuantity)
		assert.True(t, IsInvalidInput(err))
	}
}

func TestCalculateAmountVariable(t *testing.T) {
	e := newTestEngine(time.Now())
	svc := &catalogdomain.Service{
		ServiceType: catalogdomain.ServiceTypeVariable,
		BasePrice:   money.MustFromString("0.00"),
	}

	amount, err := e.CalculateAmount(svc, 1, json.RawMessage(`[
		{"name": "Burger", "price": "12.50"},
		{"name": "Fries", "price": 4.25},
		{"name": "Water"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, "16.75", money.String(amount))

	// Empty extras sum to zero.
	amount, err = e.CalculateAmount(svc, 1, json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Equal(t, "0.00", money.String(amount))
}

func TestCalculateAmountVariableDoubleEncoded(t *testing.T) {
	e := newTestEngine(time.Now())
	svc := &catalogdomain.Service{ServiceType: catalogdomain.ServiceTypeVariable}

	// Extras arriving as serialized text are parsed first.
	amount, err := e.CalculateAmount(svc, 1, json.RawMessage(`"[{\"price\": \"3.10\"}, {\"price\": \"2.15\"}]"`))
	require.NoError(t, err)
	assert.Equal(t, "5.25", money.String(amount))
}

func TestCalculateAmountVariableBadInput(t *testing.T) {
	e := newTestEngine(time.Now())
	svc := &catalogdomain.Service{ServiceType: catalogdomain.ServiceTypeVariable}

	cases := []struct {
		name  string
		raw   string
		errIs error
	}{
		{"absent", ``, ErrInvalidExtras},
		{"null literal", `null`, ErrInvalidExtras},
		{"double-encoded null", `"null"`, ErrInvalidExtras},
		{"unparseable text", `"{not json"`, ErrMalformedExtras},
		{"not a sequence", `{"price": 1}`, ErrInvalidExtras},
		{"scalar", `42`, ErrInvalidExtras},
		{"element not a record", `[1, 2]`, ErrInvalidExtraItem},
		{"element is a string", `["burger"]`, ErrInvalidExtraItem},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.CalculateAmount(svc, 1, json.RawMessage(tc.raw))
			require.ErrorIs(t, err, tc.errIs)
			assert.True(t, IsInvalidInput(err))
		})
	}
}

func TestCalculateAmountUnknownType(t *testing.T) {
	e := newTestEngine(time.Now())
	svc := &catalogdomain.Service{ServiceType: "subscription"}

	_, err := e.CalculateAmount(svc, 1, nil)
	require.ErrorIs(t, err, ErrUnknownServiceType)
	assert.True(t, IsInvalidInput(err))
}
