package pricing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/sysnyx/syspay/internal/catalog/domain"
	"github.com/sysnyx/syspay/internal/money"
)

// Calculator input errors. All of them are client errors, surfaced as
// invalid input and never retried.
var (
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrMalformedExtras    = errors.New("malformed extras")
	ErrInvalidExtras      = errors.New("extras must be a list of items")
	ErrInvalidExtraItem   = errors.New("extras item must be an object")
	ErrUnknownServiceType = errors.New("unknown service type")
)

// IsInvalidInput reports whether err is a calculator input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrMalformedExtras) ||
		errors.Is(err, ErrInvalidExtras) ||
		errors.Is(err, ErrInvalidExtraItem) ||
		errors.Is(err, ErrUnknownServiceType)
}

// ExtraItem is one line item of a variable-priced service, e.g. a menu item
// on a room service order. A missing price counts as zero.
type ExtraItem struct {
	Name  string          `json:"name,omitempty"`
	Price decimal.Decimal `json:"price"`
}

// CalculateAmount computes the base amount for a service before any pricing
// rules apply. The result is always quantized to the cent.
//
//   - fixed: the base price; quantity and extras are ignored.
//   - per_unit: base price times quantity; quantity must be >= 1.
//   - variable: the sum of the extras item prices.
func (e *Engine) CalculateAmount(svc *catalogdomain.Service, quantity int, extras json.RawMessage) (decimal.Decimal, error) {
	switch svc.ServiceType {
	case catalogdomain.ServiceTypeFixed:
		return money.Quantize(svc.BasePrice), nil

	case catalogdomain.ServiceTypePerUnit:
		if quantity <= 0 {
			return decimal.Zero, ErrInvalidQuantity
		}
		return money.Quantize(svc.BasePrice.Mul(decimal.NewFromInt(int64(quantity)))), nil

	case catalogdomain.ServiceTypeVariable:
		items, err := ParseExtras(extras)
		if err != nil {
			return decimal.Zero, err
		}
		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.Price)
		}
		return money.Quantize(total), nil

	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownServiceType, svc.ServiceType)
	}
}

// ParseExtras decodes the extras payload for a variable service. The payload
// is either a JSON array of item objects or that same array serialized as a
// JSON string (clients that double-encode); both forms are accepted. An
// absent or null payload is rejected, variable services always carry items.
func ParseExtras(raw json.RawMessage) ([]ExtraItem, error) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrInvalidExtras
	}

	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return nil, ErrMalformedExtras
		}
		data = bytes.TrimSpace([]byte(text))
		if len(data) == 0 {
			return nil, ErrMalformedExtras
		}
		if bytes.Equal(data, []byte("null")) {
			return nil, ErrInvalidExtras
		}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		if json.Valid(data) {
			return nil, ErrInvalidExtras
		}
		return nil, ErrMalformedExtras
	}

	items := make([]ExtraItem, 0, len(elems))
	for _, el := range elems {
		el = bytes.TrimSpace(el)
		if len(el) == 0 || el[0] != '{' {
			return nil, ErrInvalidExtraItem
		}
		var item ExtraItem
		if err := json.Unmarshal(el, &item); err != nil {
			return nil, ErrInvalidExtraItem
		}
		items = append(items, item)
	}
	return items, nil
}
