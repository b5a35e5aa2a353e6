package domain

import "context"

// Resolution is the gateway's verdict on a charge attempt. Synchronous
// gateways resolve to completed or failed; asynchronous ones park the
// payment at processing until their callback lands.
type Resolution struct {
	Status       Status
	ProviderRef  string
	ErrorMessage string
}

// GatewayAdapter hides one payment provider behind a uniform charge call.
type GatewayAdapter interface {
	Method() Method
	Charge(ctx context.Context, payment *Payment) (Resolution, error)
}
