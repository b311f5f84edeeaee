package ports

import "context"

// OrderInput carries the parameters for creating a payment order.
type OrderInput struct {
	// Amount is in the currency's smallest unit (e.g. paise).
	Amount   int64
	Currency string
	Receipt  string
}

// Order is the gateway's view of a created payment order.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// PaymentGateway is the boundary to the external payment processor.
type PaymentGateway interface {
	// CreateOrder registers a new order with the processor.
	CreateOrder(ctx context.Context, input OrderInput) (*Order, error)
	// VerifySignature reports whether signature is the processor's keyed
	// hash over orderID and paymentID.
	VerifySignature(orderID, paymentID, signature string) bool
}
