package domain

import "context"

// PaymentGateway creates hosted-checkout preferences and reads back payment
// state. CreatePreference returns the redirect URL and fills the order's
// preference id.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, o *Order) (string, error)
	PaymentInfo(ctx context.Context, paymentID string) (status, externalRef string, err error)
}
