package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/duetags/duetags/internal/domain"
)

type PaymentUC struct {
	Orders  domain.OrderRepo
	Gateway domain.PaymentGateway
}

// Checkout creates the hosted-checkout preference for an order and moves it
// to awaiting_payment. The redirect URL is returned for the client.
func (uc *PaymentUC) Checkout(ctx context.Context, orderID uuid.UUID) (string, *domain.Order, error) {
	o, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return "", nil, err
	}
	switch o.Status {
	case domain.OrderStatusPending, domain.OrderStatusAwaitingPay:
	default:
		return "", nil, fmt.Errorf("%w: pedido %s não aceita pagamento", domain.ErrInvalid, o.Status)
	}
	url, err := uc.Gateway.CreatePreference(ctx, o)
	if err != nil {
		return "", nil, err
	}
	o.Status = domain.OrderStatusAwaitingPay
	if err := uc.Orders.Save(ctx, o); err != nil {
		return "", nil, err
	}
	return url, o, nil
}
