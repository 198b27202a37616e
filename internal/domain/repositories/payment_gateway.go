package repositories

import (
	"context"

	"collabriss.backend/internal/domain/entities"
)

// PaymentGateway looks up charges at the payment provider.
type PaymentGateway interface {
	VerifyTransaction(ctx context.Context, transactionID string) (*entities.GatewayTransaction, error)
}
