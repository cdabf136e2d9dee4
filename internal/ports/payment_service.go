package ports

import "context"

// PaymentService is the contract to the remote account/balance service.
// Transfer moves a signed amount (negative = debit) and returns the new
// balance. Debits that would overdraw fail with ErrInsufficientFunds;
// unknown accounts fail with ErrNotFound.
type PaymentService interface {
	GetBalance(ctx context.Context, accountID string) (int, error)
	Transfer(ctx context.Context, accountID string, amount int) (int, error)
}
