package remote

import (
	"context"
	"fmt"
	"sync"

	"truck-trading-service/internal/ports"
)

// MockPaymentService keeps account balances in memory. Debits that would
// overdraw fail with ErrInsufficientFunds like the real service.
type MockPaymentService struct {
	mu       sync.Mutex
	balances map[string]int

	// FailTransfer forces transfer calls to fail, simulating an
	// unreachable payment service.
	FailTransfer bool
}

func NewMockPaymentService(balances map[string]int) *MockPaymentService {
	m := &MockPaymentService{balances: make(map[string]int, len(balances))}
	for account, balance := range balances {
		m.balances[account] = balance
	}
	return m
}

func (m *MockPaymentService) GetBalance(ctx context.Context, accountID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[accountID]
	if !ok {
		return 0, fmt.Errorf("account %q: %w", accountID, ports.ErrNotFound)
	}
	return balance, nil
}

func (m *MockPaymentService) Transfer(ctx context.Context, accountID string, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[accountID]
	if !ok {
		return 0, fmt.Errorf("account %q: %w", accountID, ports.ErrNotFound)
	}
	if m.FailTransfer {
		return 0, fmt.Errorf("account %q: forced transfer failure", accountID)
	}
	if balance+amount < 0 {
		return 0, fmt.Errorf("account %q: amount %d: %w", accountID, amount, ports.ErrInsufficientFunds)
	}
	m.balances[accountID] = balance + amount
	return m.balances[accountID], nil
}
