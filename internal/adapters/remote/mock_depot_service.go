package remote

import (
	"context"
	"fmt"
	"sync"

	"truck-trading-service/internal/domain"
	"truck-trading-service/internal/ports"
)

// MockDepotService runs depots in memory on the same storage model the
// engine uses, so depot prices move with occupancy exactly like the real
// service. Useful for tests and offline runs.
type MockDepotService struct {
	mu     sync.Mutex
	depots map[string]*domain.Storage

	// FailSell and FailBuy force the next trade calls to fail, simulating
	// an unreachable depot mid-saga.
	FailSell bool
	FailBuy  bool
}

func NewMockDepotService() *MockDepotService {
	return &MockDepotService{depots: make(map[string]*domain.Storage)}
}

// AddDepot registers a depot with its storage.
func (m *MockDepotService) AddDepot(depotID string, storage *domain.Storage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depots[depotID] = storage
}

// DepotStorage exposes a depot's storage for assertions.
func (m *MockDepotService) DepotStorage(depotID string) *domain.Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depots[depotID]
}

func (m *MockDepotService) GetAvailable(ctx context.Context, depotID string, resource domain.Resource) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	storage, ok := m.depots[depotID]
	if !ok {
		return 0, fmt.Errorf("depot %q: %w", depotID, ports.ErrNotFound)
	}
	return storage.Count(resource), nil
}

func (m *MockDepotService) Sell(ctx context.Context, depotID string, resource domain.Resource, count int) (ports.SellResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	storage, ok := m.depots[depotID]
	if !ok {
		return ports.SellResult{}, fmt.Errorf("depot %q: %w", depotID, ports.ErrNotFound)
	}
	if m.FailSell {
		return ports.SellResult{}, fmt.Errorf("depot %q: forced sell failure", depotID)
	}
	sold := count
	if held := storage.Count(resource); held < sold {
		sold = held
	}
	storage.RemoveResource(resource, sold)
	// Unit price reflects post-sale occupancy.
	return ports.SellResult{SoldCount: sold, UnitPrice: storage.Price(resource)}, nil
}

func (m *MockDepotService) Buy(ctx context.Context, depotID string, resource domain.Resource, count int) (ports.BuyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	storage, ok := m.depots[depotID]
	if !ok {
		return ports.BuyResult{}, fmt.Errorf("depot %q: %w", depotID, ports.ErrNotFound)
	}
	if m.FailBuy {
		return ports.BuyResult{}, fmt.Errorf("depot %q: forced buy failure", depotID)
	}
	bought := count
	if remaining := storage.RemainingCapacity(resource); remaining < bought {
		bought = remaining
	}
	storage.AddResource(resource, bought)
	return ports.BuyResult{BoughtCount: bought, UnitPrice: storage.Price(resource)}, nil
}

func (m *MockDepotService) Credit(ctx context.Context, depotID string, resource domain.Resource, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	storage, ok := m.depots[depotID]
	if !ok {
		return fmt.Errorf("depot %q: %w", depotID, ports.ErrNotFound)
	}
	storage.AddResource(resource, count)
	return nil
}
