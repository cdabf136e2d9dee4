package ports

import (
	"context"

	"truck-trading-service/internal/domain"
)

// SellResult reports a depot-side sale: how many units the depot released
// and the unit price after the sale (prices reflect post-sale occupancy).
type SellResult struct {
	SoldCount int
	UnitPrice int
}

// BuyResult reports a depot-side purchase: how many units the depot
// accepted and the unit price after the purchase.
type BuyResult struct {
	BoughtCount int
	UnitPrice   int
}

// DepotService is the contract to the remote storage-owning depot service.
// Sell and Buy commit remote side effects immediately; there is no
// reservation protocol. Unknown depot ids fail with ErrNotFound.
type DepotService interface {
	// GetAvailable returns how many units of the resource the depot holds.
	GetAvailable(ctx context.Context, depotID string, resource domain.Resource) (int, error)
	// Sell takes count units out of the depot (the depot sells to a truck).
	Sell(ctx context.Context, depotID string, resource domain.Resource, count int) (SellResult, error)
	// Buy puts count units into the depot (the depot buys from a truck).
	Buy(ctx context.Context, depotID string, resource domain.Resource, count int) (BuyResult, error)
	// Credit returns previously sold units to the depot. Used as saga
	// compensation; best-effort.
	Credit(ctx context.Context, depotID string, resource domain.Resource, count int) error
}
