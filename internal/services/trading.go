package services

import (
	"context"
	"log"

	"truck-trading-service/internal/domain"
	"truck-trading-service/internal/platform/obs"
	"truck-trading-service/internal/ports"
)

// txPhase tracks how far a pending transaction progressed, so compensation
// knows which side effects exist when a later step fails.
type txPhase string

const (
	phaseFitCheck  txPhase = "FIT_CHECK"
	phaseDepotSold txPhase = "DEPOT_SOLD"
	phaseDebited   txPhase = "DEBITED"
	phaseApplied   txPhase = "APPLIED"
)

// pendingTransaction is the ephemeral saga-scoped record of one buy/sell.
// It exists only for the duration of the call and is never persisted.
type pendingTransaction struct {
	TruckID        string
	DepotID        string
	Resource       domain.Resource
	RequestedCount int
	ActualCount    int
	UnitPrice      int
	Phase          txPhase
}

// TradeOutcome describes a finished trade. Completed is false for every
// best-effort no-op: nothing moved and no event should be emitted.
type TradeOutcome struct {
	Completed  bool
	Resource   domain.Resource
	Count      int
	UnitPrice  int
	TotalPrice int
	NewBalance int
}

// TradingService executes buys and sells as short-lived best-effort
// distributed transactions. No lock is held on the depot between steps; the
// resource transfer happens optimistically and the funds movement gates
// whether the local mutation is ever applied.
type TradingService struct {
	depots   ports.DepotService
	payments ports.PaymentService
}

func NewTradingService(depots ports.DepotService, payments ports.PaymentService) *TradingService {
	return &TradingService{depots: depots, payments: payments}
}

// Buy acquires resource units from a depot for the truck's owner account.
// The caller resolves the truck and holds its lane lock. Every operational
// failure (no local capacity, no depot stock, unreachable depot, payment
// failure) degrades to a no-op outcome with the truck's storage untouched.
func (s *TradingService) Buy(ctx context.Context, truck *domain.Truck, depotID string, resource domain.Resource, count int) TradeOutcome {
	var opErr error
	defer obs.Time(ctx, "trade.buy")(&opErr)

	tx := pendingTransaction{
		TruckID:        truck.ID,
		DepotID:        depotID,
		Resource:       resource,
		RequestedCount: count,
		Phase:          phaseFitCheck,
	}

	fitCount := count
	if remaining := truck.Storage.RemainingCapacity(resource); remaining < fitCount {
		fitCount = remaining
	}
	if fitCount <= 0 {
		log.Printf("op=buy truck=%s depot=%s resource=%s result=no_capacity", truck.ID, depotID, resource)
		return TradeOutcome{}
	}

	available, err := s.depots.GetAvailable(ctx, depotID, resource)
	if err != nil {
		opErr = err
		log.Printf("op=buy truck=%s depot=%s resource=%s result=depot_unreachable err=%v", truck.ID, depotID, resource, err)
		return TradeOutcome{}
	}

	// The buy proceeds at the full fit count or not at all: when the depot
	// cannot cover it there is no partial retry at a smaller count.
	transferCount := fitCount
	if available < fitCount {
		transferCount = 0
	}
	if transferCount <= 0 {
		log.Printf("op=buy truck=%s depot=%s resource=%s result=no_stock", truck.ID, depotID, resource)
		return TradeOutcome{}
	}

	sold, err := s.depots.Sell(ctx, depotID, resource, transferCount)
	if err != nil {
		opErr = err
		log.Printf("op=buy truck=%s depot=%s resource=%s result=depot_sell_failed err=%v", truck.ID, depotID, resource, err)
		return TradeOutcome{}
	}
	tx.Phase = phaseDepotSold
	tx.ActualCount = sold.SoldCount
	tx.UnitPrice = sold.UnitPrice

	totalPrice := sold.UnitPrice * sold.SoldCount

	balance, err := s.payments.GetBalance(ctx, truck.OwnerID)
	if err != nil || balance < totalPrice {
		opErr = err
		s.compensate(ctx, &tx)
		log.Printf("op=buy truck=%s depot=%s resource=%s result=insufficient_funds balance_err=%v", truck.ID, depotID, resource, err)
		return TradeOutcome{}
	}

	newBalance, err := s.payments.Transfer(ctx, truck.OwnerID, -totalPrice)
	if err != nil {
		opErr = err
		s.compensate(ctx, &tx)
		log.Printf("op=buy truck=%s depot=%s resource=%s result=debit_failed err=%v", truck.ID, depotID, resource, err)
		return TradeOutcome{}
	}
	tx.Phase = phaseDebited

	truck.Storage.AddResource(resource, sold.SoldCount)
	tx.Phase = phaseApplied

	return TradeOutcome{
		Completed:  true,
		Resource:   resource,
		Count:      sold.SoldCount,
		UnitPrice:  sold.UnitPrice,
		TotalPrice: totalPrice,
		NewBalance: newBalance,
	}
}

// Sell is the mirror image: the reversible local removal happens first, the
// depot purchase second. A depot rejection restores the local units before
// returning, so the truck's storage always matches whether payment landed.
func (s *TradingService) Sell(ctx context.Context, truck *domain.Truck, depotID string, resource domain.Resource, count int) TradeOutcome {
	var opErr error
	defer obs.Time(ctx, "trade.sell")(&opErr)

	// Like the buy side, the sale covers the full requested count or none.
	transferCount := count
	if held := truck.Storage.Count(resource); held < count {
		transferCount = 0
	}
	if transferCount <= 0 {
		log.Printf("op=sell truck=%s depot=%s resource=%s result=no_stock", truck.ID, depotID, resource)
		return TradeOutcome{}
	}

	truck.Storage.RemoveResource(resource, transferCount)

	bought, err := s.depots.Buy(ctx, depotID, resource, transferCount)
	if err != nil {
		opErr = err
		truck.Storage.AddResource(resource, transferCount)
		log.Printf("op=sell truck=%s depot=%s resource=%s result=depot_buy_failed err=%v", truck.ID, depotID, resource, err)
		return TradeOutcome{}
	}
	// The depot may accept fewer units than offered; the remainder goes
	// back into the truck.
	if bought.BoughtCount < transferCount {
		truck.Storage.AddResource(resource, transferCount-bought.BoughtCount)
	}
	if bought.BoughtCount <= 0 {
		log.Printf("op=sell truck=%s depot=%s resource=%s result=depot_full", truck.ID, depotID, resource)
		return TradeOutcome{}
	}

	totalPrice := bought.UnitPrice * bought.BoughtCount

	newBalance, err := s.payments.Transfer(ctx, truck.OwnerID, totalPrice)
	if err != nil {
		opErr = err
		// The depot already holds the units. The missed payout is a known,
		// accepted inconsistency window in this best-effort protocol.
		log.Printf("op=sell truck=%s depot=%s resource=%s result=payout_failed count=%d err=%v", truck.ID, depotID, resource, bought.BoughtCount, err)
		return TradeOutcome{}
	}

	return TradeOutcome{
		Completed:  true,
		Resource:   resource,
		Count:      bought.BoughtCount,
		UnitPrice:  bought.UnitPrice,
		TotalPrice: totalPrice,
		NewBalance: newBalance,
	}
}

// compensate undoes the depot-side sale after a failed payment. The credit
// is best-effort: if it fails too, the depot-side reduction stays as a
// transient inconsistency and is logged rather than hidden.
func (s *TradingService) compensate(ctx context.Context, tx *pendingTransaction) {
	if tx.Phase != phaseDepotSold {
		return
	}
	if err := s.depots.Credit(ctx, tx.DepotID, tx.Resource, tx.ActualCount); err != nil {
		log.Printf("op=buy truck=%s depot=%s resource=%s result=compensation_failed count=%d err=%v",
			tx.TruckID, tx.DepotID, tx.Resource, tx.ActualCount, err)
	}
}
