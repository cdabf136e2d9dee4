package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"truck-trading-service/internal/domain"
	"truck-trading-service/internal/platform/locks"
	"truck-trading-service/internal/platform/obs"
	"truck-trading-service/internal/ports"
	"truck-trading-service/internal/protocol"
)

// Engine is the service facade composing storage, navigation, trading and
// the session registry. Commands targeting the same truck serialize on a
// per-truck lock; commands for different trucks run in parallel. Every
// state-visible change is broadcast to all connected viewers.
type Engine struct {
	registry *SessionRegistry
	nav      *NavigationService
	trading  *TradingService
	clock    *domain.Clock
	journal  ports.EventJournal
	lanes    *locks.Keyed

	mu     sync.RWMutex
	trucks map[string]*domain.Truck
}

func NewEngine(registry *SessionRegistry, nav *NavigationService, trading *TradingService, clock *domain.Clock, journal ports.EventJournal) *Engine {
	return &Engine{
		registry: registry,
		nav:      nav,
		trading:  trading,
		clock:    clock,
		journal:  journal,
		lanes:    locks.NewKeyed(),
		trucks:   make(map[string]*domain.Truck),
	}
}

// RegisterTruck adds a truck stationed at the given city and broadcasts its
// snapshot. Nil trucks, missing ids or storages, empty city ids and
// duplicate registrations are validation faults.
func (e *Engine) RegisterTruck(ctx context.Context, truck *domain.Truck, cityID string) error {
	if err := truck.Validate(); err != nil {
		return fmt.Errorf("register truck: %v: %w", err, ErrInvalidOperation)
	}
	if cityID == "" {
		return fmt.Errorf("register truck %q: city id is empty: %w", truck.ID, ErrInvalidOperation)
	}

	e.mu.Lock()
	if _, ok := e.trucks[truck.ID]; ok {
		e.mu.Unlock()
		return fmt.Errorf("register truck %q: already registered: %w", truck.ID, ErrInvalidOperation)
	}
	e.trucks[truck.ID] = truck
	e.mu.Unlock()

	if err := e.nav.Register(truck.ID, cityID); err != nil {
		e.mu.Lock()
		delete(e.trucks, truck.ID)
		e.mu.Unlock()
		return fmt.Errorf("register truck %q: %w", truck.ID, err)
	}

	e.emit(e.truckAddedEvent(truck, cityID))
	return nil
}

// RemoveTruck deletes a truck together with its navigation state.
func (e *Engine) RemoveTruck(truckID string) error {
	unlock := e.lanes.Lock(truckID)
	defer unlock()

	e.mu.Lock()
	_, ok := e.trucks[truckID]
	delete(e.trucks, truckID)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("remove truck: unknown truck %q: %w", truckID, ErrInvalidOperation)
	}
	e.nav.Deregister(truckID)
	return nil
}

// ConnectViewer registers the session and replays one TruckAdded snapshot
// per known truck, so late-joining viewers converge without polling.
func (e *Engine) ConnectViewer(s Session) {
	e.registry.Add(s)

	e.mu.RLock()
	trucks := make([]*domain.Truck, 0, len(e.trucks))
	for _, t := range e.trucks {
		trucks = append(trucks, t)
	}
	e.mu.RUnlock()
	sort.Slice(trucks, func(i, j int) bool { return trucks[i].ID < trucks[j].ID })

	for _, t := range trucks {
		cityID := ""
		if nav, ok := e.nav.Navigation(t.ID); ok {
			cityID = nav.CurrentCityID
		}
		e.registry.SendTo(s, e.truckAddedEvent(t, cityID))
	}
}

// DisconnectViewer removes the session from the registry.
func (e *Engine) DisconnectViewer(sessionID string) {
	e.registry.Remove(sessionID)
}

// Travel starts a truck towards a destination city.
func (e *Engine) Travel(ctx context.Context, truckID, destinationCityID string) (err error) {
	ctx = context.WithValue(ctx, obs.TruckIDKey, truckID)
	defer obs.Time(ctx, "engine.travel")(&err)

	unlock := e.lanes.Lock(truckID)
	defer unlock()

	truck, ok := e.truck(truckID)
	if !ok {
		return fmt.Errorf("travel: unknown truck %q: %w", truckID, ErrInvalidOperation)
	}

	nav, err := e.nav.Travel(ctx, truck, destinationCityID)
	if err != nil {
		return err
	}

	e.emit(protocol.TravelStarted{
		Type:          protocol.TypeTravelStarted,
		MessageID:     protocol.NewMessageID(),
		TruckID:       truckID,
		FromCityID:    nav.CurrentCityID,
		ToCityID:      nav.NextCityID,
		DepartureTick: nav.DepartureTick,
		ArrivalTick:   nav.ArrivalTick,
	})
	return nil
}

// Buy runs the purchase saga. An unknown truck aborts silently: a stale
// reference in the shared command stream must not crash it.
func (e *Engine) Buy(ctx context.Context, truckID, depotID string, resource domain.Resource, count int) {
	ctx = context.WithValue(ctx, obs.TruckIDKey, truckID)

	unlock := e.lanes.Lock(truckID)
	defer unlock()

	truck, ok := e.truck(truckID)
	if !ok {
		log.Printf("op=buy truck=%s result=unknown_truck", truckID)
		return
	}

	outcome := e.trading.Buy(ctx, truck, depotID, resource, count)
	if !outcome.Completed {
		return
	}

	e.emit(protocol.PurchaseCompleted{
		Type:       protocol.TypePurchaseCompleted,
		MessageID:  protocol.NewMessageID(),
		TruckID:    truckID,
		DepotID:    depotID,
		Resource:   string(outcome.Resource),
		Count:      outcome.Count,
		UnitPrice:  outcome.UnitPrice,
		TotalPrice: outcome.TotalPrice,
		NewBalance: outcome.NewBalance,
	})
}

// Sell runs the sale saga; unknown trucks abort silently like Buy.
func (e *Engine) Sell(ctx context.Context, truckID, depotID string, resource domain.Resource, count int) {
	ctx = context.WithValue(ctx, obs.TruckIDKey, truckID)

	unlock := e.lanes.Lock(truckID)
	defer unlock()

	truck, ok := e.truck(truckID)
	if !ok {
		log.Printf("op=sell truck=%s result=unknown_truck", truckID)
		return
	}

	outcome := e.trading.Sell(ctx, truck, depotID, resource, count)
	if !outcome.Completed {
		return
	}

	e.emit(protocol.SaleCompleted{
		Type:       protocol.TypeSaleCompleted,
		MessageID:  protocol.NewMessageID(),
		TruckID:    truckID,
		DepotID:    depotID,
		Resource:   string(outcome.Resource),
		Count:      outcome.Count,
		UnitPrice:  outcome.UnitPrice,
		TotalPrice: outcome.TotalPrice,
		NewBalance: outcome.NewBalance,
	})
}

// DiscardContents empties the truck's storage and broadcasts the new state.
func (e *Engine) DiscardContents(ctx context.Context, truckID string) error {
	unlock := e.lanes.Lock(truckID)
	defer unlock()

	truck, ok := e.truck(truckID)
	if !ok {
		return fmt.Errorf("discard contents: unknown truck %q: %w", truckID, ErrInvalidOperation)
	}

	truck.Storage.Clear()

	e.emit(protocol.StorageCleared{
		Type:      protocol.TypeStorageCleared,
		MessageID: protocol.NewMessageID(),
		TruckID:   truckID,
		Slots:     slotViews(truck.Storage),
	})
	return nil
}

// Truck returns the registered truck for post-state inspection.
func (e *Engine) Truck(truckID string) (*domain.Truck, bool) {
	return e.truck(truckID)
}

// Navigation returns the truck's navigation record.
func (e *Engine) Navigation(truckID string) (domain.TruckNavigation, bool) {
	return e.nav.Navigation(truckID)
}

// Trucks returns all registered trucks sorted by id.
func (e *Engine) Trucks() []*domain.Truck {
	e.mu.RLock()
	trucks := make([]*domain.Truck, 0, len(e.trucks))
	for _, t := range e.trucks {
		trucks = append(trucks, t)
	}
	e.mu.RUnlock()
	sort.Slice(trucks, func(i, j int) bool { return trucks[i].ID < trucks[j].ID })
	return trucks
}

// Now reports the current tick.
func (e *Engine) Now() int64 {
	return e.clock.Now()
}

// Tick advances the clock one step and completes every due arrival under
// its truck's lane lock, emitting the terminal event exactly once.
func (e *Engine) Tick() {
	now := e.clock.Advance()
	for _, truckID := range e.nav.Due(now) {
		unlock := e.lanes.Lock(truckID)
		nav, arrived := e.nav.CompleteArrival(truckID, now)
		unlock()
		if !arrived {
			continue
		}
		e.emit(protocol.TravelCompleted{
			Type:      protocol.TypeTravelCompleted,
			MessageID: protocol.NewMessageID(),
			TruckID:   truckID,
			CityID:    nav.CurrentCityID,
			Tick:      now,
		})
	}
}

// Run drives the clock at the given tick interval until the context ends.
func (e *Engine) Run(ctx context.Context, tickInterval time.Duration) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

func (e *Engine) truck(truckID string) (*domain.Truck, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.trucks[truckID]
	return t, ok
}

// emit broadcasts the event and appends it to the journal when configured.
func (e *Engine) emit(event any) {
	if e.journal != nil {
		if err := e.journal.Append(event); err != nil {
			log.Printf("engine: journal append failed: %v", err)
		}
	}
	e.registry.Broadcast(event)
}

func (e *Engine) truckAddedEvent(truck *domain.Truck, cityID string) protocol.TruckAdded {
	return protocol.TruckAdded{
		Type:      protocol.TypeTruckAdded,
		MessageID: protocol.NewMessageID(),
		TruckID:   truck.ID,
		CityID:    cityID,
		Speed:     truck.Speed,
		Slots:     slotViews(truck.Storage),
	}
}

// slotViews renders storage slots in a stable order for events.
func slotViews(storage *domain.Storage) []protocol.SlotView {
	slots := storage.Slots()
	views := make([]protocol.SlotView, 0, len(slots))
	for resource, slot := range slots {
		views = append(views, protocol.SlotView{
			Resource: string(resource),
			Count:    slot.Count,
			Capacity: slot.Capacity,
			Price:    slot.Price,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Resource < views[j].Resource })
	return views
}
