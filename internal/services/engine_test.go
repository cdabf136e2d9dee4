package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"truck-trading-service/internal/adapters/remote"
	"truck-trading-service/internal/domain"
	"truck-trading-service/internal/protocol"
)

type engineFixture struct {
	engine   *Engine
	clock    *domain.Clock
	depots   *remote.MockDepotService
	payments *remote.MockPaymentService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	world := remote.NewMockWorldService(
		[]string{"CITY_A", "CITY_B"},
		[]remote.MockDistance{{From: "CITY_A", To: "CITY_B", Distance: 10}},
	)
	depots := newTestDepot(t, 20, 50)
	payments := remote.NewMockPaymentService(map[string]int{"owner-1": 100})

	clock := domain.NewClock(0)
	registry := NewSessionRegistry()
	nav := NewNavigationService(world, clock)
	trading := NewTradingService(depots, payments)

	return &engineFixture{
		engine:   NewEngine(registry, nav, trading, clock, nil),
		clock:    clock,
		depots:   depots,
		payments: payments,
	}
}

func (f *engineFixture) registerTruck(t *testing.T, id string, speed float64) *domain.Truck {
	t.Helper()
	truck := newTestTruck(t, id, 10, speed)
	if err := f.engine.RegisterTruck(context.Background(), truck, "CITY_A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return truck
}

func TestConnectViewerReplaysFleet(t *testing.T) {
	f := newEngineFixture(t)
	f.registerTruck(t, "truck-b", 1)
	f.registerTruck(t, "truck-a", 1)

	viewer := &fakeSession{id: "viewer"}
	f.engine.ConnectViewer(viewer)

	frames := viewer.received()
	if len(frames) != 2 {
		t.Fatalf("replayed %d frames, want 2", len(frames))
	}

	// Snapshots arrive in stable truck id order.
	var ids []string
	for _, raw := range frames {
		var ev protocol.TruckAdded
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("undecodable frame %q: %v", raw, err)
		}
		if ev.Type != protocol.TypeTruckAdded {
			t.Fatalf("frame type = %q, want %q", ev.Type, protocol.TypeTruckAdded)
		}
		if ev.CityID != "CITY_A" {
			t.Fatalf("city = %q, want CITY_A", ev.CityID)
		}
		ids = append(ids, ev.TruckID)
	}
	if ids[0] != "truck-a" || ids[1] != "truck-b" {
		t.Fatalf("replay order = %v, want [truck-a truck-b]", ids)
	}
}

func TestRegisterTruckValidation(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	if err := f.engine.RegisterTruck(ctx, nil, "CITY_A"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("nil truck: err = %v, want ErrInvalidOperation", err)
	}

	truck := newTestTruck(t, "truck-1", 10, 1)
	if err := f.engine.RegisterTruck(ctx, truck, ""); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("empty city: err = %v, want ErrInvalidOperation", err)
	}
	if err := f.engine.RegisterTruck(ctx, truck, "CITY_A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.engine.RegisterTruck(ctx, truck, "CITY_A"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("duplicate: err = %v, want ErrInvalidOperation", err)
	}
}

func TestTravelLifecycle(t *testing.T) {
	f := newEngineFixture(t)
	f.registerTruck(t, "truck-1", 5)

	viewer := &fakeSession{id: "viewer"}
	f.engine.ConnectViewer(viewer)

	// distance 10 at speed 5 takes 2 ticks.
	if err := f.engine.Travel(context.Background(), "truck-1", "CITY_B"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.engine.Tick()
	if nav, _ := f.engine.Navigation("truck-1"); !nav.Transiting() {
		t.Fatal("truck arrived a tick early")
	}

	f.engine.Tick()
	nav, ok := f.engine.Navigation("truck-1")
	if !ok || nav.Transiting() || nav.CurrentCityID != "CITY_B" {
		t.Fatalf("post-arrival navigation = %+v, want stationed at CITY_B", nav)
	}

	types := viewer.eventTypes(t)
	want := []string{protocol.TypeTruckAdded, protocol.TypeTravelStarted, protocol.TypeTravelCompleted}
	if len(types) != len(want) {
		t.Fatalf("event types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("event types = %v, want %v", types, want)
		}
	}
}

func TestTravelUnknownTruckFails(t *testing.T) {
	f := newEngineFixture(t)
	if err := f.engine.Travel(context.Background(), "truck-ghost", "CITY_B"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("err = %v, want ErrInvalidOperation", err)
	}
}

func TestBuyEmitsPurchaseCompleted(t *testing.T) {
	f := newEngineFixture(t)
	truck := f.registerTruck(t, "truck-1", 1)

	viewer := &fakeSession{id: "viewer"}
	f.engine.ConnectViewer(viewer)

	f.engine.Buy(context.Background(), "truck-1", "depot-1", domain.Wood, 5)

	if got := truck.Storage.Count(domain.Wood); got != 5 {
		t.Fatalf("truck wood = %d, want 5", got)
	}

	frames := viewer.received()
	last := frames[len(frames)-1]
	var ev protocol.PurchaseCompleted
	if err := json.Unmarshal(last, &ev); err != nil {
		t.Fatalf("undecodable frame %q: %v", last, err)
	}
	if ev.Type != protocol.TypePurchaseCompleted || ev.Count != 5 || ev.Resource != "WOOD" {
		t.Fatalf("event = %+v, want 5 WOOD purchased", ev)
	}
	if ev.MessageID == "" {
		t.Fatal("event has no message id")
	}
}

func TestBuyUnknownTruckIsSilent(t *testing.T) {
	f := newEngineFixture(t)

	viewer := &fakeSession{id: "viewer"}
	f.engine.ConnectViewer(viewer)

	f.engine.Buy(context.Background(), "truck-ghost", "depot-1", domain.Wood, 5)

	if got := len(viewer.received()); got != 0 {
		t.Fatalf("silent abort emitted %d frames, want 0", got)
	}
	if got := f.depots.DepotStorage("depot-1").Count(domain.Wood); got != 20 {
		t.Fatalf("depot wood = %d, want 20", got)
	}
}

func TestSellEmitsSaleCompleted(t *testing.T) {
	f := newEngineFixture(t)
	truck := f.registerTruck(t, "truck-1", 1)
	truck.Storage.AddResource(domain.Wood, 5)

	viewer := &fakeSession{id: "viewer"}
	f.engine.ConnectViewer(viewer)

	f.engine.Sell(context.Background(), "truck-1", "depot-1", domain.Wood, 5)

	if got := truck.Storage.Count(domain.Wood); got != 0 {
		t.Fatalf("truck wood = %d, want 0", got)
	}

	frames := viewer.received()
	last := frames[len(frames)-1]
	var ev protocol.SaleCompleted
	if err := json.Unmarshal(last, &ev); err != nil {
		t.Fatalf("undecodable frame %q: %v", last, err)
	}
	if ev.Type != protocol.TypeSaleCompleted || ev.Count != 5 {
		t.Fatalf("event = %+v, want 5 units sold", ev)
	}
}

func TestDiscardContentsClearsStorage(t *testing.T) {
	f := newEngineFixture(t)
	truck := f.registerTruck(t, "truck-1", 1)
	truck.Storage.AddResource(domain.Wood, 4)
	truck.Storage.AddResource(domain.Coal, 2)

	viewer := &fakeSession{id: "viewer"}
	f.engine.ConnectViewer(viewer)

	if err := f.engine.DiscardContents(context.Background(), "truck-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := truck.Storage.Count(domain.Wood); got != 0 {
		t.Fatalf("truck wood = %d, want 0", got)
	}
	if got := truck.Storage.Count(domain.Coal); got != 0 {
		t.Fatalf("truck coal = %d, want 0", got)
	}

	frames := viewer.received()
	last := frames[len(frames)-1]
	var ev protocol.StorageCleared
	if err := json.Unmarshal(last, &ev); err != nil {
		t.Fatalf("undecodable frame %q: %v", last, err)
	}
	if ev.Type != protocol.TypeStorageCleared || ev.TruckID != "truck-1" {
		t.Fatalf("event = %+v, want storage cleared for truck-1", ev)
	}
	for _, slot := range ev.Slots {
		if slot.Count != 0 {
			t.Fatalf("cleared slot still holds units: %+v", slot)
		}
	}

	if err := f.engine.DiscardContents(context.Background(), "truck-ghost"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("unknown truck: err = %v, want ErrInvalidOperation", err)
	}
}

func TestRemoveTruckDropsNavigation(t *testing.T) {
	f := newEngineFixture(t)
	f.registerTruck(t, "truck-1", 1)

	if err := f.engine.RemoveTruck("truck-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.engine.Truck("truck-1"); ok {
		t.Fatal("truck still registered")
	}
	if _, ok := f.engine.Navigation("truck-1"); ok {
		t.Fatal("navigation record still present")
	}
	if err := f.engine.RemoveTruck("truck-1"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("double remove: err = %v, want ErrInvalidOperation", err)
	}
}

func TestTrucksSortedSnapshot(t *testing.T) {
	f := newEngineFixture(t)
	f.registerTruck(t, "truck-c", 1)
	f.registerTruck(t, "truck-a", 1)
	f.registerTruck(t, "truck-b", 1)

	trucks := f.engine.Trucks()
	if len(trucks) != 3 {
		t.Fatalf("len = %d, want 3", len(trucks))
	}
	for i, want := range []string{"truck-a", "truck-b", "truck-c"} {
		if trucks[i].ID != want {
			t.Fatalf("trucks[%d].ID = %q, want %q", i, trucks[i].ID, want)
		}
	}
}
