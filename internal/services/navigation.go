package services

import (
	"context"
	"fmt"
	"math"
	"sync"

	"truck-trading-service/internal/domain"
	"truck-trading-service/internal/ports"
)

// NavigationService tracks each registered truck's location against the
// simulation clock. Trucks are Stationed until a travel command moves them
// to Transiting; the tick sweep moves them back when the clock reaches
// their arrival tick.
type NavigationService struct {
	world ports.WorldService
	clock *domain.Clock

	mu   sync.RWMutex
	navs map[string]*domain.TruckNavigation
}

func NewNavigationService(world ports.WorldService, clock *domain.Clock) *NavigationService {
	return &NavigationService{
		world: world,
		clock: clock,
		navs:  make(map[string]*domain.TruckNavigation),
	}
}

// Register places a truck stationed at the given city.
func (s *NavigationService) Register(truckID, cityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.navs[truckID]; ok {
		return fmt.Errorf("navigation: truck %q already registered: %w", truckID, ErrInvalidOperation)
	}
	s.navs[truckID] = &domain.TruckNavigation{TruckID: truckID, CurrentCityID: cityID}
	return nil
}

// Deregister removes the truck's navigation record.
func (s *NavigationService) Deregister(truckID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.navs, truckID)
}

// Navigation returns a copy of the truck's current record.
func (s *NavigationService) Navigation(truckID string) (domain.TruckNavigation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nav, ok := s.navs[truckID]
	if !ok {
		return domain.TruckNavigation{}, false
	}
	return *nav, true
}

// Travel transitions a stationed truck to transiting. Arrival is computed
// from the world distance, the truck's speed and the current tick. Unknown
// truck, unknown destination, travel while transiting and travel to the
// current city are validation faults.
func (s *NavigationService) Travel(ctx context.Context, truck *domain.Truck, destinationCityID string) (domain.TruckNavigation, error) {
	s.mu.RLock()
	nav, ok := s.navs[truck.ID]
	s.mu.RUnlock()
	if !ok {
		return domain.TruckNavigation{}, fmt.Errorf("travel: unknown truck %q: %w", truck.ID, ErrInvalidOperation)
	}
	if nav.Transiting() {
		return domain.TruckNavigation{}, fmt.Errorf("travel: truck %q is already in transit to %q: %w", truck.ID, nav.NextCityID, ErrInvalidOperation)
	}
	if nav.CurrentCityID == destinationCityID {
		return domain.TruckNavigation{}, fmt.Errorf("travel: truck %q is already at %q: %w", truck.ID, destinationCityID, ErrInvalidOperation)
	}

	exists, err := s.world.CityExists(ctx, destinationCityID)
	if err != nil {
		return domain.TruckNavigation{}, fmt.Errorf("travel: check city %q: %w", destinationCityID, err)
	}
	if !exists {
		return domain.TruckNavigation{}, fmt.Errorf("travel: city %q does not exist: %w", destinationCityID, ErrInvalidOperation)
	}

	distance, err := s.world.Distance(ctx, nav.CurrentCityID, destinationCityID)
	if err != nil {
		return domain.TruckNavigation{}, fmt.Errorf("travel: distance %q -> %q: %w", nav.CurrentCityID, destinationCityID, err)
	}

	duration := travelTicks(distance, truck.Speed)
	departure := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	nav = s.navs[truck.ID]
	nav.NextCityID = destinationCityID
	nav.DepartureTick = departure
	nav.ArrivalTick = departure + duration
	return *nav, nil
}

// Due returns the ids of transiting trucks whose arrival tick has been
// reached. The caller completes each arrival under that truck's lock.
func (s *NavigationService) Due(now int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var due []string
	for id, nav := range s.navs {
		if nav.Transiting() && now >= nav.ArrivalTick {
			due = append(due, id)
		}
	}
	return due
}

// CompleteArrival stations a due truck at its destination. It re-checks the
// arrival condition so each arrival is completed exactly once even when
// ticks and commands race.
func (s *NavigationService) CompleteArrival(truckID string, now int64) (domain.TruckNavigation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nav, ok := s.navs[truckID]
	if !ok || !nav.Transiting() || now < nav.ArrivalTick {
		return domain.TruckNavigation{}, false
	}
	nav.CurrentCityID = nav.NextCityID
	nav.NextCityID = ""
	nav.DepartureTick = 0
	nav.ArrivalTick = 0
	return *nav, true
}

// travelTicks converts distance and speed (distance units per tick) into a
// whole number of ticks, never less than one.
func travelTicks(distance, speed float64) int64 {
	ticks := int64(math.Ceil(distance / speed))
	if ticks < 1 {
		ticks = 1
	}
	return ticks
}
