package domain

import (
	"fmt"
	"math"
)

// StorageSlot is the per-resource accounting unit inside a Storage:
// how many units are held, how many fit, and the current unit price.
type StorageSlot struct {
	Count    int
	Capacity int
	Price    int
}

// Storage maps resources to slots for a single owner (one truck or one depot).
//
// Mutations are best-effort: an add that does not fit or a remove that is not
// covered leaves the storage untouched instead of failing. Callers that need
// to distinguish "nothing happened" from "succeeded" pre-check with CanFit or
// HasResource. After every mutation all slot prices are recomputed and slots
// whose capacity dropped to zero or below are pruned.
type Storage struct {
	slots map[Resource]StorageSlot
}

// NewStorage builds a storage from initial slots. Negative count, capacity
// or price is a construction fault.
func NewStorage(slots map[Resource]StorageSlot) (*Storage, error) {
	s := &Storage{slots: make(map[Resource]StorageSlot, len(slots))}
	for resource, slot := range slots {
		if slot.Capacity < 0 {
			return nil, fmt.Errorf("new storage: %s: capacity cannot be negative: %d", resource, slot.Capacity)
		}
		if slot.Count < 0 {
			return nil, fmt.Errorf("new storage: %s: count cannot be negative: %d", resource, slot.Count)
		}
		if slot.Price < 0 {
			return nil, fmt.Errorf("new storage: %s: price cannot be negative: %d", resource, slot.Price)
		}
		s.slots[resource] = slot
	}
	s.recalculatePrices()
	return s, nil
}

// NewUniformStorage builds an empty storage with the same capacity for every
// catalog resource. Used for trucks constructed from templates.
func NewUniformStorage(capacity int) (*Storage, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("new uniform storage: capacity cannot be negative: %d", capacity)
	}
	slots := make(map[Resource]StorageSlot)
	for _, resource := range KnownResources() {
		slots[resource] = StorageSlot{Capacity: capacity}
	}
	return NewStorage(slots)
}

// AddResource stores count units. No-op when the units do not fit.
func (s *Storage) AddResource(resource Resource, count int) {
	if count <= 0 || !s.CanFit(resource, count) {
		return
	}
	slot := s.slot(resource)
	slot.Count += count
	s.slots[resource] = slot
	s.recalculatePrices()
}

// RemoveResource takes count units out. No-op when not enough units are held.
func (s *Storage) RemoveResource(resource Resource, count int) {
	if count <= 0 || !s.HasResource(resource, count) {
		return
	}
	slot := s.slot(resource)
	slot.Count -= count
	s.slots[resource] = slot
	s.recalculatePrices()
}

// HasResource reports whether at least count units are held.
func (s *Storage) HasResource(resource Resource, count int) bool {
	slot, ok := s.slots[resource]
	return ok && slot.Count >= count
}

// CanFit reports whether count more units would fit.
func (s *Storage) CanFit(resource Resource, count int) bool {
	return s.RemainingCapacity(resource) >= count
}

// RemainingCapacity returns how many more units of the resource fit.
func (s *Storage) RemainingCapacity(resource Resource) int {
	slot := s.slots[resource]
	return slot.Capacity - slot.Count
}

// Count returns the number of units currently held.
func (s *Storage) Count(resource Resource) int {
	return s.slots[resource].Count
}

// Price returns the current unit price for the resource's slot.
func (s *Storage) Price(resource Resource) int {
	return s.slots[resource].Price
}

// IsFull reports whether the slot has no remaining capacity.
func (s *Storage) IsFull(resource Resource) bool {
	return s.RemainingCapacity(resource) == 0
}

// SetCapacity replaces the slot capacity, recomputes prices and prunes.
func (s *Storage) SetCapacity(resource Resource, capacity int) {
	slot := s.slot(resource)
	slot.Capacity = capacity
	s.slots[resource] = slot
	s.recalculatePrices()
}

// ChangeCapacities applies a batch of capacity deltas with a single price
// recompute pass after all deltas, then prunes.
func (s *Storage) ChangeCapacities(changes map[Resource]int) {
	for resource, change := range changes {
		slot := s.slot(resource)
		slot.Capacity += change
		s.slots[resource] = slot
	}
	s.recalculatePrices()
}

// Clear removes all held units, keeping capacities.
func (s *Storage) Clear() {
	for resource, slot := range s.slots {
		slot.Count = 0
		s.slots[resource] = slot
	}
	s.recalculatePrices()
}

// Copy produces an independent deep snapshot of the storage.
func (s *Storage) Copy() *Storage {
	slots := make(map[Resource]StorageSlot, len(s.slots))
	for resource, slot := range s.slots {
		slots[resource] = slot
	}
	return &Storage{slots: slots}
}

// Slots returns a copy of the slot table for read-only inspection.
func (s *Storage) Slots() map[Resource]StorageSlot {
	slots := make(map[Resource]StorageSlot, len(s.slots))
	for resource, slot := range s.slots {
		slots[resource] = slot
	}
	return slots
}

// slot returns the slot for the resource, creating a zero slot if absent.
func (s *Storage) slot(resource Resource) StorageSlot {
	slot, ok := s.slots[resource]
	if !ok {
		slot = StorageSlot{}
		s.slots[resource] = slot
	}
	return slot
}

// recalculatePrices reprices every slot with capacity from its occupancy:
// the emptier the slot, the closer the price sits to the band maximum.
// Slots whose capacity dropped to zero or below are pruned afterwards.
func (s *Storage) recalculatePrices() {
	for resource, slot := range s.slots {
		if slot.Capacity <= 0 {
			continue
		}
		band := resource.Band()
		percentFree := 1 - float64(slot.Count)/float64(slot.Capacity)
		slot.Price = band.MinPrice + int(math.Round(float64(band.MaxPrice-band.MinPrice)*percentFree))
		s.slots[resource] = slot
	}
	s.prune()
}

func (s *Storage) prune() {
	for resource, slot := range s.slots {
		if slot.Capacity <= 0 {
			delete(s.slots, resource)
		}
	}
}
