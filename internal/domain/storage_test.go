package domain

import (
	"reflect"
	"testing"
)

func TestStoragePricingFollowsOccupancy(t *testing.T) {
	storage, err := NewUniformStorage(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Empty slot prices at the band maximum.
	if got := storage.Price(Wood); got != 10 {
		t.Fatalf("empty slot price = %d, want 10", got)
	}

	// Half full sits mid-band.
	storage.AddResource(Wood, 5)
	if got := storage.Price(Wood); got != 6 {
		t.Fatalf("half-full slot price = %d, want 6", got)
	}

	// Full slot prices at the band minimum.
	storage.AddResource(Wood, 5)
	if got := storage.Price(Wood); got != 2 {
		t.Fatalf("full slot price = %d, want 2", got)
	}
	if !storage.IsFull(Wood) {
		t.Fatal("expected slot to be full")
	}
}

func TestStorageAddRejectsOverflow(t *testing.T) {
	storage, err := NewUniformStorage(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	storage.AddResource(Wood, 4)

	before := storage.Slots()
	storage.AddResource(Wood, 7)

	if !reflect.DeepEqual(before, storage.Slots()) {
		t.Fatalf("overflowing add mutated storage: %+v", storage.Slots())
	}
}

func TestStorageRemoveRejectsUncovered(t *testing.T) {
	storage, err := NewUniformStorage(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	storage.AddResource(Iron, 3)

	before := storage.Slots()
	storage.RemoveResource(Iron, 4)

	if !reflect.DeepEqual(before, storage.Slots()) {
		t.Fatalf("uncovered remove mutated storage: %+v", storage.Slots())
	}
}

func TestStorageIgnoresNonPositiveCounts(t *testing.T) {
	storage, err := NewUniformStorage(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	storage.AddResource(Wood, 5)

	before := storage.Slots()
	storage.AddResource(Wood, 0)
	storage.AddResource(Wood, -2)
	storage.RemoveResource(Wood, 0)
	storage.RemoveResource(Wood, -2)

	if !reflect.DeepEqual(before, storage.Slots()) {
		t.Fatalf("non-positive mutation changed storage: %+v", storage.Slots())
	}
}

func TestStorageChangeCapacitiesPrunesEmptied(t *testing.T) {
	storage, err := NewStorage(map[Resource]StorageSlot{
		Wood:  {Count: 2, Capacity: 10},
		Stone: {Count: 0, Capacity: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	storage.ChangeCapacities(map[Resource]int{
		Wood:  10,
		Stone: -5,
	})

	slots := storage.Slots()
	if _, ok := slots[Stone]; ok {
		t.Fatal("expected zero-capacity stone slot to be pruned")
	}
	wood, ok := slots[Wood]
	if !ok {
		t.Fatal("wood slot missing")
	}
	if wood.Capacity != 20 {
		t.Fatalf("wood capacity = %d, want 20", wood.Capacity)
	}
	// 2/20 occupied: price = 2 + round(8 * 0.9) = 9.
	if wood.Price != 9 {
		t.Fatalf("wood price = %d, want 9", wood.Price)
	}
}

func TestStorageSetCapacityReprices(t *testing.T) {
	storage, err := NewStorage(map[Resource]StorageSlot{
		Wood: {Count: 5, Capacity: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	storage.SetCapacity(Wood, 20)
	// 5/20 occupied: price = 2 + round(8 * 0.75) = 8.
	if got := storage.Price(Wood); got != 8 {
		t.Fatalf("price after capacity change = %d, want 8", got)
	}

	storage.SetCapacity(Wood, 0)
	if _, ok := storage.Slots()[Wood]; ok {
		t.Fatal("expected slot to be pruned at zero capacity")
	}
}

func TestStorageClearKeepsCapacities(t *testing.T) {
	storage, err := NewUniformStorage(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	storage.AddResource(Wood, 7)
	storage.AddResource(Coal, 2)

	storage.Clear()

	for _, resource := range KnownResources() {
		if got := storage.Count(resource); got != 0 {
			t.Errorf("%s count after clear = %d, want 0", resource, got)
		}
		if got := storage.RemainingCapacity(resource); got != 10 {
			t.Errorf("%s remaining capacity after clear = %d, want 10", resource, got)
		}
	}
	if got := storage.Price(Wood); got != 10 {
		t.Fatalf("price after clear = %d, want band max 10", got)
	}
}

func TestStorageCopyIsIndependent(t *testing.T) {
	storage, err := NewUniformStorage(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	storage.AddResource(Wood, 3)

	snapshot := storage.Copy()
	storage.AddResource(Wood, 4)

	if got := snapshot.Count(Wood); got != 3 {
		t.Fatalf("snapshot count = %d, want 3", got)
	}
	if got := storage.Count(Wood); got != 7 {
		t.Fatalf("original count = %d, want 7", got)
	}
}

func TestNewStorageRejectsNegativeValues(t *testing.T) {
	cases := []struct {
		name string
		slot StorageSlot
	}{
		{"negative count", StorageSlot{Count: -1, Capacity: 10}},
		{"negative capacity", StorageSlot{Count: 0, Capacity: -10}},
		{"negative price", StorageSlot{Count: 0, Capacity: 10, Price: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewStorage(map[Resource]StorageSlot{Wood: tc.slot}); err == nil {
				t.Fatalf("expected construction error for %+v", tc.slot)
			}
		})
	}
}

func TestNewUniformStorageCoversCatalog(t *testing.T) {
	storage, err := NewUniformStorage(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slots := storage.Slots()
	if len(slots) != len(KnownResources()) {
		t.Fatalf("slot count = %d, want %d", len(slots), len(KnownResources()))
	}
	for _, resource := range KnownResources() {
		slot, ok := slots[resource]
		if !ok {
			t.Fatalf("missing slot for %s", resource)
		}
		if slot.Capacity != 4 || slot.Count != 0 {
			t.Fatalf("%s slot = %+v, want empty capacity 4", resource, slot)
		}
	}
}
