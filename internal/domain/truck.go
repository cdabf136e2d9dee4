package domain

import (
	"errors"
	"fmt"
)

// Truck is a mobile trading agent: an identity, a storage and a speed.
// The id is immutable once assigned and the storage is exclusively owned.
type Truck struct {
	ID       string
	Template string
	OwnerID  string
	Storage  *Storage
	Speed    float64
}

// Validate checks construction invariants. A truck with no id or no storage
// must be rejected at registration, never silently defaulted.
func (t *Truck) Validate() error {
	if t == nil {
		return errors.New("truck is nil")
	}
	if t.ID == "" {
		return errors.New("truck id is empty")
	}
	if t.Storage == nil {
		return fmt.Errorf("truck %s has no storage", t.ID)
	}
	if t.Speed <= 0 {
		return fmt.Errorf("truck %s speed must be positive: %v", t.ID, t.Speed)
	}
	return nil
}

// TruckTemplate is the blueprint a truck is constructed from.
type TruckTemplate struct {
	TemplateID string
	Capacity   int
	Speed      float64
}
