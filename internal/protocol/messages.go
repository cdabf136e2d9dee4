package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Client -> server commands.

type TravelRequest struct {
	Type              string `json:"type"`
	TruckID           string `json:"truck_id"`
	DestinationCityID string `json:"destination_city_id"`
}

type BuyResourceRequest struct {
	Type     string `json:"type"`
	TruckID  string `json:"truck_id"`
	DepotID  string `json:"depot_id"`
	Resource string `json:"resource"`
	Count    int    `json:"count"`
}

type SellResourceRequest struct {
	Type     string `json:"type"`
	TruckID  string `json:"truck_id"`
	DepotID  string `json:"depot_id"`
	Resource string `json:"resource"`
	Count    int    `json:"count"`
}

type DumpContentRequest struct {
	Type    string `json:"type"`
	TruckID string `json:"truck_id"`
}

// Server -> client events. Every event carries a unique message id so
// viewers can deduplicate on reconnect.

type SlotView struct {
	Resource string `json:"resource"`
	Count    int    `json:"count"`
	Capacity int    `json:"capacity"`
	Price    int    `json:"price"`
}

type TruckAdded struct {
	Type      string     `json:"type"`
	MessageID string     `json:"message_id"`
	TruckID   string     `json:"truck_id"`
	CityID    string     `json:"city_id"`
	Speed     float64    `json:"speed"`
	Slots     []SlotView `json:"slots"`
}

type TravelStarted struct {
	Type          string `json:"type"`
	MessageID     string `json:"message_id"`
	TruckID       string `json:"truck_id"`
	FromCityID    string `json:"from_city_id"`
	ToCityID      string `json:"to_city_id"`
	DepartureTick int64  `json:"departure_tick"`
	ArrivalTick   int64  `json:"arrival_tick"`
}

type TravelCompleted struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
	TruckID   string `json:"truck_id"`
	CityID    string `json:"city_id"`
	Tick      int64  `json:"tick"`
}

type PurchaseCompleted struct {
	Type       string `json:"type"`
	MessageID  string `json:"message_id"`
	TruckID    string `json:"truck_id"`
	DepotID    string `json:"depot_id"`
	Resource   string `json:"resource"`
	Count      int    `json:"count"`
	UnitPrice  int    `json:"unit_price"`
	TotalPrice int    `json:"total_price"`
	NewBalance int    `json:"new_balance"`
}

type SaleCompleted struct {
	Type       string `json:"type"`
	MessageID  string `json:"message_id"`
	TruckID    string `json:"truck_id"`
	DepotID    string `json:"depot_id"`
	Resource   string `json:"resource"`
	Count      int    `json:"count"`
	UnitPrice  int    `json:"unit_price"`
	TotalPrice int    `json:"total_price"`
	NewBalance int    `json:"new_balance"`
}

type StorageCleared struct {
	Type      string     `json:"type"`
	MessageID string     `json:"message_id"`
	TruckID   string     `json:"truck_id"`
	Slots     []SlotView `json:"slots"`
}

// NewMessageID returns a fresh event message id.
func NewMessageID() string {
	return uuid.NewString()
}

// EncodeEvent marshals a server event for delivery.
func EncodeEvent(event any) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return raw, nil
}
