// Package protocol defines the wire messages exchanged with viewers over
// the push channel. Both directions are closed tagged unions: a JSON object
// with a "type" field routed to one of a finite set of message structs.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Client command types.
const (
	TypeTravelRequest = "TRUCK_TRAVEL_REQUEST"
	TypeBuyRequest    = "BUY_RESOURCE_REQUEST"
	TypeSellRequest   = "SELL_RESOURCE_REQUEST"
	TypeDumpRequest   = "DUMP_CONTENT"
)

// Server event types.
const (
	TypeTruckAdded        = "TRUCK_ADDED"
	TypeTravelStarted     = "TRUCK_TRAVEL_STARTED"
	TypeTravelCompleted   = "TRUCK_TRAVEL_COMPLETED"
	TypePurchaseCompleted = "PURCHASE_COMPLETED"
	TypeSaleCompleted     = "SALE_COMPLETED"
	TypeStorageCleared    = "STORAGE_CLEARED"
)

type baseMsg struct {
	Type string `json:"type"`
}

// DecodeCommand parses a client frame into one of the command structs.
// Unknown or malformed frames return an error; the caller drops the frame
// and keeps the connection alive.
func DecodeCommand(raw []byte) (any, error) {
	var base baseMsg
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}

	switch base.Type {
	case TypeTravelRequest:
		var cmd TravelRequest
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, fmt.Errorf("decode %s: %w", base.Type, err)
		}
		return cmd, nil
	case TypeBuyRequest:
		var cmd BuyResourceRequest
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, fmt.Errorf("decode %s: %w", base.Type, err)
		}
		return cmd, nil
	case TypeSellRequest:
		var cmd SellResourceRequest
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, fmt.Errorf("decode %s: %w", base.Type, err)
		}
		return cmd, nil
	case TypeDumpRequest:
		var cmd DumpContentRequest
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, fmt.Errorf("decode %s: %w", base.Type, err)
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("decode command: unknown type %q", base.Type)
	}
}
