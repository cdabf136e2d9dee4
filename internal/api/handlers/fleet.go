package handlers

import (
	"net/http"
	"sort"

	"truck-trading-service/internal/services"
)

// FleetHandler serves read-only fleet snapshots for operators. The
// websocket stream is the source of truth for viewers; this endpoint
// exists for curl-level inspection.
type FleetHandler struct {
	Engine *services.Engine
}

type slotResponse struct {
	Resource string `json:"resource"`
	Count    int    `json:"count"`
	Capacity int    `json:"capacity"`
	Price    int    `json:"price"`
}

type truckResponse struct {
	TruckID       string         `json:"truck_id"`
	Template      string         `json:"template,omitempty"`
	OwnerID       string         `json:"owner_id,omitempty"`
	Speed         float64        `json:"speed"`
	CurrentCityID string         `json:"current_city_id"`
	NextCityID    string         `json:"next_city_id,omitempty"`
	ArrivalTick   int64          `json:"arrival_tick,omitempty"`
	Slots         []slotResponse `json:"slots"`
}

type fleetResponse struct {
	Tick   int64           `json:"tick"`
	Trucks []truckResponse `json:"trucks"`
}

// List returns every registered truck with its navigation state.
func (h *FleetHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	trucks := h.Engine.Trucks()
	res := fleetResponse{
		Tick:   h.Engine.Now(),
		Trucks: make([]truckResponse, 0, len(trucks)),
	}

	for _, t := range trucks {
		tr := truckResponse{
			TruckID:  t.ID,
			Template: t.Template,
			OwnerID:  t.OwnerID,
			Speed:    t.Speed,
			Slots:    make([]slotResponse, 0),
		}
		if nav, ok := h.Engine.Navigation(t.ID); ok {
			tr.CurrentCityID = nav.CurrentCityID
			tr.NextCityID = nav.NextCityID
			if nav.Transiting() {
				tr.ArrivalTick = nav.ArrivalTick
			}
		}
		for resource, slot := range t.Storage.Slots() {
			tr.Slots = append(tr.Slots, slotResponse{
				Resource: string(resource),
				Count:    slot.Count,
				Capacity: slot.Capacity,
				Price:    slot.Price,
			})
		}
		sort.Slice(tr.Slots, func(i, j int) bool { return tr.Slots[i].Resource < tr.Slots[j].Resource })
		res.Trucks = append(res.Trucks, tr)
	}

	writeJSON(w, r, http.StatusOK, res)
}
