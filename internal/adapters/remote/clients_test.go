package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"truck-trading-service/internal/domain"
	"truck-trading-service/internal/ports"
)

func TestDepotClientSell(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/depots/depot-1/sell" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Resource string `json:"resource"`
			Count    int    `json:"count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("undecodable body: %v", err)
		}
		if body.Resource != "WOOD" || body.Count != 5 {
			t.Errorf("body = %+v", body)
		}
		json.NewEncoder(w).Encode(map[string]int{"sold_count": 5, "unit_price": 8})
	}))
	defer srv.Close()

	client, err := NewDepotClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := client.Sell(context.Background(), "depot-1", domain.Wood, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SoldCount != 5 || result.UnitPrice != 8 {
		t.Fatalf("result = %+v, want 5 at 8", result)
	}
}

func TestDepotClientGetAvailableNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such depot", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewDepotClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.GetAvailable(context.Background(), "depot-ghost", domain.Wood)
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPaymentClientTransfer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/accounts/owner-1/transfer" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Amount int `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("undecodable body: %v", err)
		}
		if body.Amount != -40 {
			t.Errorf("amount = %d, want -40", body.Amount)
		}
		json.NewEncoder(w).Encode(map[string]int{"new_balance": 60})
	}))
	defer srv.Close()

	client, err := NewPaymentClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newBalance, err := client.Transfer(context.Background(), "owner-1", -40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newBalance != 60 {
		t.Fatalf("new balance = %d, want 60", newBalance)
	}
}

func TestPaymentClientMapsInsufficientFunds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient funds", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	client, err := NewPaymentClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Transfer(context.Background(), "owner-1", -40)
	if !errors.Is(err, ports.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestWorldClientCityExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/cities/CITY_A":
			json.NewEncoder(w).Encode(map[string]string{"city_id": "CITY_A"})
		default:
			http.Error(w, "no such city", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewWorldClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	exists, err := client.CityExists(ctx, "CITY_A")
	if err != nil || !exists {
		t.Fatalf("CityExists(CITY_A) = (%v, %v), want (true, nil)", exists, err)
	}
	exists, err = client.CityExists(ctx, "CITY_Z")
	if err != nil || exists {
		t.Fatalf("CityExists(CITY_Z) = (%v, %v), want (false, nil)", exists, err)
	}
}

func TestWorldClientDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/distance" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to"); from != "CITY_A" || to != "CITY_B" {
			t.Errorf("query from=%q to=%q", from, to)
		}
		json.NewEncoder(w).Encode(map[string]float64{"distance": 42.5})
	}))
	defer srv.Close()

	client, err := NewWorldClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	distance, err := client.Distance(context.Background(), "CITY_A", "CITY_B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if distance != 42.5 {
		t.Fatalf("distance = %v, want 42.5", distance)
	}
}

func TestClientsRejectEmptyBaseURL(t *testing.T) {
	if _, err := NewDepotClient(""); err == nil {
		t.Fatal("expected error for empty depot base url")
	}
	if _, err := NewPaymentClient(""); err == nil {
		t.Fatal("expected error for empty payment base url")
	}
	if _, err := NewWorldClient(""); err == nil {
		t.Fatal("expected error for empty world base url")
	}
}
