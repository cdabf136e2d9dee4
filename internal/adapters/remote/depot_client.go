package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"truck-trading-service/internal/domain"
	"truck-trading-service/internal/ports"
)

// DepotClient implements the DepotService port against the depot service's
// HTTP API.
type DepotClient struct {
	session *http.Client
	baseURL string
}

func NewDepotClient(baseURL string) (*DepotClient, error) {
	if baseURL == "" {
		return nil, errors.New("depot client: base url is empty")
	}
	return &DepotClient{session: newHTTPClient(), baseURL: baseURL}, nil
}

func (c *DepotClient) GetAvailable(ctx context.Context, depotID string, resource domain.Resource) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	u := fmt.Sprintf("%s/api/depots/%s/resources/%s", c.baseURL, url.PathEscape(depotID), url.PathEscape(string(resource)))
	if err := getJSON(ctx, c.session, u, &out); err != nil {
		return 0, fmt.Errorf("get available depot=%q resource=%q: %w", depotID, resource, mapNotFound(err))
	}
	return out.Count, nil
}

func (c *DepotClient) Sell(ctx context.Context, depotID string, resource domain.Resource, count int) (ports.SellResult, error) {
	body := map[string]any{"resource": resource, "count": count}
	var out struct {
		SoldCount int `json:"sold_count"`
		UnitPrice int `json:"unit_price"`
	}
	u := fmt.Sprintf("%s/api/depots/%s/sell", c.baseURL, url.PathEscape(depotID))
	if err := postJSON(ctx, c.session, u, body, &out); err != nil {
		return ports.SellResult{}, fmt.Errorf("depot sell depot=%q resource=%q count=%d: %w", depotID, resource, count, mapNotFound(err))
	}
	return ports.SellResult{SoldCount: out.SoldCount, UnitPrice: out.UnitPrice}, nil
}

func (c *DepotClient) Buy(ctx context.Context, depotID string, resource domain.Resource, count int) (ports.BuyResult, error) {
	body := map[string]any{"resource": resource, "count": count}
	var out struct {
		BoughtCount int `json:"bought_count"`
		UnitPrice   int `json:"unit_price"`
	}
	u := fmt.Sprintf("%s/api/depots/%s/buy", c.baseURL, url.PathEscape(depotID))
	if err := postJSON(ctx, c.session, u, body, &out); err != nil {
		return ports.BuyResult{}, fmt.Errorf("depot buy depot=%q resource=%q count=%d: %w", depotID, resource, count, mapNotFound(err))
	}
	return ports.BuyResult{BoughtCount: out.BoughtCount, UnitPrice: out.UnitPrice}, nil
}

func (c *DepotClient) Credit(ctx context.Context, depotID string, resource domain.Resource, count int) error {
	body := map[string]any{"resource": resource, "count": count}
	u := fmt.Sprintf("%s/api/depots/%s/credit", c.baseURL, url.PathEscape(depotID))
	if err := postJSON(ctx, c.session, u, body, nil); err != nil {
		return fmt.Errorf("depot credit depot=%q resource=%q count=%d: %w", depotID, resource, count, mapNotFound(err))
	}
	return nil
}

// mapNotFound translates HTTP 404 into the port-level sentinel.
func mapNotFound(err error) error {
	var he *httpStatusError
	if errors.As(err, &he) && he.Code == http.StatusNotFound {
		return ports.ErrNotFound
	}
	return err
}
