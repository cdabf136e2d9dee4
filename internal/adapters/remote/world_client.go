package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// WorldClient implements the WorldService port against the world/topology
// service's HTTP API.
type WorldClient struct {
	session *http.Client
	baseURL string
}

func NewWorldClient(baseURL string) (*WorldClient, error) {
	if baseURL == "" {
		return nil, errors.New("world client: base url is empty")
	}
	return &WorldClient{session: newHTTPClient(), baseURL: baseURL}, nil
}

func (c *WorldClient) CityExists(ctx context.Context, cityID string) (bool, error) {
	u := fmt.Sprintf("%s/api/cities/%s", c.baseURL, url.PathEscape(cityID))
	err := getJSON(ctx, c.session, u, &struct{}{})
	if err == nil {
		return true, nil
	}
	var he *httpStatusError
	if errors.As(err, &he) && he.Code == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("city exists city=%q: %w", cityID, err)
}

func (c *WorldClient) Distance(ctx context.Context, fromCityID, toCityID string) (float64, error) {
	var out struct {
		Distance float64 `json:"distance"`
	}
	q := url.Values{}
	q.Set("from", fromCityID)
	q.Set("to", toCityID)
	u := fmt.Sprintf("%s/api/distance?%s", c.baseURL, q.Encode())
	if err := getJSON(ctx, c.session, u, &out); err != nil {
		return 0, fmt.Errorf("distance %q -> %q: %w", fromCityID, toCityID, err)
	}
	return out.Distance, nil
}
