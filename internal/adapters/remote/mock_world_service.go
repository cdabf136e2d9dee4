package remote

import (
	"context"
	"fmt"
)

type MockDistance struct {
	From, To string
	Distance float64
}

// MockWorldService serves a fixed topology from memory. Distances are
// symmetric: a pair registered one way answers both directions.
type MockWorldService struct {
	cities    map[string]struct{}
	distances map[string]float64
}

func NewMockWorldService(cities []string, pairs []MockDistance) *MockWorldService {
	m := &MockWorldService{
		cities:    make(map[string]struct{}, len(cities)),
		distances: make(map[string]float64, 2*len(pairs)),
	}
	for _, c := range cities {
		m.cities[c] = struct{}{}
	}
	for _, p := range pairs {
		m.distances[p.From+"|"+p.To] = p.Distance
		m.distances[p.To+"|"+p.From] = p.Distance
	}
	return m
}

func (m *MockWorldService) CityExists(ctx context.Context, cityID string) (bool, error) {
	_, ok := m.cities[cityID]
	return ok, nil
}

func (m *MockWorldService) Distance(ctx context.Context, fromCityID, toCityID string) (float64, error) {
	d, ok := m.distances[fromCityID+"|"+toCityID]
	if !ok {
		return 0, fmt.Errorf("missing distance %q -> %q", fromCityID, toCityID)
	}
	return d, nil
}
