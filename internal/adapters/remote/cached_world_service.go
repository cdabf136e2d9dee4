package remote

import (
	"context"
	"fmt"
	"log"

	"truck-trading-service/internal/ports"
)

// CachedWorldService decorates a WorldService with a persistent city-pair
// distance cache. City distances are static, so cached values never expire;
// cache write failures are logged and never fail the lookup.
type CachedWorldService struct {
	inner ports.WorldService
	cache ports.DistanceCache
}

func NewCachedWorldService(inner ports.WorldService, cache ports.DistanceCache) *CachedWorldService {
	return &CachedWorldService{inner: inner, cache: cache}
}

func (s *CachedWorldService) CityExists(ctx context.Context, cityID string) (bool, error) {
	return s.inner.CityExists(ctx, cityID)
}

func (s *CachedWorldService) Distance(ctx context.Context, fromCityID, toCityID string) (float64, error) {
	if s.cache != nil {
		distance, ok, err := s.cache.Get(ctx, fromCityID, toCityID)
		if err != nil {
			log.Printf("world cache: get %q -> %q failed: %v", fromCityID, toCityID, err)
		} else if ok {
			return distance, nil
		}
	}

	distance, err := s.inner.Distance(ctx, fromCityID, toCityID)
	if err != nil {
		return 0, fmt.Errorf("cached world distance: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, fromCityID, toCityID, distance); err != nil {
			log.Printf("world cache: put %q -> %q failed: %v", fromCityID, toCityID, err)
		}
	}
	return distance, nil
}
