package domain

// Resource is an enumerated commodity kind traded between trucks and depots.
type Resource string

const (
	Wood  Resource = "WOOD"
	Stone Resource = "STONE"
	Iron  Resource = "IRON"
	Grain Resource = "GRAIN"
	Coal  Resource = "COAL"
)

// PriceBand is the fixed unit price range for a resource. Actual slot prices
// move inside the band with occupancy but never leave it.
type PriceBand struct {
	MinPrice int
	MaxPrice int
}

var priceBands = map[Resource]PriceBand{
	Wood:  {MinPrice: 2, MaxPrice: 10},
	Stone: {MinPrice: 3, MaxPrice: 12},
	Iron:  {MinPrice: 5, MaxPrice: 25},
	Grain: {MinPrice: 1, MaxPrice: 6},
	Coal:  {MinPrice: 4, MaxPrice: 18},
}

// Band returns the price band for the resource. Unknown resources get a
// zero band, which prices their slots at zero.
func (r Resource) Band() PriceBand {
	return priceBands[r]
}

// Known reports whether the resource is part of the trading catalog.
func (r Resource) Known() bool {
	_, ok := priceBands[r]
	return ok
}

// KnownResources returns the trading catalog in a stable order.
func KnownResources() []Resource {
	return []Resource{Wood, Stone, Iron, Grain, Coal}
}
