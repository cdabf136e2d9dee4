package domain

// TruckNavigation is the per-truck location record. A truck is either
// stationed (NextCityID empty) or transiting (NextCityID set, arrival
// computed from distance, speed and the simulation clock).
type TruckNavigation struct {
	TruckID       string
	CurrentCityID string
	NextCityID    string
	DepartureTick int64
	ArrivalTick   int64
}

// Transiting reports whether the truck is between cities.
func (n TruckNavigation) Transiting() bool {
	return n.NextCityID != ""
}
