package tracker

type Location struct {
	Lat float64 `json:"lat" groups:"basic"`
	Lng float64 `json:"lng" groups:"basic"`
}

// Coordinates returns the GeoJSON ordering of the point.
func (l Location) Coordinates() []float64 {
	return []float64{l.Lng, l.Lat}
}
