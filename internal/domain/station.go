package domain

// Station - док-станция из внешнего источника (TfL BikePoint)
type Station struct {
	ID   string  `json:"id" validate:"required"`
	Name string  `json:"commonName"`
	Lat  float64 `json:"lat" validate:"min=-90,max=90"`
	Lon  float64 `json:"lon" validate:"min=-180,max=180"`
}

// Coordinate returns the station position.
func (s Station) Coordinate() Coordinate {
	return Coordinate{Lat: s.Lat, Lon: s.Lon}
}
