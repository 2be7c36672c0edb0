package domain

// GeocodingResponse - ответ Mapbox Geocoding API (используем только геометрию)
type GeocodingResponse struct {
	Type     string             `json:"type"`
	Features []GeocodingFeature `json:"features"`
}

type GeocodingFeature struct {
	ID        string            `json:"id,omitempty"`
	PlaceName string            `json:"place_name,omitempty"`
	Geometry  GeocodingGeometry `json:"geometry"`
}

// GeocodingGeometry holds coordinates as [lon, lat].
type GeocodingGeometry struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}
