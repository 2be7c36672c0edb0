package domain

import "math"

// Coordinate is a point in (lat, lon) order. Every stage of the pipeline uses
// this order; (lon, lat) only appears at the Voronoi, Mapbox and GeoJSON edges.
type Coordinate struct {
	Lat float64 `json:"lat" db:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" db:"lon" validate:"min=-180,max=180"`
}

// IsFinite reports whether both components are finite numbers.
func (c Coordinate) IsFinite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0)
}

// LonLat returns the coordinate as [lon, lat], the order used by Mapbox and GeoJSON.
func (c Coordinate) LonLat() [2]float64 {
	return [2]float64{c.Lon, c.Lat}
}

// FromLonLat builds a Coordinate from a [lon, lat] pair.
func FromLonLat(lon, lat float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

// CoordinateKey - координата, округлённая до заданной точности; ключ дедупликации
type CoordinateKey struct {
	Lat float64
	Lon float64
}

// Less orders keys by latitude, then longitude.
func (k CoordinateKey) Less(other CoordinateKey) bool {
	if k.Lat != other.Lat {
		return k.Lat < other.Lat
	}
	return k.Lon < other.Lon
}

// BoundingBox - прямоугольная область (min/max по широте и долготе)
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Ring returns the box as a closed (lat, lon) loop: SW, SE, NE, NW, SW.
func (b BoundingBox) Ring() []Coordinate {
	return []Coordinate{
		{Lat: b.MinLat, Lon: b.MinLon},
		{Lat: b.MinLat, Lon: b.MaxLon},
		{Lat: b.MaxLat, Lon: b.MaxLon},
		{Lat: b.MaxLat, Lon: b.MinLon},
		{Lat: b.MinLat, Lon: b.MinLon},
	}
}

// Valid reports whether the box has positive area.
func (b BoundingBox) Valid() bool {
	return b.MinLat < b.MaxLat && b.MinLon < b.MaxLon
}
