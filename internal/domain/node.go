package domain

import (
	"fmt"
	"strings"
)

const (
	// PotentialIDPrefix is the private id namespace of generated candidate nodes.
	PotentialIDPrefix = "potential_"
	// PotentialNodeName is the placeholder name of every candidate node.
	PotentialNodeName = "Potential Node"
)

// Node - строка итогового датасета (lat, lon, id, name)
type Node struct {
	Lat  float64 `json:"lat" db:"lat"`
	Lon  float64 `json:"lon" db:"lon"`
	ID   string  `json:"id" db:"id"`
	Name string  `json:"name" db:"name"`
}

// PotentialID returns the generated id for the i-th candidate node.
func PotentialID(i int) string {
	return fmt.Sprintf("%s%d", PotentialIDPrefix, i)
}

// IsPotentialID reports whether id belongs to the generated namespace.
func IsPotentialID(id string) bool {
	return strings.HasPrefix(id, PotentialIDPrefix)
}

// IsPotential reports whether the node is a generated candidate.
func (n Node) IsPotential() bool {
	return IsPotentialID(n.ID)
}

// Coordinate returns the node position.
func (n Node) Coordinate() Coordinate {
	return Coordinate{Lat: n.Lat, Lon: n.Lon}
}
