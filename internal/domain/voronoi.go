package domain

// Edge - конечное ребро диаграммы Вороного в порядке (lat, lon)
type Edge struct {
	Start Coordinate `json:"start"`
	End   Coordinate `json:"end"`
}

// RidgeKind tags a Voronoi ridge as bounded or not.
type RidgeKind int

const (
	RidgeUnbounded RidgeKind = iota
	RidgeFinite
)

func (k RidgeKind) String() string {
	if k == RidgeFinite {
		return "finite"
	}
	return "unbounded"
}

// Ridge is one edge between two adjacent Voronoi cells. Edge is only
// meaningful when Kind is RidgeFinite.
type Ridge struct {
	Kind RidgeKind
	Edge Edge
}

// FiniteRidge builds a bounded ridge.
func FiniteRidge(start, end Coordinate) Ridge {
	return Ridge{Kind: RidgeFinite, Edge: Edge{Start: start, End: end}}
}

// UnboundedRidge builds a ridge that extends to infinity.
func UnboundedRidge() Ridge {
	return Ridge{Kind: RidgeUnbounded}
}

// FiniteEdges drops unbounded ridges and returns the remaining edges in order.
func FiniteEdges(ridges []Ridge) []Edge {
	edges := make([]Edge, 0, len(ridges))
	for _, r := range ridges {
		if r.Kind != RidgeFinite {
			continue
		}
		edges = append(edges, r.Edge)
	}
	return edges
}

// Endpoints returns all start points followed by all end points.
func Endpoints(edges []Edge) []Coordinate {
	coords := make([]Coordinate, 0, len(edges)*2)
	for _, e := range edges {
		coords = append(coords, e.Start)
	}
	for _, e := range edges {
		coords = append(coords, e.End)
	}
	return coords
}
