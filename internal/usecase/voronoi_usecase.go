package usecase

import (
	"fmt"
	"math"

	"github.com/docking-planner/internal/domain"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"github.com/fogleman/delaunay"
	"go.uber.org/zap"
)

// collinearEpsilon bounds the cross product below which three points are
// treated as lying on one line.
const collinearEpsilon = 1e-12

// vertexEpsilon is the distance in degrees below which two circumcenters are
// one Voronoi vertex (about 0.1 mm).
const vertexEpsilon = 1e-9

// VoronoiUseCase извлекает рёбра диаграммы Вороного по координатам станций
type VoronoiUseCase struct {
	logger *zap.Logger
}

// NewVoronoiUseCase создает новый VoronoiUseCase
func NewVoronoiUseCase(logger *zap.Logger) *VoronoiUseCase {
	return &VoronoiUseCase{logger: logger}
}

// ExtractEdges returns the finite Voronoi edges of the station positions.
// Ridges that extend to infinity (the convex hull side) are dropped.
func (uc *VoronoiUseCase) ExtractEdges(stations []domain.Station) ([]domain.Edge, error) {
	points := make([]domain.Coordinate, len(stations))
	for i, s := range stations {
		points[i] = s.Coordinate()
	}

	ridges, err := uc.Ridges(points)
	if err != nil {
		return nil, err
	}

	edges := domain.FiniteEdges(ridges)

	uc.logger.Info("Voronoi edges extracted",
		zap.Int("points", len(points)),
		zap.Int("ridges", len(ridges)),
		zap.Int("finite_edges", len(edges)),
		zap.Int("unbounded", len(ridges)-len(edges)))

	return edges, nil
}

// Ridges computes every ridge of the Voronoi diagram as the dual of the
// Delaunay triangulation: an edge shared by two triangles gives a finite ridge
// between their circumcenters, a convex hull edge gives an unbounded one.
// Triangles of four or more cocircular points share a circumcenter; the edge
// between them is not a ridge and is skipped.
// Points are laid out with x=lon, y=lat and converted back on output.
func (uc *VoronoiUseCase) Ridges(points []domain.Coordinate) ([]domain.Ridge, error) {
	if err := checkVoronoiInput(points); err != nil {
		return nil, err
	}

	pts := make([]delaunay.Point, len(points))
	for i, p := range points {
		pts[i] = delaunay.Point{X: p.Lon, Y: p.Lat}
	}

	tri, err := delaunay.Triangulate(pts)
	if err != nil || len(tri.Triangles) == 0 {
		if err == nil {
			err = fmt.Errorf("triangulation produced no triangles")
		}
		return nil, apperrors.ErrInsufficientPoints.
			WithDetails(map[string]interface{}{"points": len(points)}).
			Wrap(fmt.Errorf("%d points: %w", len(points), err))
	}

	centers := make([]domain.Coordinate, len(tri.Triangles)/3)
	for t := range centers {
		a := tri.Points[tri.Triangles[3*t]]
		b := tri.Points[tri.Triangles[3*t+1]]
		c := tri.Points[tri.Triangles[3*t+2]]
		x, y := circumcenter(a, b, c)
		centers[t] = domain.Coordinate{Lat: y, Lon: x}
	}

	ridges := make([]domain.Ridge, 0, len(tri.Halfedges))
	for e, opposite := range tri.Halfedges {
		if opposite == -1 {
			ridges = append(ridges, domain.UnboundedRidge())
			continue
		}
		// each internal edge has two halfedges; take it once
		if e > opposite {
			continue
		}

		start, end := centers[e/3], centers[opposite/3]
		if !start.IsFinite() || !end.IsFinite() {
			ridges = append(ridges, domain.UnboundedRidge())
			continue
		}
		if sameVertex(start, end) {
			continue
		}
		ridges = append(ridges, domain.FiniteRidge(start, end))
	}

	return ridges, nil
}

// checkVoronoiInput requires at least three distinct points that do not all
// lie on one line.
func checkVoronoiInput(points []domain.Coordinate) error {
	distinct := make([]domain.Coordinate, 0, 3)
	seen := make(map[domain.Coordinate]struct{}, len(points))
	for _, p := range points {
		if !p.IsFinite() {
			return apperrors.ErrInsufficientPoints.
				WithDetails(map[string]interface{}{"points": len(points)}).
				Wrap(fmt.Errorf("non-finite point %v", p))
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		distinct = append(distinct, p)
	}

	insufficient := func(reason string) error {
		return apperrors.ErrInsufficientPoints.
			WithDetails(map[string]interface{}{"points": len(points), "distinct": len(distinct)}).
			Wrap(fmt.Errorf("%d points supplied (%d distinct): %s", len(points), len(distinct), reason))
	}

	if len(distinct) < 3 {
		return insufficient("need at least 3 distinct points")
	}

	p0, p1 := distinct[0], distinct[1]
	for _, p := range distinct[2:] {
		cross := (p1.Lon-p0.Lon)*(p.Lat-p0.Lat) - (p1.Lat-p0.Lat)*(p.Lon-p0.Lon)
		if math.Abs(cross) > collinearEpsilon {
			return nil
		}
	}
	return insufficient("all points are collinear")
}

func sameVertex(a, b domain.Coordinate) bool {
	return math.Abs(a.Lat-b.Lat) <= vertexEpsilon && math.Abs(a.Lon-b.Lon) <= vertexEpsilon
}

func circumcenter(a, b, c delaunay.Point) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ex := c.X - a.X
	ey := c.Y - a.Y

	bl := dx*dx + dy*dy
	cl := ex*ex + ey*ey
	d := 0.5 / (dx*ey - dy*ex)

	x := a.X + (ey*bl-dy*cl)*d
	y := a.Y + (dx*cl-ex*bl)*d
	return x, y
}
