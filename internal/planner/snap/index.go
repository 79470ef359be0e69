package snap

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/models"
)

// ============================================================
// Endpoint lookup
// ============================================================

// EndpointFinder returns the wall endpoint closest to p and its distance.
// ok is false when there are no endpoints at all.
type EndpointFinder interface {
	Nearest(p models.Point) (endpoint models.Point, dist float64, ok bool)
}

// Linear scans every start/end in wall order; the first strict minimum wins.
type Linear []models.Wall

func (l Linear) Nearest(p models.Point) (models.Point, float64, bool) {
	var best models.Point
	bestDist := math.Inf(1)
	found := false

	for _, w := range l {
		for _, candidate := range [2]models.Point{w.Start, w.End} {
			if d := geometry.Distance(p, candidate); d < bestDist {
				best, bestDist, found = candidate, d, true
			}
		}
	}
	return best, bestDist, found
}

// KDTree indexes wall endpoints for large drawings. Build it once per wall
// list change; lookups do not allocate a new tree.
type KDTree struct {
	tree *kdtree.Tree
	size int
}

func NewKDTree(walls []models.Wall) *KDTree {
	points := make(kdtree.Points, 0, len(walls)*2)
	for _, w := range walls {
		points = append(points,
			kdtree.Point{w.Start.X, w.Start.Y},
			kdtree.Point{w.End.X, w.End.Y},
		)
	}
	if len(points) == 0 {
		return &KDTree{}
	}
	return &KDTree{tree: kdtree.New(points, false), size: len(points)}
}

func (k *KDTree) Len() int {
	return k.size
}

func (k *KDTree) Nearest(p models.Point) (models.Point, float64, bool) {
	if k == nil || k.tree == nil || k.size == 0 {
		return models.Point{}, math.Inf(1), false
	}

	c, d2 := k.tree.Nearest(kdtree.Point{p.X, p.Y})
	kp, ok := c.(kdtree.Point)
	if !ok || len(kp) < 2 {
		return models.Point{}, math.Inf(1), false
	}
	// kdtree.Point distances are squared.
	return models.Point{X: kp[0], Y: kp[1]}, math.Sqrt(d2), true
}
