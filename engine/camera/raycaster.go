package camera

import (
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/chewxy/math32"
)

// Intersection is a single point hit produced by a Raycaster.
type Intersection struct {
	Index         int         // index of the point in the queried slice
	Point         common.Vec3 // closest point on the ray to the hit point
	Distance      float32     // distance from the ray origin to Point
	DistanceToRay float32     // perpendicular distance from the hit point to the ray
}

// Raycaster builds picking rays from normalized device coordinates and intersects them with
// point clouds using a distance threshold.
type Raycaster interface {
	// SetFromCamera recomputes the ray from the camera position through the given NDC point.
	//
	// Parameters:
	//   - ndc: normalized device coordinates, x and y in [-1, 1]
	//   - cam: the camera to cast from
	//
	// Returns:
	//   - common.Ray: the new ray
	SetFromCamera(ndc common.Vec2, cam Camera) common.Ray

	// Ray returns the most recently computed ray.
	//
	// Returns:
	//   - common.Ray: the current ray
	Ray() common.Ray

	// PointThreshold returns the maximum ray distance at which a point counts as hit.
	//
	// Returns:
	//   - float32: the threshold in world units
	PointThreshold() float32

	// SetPointThreshold sets the point hit threshold. Negative values are treated as 0.
	//
	// Parameters:
	//   - threshold: the threshold in world units
	SetPointThreshold(threshold float32)

	// IntersectPoints tests every point against the current ray.
	//
	// Parameters:
	//   - points: world-space points
	//
	// Returns:
	//   - []Intersection: hits sorted by Distance, nearest first
	IntersectPoints(points []common.Vec3) []Intersection

	// IntersectRange tests points[start:end] against the current ray. Indices in the
	// result refer to the full slice. Results are not sorted.
	//
	// Parameters:
	//   - points: world-space points
	//   - start: first index, inclusive
	//   - end: last index, exclusive
	//
	// Returns:
	//   - []Intersection: hits in index order
	IntersectRange(points []common.Vec3, start, end int) []Intersection
}

type raycasterImpl struct {
	mu *sync.Mutex

	ray       common.Ray
	threshold float32
	near      float32
	far       float32
}

var _ Raycaster = &raycasterImpl{}

// NewRaycaster creates a Raycaster with a point threshold of 0.1 and an unbounded range.
//
// Parameters:
//   - options: functional options to configure the raycaster
//
// Returns:
//   - Raycaster: the new raycaster
func NewRaycaster(options ...RaycasterOption) Raycaster {
	r := &raycasterImpl{
		mu:        &sync.Mutex{},
		ray:       common.Ray{Direction: viewDirection},
		threshold: 0.1,
		near:      0,
		far:       math32.Inf(1),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// RaycasterOption is a functional option for configuring a Raycaster.
type RaycasterOption func(*raycasterImpl)

// WithPointThreshold sets the point hit threshold.
//
// Parameters:
//   - threshold: maximum distance between a point and the ray, in world units
//
// Returns:
//   - RaycasterOption: a function that sets the threshold
func WithPointThreshold(threshold float32) RaycasterOption {
	return func(r *raycasterImpl) {
		r.threshold = math32.Max(threshold, 0)
	}
}

// WithRange limits hits to distances in [near, far] along the ray.
//
// Parameters:
//   - near: minimum distance from the ray origin
//   - far: maximum distance from the ray origin
//
// Returns:
//   - RaycasterOption: a function that sets the range
func WithRange(near, far float32) RaycasterOption {
	return func(r *raycasterImpl) {
		r.near = near
		r.far = far
	}
}

func (r *raycasterImpl) SetFromCamera(ndc common.Vec2, cam Camera) common.Ray {
	origin := cam.Position()
	target := cam.Unproject(common.V3(ndc.X, ndc.Y, 0.5))
	dir := target.Sub(origin).Normalize()
	if dir.LengthSq() == 0 || !dir.IsFinite() {
		dir = viewDirection
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ray = common.Ray{Origin: origin, Direction: dir}
	return r.ray
}

func (r *raycasterImpl) Ray() common.Ray {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ray
}

func (r *raycasterImpl) PointThreshold() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.threshold
}

func (r *raycasterImpl) SetPointThreshold(threshold float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threshold = math32.Max(threshold, 0)
}

func (r *raycasterImpl) IntersectPoints(points []common.Vec3) []Intersection {
	hits := r.IntersectRange(points, 0, len(points))
	SortIntersections(hits)
	return hits
}

func (r *raycasterImpl) IntersectRange(points []common.Vec3, start, end int) []Intersection {
	r.mu.Lock()
	ray, threshold, near, far := r.ray, r.threshold, r.near, r.far
	r.mu.Unlock()

	start = max(start, 0)
	end = min(end, len(points))

	thresholdSq := threshold * threshold
	var hits []Intersection
	for i := start; i < end; i++ {
		p := points[i]
		if ray.DistanceSqToPoint(p) >= thresholdSq {
			continue
		}
		closest := ray.ClosestPointToPoint(p)
		dist := ray.Origin.DistanceTo(closest)
		if dist < near || dist > far {
			continue
		}
		hits = append(hits, Intersection{
			Index:         i,
			Point:         closest,
			Distance:      dist,
			DistanceToRay: closest.DistanceTo(p),
		})
	}
	return hits
}

// SortIntersections orders hits by Distance, nearest first. Ties keep index order.
//
// Parameters:
//   - hits: the intersections to sort in place
func SortIntersections(hits []Intersection) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance == hits[j].Distance {
			return hits[i].Index < hits[j].Index
		}
		return hits[i].Distance < hits[j].Distance
	})
}
