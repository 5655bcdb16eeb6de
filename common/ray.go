package common

// Ray is a half-line starting at Origin and extending along Direction.
// Direction is expected to be unit length.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at distance t along the ray.
//
// Parameters:
//   - t: distance from the origin
//
// Returns:
//   - Vec3: Origin + Direction*t
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ClosestPointToPoint returns the point on the ray nearest to p.
// Points behind the origin project onto the origin itself.
//
// Parameters:
//   - p: the world-space point
//
// Returns:
//   - Vec3: the closest point on the ray
func (r Ray) ClosestPointToPoint(p Vec3) Vec3 {
	t := p.Sub(r.Origin).Dot(r.Direction)
	if t < 0 {
		return r.Origin
	}
	return r.At(t)
}

// DistanceSqToPoint returns the squared distance between p and the closest point on the ray.
//
// Parameters:
//   - p: the world-space point
//
// Returns:
//   - float32: squared distance
func (r Ray) DistanceSqToPoint(p Vec3) float32 {
	return r.ClosestPointToPoint(p).Sub(p).LengthSq()
}
