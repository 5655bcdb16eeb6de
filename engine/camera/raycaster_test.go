package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-stars/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaycasterFromCameraCentre(t *testing.T) {
	rc := NewRaycaster()
	ray := rc.SetFromCamera(common.V2(0, 0), NewCamera())

	assert.Equal(t, common.V3(0, 0, 5), ray.Origin)
	assert.InDelta(t, 0, ray.Direction.X, 1e-5)
	assert.InDelta(t, 0, ray.Direction.Y, 1e-5)
	assert.InDelta(t, -1, ray.Direction.Z, 1e-5)
	assert.Equal(t, ray, rc.Ray())
}

func TestRaycasterFromCameraOffCentre(t *testing.T) {
	rc := NewRaycaster()
	ray := rc.SetFromCamera(common.V2(1, 1), NewCamera())

	assert.Greater(t, ray.Direction.X, float32(0))
	assert.Greater(t, ray.Direction.Y, float32(0))
	assert.Less(t, ray.Direction.Z, float32(0))
	assert.InDelta(t, 1, ray.Direction.Length(), 1e-5)
}

func TestRaycasterIntersectPoints(t *testing.T) {
	rc := NewRaycaster()
	rc.SetFromCamera(common.V2(0, 0), NewCamera())

	points := []common.Vec3{
		common.V3(0, 0, 0),     // on the ray, distance 5
		common.V3(0, 0.2, 0),   // outside the threshold
		common.V3(0, 0.05, 2),  // within threshold, distance 3
		common.V3(0, 0, 10),    // behind the camera
		common.V3(0.05, 0, -5), // within threshold, distance 10
	}

	hits := rc.IntersectPoints(points)

	require.Len(t, hits, 3)
	assert.Equal(t, 2, hits[0].Index)
	assert.Equal(t, 0, hits[1].Index)
	assert.Equal(t, 4, hits[2].Index)
	assert.InDelta(t, 3, hits[0].Distance, 1e-4)
	assert.InDelta(t, 0.05, hits[0].DistanceToRay, 1e-4)
	assert.InDelta(t, 5, hits[1].Distance, 1e-4)
}

func TestRaycasterThresholdAndRange(t *testing.T) {
	rc := NewRaycaster(WithPointThreshold(0.5), WithRange(0, 4))
	rc.SetFromCamera(common.V2(0, 0), NewCamera())
	assert.Equal(t, float32(0.5), rc.PointThreshold())

	points := []common.Vec3{common.V3(0, 0.3, 2), common.V3(0, 0, 0)}
	hits := rc.IntersectPoints(points)

	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Index)

	rc.SetPointThreshold(-1)
	assert.Equal(t, float32(0), rc.PointThreshold())
	assert.Empty(t, rc.IntersectPoints(points))
}

func TestRaycasterIntersectRangeKeepsGlobalIndices(t *testing.T) {
	rc := NewRaycaster()
	rc.SetFromCamera(common.V2(0, 0), NewCamera())
	points := []common.Vec3{
		common.V3(0, 0, 0),
		common.V3(0, 0, 1),
		common.V3(0, 0, 2),
		common.V3(0, 0, 3),
	}

	hits := rc.IntersectRange(points, 2, 10)

	require.Len(t, hits, 2)
	assert.Equal(t, 2, hits[0].Index)
	assert.Equal(t, 3, hits[1].Index)
}
