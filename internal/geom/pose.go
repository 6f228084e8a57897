package geom

import "math"

// Pose is a vehicle position plus heading. Yaw is measured about the Y
// axis; yaw 0 faces +Z and positive yaw turns toward +X.
type Pose struct {
	Position Vec3
	Yaw      float64
}

// Forward returns the unit forward axis for the pose.
func (p Pose) Forward() Vec3 {
	sin, cos := math.Sincos(p.Yaw)
	return Vec3{X: sin, Z: cos}
}

// Right returns the unit lateral axis (positive to the vehicle's right).
func (p Pose) Right() Vec3 {
	sin, cos := math.Sincos(p.Yaw)
	return Vec3{X: cos, Z: -sin}
}

// LocalX returns the signed lateral offset of a world point in the pose's
// frame: positive when the point lies to the vehicle's right.
func (p Pose) LocalX(point Vec3) float64 {
	return point.Sub(p.Position).Dot(p.Right())
}

// LocalZ returns the signed forward offset of a world point in the pose's
// frame: positive when the point lies ahead of the vehicle.
func (p Pose) LocalZ(point Vec3) float64 {
	return point.Sub(p.Position).Dot(p.Forward())
}
