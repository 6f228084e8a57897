package vehicle

import (
	"github.com/san-kum/roversim/internal/geom"
)

// Vehicle is a kinematic ground vehicle: throttle maps to longitudinal
// acceleration against drag, steer to a yaw rate scaled by speed. It is
// deliberately not a dynamics model; the arbitration core treats it as an
// opaque actuator with two inputs.
type Vehicle struct {
	MaxSpeed     float64 // m/s, forward
	MaxReverse   float64 // m/s, magnitude
	MaxAccel     float64 // m/s² at full throttle
	Drag         float64 // 1/s, speed-proportional decay
	MaxSteerRate float64 // rad/s at full steer and full speed

	pose     geom.Pose
	speed    float64
	throttle float64
	steer    float64
}

func New() *Vehicle {
	return &Vehicle{
		MaxSpeed:     12.0,
		MaxReverse:   4.0,
		MaxAccel:     6.0,
		Drag:         0.35,
		MaxSteerRate: 1.8,
	}
}

// Apply stores the command for the next integration step. Inputs are
// clamped once more here; the plant trusts nobody upstream.
func (v *Vehicle) Apply(throttle, steer float64) {
	v.throttle = geom.Clamp(throttle, -1, 1)
	v.steer = geom.Clamp(steer, -1, 1)
}

// FullStop zeroes the command and kills all motion immediately.
func (v *Vehicle) FullStop() {
	v.throttle = 0
	v.steer = 0
	v.speed = 0
}

// Step integrates the plant by dt using the last applied command. Yaw
// rate scales with the speed fraction, so the vehicle cannot spin in
// place and steering flips with reverse travel.
func (v *Vehicle) Step(dt float64) {
	accel := v.throttle*v.MaxAccel - v.Drag*v.speed
	v.speed = geom.Clamp(v.speed+accel*dt, -v.MaxReverse, v.MaxSpeed)

	v.pose.Yaw += v.steer * v.MaxSteerRate * (v.speed / v.MaxSpeed) * dt
	v.pose.Position = v.pose.Position.Add(v.pose.Forward().Scale(v.speed * dt))
}

func (v *Vehicle) Pose() geom.Pose {
	return v.pose
}

// Speed returns the signed forward speed.
func (v *Vehicle) Speed() float64 {
	return v.speed
}

// Command returns the last applied throttle/steer pair.
func (v *Vehicle) Command() (throttle, steer float64) {
	return v.throttle, v.steer
}

// Reset places the vehicle at the given pose at rest.
func (v *Vehicle) Reset(pose geom.Pose) {
	v.pose = pose
	v.speed = 0
	v.throttle = 0
	v.steer = 0
}
