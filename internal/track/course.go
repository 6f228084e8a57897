package track

import "github.com/san-kum/roversim/internal/geom"

// Checkpoint is a goal position with a capture radius.
type Checkpoint struct {
	Position geom.Vec3
	Radius   float64
}

// Event records a checkpoint capture. Events accumulate until the caller
// drains them each tick; there is no callback wiring.
type Event struct {
	Index int
	Time  float64
}

// Course is an ordered checkpoint sequence. When Loop is set the course
// wraps around instead of finishing.
type Course struct {
	points  []Checkpoint
	next    int
	reached int
	loop    bool
	events  []Event
}

func NewCourse(points []Checkpoint, loop bool) *Course {
	return &Course{points: points, loop: loop}
}

// Line builds a straight course of evenly spaced checkpoints along +Z.
func Line(count int, spacing, radius float64) *Course {
	points := make([]Checkpoint, count)
	for i := range points {
		points[i] = Checkpoint{
			Position: geom.Vec3{Z: spacing * float64(i+1)},
			Radius:   radius,
		}
	}
	return NewCourse(points, false)
}

// NextGoal returns the current target position, or false when the course
// is finished (or empty).
func (c *Course) NextGoal(geom.Pose) (geom.Vec3, bool) {
	if c.next >= len(c.points) {
		return geom.Vec3{}, false
	}
	return c.points[c.next].Position, true
}

// Advance consumes the current checkpoint if the pose is inside its
// capture radius and queues a capture event. Called once per tick.
func (c *Course) Advance(pose geom.Pose, t float64) {
	if c.next >= len(c.points) {
		return
	}
	cp := c.points[c.next]
	if pose.Position.Sub(cp.Position).Norm() > cp.Radius {
		return
	}

	c.events = append(c.events, Event{Index: c.next, Time: t})
	c.reached++
	c.next++
	if c.loop && c.next >= len(c.points) {
		c.next = 0
	}
}

// DrainEvents returns captures since the last drain and clears the queue.
func (c *Course) DrainEvents() []Event {
	ev := c.events
	c.events = nil
	return ev
}

// Reached returns the total number of captured checkpoints.
func (c *Course) Reached() int {
	return c.reached
}

// Done reports whether a non-looping course has been completed.
func (c *Course) Done() bool {
	return !c.loop && c.next >= len(c.points)
}

// Reset restores the course to its start and drops pending events.
func (c *Course) Reset() {
	c.next = 0
	c.reached = 0
	c.events = nil
}

// Checkpoints exposes the course geometry for visualization.
func (c *Course) Checkpoints() []Checkpoint {
	return c.points
}

// NextIndex returns the index of the current target checkpoint.
func (c *Course) NextIndex() int {
	return c.next
}
