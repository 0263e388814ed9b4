// Package physics animates a vehicle along a recorded path.
package physics

import (
	"math"

	"skidpad/internal/common"
	"skidpad/internal/trajectory"
)

const (
	MaxSpeed     = 15.0 // m/s, replay speed cap
	Acceleration = 2.0  // m/s per second of throttle
	Braking      = 4.0  // m/s per second of brake
	Friction     = 0.5  // m/s per second of coasting drag
)

// Car replays a path kinematically: it only moves along the path, advancing
// by Speed*dt metres of arc length per update.
type Car struct {
	Position common.Vec2
	Heading  float64 // Radians
	Speed    float64 // m/s, never negative
	Distance float64 // Arc length travelled along the path (m)
	Finished bool

	// Dimensions (m)
	Width  float64
	Length float64

	Checkpoint int // Index of the last path point passed
	Ticks      int
}

// NewCar places a car at the start of path.
func NewCar(path *trajectory.Path) *Car {
	pos, heading := path.PositionAt(0)
	return &Car{
		Position: pos,
		Heading:  heading,
		Width:    1.5,
		Length:   3.0,
	}
}

// Place moves the car to the path point closest to pos and continues the
// replay from there.
func (c *Car) Place(path *trajectory.Path, pos common.Vec2) {
	idx := path.Closest(pos)
	c.Distance = path.Offset(idx)
	c.Checkpoint = idx
	c.Finished = false
	c.Position, c.Heading = path.PositionAt(c.Distance)
}

// Update advances the replay by dt seconds.
// throttle: 0.0 to 1.0
// brake: 0.0 to 1.0
func (c *Car) Update(path *trajectory.Path, throttle, brake, dt float64) {
	if c.Finished || dt <= 0 {
		return
	}
	c.Ticks++

	// 1. Apply input
	c.Speed += throttle*Acceleration*dt - brake*Braking*dt

	// 2. Coasting drag
	c.Speed -= Friction * dt
	c.Speed = math.Max(0, math.Min(c.Speed, MaxSpeed))

	// 3. Move along the path
	c.Distance += c.Speed * dt
	if total := path.Length(); c.Distance >= total {
		c.Distance = total
		c.Speed = 0
		c.Finished = true
	}
	c.Position, c.Heading = path.PositionAt(c.Distance)

	// 4. Track the last passed point
	for c.Checkpoint+1 < path.Len() && path.Offset(c.Checkpoint+1) <= c.Distance {
		c.Checkpoint++
	}
}

// Corners returns the four body corners in world coordinates, front first.
func (c *Car) Corners() [4]common.Vec2 {
	halfW := c.Width / 2
	halfL := c.Length / 2
	offsets := [4]common.Vec2{
		{X: halfL, Y: -halfW}, // Front Right
		{X: halfL, Y: halfW},  // Front Left
		{X: -halfL, Y: halfW}, // Rear Left
		{X: -halfL, Y: -halfW},
	}
	var out [4]common.Vec2
	for i, off := range offsets {
		out[i] = off.Rotate(c.Heading).Add(c.Position)
	}
	return out
}
