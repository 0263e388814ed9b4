package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skidpad/internal/common"
	"skidpad/internal/trajectory"
)

func straightPath(t *testing.T, n int) *trajectory.Path {
	t.Helper()
	pts := make([]common.Vec2, n)
	for i := range pts {
		pts[i] = common.Vec2{X: float64(i)}
	}
	p, err := trajectory.FromPoints(pts)
	require.NoError(t, err)
	return p
}

func TestCar_Update(t *testing.T) {
	path := straightPath(t, 11)
	car := NewCar(path)
	assert.Equal(t, common.Vec2{}, car.Position)
	assert.Equal(t, 0.0, car.Heading)

	car.Update(path, 1, 0, 1)
	assert.InDelta(t, 1.5, car.Speed, 1e-12)
	assert.InDelta(t, 1.5, car.Distance, 1e-12)
	assert.InDelta(t, 1.5, car.Position.X, 1e-12)
	assert.Equal(t, 1, car.Checkpoint)
	assert.Equal(t, 1, car.Ticks)

	// Coasting slows the car but never reverses it.
	for i := 0; i < 10; i++ {
		car.Update(path, 0, 1, 1)
	}
	assert.Equal(t, 0.0, car.Speed)
	assert.InDelta(t, 1.5, car.Distance, 1e-12)
}

func TestCar_FinishesAtPathEnd(t *testing.T) {
	path := straightPath(t, 11)
	car := NewCar(path)
	for i := 0; i < 100 && !car.Finished; i++ {
		car.Update(path, 1, 0, 0.5)
	}
	require.True(t, car.Finished)
	assert.Equal(t, common.Vec2{X: 10}, car.Position)
	assert.Equal(t, 10, car.Checkpoint)
	assert.Equal(t, 0.0, car.Speed)

	ticks := car.Ticks
	car.Update(path, 1, 0, 0.5)
	assert.Equal(t, ticks, car.Ticks, "finished cars ignore updates")
}

func TestCar_SpeedCap(t *testing.T) {
	path := straightPath(t, 10000)
	car := NewCar(path)
	for i := 0; i < 100; i++ {
		car.Update(path, 1, 0, 1)
	}
	assert.Equal(t, MaxSpeed, car.Speed)
}

func TestCar_Place(t *testing.T) {
	path := straightPath(t, 11)
	car := NewCar(path)
	car.Finished = true

	car.Place(path, common.Vec2{X: 4.2, Y: 3})
	assert.False(t, car.Finished)
	assert.Equal(t, 4, car.Checkpoint)
	assert.Equal(t, 4.0, car.Distance)
	assert.Equal(t, common.Vec2{X: 4}, car.Position)
}

func TestCar_Corners(t *testing.T) {
	path := straightPath(t, 3)
	car := NewCar(path)

	c := car.Corners()
	assert.Equal(t, common.Vec2{X: 1.5, Y: -0.75}, c[0])
	assert.Equal(t, common.Vec2{X: -1.5, Y: -0.75}, c[3])
}
