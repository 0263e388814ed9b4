package track

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skidpad/internal/common"
)

func TestParseConeClass(t *testing.T) {
	cases := map[string]ConeClass{
		"blue":       ClassLeftBoundary,
		" Yellow ":   ClassRightBoundary,
		"orange":     ClassSmallOrange,
		"big_orange": ClassBigOrange,
		"left":       ClassLeftBoundary,
		"right":      ClassRightBoundary,
		"gate":       ClassSmallOrange,
		"CENTER":     ClassBigOrange,
	}
	for in, want := range cases {
		got, err := ParseConeClass(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseConeClass("purple")
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
}

func TestConeClassString(t *testing.T) {
	for _, c := range Classes {
		assert.True(t, c.Valid())
		back, err := ParseConeClass(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, back)
	}
	assert.Equal(t, "unknown", ConeClass(42).String())
	assert.False(t, ConeClass(-1).Valid())
}

func TestNearestDistance(t *testing.T) {
	set := NewConeSet([]Cone{
		{Position: common.Vec2{X: 0, Y: 2}, Class: ClassLeftBoundary},
		{Position: common.Vec2{X: 0, Y: 5}, Class: ClassLeftBoundary},
		{Position: common.Vec2{X: 0, Y: -1}, Class: ClassRightBoundary},
	})

	d, ok := set.NearestDistance(common.Vec2{}, ClassLeftBoundary)
	require.True(t, ok)
	assert.InDelta(t, 2.0, d, 1e-12)

	d, ok = set.NearestDistance(common.Vec2{X: 0, Y: 4}, ClassLeftBoundary)
	require.True(t, ok)
	assert.InDelta(t, 1.0, d, 1e-12)

	d, ok = set.NearestDistance(common.Vec2{}, ClassRightBoundary)
	require.True(t, ok)
	assert.InDelta(t, 1.0, d, 1e-12)

	_, ok = set.NearestDistance(common.Vec2{}, ClassBigOrange)
	assert.False(t, ok, "no big orange cones in the set")

	var empty *ConeSet
	_, ok = empty.NearestDistance(common.Vec2{}, ClassLeftBoundary)
	assert.False(t, ok)
	assert.Equal(t, 0, empty.Len())
}

func TestNearestDistanceIsMinimum(t *testing.T) {
	layout, err := GenerateSkidpad(SkidpadParams{CenterRadius: 9.125, TrackWidth: 3, ConesPerHalf: 12})
	require.NoError(t, err)
	set := layout.ConeSet()

	queries := []common.Vec2{{X: 0, Y: 0}, {X: -9, Y: 9}, {X: 20, Y: -3}, {X: 1.2, Y: 0.7}}
	for _, q := range queries {
		for _, class := range Classes {
			d, ok := set.NearestDistance(q, class)
			require.True(t, ok)
			assert.GreaterOrEqual(t, d, 0.0)
			for _, c := range set.Cones() {
				if c.Class == class {
					assert.LessOrEqual(t, d, q.Dist(c.Position)+1e-12)
				}
			}
		}
	}
}

func TestConeSetIsACopy(t *testing.T) {
	cones := []Cone{{Position: common.Vec2{X: 1}, Class: ClassSmallOrange}}
	set := NewConeSet(cones)
	cones[0].Position.X = 99

	got := set.Cones()
	assert.Equal(t, 1.0, got[0].Position.X)
	got[0].Position.X = 42
	assert.Equal(t, 1.0, set.Cones()[0].Position.X)
	assert.Equal(t, 1, set.Count(ClassSmallOrange))
	assert.Equal(t, 0, set.Count(ClassBigOrange))
}

func TestReadCones(t *testing.T) {
	in := "x,y,color\n0.0,0.0,blue\n1.0,0.5,blue\n\n0.5, 1.0, yellow\n0.0,2.0,orange\n"
	set, err := ReadCones(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 4, set.Len())
	assert.Equal(t, 2, set.Count(ClassLeftBoundary))
	assert.Equal(t, 1, set.Count(ClassRightBoundary))
	assert.Equal(t, 1, set.Count(ClassSmallOrange))
}

func TestReadCones_ColumnOrder(t *testing.T) {
	in := "class,id,y,x\nbig_orange,7,3,-1\n"
	set, err := ReadCones(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, Cone{Position: common.Vec2{X: -1, Y: 3}, Class: ClassBigOrange}, set.Cones()[0])
}

func TestReadCones_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"missing column": "x,y\n1,2\n",
		"bad float":      "x,y,color\nabc,2,blue\n",
		"bad class":      "x,y,color\n1,2,purple\n",
		"short row":      "x,y,color\n1\n",
		"nan x":          "x,y,color\nNaN,2,blue\n",
		"inf y":          "x,y,color\n1,-Inf,blue\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCones(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestReadCones_NonFinite(t *testing.T) {
	_, err := ReadCones(strings.NewReader("x,y,color\n0,0,blue\n1,+Inf,yellow\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadConesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cones.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y,color\n1,2,yellow\n"), 0644))

	set, err := LoadConesFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Count(ClassRightBoundary))

	_, err = LoadConesFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestColorRoundTrip(t *testing.T) {
	for _, c := range Classes {
		got, ok := ColorToConeClass(c.Color())
		require.True(t, ok, c.String())
		assert.Equal(t, c, got)
	}
	_, ok := ColorToConeClass(color.White)
	assert.False(t, ok)
	_, ok = ColorToConeClass(color.Black)
	assert.False(t, ok)
}

func TestConesFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.White)
		}
	}
	for _, p := range [][2]int{{2, 2}, {3, 2}, {2, 3}, {3, 3}} {
		img.Set(p[0], p[1], ColorBlue)
	}
	for _, p := range [][2]int{{14, 10}, {15, 10}, {14, 11}, {15, 11}} {
		img.Set(p[0], p[1], ColorYellow)
	}

	set, err := ConesFromImage(img, 0.5)
	require.NoError(t, err)
	cones := set.Cones()
	require.Len(t, cones, 2)

	assert.Equal(t, ClassLeftBoundary, cones[0].Class)
	assert.InDelta(t, -3.5, cones[0].Position.X, 1e-12)
	assert.InDelta(t, 3.5, cones[0].Position.Y, 1e-12)

	assert.Equal(t, ClassRightBoundary, cones[1].Class)
	assert.InDelta(t, 2.5, cones[1].Position.X, 1e-12)
	assert.InDelta(t, -0.5, cones[1].Position.Y, 1e-12)

	_, err = ConesFromImage(img, 0)
	assert.True(t, errors.Is(err, common.ErrInvalidParameter))
	_, err = ConesFromImage(img, math.NaN())
	assert.Error(t, err)
}
