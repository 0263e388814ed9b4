package track

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"skidpad/internal/common"
)

// LoadConesFromImage reads a hand-painted cone map. Each connected blob of a
// cone colour becomes one cone at the blob centroid. scale is metres per
// pixel; the image centre maps to the track origin with y pointing up.
func LoadConesFromImage(path string, scale float64) (*ConeSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}

	return ConesFromImage(img, scale)
}

// ConesFromImage extracts cones from an already decoded image. See
// LoadConesFromImage.
func ConesFromImage(img image.Image, scale float64) (*ConeSet, error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return nil, fmt.Errorf("image scale %v must be positive: %w", scale, common.ErrInvalidParameter)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// 1. Classify every pixel
	classes := make([]int, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			classes[y*width+x] = -1
			if c, ok := ColorToConeClass(img.At(bounds.Min.X+x, bounds.Min.Y+y)); ok {
				classes[y*width+x] = int(c)
			}
		}
	}

	// 2. Flood fill blobs of the same class, 4-connected
	visited := make([]bool, width*height)
	var cones []Cone
	stack := []int{}

	for start := range classes {
		if classes[start] < 0 || visited[start] {
			continue
		}
		class := classes[start]
		sumX, sumY, count := 0.0, 0.0, 0

		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			px, py := idx%width, idx/width
			sumX += float64(px)
			sumY += float64(py)
			count++

			neighbours := [4][2]int{{px - 1, py}, {px + 1, py}, {px, py - 1}, {px, py + 1}}
			for _, nb := range neighbours {
				nx, ny := nb[0], nb[1]
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				n := ny*width + nx
				if !visited[n] && classes[n] == class {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}

		// 3. Pixel centroid to track coordinates
		cx := sumX/float64(count) + 0.5
		cy := sumY/float64(count) + 0.5
		cones = append(cones, Cone{
			Position: common.Vec2{
				X: (cx - float64(width)/2) * scale,
				Y: (float64(height)/2 - cy) * scale,
			},
			Class: ConeClass(class),
		})
	}

	return NewConeSet(cones), nil
}
