package track

import "image/color"

// Display colours per cone class, shared by the viewer, plots and raster
// renderers.
var (
	ColorBlue      = color.RGBA{30, 90, 230, 255}
	ColorYellow    = color.RGBA{245, 210, 20, 255}
	ColorOrange    = color.RGBA{255, 140, 0, 255}
	ColorBigOrange = color.RGBA{230, 80, 0, 255}
	ColorUnknown   = color.RGBA{160, 160, 160, 255}
)

// Color returns the display colour of the class.
func (c ConeClass) Color() color.RGBA {
	switch c {
	case ClassLeftBoundary:
		return ColorBlue
	case ClassRightBoundary:
		return ColorYellow
	case ClassSmallOrange:
		return ColorOrange
	case ClassBigOrange:
		return ColorBigOrange
	}
	return ColorUnknown
}

// ColorToConeClass maps a pixel colour to the nearest cone class. This is a
// simple threshold mapper for hand-painted cone maps; ok is false for pixels
// that match no class (background).
func ColorToConeClass(c color.Color) (class ConeClass, ok bool) {
	r, g, b, _ := c.RGBA()
	// Normalize to 8-bit
	r8, g8, b8 := r>>8, g>>8, b>>8

	switch {
	// Blue
	case b8 > 150 && r8 < 100 && g8 < 150:
		return ClassLeftBoundary, true
	// Yellow
	case r8 > 200 && g8 > 180 && b8 < 100:
		return ClassRightBoundary, true
	// Orange: bright red channel, mid green
	case r8 > 200 && g8 >= 110 && g8 <= 180 && b8 < 80:
		return ClassSmallOrange, true
	// Dark orange
	case r8 > 180 && g8 >= 40 && g8 < 110 && b8 < 60:
		return ClassBigOrange, true
	}
	return 0, false
}
