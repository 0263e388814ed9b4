package report

import (
	"fmt"
	"io"
	"math"

	"github.com/twpayne/go-kml"
	"github.com/twpayne/go-kml/sphere"

	"skidpad/internal/common"
	"skidpad/internal/track"
	"skidpad/internal/trajectory"
)

// GeoOrigin anchors the local metric frame on the globe. HeadingDeg rotates
// local +x counter-clockwise from east.
type GeoOrigin struct {
	Lat        float64
	Lon        float64
	HeadingDeg float64
}

// ToGeo converts a local position in metres to a WGS84 coordinate.
func (o GeoOrigin) ToGeo(p common.Vec2) kml.Coordinate {
	origin := kml.Coordinate{Lon: o.Lon, Lat: o.Lat}
	if p == (common.Vec2{}) {
		return origin
	}
	enu := p.Rotate(o.HeadingDeg * math.Pi / 180)
	// Compass bearing: clockwise from north.
	bearing := math.Atan2(enu.X, enu.Y) * 180 / math.Pi
	return sphere.WGS84.Offset(origin, enu.Len(), bearing)
}

// WriteLayoutKML writes the layout as one folder of styled placemarks per
// cone class. A non-nil path is added as a line string.
func WriteLayoutKML(w io.Writer, name string, layout *track.Layout, path *trajectory.Path, origin GeoOrigin) error {
	children := []kml.Element{kml.Name(name)}

	for _, class := range track.Classes {
		children = append(children, kml.SharedStyle(styleID(class),
			kml.IconStyle(
				kml.Color(class.Color()),
				kml.Scale(0.6),
			),
		))
	}

	for _, class := range track.Classes {
		pts := layout.Cones[class]
		if len(pts) == 0 {
			continue
		}
		folder := kml.Folder(kml.Name(class.String()))
		for i, p := range pts {
			folder.Add(kml.Placemark(
				kml.Name(fmt.Sprintf("%s %d", class, i)),
				kml.StyleURL("#"+styleID(class)),
				kml.Point(kml.Coordinates(origin.ToGeo(p))),
			))
		}
		children = append(children, folder)
	}

	if path != nil {
		coords := make([]kml.Coordinate, path.Len())
		for i, p := range path.Points() {
			coords[i] = origin.ToGeo(p)
		}
		children = append(children, kml.Placemark(
			kml.Name("path"),
			kml.LineString(kml.Coordinates(coords...)),
		))
	}

	return kml.KML(kml.Document(children...)).WriteIndent(w, "", "  ")
}

func styleID(c track.ConeClass) string {
	return "cone-" + c.String()
}
