// Package domain contains core business types and interfaces.
//
// This file defines the Geometry type supplied by the map drawing surface.
// Shapes arrive in a projected (web mercator style) coordinate system whose
// linear units are meters; all raw measurements here are planar.
package domain

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// GeometryKind identifies the shape family a service can be priced from.
type GeometryKind string

const (
	GeometryKindPolygon    GeometryKind = "Polygon"
	GeometryKindLineString GeometryKind = "LineString"
)

// earthRadius is the spherical mercator radius used to recover lon/lat
// from projected coordinates for the fallback address label.
const earthRadius = 6378137.0

// Geometry is a shape drawn or selected on the map, tagged with its kind.
type Geometry struct {
	Kind  GeometryKind
	Shape orb.Geometry
}

// PolygonGeometry builds a polygon Geometry from a single exterior ring.
// The ring is closed if the drawing surface left it open.
func PolygonGeometry(ring []orb.Point) Geometry {
	r := orb.Ring(ring)
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return Geometry{
		Kind:  GeometryKindPolygon,
		Shape: orb.Polygon{r},
	}
}

// LineGeometry builds a polyline Geometry from an ordered point sequence.
func LineGeometry(points []orb.Point) Geometry {
	return Geometry{
		Kind:  GeometryKindLineString,
		Shape: orb.LineString(points),
	}
}

// RawArea returns the planar area of the shape in square meters.
// Zero for non-polygon shapes.
func (g Geometry) RawArea() float64 {
	if g.Kind != GeometryKindPolygon {
		return 0
	}
	return math.Abs(planar.Area(g.Shape))
}

// RawLength returns the planar length of the shape in meters.
// Zero for polygon shapes.
func (g Geometry) RawLength() float64 {
	if g.Kind != GeometryKindLineString {
		return 0
	}
	return planar.Length(g.Shape)
}

// FirstLonLat returns the lon/lat of the shape's first coordinate,
// inverting the spherical mercator projection. Used to label estimates
// with an approximate location when no address was confirmed.
func (g Geometry) FirstLonLat() (lon, lat float64, ok bool) {
	var p orb.Point
	switch s := g.Shape.(type) {
	case orb.Polygon:
		if len(s) == 0 || len(s[0]) == 0 {
			return 0, 0, false
		}
		p = s[0][0]
	case orb.LineString:
		if len(s) == 0 {
			return 0, 0, false
		}
		p = s[0]
	default:
		return 0, 0, false
	}

	lon = p[0] / earthRadius * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(p[1]/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat, true
}

// Empty reports whether the shape has no coordinates.
func (g Geometry) Empty() bool {
	switch s := g.Shape.(type) {
	case orb.Polygon:
		return len(s) == 0 || len(s[0]) < 3
	case orb.LineString:
		return len(s) < 2
	default:
		return true
	}
}
