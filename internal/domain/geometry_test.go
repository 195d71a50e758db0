package domain

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestPolygonGeometry_ClosesOpenRing(t *testing.T) {
	geom := PolygonGeometry([]orb.Point{{0, 0}, {10, 0}, {10, 5}, {0, 5}})

	poly, ok := geom.Shape.(orb.Polygon)
	assert.True(t, ok)
	ring := poly[0]
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestPolygonGeometry_KeepsClosedRing(t *testing.T) {
	geom := PolygonGeometry([]orb.Point{{0, 0}, {10, 0}, {10, 5}, {0, 5}, {0, 0}})

	poly := geom.Shape.(orb.Polygon)
	assert.Len(t, poly[0], 5)
}

func TestGeometry_RawArea(t *testing.T) {
	tests := []struct {
		name string
		geom Geometry
		want float64
	}{
		{
			name: "rectangle",
			geom: PolygonGeometry([]orb.Point{{0, 0}, {10, 0}, {10, 5}, {0, 5}}),
			want: 50,
		},
		{
			name: "clockwise winding still positive",
			geom: PolygonGeometry([]orb.Point{{0, 5}, {10, 5}, {10, 0}, {0, 0}}),
			want: 50,
		},
		{
			name: "line has no area",
			geom: LineGeometry([]orb.Point{{0, 0}, {20, 0}}),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.geom.RawArea(), 1e-9)
		})
	}
}

func TestGeometry_RawLength(t *testing.T) {
	tests := []struct {
		name string
		geom Geometry
		want float64
	}{
		{
			name: "straight segment",
			geom: LineGeometry([]orb.Point{{0, 0}, {20, 0}}),
			want: 20,
		},
		{
			name: "right angle path",
			geom: LineGeometry([]orb.Point{{0, 0}, {3, 0}, {3, 4}}),
			want: 7,
		},
		{
			name: "polygon has no length",
			geom: PolygonGeometry([]orb.Point{{0, 0}, {10, 0}, {10, 5}, {0, 5}}),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.geom.RawLength(), 1e-9)
		})
	}
}

func TestGeometry_FirstLonLat(t *testing.T) {
	// The projection origin maps back to lon 0, lat 0
	geom := LineGeometry([]orb.Point{{0, 0}, {20, 0}})
	lon, lat, ok := geom.FirstLonLat()
	assert.True(t, ok)
	assert.InDelta(t, 0, lon, 1e-9)
	assert.InDelta(t, 0, lat, 1e-9)
}

func TestGeometry_FirstLonLat_RoundTrip(t *testing.T) {
	// Spherical mercator of (lon 45, lat ~40.9799) for x = R*π/4
	geom := PolygonGeometry([]orb.Point{
		{5009377.085697312, 5009377.085697312},
		{5009477, 5009377.085697312},
		{5009477, 5009477},
	})
	lon, lat, ok := geom.FirstLonLat()
	assert.True(t, ok)
	assert.InDelta(t, 45, lon, 1e-6)
	assert.InDelta(t, 40.9799, lat, 1e-3)
}

func TestGeometry_FirstLonLat_EmptyShape(t *testing.T) {
	_, _, ok := Geometry{Kind: GeometryKindLineString, Shape: orb.LineString{}}.FirstLonLat()
	assert.False(t, ok)

	_, _, ok = Geometry{Kind: GeometryKindPolygon, Shape: orb.Polygon{}}.FirstLonLat()
	assert.False(t, ok)
}

func TestGeometry_Empty(t *testing.T) {
	assert.True(t, Geometry{Kind: GeometryKindPolygon, Shape: orb.Polygon{}}.Empty())
	assert.True(t, Geometry{Kind: GeometryKindLineString, Shape: orb.LineString{{0, 0}}}.Empty())
	assert.False(t, LineGeometry([]orb.Point{{0, 0}, {1, 1}}).Empty())
	assert.False(t, PolygonGeometry([]orb.Point{{0, 0}, {1, 0}, {1, 1}}).Empty())
}
