package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnit_Valid(t *testing.T) {
	for _, u := range []Unit{UnitSquareFeet, UnitSquareMeters, UnitFeet, UnitMeters} {
		assert.True(t, u.Valid(), "unit %q should be valid", u)
	}
	for _, u := range []Unit{"", "yd", "ft3", "sqft"} {
		assert.False(t, Unit(u).Valid(), "unit %q should be invalid", u)
	}
}

func TestUnit_GeometryKind(t *testing.T) {
	tests := []struct {
		unit Unit
		want GeometryKind
	}{
		{UnitSquareFeet, GeometryKindPolygon},
		{UnitSquareMeters, GeometryKindPolygon},
		{UnitFeet, GeometryKindLineString},
		{UnitMeters, GeometryKindLineString},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.unit.GeometryKind(), "unit %q", tt.unit)
	}
}

func TestCalcKindForUnit(t *testing.T) {
	assert.Equal(t, CalcKindArea, CalcKindForUnit(UnitSquareFeet))
	assert.Equal(t, CalcKindArea, CalcKindForUnit(UnitSquareMeters))
	assert.Equal(t, CalcKindLength, CalcKindForUnit(UnitFeet))
	assert.Equal(t, CalcKindLength, CalcKindForUnit(UnitMeters))
}

func TestDefaultServices(t *testing.T) {
	services := DefaultServices()
	assert.Len(t, services, 6)

	byKey := make(map[string]ServiceDefinition, len(services))
	for _, svc := range services {
		byKey[svc.Key] = svc
	}

	house := byKey["house"]
	assert.Equal(t, "House Wash", house.Label)
	assert.Equal(t, UnitSquareFeet, house.Unit)
	assert.Equal(t, "0.25", house.BasePrice.String())
	assert.True(t, house.UsesStories)

	fence := byKey["fence"]
	assert.Equal(t, UnitFeet, fence.Unit)
	assert.Equal(t, CalcKindLengthWithHeight, fence.Calc)
	assert.Equal(t, "0.4", fence.BasePrice.String())

	// Only the house service carries the story modifier
	for key, svc := range byKey {
		if key != "house" {
			assert.False(t, svc.UsesStories, "service %q should not use stories", key)
		}
	}

	// Every service's calc kind matches its unit's geometry family
	for key, svc := range byKey {
		if svc.Unit.IsArea() {
			assert.Equal(t, CalcKindArea, svc.Calc, "service %q", key)
		}
	}
}

func TestDeriveServiceKey(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{name: "simple", label: "Roof Wash", want: "roof-wash"},
		{name: "already lowercase", label: "deck", want: "deck"},
		{name: "collapses runs", label: "Gutter  &  Downspout", want: "gutter-downspout"},
		{name: "strips diacritics", label: "Façade Wash", want: "facade-wash"},
		{name: "trims edges", label: "  Solar Panels!  ", want: "solar-panels"},
		{name: "digits kept", label: "2nd Story Wash", want: "2nd-story-wash"},
		{name: "symbols only", label: "!!!", want: ""},
		{name: "empty", label: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveServiceKey(tt.label))
		})
	}
}

func TestDeriveServiceKey_Stable(t *testing.T) {
	// The same label always derives the same key
	assert.Equal(t, DeriveServiceKey("Roof Wash"), DeriveServiceKey("Roof Wash"))
	assert.Equal(t, DeriveServiceKey("roof wash"), DeriveServiceKey("Roof Wash"))
}
