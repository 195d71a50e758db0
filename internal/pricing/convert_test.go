package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prestimate/prestimate/internal/domain"
)

func TestAreaToSquareFeet(t *testing.T) {
	assert.InDelta(t, 10.7639, AreaToSquareFeet(1), 1e-9)
	assert.InDelta(t, 538.195, AreaToSquareFeet(50), 1e-9)
	assert.Zero(t, AreaToSquareFeet(0))
}

func TestLengthToFeet(t *testing.T) {
	assert.InDelta(t, 3.28084, LengthToFeet(1), 1e-9)
	assert.InDelta(t, 65.6168, LengthToFeet(20), 1e-9)
	assert.Zero(t, LengthToFeet(0))
}

func TestConvertArea(t *testing.T) {
	tests := []struct {
		name string
		unit domain.Unit
		raw  float64
		want float64
	}{
		{name: "square feet converts", unit: domain.UnitSquareFeet, raw: 50, want: 538.195},
		{name: "square meters passes through", unit: domain.UnitSquareMeters, raw: 50, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConvertArea(tt.unit, tt.raw), 1e-9)
		})
	}
}

func TestConvertLength(t *testing.T) {
	tests := []struct {
		name string
		unit domain.Unit
		raw  float64
		want float64
	}{
		{name: "feet converts", unit: domain.UnitFeet, raw: 20, want: 65.6168},
		{name: "meters passes through", unit: domain.UnitMeters, raw: 20, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConvertLength(tt.unit, tt.raw), 1e-9)
		})
	}
}
