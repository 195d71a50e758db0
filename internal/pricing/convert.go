// Package pricing turns drawn geometry into priced estimates.
//
// This file holds the unit conversion from the projected meters the
// drawing surface supplies to the business-facing unit on the service.
package pricing

import "github.com/prestimate/prestimate/internal/domain"

// Conversion constants from the projection's meters to imperial units.
const (
	SquareFeetPerSquareMeter = 10.7639 // m² → ft²
	FeetPerMeter             = 3.28084 // m → ft
)

// AreaToSquareFeet converts a raw planar area in square meters to square
// feet. Pure and total; input validation is the calculator's job.
func AreaToSquareFeet(rawSquareMeters float64) float64 {
	return rawSquareMeters * SquareFeetPerSquareMeter
}

// LengthToFeet converts a raw planar length in meters to feet.
func LengthToFeet(rawMeters float64) float64 {
	return rawMeters * FeetPerMeter
}

// ConvertArea converts a raw area to the service's unit. Metric units are
// an identity passthrough since the projection is already in meters.
func ConvertArea(unit domain.Unit, rawSquareMeters float64) float64 {
	if unit.IsMetric() {
		return rawSquareMeters
	}
	return AreaToSquareFeet(rawSquareMeters)
}

// ConvertLength converts a raw length to the service's unit.
func ConvertLength(unit domain.Unit, rawMeters float64) float64 {
	if unit.IsMetric() {
		return rawMeters
	}
	return LengthToFeet(rawMeters)
}
