// Package domain contains core business types and interfaces.
//
// This file defines the ServiceDefinition catalog type: a priced,
// unit-typed offering (e.g., "Roof Wash") configured per account.
package domain

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// Units
// =============================================================================

// Unit is the business-facing measurement unit of a service. It determines
// both the geometry kind the drawing surface must produce and the
// calculation family the estimator dispatches to.
type Unit string

const (
	UnitSquareFeet   Unit = "ft²"
	UnitSquareMeters Unit = "m²"
	UnitFeet         Unit = "ft"
	UnitMeters       Unit = "m"
)

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	switch u {
	case UnitSquareFeet, UnitSquareMeters, UnitFeet, UnitMeters:
		return true
	}
	return false
}

// IsArea reports whether u measures area rather than length.
func (u Unit) IsArea() bool {
	return u == UnitSquareFeet || u == UnitSquareMeters
}

// IsMetric reports whether u is a metric unit (no conversion from the
// projected meters the drawing surface supplies).
func (u Unit) IsMetric() bool {
	return u == UnitSquareMeters || u == UnitMeters
}

// GeometryKind returns the shape kind a service with this unit requires.
// Area units price polygons; length units price polylines. The drawing
// surface uses this to pick its interaction mode, and the calculator
// enforces the same mapping.
func (u Unit) GeometryKind() GeometryKind {
	if u.IsArea() {
		return GeometryKindPolygon
	}
	return GeometryKindLineString
}

// =============================================================================
// Calculation Kinds
// =============================================================================

// CalcKind selects the measurement formula for a service. It is attached
// to the ServiceDefinition at creation time instead of being re-derived
// from the key on every estimate.
type CalcKind string

const (
	// CalcKindArea prices the converted polygon area.
	CalcKindArea CalcKind = "area"
	// CalcKindLength prices the converted polyline length.
	CalcKindLength CalcKind = "length"
	// CalcKindLengthWithHeight prices run length times fence height:
	// total washable surface, not just linear footage.
	CalcKindLengthWithHeight CalcKind = "length_with_height"
)

// IsArea reports whether the kind belongs to the area family.
func (k CalcKind) IsArea() bool {
	return k == CalcKindArea
}

// CalcKindForUnit returns the default calculation kind for a unit.
// Only the built-in fence service gets CalcKindLengthWithHeight; services
// added through the catalog get the plain family for their unit.
func CalcKindForUnit(u Unit) CalcKind {
	if u.IsArea() {
		return CalcKindArea
	}
	return CalcKindLength
}

// =============================================================================
// Service Definition
// =============================================================================

// ServiceDefinition is one configured offering in an account's catalog.
//
// Key is immutable once created: regenerating it would orphan the
// historical estimates that reference it. Label, unit and price are
// editable in place.
type ServiceDefinition struct {
	AccountID   uuid.UUID       // Owning account
	Key         string          // Stable slug, unique within the account
	Label       string          // Display name
	Unit        Unit            // Determines geometry kind and conversion
	BasePrice   decimal.Decimal // Non-negative price per unit
	Calc        CalcKind        // Measurement formula
	UsesStories bool            // Story count appears in the description
	Position    int32           // Catalog ordering (insertion order)
}

// DefaultServices is the fixed catalog seeded into empty accounts on
// first read.
func DefaultServices() []ServiceDefinition {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return []ServiceDefinition{
		{Key: "house", Label: "House Wash", Unit: UnitSquareFeet, BasePrice: price("0.25"), Calc: CalcKindArea, UsesStories: true},
		{Key: "roof", Label: "Roof Wash", Unit: UnitSquareFeet, BasePrice: price("0.30"), Calc: CalcKindArea},
		{Key: "fence", Label: "Fence Wash", Unit: UnitFeet, BasePrice: price("0.40"), Calc: CalcKindLengthWithHeight},
		{Key: "driveway", Label: "Driveway Wash", Unit: UnitSquareFeet, BasePrice: price("0.20"), Calc: CalcKindArea},
		{Key: "deck", Label: "Deck Wash", Unit: UnitSquareFeet, BasePrice: price("0.20"), Calc: CalcKindArea},
		{Key: "patio", Label: "Patio Wash", Unit: UnitSquareFeet, BasePrice: price("0.20"), Calc: CalcKindArea},
	}
}

// DeriveServiceKey turns a display label into a stable URL-safe slug:
// lowercase, diacritics stripped, non-alphanumeric runs collapsed to a
// single hyphen, no leading or trailing hyphen.
func DeriveServiceKey(label string) string {
	// Strip combining marks so accented labels slug cleanly.
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripper, label)
	if err != nil {
		plain = label
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if b.Len() > 0 && !hyphen {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// =============================================================================
// Catalog Service Parameters
// =============================================================================

// AddServiceParams contains validated parameters for adding a service.
type AddServiceParams struct {
	AccountID uuid.UUID
	Label     string
	Unit      Unit
	BasePrice decimal.Decimal
}

// UpdateServiceParams contains validated parameters for editing a service
// in place. Key identifies the service and is never changed.
type UpdateServiceParams struct {
	AccountID uuid.UUID
	Key       string
	Label     string
	Unit      Unit
	BasePrice decimal.Decimal
}
