// Package pricing turns drawn geometry into priced estimates.
//
// This file implements the estimate calculator: calculation-kind
// dispatch, rounding policy, and description formatting.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/prestimate/prestimate/internal/domain"
)

// Quote is the result of pricing one geometry against one service.
type Quote struct {
	Measurement   decimal.Decimal // Whole units
	Unit          domain.Unit
	EstimatedCost decimal.Decimal // 2 decimals
	Description   string
}

// ComputeEstimate prices a drawn shape against a service definition.
//
// The geometry kind must match what the service's unit requires; a line
// drawn for an area service (or vice versa) fails with a geometry
// mismatch. Rounding is exact: the measurement rounds half-up to whole
// units, the cost rounds half-up to 2 decimals, and the fence height
// multiplier is applied to the raw length before rounding.
func ComputeEstimate(geom domain.Geometry, svc domain.ServiceDefinition, mods domain.Modifiers) (*Quote, error) {
	const op = "pricing.compute"

	if want := svc.Unit.GeometryKind(); geom.Kind != want {
		return nil, domain.GeometryMismatch(op, geom.Kind, want)
	}

	if geom.Empty() {
		return nil, domain.Invalid(op, "geometry has no coordinates")
	}

	var converted float64
	switch svc.Calc {
	case domain.CalcKindArea:
		converted = ConvertArea(svc.Unit, geom.RawArea())
	case domain.CalcKindLength:
		converted = ConvertLength(svc.Unit, geom.RawLength())
	case domain.CalcKindLengthWithHeight:
		height := mods.FenceHeight
		if height < 1 {
			height = 1
		}
		converted = ConvertLength(svc.Unit, geom.RawLength()) * height
	default:
		return nil, domain.Invalid(op, fmt.Sprintf("service %q has unknown calculation kind %q", svc.Key, svc.Calc))
	}

	measurement := decimal.NewFromFloat(converted).Round(0)
	cost := measurement.Mul(svc.BasePrice).Round(2)

	return &Quote{
		Measurement:   measurement,
		Unit:          svc.Unit,
		EstimatedCost: cost,
		Description:   describe(svc, mods),
	}, nil
}

// describe builds the human-readable line for the estimate list. The
// modifier value is included only when the service uses it and the
// caller supplied it; everything else is the plain label.
func describe(svc domain.ServiceDefinition, mods domain.Modifiers) string {
	switch {
	case svc.UsesStories && mods.StoryCount >= 1:
		return fmt.Sprintf("%d-story %s", mods.StoryCount, svc.Label)
	case svc.Calc == domain.CalcKindLengthWithHeight && mods.FenceHeight >= 1:
		return fmt.Sprintf("%gft %s", mods.FenceHeight, svc.Label)
	}
	return svc.Label
}
