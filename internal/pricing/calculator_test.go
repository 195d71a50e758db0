package pricing

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestimate/prestimate/internal/domain"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// rectangle returns a polygon geometry with the given raw planar area.
func rectangle(width, height float64) domain.Geometry {
	return domain.PolygonGeometry([]orb.Point{
		{0, 0}, {width, 0}, {width, height}, {0, height},
	})
}

// line returns a straight polyline geometry with the given raw length.
func line(length float64) domain.Geometry {
	return domain.LineGeometry([]orb.Point{{0, 0}, {length, 0}})
}

func houseService() domain.ServiceDefinition {
	return domain.ServiceDefinition{
		Key:         "house",
		Label:       "House Wash",
		Unit:        domain.UnitSquareFeet,
		BasePrice:   price("0.25"),
		Calc:        domain.CalcKindArea,
		UsesStories: true,
	}
}

func fenceService() domain.ServiceDefinition {
	return domain.ServiceDefinition{
		Key:       "fence",
		Label:     "Fence Wash",
		Unit:      domain.UnitFeet,
		BasePrice: price("0.40"),
		Calc:      domain.CalcKindLengthWithHeight,
	}
}

func TestComputeEstimate_HousePolygon(t *testing.T) {
	// 50 m² house: 538.195 ft² rounds to 538, 538 * 0.25 = 134.50
	quote, err := ComputeEstimate(rectangle(10, 5), houseService(), domain.Modifiers{})
	require.NoError(t, err)

	assert.Equal(t, "538", quote.Measurement.String())
	assert.Equal(t, domain.UnitSquareFeet, quote.Unit)
	assert.Equal(t, "134.5", quote.EstimatedCost.String())
	assert.Equal(t, "House Wash", quote.Description)
}

func TestComputeEstimate_FenceLineWithHeight(t *testing.T) {
	// 20 m run at 6 ft height: 20 * 3.28084 * 6 = 393.7008 rounds to 394,
	// 394 * 0.40 = 157.60
	quote, err := ComputeEstimate(line(20), fenceService(), domain.Modifiers{FenceHeight: 6})
	require.NoError(t, err)

	assert.Equal(t, "394", quote.Measurement.String())
	assert.Equal(t, domain.UnitFeet, quote.Unit)
	assert.Equal(t, "157.6", quote.EstimatedCost.String())
	assert.Equal(t, "6ft Fence Wash", quote.Description)
}

func TestComputeEstimate_FenceHeightAppliedBeforeRounding(t *testing.T) {
	// Rounding the length first would give round(65.6168)=66, 66*6=396.
	// The height must multiply the raw length: 393.7008 rounds to 394.
	quote, err := ComputeEstimate(line(20), fenceService(), domain.Modifiers{FenceHeight: 6})
	require.NoError(t, err)
	assert.Equal(t, "394", quote.Measurement.String())
}

func TestComputeEstimate_FenceHeightDefaultsToOne(t *testing.T) {
	tests := []struct {
		name   string
		height float64
	}{
		{name: "unsupplied", height: 0},
		{name: "below one", height: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := ComputeEstimate(line(20), fenceService(), domain.Modifiers{FenceHeight: tt.height})
			require.NoError(t, err)

			// 20 * 3.28084 = 65.6168 rounds to 66
			assert.Equal(t, "66", quote.Measurement.String())
			assert.Equal(t, "Fence Wash", quote.Description)
		})
	}
}

func TestComputeEstimate_FenceMonotonicInHeight(t *testing.T) {
	geom := line(20)
	prev := decimal.Zero
	for _, height := range []float64{1, 2, 4, 6, 8} {
		quote, err := ComputeEstimate(geom, fenceService(), domain.Modifiers{FenceHeight: height})
		require.NoError(t, err)
		assert.True(t, quote.EstimatedCost.GreaterThan(prev),
			"cost at height %g should exceed cost at lower height", height)
		prev = quote.EstimatedCost
	}
}

func TestComputeEstimate_GeometryMismatch(t *testing.T) {
	tests := []struct {
		name string
		geom domain.Geometry
		svc  domain.ServiceDefinition
	}{
		{
			name: "line drawn for area service",
			geom: line(20),
			svc:  houseService(),
		},
		{
			name: "polygon drawn for length service",
			geom: rectangle(10, 5),
			svc:  fenceService(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := ComputeEstimate(tt.geom, tt.svc, domain.Modifiers{})
			assert.Nil(t, quote)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestComputeEstimate_MetricUnitsSkipConversion(t *testing.T) {
	svc := houseService()
	svc.Unit = domain.UnitSquareMeters

	quote, err := ComputeEstimate(rectangle(10, 5), svc, domain.Modifiers{})
	require.NoError(t, err)

	assert.Equal(t, "50", quote.Measurement.String())
	assert.Equal(t, domain.UnitSquareMeters, quote.Unit)
	assert.Equal(t, "12.5", quote.EstimatedCost.String())
}

func TestComputeEstimate_StoryCountInDescriptionOnly(t *testing.T) {
	base, err := ComputeEstimate(rectangle(10, 5), houseService(), domain.Modifiers{})
	require.NoError(t, err)

	withStories, err := ComputeEstimate(rectangle(10, 5), houseService(), domain.Modifiers{StoryCount: 2})
	require.NoError(t, err)

	// Story count labels the estimate but never changes the math
	assert.Equal(t, "2-story House Wash", withStories.Description)
	assert.True(t, base.Measurement.Equal(withStories.Measurement))
	assert.True(t, base.EstimatedCost.Equal(withStories.EstimatedCost))
}

func TestComputeEstimate_StoryCountIgnoredByOtherServices(t *testing.T) {
	svc := domain.ServiceDefinition{
		Key:       "driveway",
		Label:     "Driveway Wash",
		Unit:      domain.UnitSquareFeet,
		BasePrice: price("0.20"),
		Calc:      domain.CalcKindArea,
	}

	quote, err := ComputeEstimate(rectangle(10, 5), svc, domain.Modifiers{StoryCount: 3})
	require.NoError(t, err)
	assert.Equal(t, "Driveway Wash", quote.Description)
}

func TestComputeEstimate_ZeroAreaGeometry(t *testing.T) {
	// A degenerate polygon still has coordinates and prices to zero
	// rather than failing.
	quote, err := ComputeEstimate(rectangle(0, 0), houseService(), domain.Modifiers{})
	require.NoError(t, err)
	assert.True(t, quote.Measurement.IsZero())
	assert.True(t, quote.EstimatedCost.IsZero())
}

func TestComputeEstimate_EmptyGeometry(t *testing.T) {
	tests := []struct {
		name string
		geom domain.Geometry
		svc  domain.ServiceDefinition
	}{
		{
			name: "polygon without a ring",
			geom: domain.PolygonGeometry(nil),
			svc:  houseService(),
		},
		{
			name: "line with a single point",
			geom: domain.LineGeometry([]orb.Point{{0, 0}}),
			svc:  fenceService(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := ComputeEstimate(tt.geom, tt.svc, domain.Modifiers{})
			assert.Nil(t, quote)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestComputeEstimate_UnknownCalcKind(t *testing.T) {
	svc := houseService()
	svc.Calc = domain.CalcKind("bogus")

	quote, err := ComputeEstimate(rectangle(10, 5), svc, domain.Modifiers{})
	assert.Nil(t, quote)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestComputeEstimate_CostUsesExactDecimalRounding(t *testing.T) {
	// 10 m² → 107.639 ft² rounds to 108; 108 * 0.25 = 27.00 exactly,
	// with no float drift in the cents.
	quote, err := ComputeEstimate(rectangle(10, 1), houseService(), domain.Modifiers{})
	require.NoError(t, err)
	assert.Equal(t, "108", quote.Measurement.String())
	assert.Equal(t, "27", quote.EstimatedCost.String())
}
