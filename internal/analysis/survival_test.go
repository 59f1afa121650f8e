package analysis

import (
	"testing"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/core"
	"gotitanic/domain/passenger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestEstimateOutcomeRatio_Scenario(t *testing.T) {
	records := scenarioPassengers()

	male, err := EstimateOutcomeRatio(records, domain.Filter{Sex: ptr(passenger.SexMale)})
	require.NoError(t, err)
	v, err := male.Value()
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
	assert.Equal(t, 2, male.Matching)

	female, err := EstimateOutcomeRatio(records, domain.Filter{Sex: ptr(passenger.SexFemale)})
	require.NoError(t, err)
	v, err = female.Value()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	none, err := EstimateOutcomeRatio(records, domain.Filter{Sex: ptr(passenger.SexMale), Class: ptr(passenger.SecondClass)})
	require.NoError(t, err)
	assert.True(t, none.NoData)
	assert.Nil(t, none.Ratio)
	assert.Nil(t, none.Interval)
	_, err = none.Value()
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestEstimateOutcomeRatio_ZeroIsNotNoData(t *testing.T) {
	records := scenarioPassengers()
	died, err := EstimateOutcomeRatio(records, domain.Filter{AgeMin: ptr(45.0)})
	require.NoError(t, err)
	assert.False(t, died.NoData)
	v, err := died.Value()
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestEstimateOutcomeRatio_InclusiveAgeRange(t *testing.T) {
	r, err := EstimateOutcomeRatio(scenarioPassengers(), domain.Filter{AgeMin: ptr(20.0), AgeMax: ptr(30.0)})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Matching)
	assert.Equal(t, 2, r.Survived)
}

func TestEstimateOutcomeRatio_InvalidFilterRejectedBeforeComputation(t *testing.T) {
	_, err := EstimateOutcomeRatio(nil, domain.Filter{Sex: ptr(passenger.Sex("unknown"))})
	assert.ErrorIs(t, err, core.ErrInvalidFilter)

	_, err = EstimateOutcomeRatio(nil, domain.Filter{AgeMin: ptr(50.0), AgeMax: ptr(10.0)})
	assert.ErrorIs(t, err, core.ErrInvalidFilter)
}

func TestEstimateOutcomeRatio_RatioAndIntervalBounded(t *testing.T) {
	records := randomPassengers(300, 9)
	for _, sex := range passenger.Sexes() {
		for _, class := range passenger.Classes() {
			r, err := EstimateOutcomeRatio(records, domain.Filter{Sex: ptr(sex), Class: ptr(class)})
			require.NoError(t, err)
			if r.NoData {
				continue
			}
			v, _ := r.Value()
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			require.NotNil(t, r.Interval)
			assert.LessOrEqual(t, r.Interval.Lower, v)
			assert.GreaterOrEqual(t, r.Interval.Upper, v)
			assert.GreaterOrEqual(t, r.Interval.Lower, 0.0)
			assert.LessOrEqual(t, r.Interval.Upper, 1.0)
		}
	}
}

func TestWilsonInterval_KnownValue(t *testing.T) {
	// 50 of 100 at 95%: 0.5 +/- 0.0962
	iv := wilsonInterval(50, 100, 0.95)
	require.NotNil(t, iv)
	assert.InDelta(t, 0.4038, iv.Lower, 0.001)
	assert.InDelta(t, 0.5962, iv.Upper, 0.001)
	assert.Nil(t, wilsonInterval(0, 0, 0.95))
}
