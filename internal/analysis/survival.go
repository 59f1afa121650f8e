package analysis

import (
	"math"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/passenger"

	"gonum.org/v1/gonum/stat/distuv"
)

// ConfidenceLevel is the coverage of the interval reported with outcome ratios
const ConfidenceLevel = 0.95

// EstimateOutcomeRatio computes the survival ratio of the passengers matching
// filter. The filter is validated before any record is read. When nothing
// matches the result carries the NoData marker instead of a ratio.
func EstimateOutcomeRatio(records []passenger.Passenger, filter domain.Filter) (domain.OutcomeRatio, error) {
	if err := filter.Validate(); err != nil {
		return domain.OutcomeRatio{}, err
	}

	var result domain.OutcomeRatio
	for _, r := range records {
		if !filter.Matches(r) {
			continue
		}
		result.Matching++
		if r.Survived {
			result.Survived++
		}
	}

	if result.Matching == 0 {
		result.NoData = true
		return result, nil
	}

	ratio := float64(result.Survived) / float64(result.Matching)
	result.Ratio = &ratio
	result.Interval = wilsonInterval(result.Survived, result.Matching, ConfidenceLevel)
	return result, nil
}

// wilsonInterval computes the Wilson score interval for a binomial proportion.
// Unlike the normal approximation it stays inside [0, 1] for small samples
// and for ratios of exactly 0 or 1.
func wilsonInterval(successes, n int, level float64) *domain.Interval {
	if n == 0 {
		return nil
	}
	z := distuv.UnitNormal.Quantile(1 - (1-level)/2)
	nf := float64(n)
	p := float64(successes) / nf
	z2 := z * z

	denom := 1 + z2/nf
	center := (p + z2/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z2/(4*nf*nf)) / denom

	return &domain.Interval{
		Level: level,
		Lower: math.Max(0, center-half),
		Upper: math.Min(1, center+half),
	}
}
