package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/passenger"

	"github.com/montanaflynn/stats"
)

// maxBuckets bounds histograms built from a narrow width over a wide range
const maxBuckets = 10000

// ComputeDistribution computes the distribution of attr over the passengers
// matching pred. With a binning the buckets are zero-filled fixed-width
// intervals; without one they are the raw distinct values.
//
// An empty subset yields a NoData distribution with a nil Summary.
func ComputeDistribution(records []passenger.Passenger, attr Attribute, pred Predicate, binning *domain.Binning) (domain.Distribution, error) {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if pred == nil || pred(r) {
			values = append(values, attr.Value(r))
		}
	}

	// Sorting first keeps the summary bit-identical across input orders.
	sort.Float64s(values)

	dist := domain.Distribution{Attribute: attr.Name}

	var err error
	if binning != nil {
		dist.Buckets, err = binnedBuckets(values, *binning)
		if err != nil {
			return domain.Distribution{}, err
		}
	} else {
		dist.Buckets = rawBuckets(values)
	}

	for _, b := range dist.Buckets {
		if b.Count > dist.MaxCount {
			dist.MaxCount = b.Count
		}
	}

	if len(values) == 0 {
		dist.NoData = true
		return dist, nil
	}

	summary, err := summarize(values)
	if err != nil {
		return domain.Distribution{}, err
	}
	dist.Summary = summary
	return dist, nil
}

// summarize computes mean, population standard deviation and extrema
func summarize(values []float64) (*domain.Summary, error) {
	mean, err := stats.Mean(values)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	stdDev, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return nil, fmt.Errorf("standard deviation: %w", err)
	}
	min, err := stats.Min(values)
	if err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	max, err := stats.Max(values)
	if err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}

	// Identical values can leave rounding residue in the mean.
	if min == max {
		stdDev = 0
	}

	return &domain.Summary{
		Count:        len(values),
		Mean:         mean,
		StdDeviation: stdDev,
		Min:          min,
		Max:          max,
	}, nil
}

// rawBuckets counts each distinct value of a sorted slice
func rawBuckets(values []float64) []domain.Bucket {
	buckets := make([]domain.Bucket, 0)
	for _, v := range values {
		if n := len(buckets); n > 0 && buckets[n-1].Lower == v {
			buckets[n-1].Count++
			continue
		}
		buckets = append(buckets, domain.Bucket{Label: formatNumber(v), Lower: v, Upper: v, Count: 1})
	}
	return buckets
}

// ResolveBinning widens b once over attr's values across all records, so
// distributions of any subset share the same bucket edges. A nil binning
// stays nil.
func ResolveBinning(records []passenger.Passenger, attr Attribute, b *domain.Binning) (*domain.Binning, error) {
	if b == nil {
		return nil, nil
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	resolved := *b
	if len(records) == 0 {
		return &resolved, nil
	}
	minV, maxV := attr.Value(records[0]), attr.Value(records[0])
	for _, r := range records[1:] {
		v := attr.Value(r)
		minV = min(minV, v)
		maxV = max(maxV, v)
	}
	resolved = widen(resolved, minV, maxV)
	return &resolved, nil
}

// widen extends the range by whole widths until it covers [minV, maxV], so
// the bucket edges stay aligned to RangeMin
func widen(b domain.Binning, minV, maxV float64) domain.Binning {
	if minV < b.RangeMin {
		b.RangeMin -= math.Ceil((b.RangeMin-minV)/b.Width) * b.Width
	}
	if maxV >= b.RangeMax {
		b.RangeMax += (math.Floor((maxV-b.RangeMax)/b.Width) + 1) * b.Width
	}
	return b
}

// binnedBuckets assigns every value to exactly one [lo+k*w, lo+(k+1)*w)
// bucket, widening the range when values fall outside it. values must be
// sorted.
func binnedBuckets(values []float64, b domain.Binning) ([]domain.Bucket, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if len(values) > 0 {
		b = widen(b, values[0], values[len(values)-1])
	}
	w, lo, hi := b.Width, b.RangeMin, b.RangeMax

	n := int(math.Ceil((hi-lo)/w - 1e-9))
	if n > maxBuckets {
		return nil, fmt.Errorf("binning of width %g over [%g, %g) needs %d buckets, limit is %d", w, lo, hi, n, maxBuckets)
	}

	edge := func(k int) float64 { return roundEdge(lo + float64(k)*w) }
	buckets := make([]domain.Bucket, n)
	for k := range buckets {
		lower, upper := edge(k), edge(k+1)
		buckets[k] = domain.Bucket{
			Label: "[" + formatNumber(lower) + ", " + formatNumber(upper) + ")",
			Lower: lower,
			Upper: upper,
		}
	}

	for _, v := range values {
		k := int(math.Floor((v - lo) / w))
		// Correct for division rounding so edges match the bucket labels.
		if k+1 < n && v >= edge(k+1) {
			k++
		}
		if k > 0 && v < edge(k) {
			k--
		}
		k = max(0, min(k, n-1))
		buckets[k].Count++
	}
	return buckets, nil
}

// roundEdge drops float noise such as 0.30000000000000004 from bucket edges
func roundEdge(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
