package analysis

import (
	"cmp"
	"fmt"
	"time"

	"gotitanic/domain/core"
)

// GroupCount is the number of records sharing one key value
type GroupCount[K cmp.Ordered] struct {
	Key   K   `json:"key"`
	Count int `json:"count"`
}

// Bucket is one bar of a distribution. Raw value buckets have Lower == Upper;
// ranged buckets cover the half-open interval [Lower, Upper).
type Bucket struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Ranged reports whether the bucket is an interval rather than a raw value
func (b Bucket) Ranged() bool {
	return b.Upper > b.Lower
}

// Contains reports whether v falls in the bucket
func (b Bucket) Contains(v float64) bool {
	if !b.Ranged() {
		return v == b.Lower
	}
	return v >= b.Lower && v < b.Upper
}

// Binning describes fixed-width histogram buckets over [RangeMin, RangeMax)
type Binning struct {
	Width    float64 `json:"width"`
	RangeMin float64 `json:"rangeMin"`
	RangeMax float64 `json:"rangeMax"`
}

// Validate rejects binnings that cannot produce at least one bucket
func (b Binning) Validate() error {
	if b.Width <= 0 {
		return fmt.Errorf("bucket width must be positive, got %g", b.Width)
	}
	if b.RangeMax <= b.RangeMin {
		return fmt.Errorf("bucket range [%g, %g) is empty", b.RangeMin, b.RangeMax)
	}
	return nil
}

// Summary holds the statistics of a non-empty distribution
type Summary struct {
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	StdDeviation float64 `json:"stdDeviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
}

// Distribution is the distribution of one numeric attribute over a filtered
// subset. An empty subset is marked with NoData and a nil Summary.
type Distribution struct {
	Attribute string   `json:"attribute"`
	Buckets   []Bucket `json:"data"`
	Summary   *Summary `json:"summary"`
	MaxCount  int      `json:"maxCount"`
	NoData    bool     `json:"noData"`
}

// Count returns the number of records in the distribution
func (d Distribution) Count() int {
	if d.Summary == nil {
		return 0
	}
	return d.Summary.Count
}

// Mean returns the arithmetic mean, or core.ErrNoData for an empty subset
func (d Distribution) Mean() (float64, error) {
	if d.NoData || d.Summary == nil {
		return 0, core.ErrNoData
	}
	return d.Summary.Mean, nil
}

// StdDeviation returns the population standard deviation, or core.ErrNoData
func (d Distribution) StdDeviation() (float64, error) {
	if d.NoData || d.Summary == nil {
		return 0, core.ErrNoData
	}
	return d.Summary.StdDeviation, nil
}

// OutcomeSplit partitions a leaf subset by survival
type OutcomeSplit struct {
	Survived     int          `json:"survived"`
	Died         int          `json:"died"`
	SurvivedAges Distribution `json:"survivedAges"`
	DiedAges     Distribution `json:"diedAges"`
}

// CrossTabNode is one level of a nested breakdown. Dimension names the
// attribute its children split on and Keys lists the child keys ascending.
// Leaves carry an Outcome split instead of children.
type CrossTabNode struct {
	Dimension string                   `json:"dimension,omitempty"`
	Count     int                      `json:"count"`
	Ages      Distribution             `json:"ages"`
	Keys      []string                 `json:"keys,omitempty"`
	Children  map[string]*CrossTabNode `json:"children,omitempty"`
	Outcome   *OutcomeSplit            `json:"outcome,omitempty"`
}

// Leaf reports whether the node has no further dimensions
func (n *CrossTabNode) Leaf() bool {
	return n.Outcome != nil
}

// Child returns the subtree for one dimension value
func (n *CrossTabNode) Child(key string) (*CrossTabNode, bool) {
	child, ok := n.Children[key]
	return child, ok
}

// Path walks a sequence of dimension values from this node
func (n *CrossTabNode) Path(keys ...string) (*CrossTabNode, bool) {
	node := n
	for _, key := range keys {
		next, ok := node.Child(key)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// OutcomeTotals sums the survival split of every leaf below the node
func (n *CrossTabNode) OutcomeTotals() (survived, died int) {
	if n.Outcome != nil {
		return n.Outcome.Survived, n.Outcome.Died
	}
	for _, key := range n.Keys {
		s, d := n.Children[key].OutcomeTotals()
		survived += s
		died += d
	}
	return survived, died
}

// Interval is a confidence interval around a ratio
type Interval struct {
	Level float64 `json:"level"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// OutcomeRatio is the survival ratio of the records matching a filter.
// NoData marks an empty match set, distinct from a legitimate 0.0 ratio.
type OutcomeRatio struct {
	Matching int       `json:"matching"`
	Survived int       `json:"survived"`
	Ratio    *float64  `json:"ratio"`
	Interval *Interval `json:"interval,omitempty"`
	NoData   bool      `json:"noData"`
}

// Value returns the ratio, or core.ErrNoData when nothing matched
func (r OutcomeRatio) Value() (float64, error) {
	if r.NoData || r.Ratio == nil {
		return 0, core.ErrNoData
	}
	return *r.Ratio, nil
}

// Selector names a top-level section of a snapshot
type Selector string

const (
	SelectAges    Selector = "ages"
	SelectClasses Selector = "classes"
	SelectSexes   Selector = "sexes"
)

// ParseSelector validates a selector name
func ParseSelector(s string) (Selector, error) {
	switch sel := Selector(s); sel {
	case SelectAges, SelectClasses, SelectSexes:
		return sel, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownSelector, s)
}

// Snapshot is one immutable full report produced by a single analysis run
type Snapshot struct {
	ID          core.ID              `json:"id"`
	Count       int                  `json:"count"`
	Ages        Distribution         `json:"ages"`
	Classes     *CrossTabNode        `json:"classes"`
	Sexes       *CrossTabNode        `json:"sexes"`
	ClassCounts []GroupCount[int]    `json:"classCounts"`
	SexCounts   []GroupCount[string] `json:"sexCounts"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// Select returns the section of the snapshot named by the selector
func (s *Snapshot) Select(sel Selector) (any, error) {
	switch sel {
	case SelectAges:
		return s.Ages, nil
	case SelectClasses:
		return s.Classes, nil
	case SelectSexes:
		return s.Sexes, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrUnknownSelector, sel)
}
