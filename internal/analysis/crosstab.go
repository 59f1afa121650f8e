package analysis

import (
	"cmp"
	"context"
	"fmt"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/passenger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Partition is the subset of records sharing one dimension value
type Partition struct {
	Key     string
	Records []passenger.Passenger
}

// Dimension is a categorical attribute a cross-tabulation can split on
type Dimension struct {
	Name      string
	partition func([]passenger.Passenger) []Partition
}

// NewDimension builds a dimension from a key function. Partitions are
// ordered by the natural order of K, not by the formatted key.
func NewDimension[K cmp.Ordered](name string, key func(passenger.Passenger) K) Dimension {
	return Dimension{
		Name: name,
		partition: func(records []passenger.Passenger) []Partition {
			groups := PartitionBy(records, key)
			parts := make([]Partition, len(groups))
			for i, g := range groups {
				parts[i] = Partition{Key: fmt.Sprint(g.Key), Records: g.Records}
			}
			return parts
		},
	}
}

// Partition splits records by the dimension, ascending by key
func (d Dimension) Partition(records []passenger.Passenger) []Partition {
	return d.partition(records)
}

var (
	SexDimension   = NewDimension("sex", func(p passenger.Passenger) string { return string(p.Sex) })
	ClassDimension = NewDimension("class", func(p passenger.Passenger) int { return int(p.Class) })
)

// SexThenClass splits by sex, then by class within each sex
func SexThenClass() []Dimension {
	return []Dimension{SexDimension, ClassDimension}
}

// ClassThenSex splits by class, then by sex within each class
func ClassThenSex() []Dimension {
	return []Dimension{ClassDimension, SexDimension}
}

// TabulatorConfig controls how cross-tabulations are computed
type TabulatorConfig struct {
	// AgeBinning buckets every age distribution in the tree; nil keeps raw ages
	AgeBinning *domain.Binning
	// MinKnownAge excludes lower ages from the per-outcome age distributions
	// of the leaves, where 0 stands for an unknown age in some sources
	MinKnownAge float64
	// Workers bounds concurrently evaluated sibling branches
	Workers int
}

// Tabulator computes nested breakdowns over an ordered list of dimensions
type Tabulator struct {
	config TabulatorConfig
	sem    *semaphore.Weighted
}

// NewTabulator creates a tabulator; Workers <= 0 evaluates branches inline
func NewTabulator(config TabulatorConfig) (*Tabulator, error) {
	if config.AgeBinning != nil {
		if err := config.AgeBinning.Validate(); err != nil {
			return nil, fmt.Errorf("invalid age binning: %w", err)
		}
	}
	t := &Tabulator{config: config}
	if config.Workers > 0 {
		t.sem = semaphore.NewWeighted(int64(config.Workers))
	}
	return t, nil
}

// Tabulate splits records by dims[0], recurses into every group with the
// remaining dimensions and computes the outcome split once dims is exhausted.
// Children are ordered by key, so the tree does not depend on record order.
// Cancellation is observed between branches. Every age distribution in the
// tree uses the age binning resolved over all records, so siblings have the
// same buckets.
func (t *Tabulator) Tabulate(ctx context.Context, records []passenger.Passenger, dims []Dimension) (*domain.CrossTabNode, error) {
	binning, err := ResolveBinning(records, AgeAttribute, t.config.AgeBinning)
	if err != nil {
		return nil, err
	}
	return t.tabulate(ctx, records, dims, binning)
}

func (t *Tabulator) tabulate(ctx context.Context, records []passenger.Passenger, dims []Dimension, binning *domain.Binning) (*domain.CrossTabNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ages, err := ComputeDistribution(records, AgeAttribute, nil, binning)
	if err != nil {
		return nil, err
	}
	node := &domain.CrossTabNode{Count: len(records), Ages: ages}

	if len(dims) == 0 {
		node.Outcome, err = t.outcome(records, binning)
		if err != nil {
			return nil, err
		}
		return node, nil
	}

	head, tail := dims[0], dims[1:]
	parts := head.Partition(records)
	children := make([]*domain.CrossTabNode, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		// Run in a worker when one is free, otherwise on this goroutine so
		// nested levels never wait on slots held by their parents.
		if t.sem != nil && t.sem.TryAcquire(1) {
			i, part := i, part
			g.Go(func() error {
				defer t.sem.Release(1)
				child, err := t.tabulate(gctx, part.Records, tail, binning)
				if err != nil {
					return err
				}
				children[i] = child
				return nil
			})
			continue
		}
		child, err := t.tabulate(gctx, part.Records, tail, binning)
		if err != nil {
			_ = g.Wait()
			return nil, err
		}
		children[i] = child
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	node.Dimension = head.Name
	node.Keys = make([]string, len(parts))
	node.Children = make(map[string]*domain.CrossTabNode, len(parts))
	for i, part := range parts {
		node.Keys[i] = part.Key
		node.Children[part.Key] = children[i]
	}
	return node, nil
}

func (t *Tabulator) outcome(records []passenger.Passenger, binning *domain.Binning) (*domain.OutcomeSplit, error) {
	split := &domain.OutcomeSplit{}
	for _, r := range records {
		if r.Survived {
			split.Survived++
		} else {
			split.Died++
		}
	}

	knownAge := AgeAtLeast(t.config.MinKnownAge)
	var err error
	split.SurvivedAges, err = ComputeDistribution(records, AgeAttribute, And(SurvivedIs(true), knownAge), binning)
	if err != nil {
		return nil, err
	}
	split.DiedAges, err = ComputeDistribution(records, AgeAttribute, And(SurvivedIs(false), knownAge), binning)
	if err != nil {
		return nil, err
	}
	return split, nil
}
