package analysis

import (
	"context"
	"fmt"
	"time"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/core"
	"gotitanic/domain/passenger"

	"golang.org/x/sync/errgroup"
)

// Builder assembles full analysis snapshots
type Builder struct {
	ageBinning *domain.Binning
	tabulator  *Tabulator
	now        func() time.Time
}

// NewBuilder creates a snapshot builder sharing config with its tabulator
func NewBuilder(config TabulatorConfig) (*Builder, error) {
	tabulator, err := NewTabulator(config)
	if err != nil {
		return nil, err
	}
	return &Builder{
		ageBinning: config.AgeBinning,
		tabulator:  tabulator,
		now:        core.Now,
	}, nil
}

// Build computes a snapshot from one stable view of the records: total count,
// top-level age distribution, class and sex counts, and the class-rooted and
// sex-rooted cross-tabulations. Apart from ID and CreatedAt the result depends
// only on the multiset of records.
func (b *Builder) Build(ctx context.Context, records []passenger.Passenger) (*domain.Snapshot, error) {
	binning, err := ResolveBinning(records, AgeAttribute, b.ageBinning)
	if err != nil {
		return nil, fmt.Errorf("age binning: %w", err)
	}
	ages, err := ComputeDistribution(records, AgeAttribute, nil, binning)
	if err != nil {
		return nil, fmt.Errorf("age distribution: %w", err)
	}

	snapshot := &domain.Snapshot{
		Count:       len(records),
		Ages:        ages,
		ClassCounts: Group(records, func(p passenger.Passenger) int { return int(p.Class) }),
		SexCounts:   Group(records, func(p passenger.Passenger) string { return string(p.Sex) }),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		classes, err := b.tabulator.Tabulate(gctx, records, ClassThenSex())
		if err != nil {
			return fmt.Errorf("class breakdown: %w", err)
		}
		snapshot.Classes = classes
		return nil
	})
	g.Go(func() error {
		sexes, err := b.tabulator.Tabulate(gctx, records, SexThenClass())
		if err != nil {
			return fmt.Errorf("sex breakdown: %w", err)
		}
		snapshot.Sexes = sexes
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot.ID = core.NewID()
	snapshot.CreatedAt = b.now()
	return snapshot, nil
}
