package app

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/core"
	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/analysis"
	"gotitanic/internal/metrics"
	"gotitanic/ports"
)

// dataset pairs a published snapshot with the records it was built from
type dataset struct {
	snapshot *domain.Snapshot
	records  []passenger.Passenger
}

// AnalysisService owns the published snapshot and answers read queries.
// Snapshots are built from one FetchAll view of the records and swapped in
// atomically together with that view, so readers never observe a partially
// built report and ad-hoc queries describe the same records as the snapshot.
type AnalysisService struct {
	passengers ports.PassengerRepository
	snapshots  ports.SnapshotRepository
	builder    *analysis.Builder
	metrics    *metrics.Metrics
	logger     *internal.Logger

	current   atomic.Pointer[dataset]
	rebuildMu sync.Mutex
}

// NewAnalysisService creates an analysis service; m may be nil
func NewAnalysisService(
	passengers ports.PassengerRepository,
	snapshots ports.SnapshotRepository,
	builder *analysis.Builder,
	m *metrics.Metrics,
) *AnalysisService {
	return &AnalysisService{
		passengers: passengers,
		snapshots:  snapshots,
		builder:    builder,
		metrics:    m,
		logger:     internal.DefaultLogger.WithComponent("analysis"),
	}
}

// Rebuild computes a new snapshot, stores it and publishes it. Concurrent
// calls are serialized. On failure the previously published snapshot stays
// in place and the error wraps core.ErrRebuildFailed.
func (s *AnalysisService) Rebuild(ctx context.Context) (*domain.Snapshot, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	start := time.Now()
	next, err := s.rebuild(ctx)
	if s.metrics != nil {
		s.metrics.ObserveRebuild(time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("rebuild failed, keeping previous snapshot: %v", err)
		return nil, err
	}

	s.current.Store(next)
	s.setPublished(next.snapshot)
	s.logger.Info("published snapshot %s (%d records) in %s", next.snapshot.ID, next.snapshot.Count, time.Since(start))
	return next.snapshot, nil
}

func (s *AnalysisService) rebuild(ctx context.Context) (*dataset, error) {
	records, err := s.passengers.FetchAll(ctx)
	if err != nil {
		return nil, core.NewRebuildError("fetch", err)
	}

	snapshot, err := s.builder.Build(ctx, records)
	if err != nil {
		return nil, core.NewRebuildError("build", err)
	}

	if err := s.snapshots.Store(ctx, snapshot); err != nil {
		return nil, core.NewRebuildError("store", err)
	}
	return &dataset{snapshot: snapshot, records: records}, nil
}

func (s *AnalysisService) setPublished(snapshot *domain.Snapshot) {
	if s.metrics != nil {
		s.metrics.SetPublished(snapshot.Count, snapshot.CreatedAt)
	}
}

// published returns the published dataset. Before the first rebuild of this
// process it pairs the latest stored snapshot with the stored records.
func (s *AnalysisService) published(ctx context.Context) (*dataset, error) {
	if current := s.current.Load(); current != nil {
		return current, nil
	}

	stored, err := s.snapshots.Latest(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.passengers.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) != stored.Count {
		s.logger.Warn("stored snapshot %s covers %d records, store holds %d; rebuild to refresh",
			stored.ID, stored.Count, len(records))
	}

	warm := &dataset{snapshot: stored, records: records}
	// A rebuild may have published in the meantime; never replace a newer one.
	if s.current.CompareAndSwap(nil, warm) {
		s.setPublished(stored)
		return warm, nil
	}
	return s.current.Load(), nil
}

// Snapshot returns the published snapshot. Before the first rebuild of this
// process it falls back to the latest stored one.
func (s *AnalysisService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	published, err := s.published(ctx)
	if err != nil {
		return nil, err
	}
	return published.snapshot, nil
}

// Select returns one section of the published snapshot
func (s *AnalysisService) Select(ctx context.Context, sel domain.Selector) (any, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Select(sel)
}

// GetSnapshot returns a stored snapshot by ID
func (s *AnalysisService) GetSnapshot(ctx context.Context, id core.ID) (*domain.Snapshot, error) {
	if current := s.current.Load(); current != nil && current.snapshot.ID == id {
		return current.snapshot, nil
	}
	return s.snapshots.Get(ctx, id)
}

// History lists stored snapshot headers, newest first
func (s *AnalysisService) History(ctx context.Context, limit int) ([]ports.SnapshotSummary, error) {
	return s.snapshots.List(ctx, limit)
}

// Passengers returns every stored record
func (s *AnalysisService) Passengers(ctx context.Context) ([]passenger.Passenger, error) {
	return s.passengers.FetchAll(ctx)
}

// EstimateOutcomeRatio computes the survival ratio for a filter over the
// records of the published snapshot. Records imported since the last rebuild
// are not visible. The filter is validated before anything is read.
func (s *AnalysisService) EstimateOutcomeRatio(ctx context.Context, filter domain.Filter) (domain.OutcomeRatio, error) {
	if err := filter.Validate(); err != nil {
		return domain.OutcomeRatio{}, err
	}
	published, err := s.published(ctx)
	if err != nil {
		return domain.OutcomeRatio{}, err
	}
	return analysis.EstimateOutcomeRatio(published.records, filter)
}

// Distribution computes the distribution of one attribute over the published
// records matching filter, raw when binning is nil
func (s *AnalysisService) Distribution(ctx context.Context, attr analysis.Attribute, filter domain.Filter, binning *domain.Binning) (domain.Distribution, error) {
	if err := filter.Validate(); err != nil {
		return domain.Distribution{}, err
	}
	if binning != nil {
		if err := binning.Validate(); err != nil {
			return domain.Distribution{}, core.NewInvalidFilterError("binning", err.Error())
		}
	}
	published, err := s.published(ctx)
	if err != nil {
		return domain.Distribution{}, err
	}
	dist, err := analysis.ComputeDistribution(published.records, attr, analysis.FromFilter(filter), binning)
	if err != nil {
		return domain.Distribution{}, core.NewInvalidFilterError("binning", err.Error())
	}
	return dist, nil
}

// Import loads records from a source and replaces the stored set with the
// accepted ones. It does not rebuild; callers decide when to publish.
func (s *AnalysisService) Import(ctx context.Context, reader ports.PassengerReader) (*ports.ImportResult, error) {
	result, err := reader.Read(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveImport(len(result.Accepted), len(result.Rejected))
	}
	for _, rejected := range result.Rejected {
		s.logger.Warn("row %d rejected: %s", rejected.Row, rejected.Reason)
	}

	if err := s.passengers.ReplaceAll(ctx, result.Accepted); err != nil {
		return nil, err
	}
	s.logger.Info("imported %d passengers, rejected %d rows", len(result.Accepted), len(result.Rejected))
	return result, nil
}

// RunPeriodicRebuild rebuilds on every tick until ctx is done. Failed
// rebuilds are logged and retried on the next tick.
func (s *AnalysisService) RunPeriodicRebuild(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Rebuild(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
				s.logger.Warn("periodic rebuild failed: %v", err)
			}
		}
	}
}
