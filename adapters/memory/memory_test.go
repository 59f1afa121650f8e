package memory

import (
	"context"
	"testing"
	"time"

	"gotitanic/domain/analysis"
	"gotitanic/domain/core"
	"gotitanic/domain/passenger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassengerRepository_ReplaceAllOrdersByID(t *testing.T) {
	ctx := context.Background()
	repo := NewPassengerRepository()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	input := []passenger.Passenger{
		{PassengerID: 3, Sex: passenger.SexMale},
		{PassengerID: 1, Sex: passenger.SexFemale},
		{PassengerID: 2, Sex: passenger.SexMale},
	}
	require.NoError(t, repo.ReplaceAll(ctx, input))

	records, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{records[0].PassengerID, records[1].PassengerID, records[2].PassengerID})
	assert.Equal(t, 3, input[0].PassengerID, "caller slice must not be reordered")

	records[0].Age = 99
	again, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, again[0].Age, "FetchAll must return a copy")

	require.NoError(t, repo.ReplaceAll(ctx, input[:1]))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPassengerRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPassengerRepository().FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotRepository_LatestGetList(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository()

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, core.ErrSnapshotNotFound)
	assert.True(t, core.IsNotFoundError(err))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var stored []*analysis.Snapshot
	for i := 0; i < 3; i++ {
		s := &analysis.Snapshot{ID: core.NewID(), Count: i + 1, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Store(ctx, s))
		stored = append(stored, s)
	}

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Same(t, stored[2], latest)

	got, err := repo.Get(ctx, stored[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)

	_, err = repo.Get(ctx, core.NewID())
	assert.ErrorIs(t, err, core.ErrNotFound)

	list, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, stored[2].ID, list[0].ID)
	assert.Equal(t, stored[1].ID, list[1].ID)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSnapshotRepository_RejectsDuplicatesAndMissingID(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository()

	assert.Error(t, repo.Store(ctx, &analysis.Snapshot{}))

	s := &analysis.Snapshot{ID: core.NewID()}
	require.NoError(t, repo.Store(ctx, s))
	assert.Error(t, repo.Store(ctx, s))
}
