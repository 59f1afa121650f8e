package memory

import (
	"context"
	"slices"
	"sync"

	"gotitanic/domain/passenger"
	"gotitanic/ports"
)

// passengerRepository keeps the record set in process memory. It backs the
// no-database mode and the service tests.
type passengerRepository struct {
	mu      sync.RWMutex
	records []passenger.Passenger
}

// NewPassengerRepository creates an empty in-memory passenger repository
func NewPassengerRepository() ports.PassengerRepository {
	return &passengerRepository{}
}

// FetchAll returns a copy of the stored records, ordered by passenger ID
func (r *passengerRepository) FetchAll(ctx context.Context) ([]passenger.Passenger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.records), nil
}

func (r *passengerRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

// ReplaceAll swaps the whole record set atomically
func (r *passengerRepository) ReplaceAll(ctx context.Context, records []passenger.Passenger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next := slices.Clone(records)
	slices.SortStableFunc(next, func(a, b passenger.Passenger) int {
		return a.PassengerID - b.PassengerID
	})

	r.mu.Lock()
	r.records = next
	r.mu.Unlock()
	return nil
}
