package ports

import (
	"context"

	"gotitanic/domain/passenger"
)

// PassengerRepository defines the interface for the passenger record store
type PassengerRepository interface {
	// FetchAll returns every stored record, ordered by passenger ID
	FetchAll(ctx context.Context) ([]passenger.Passenger, error)
	Count(ctx context.Context) (int, error)

	// ReplaceAll swaps the stored records for the given set in one transaction
	ReplaceAll(ctx context.Context, records []passenger.Passenger) error
}
