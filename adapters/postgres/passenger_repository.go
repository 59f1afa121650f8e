package postgres

import (
	"context"
	"fmt"

	"gotitanic/domain/passenger"
	"gotitanic/internal/errors"
	"gotitanic/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// passengerRepository implements the PassengerRepository interface
type passengerRepository struct {
	db *sqlx.DB
}

// NewPassengerRepository creates a new PostgreSQL passenger repository
func NewPassengerRepository(db *sqlx.DB) ports.PassengerRepository {
	return &passengerRepository{db: db}
}

// FetchAll loads the whole record set in one query, ordered by passenger ID
func (r *passengerRepository) FetchAll(ctx context.Context) ([]passenger.Passenger, error) {
	var records []passenger.Passenger
	err := r.db.SelectContext(ctx, &records, `
		SELECT passenger_id, survived, class, name, sex, age, sib_sp, parch, ticket, fare, cabin, embarked
		FROM passengers
		ORDER BY passenger_id
	`)
	if err != nil {
		return nil, errors.DatabaseError("failed to fetch passengers", err)
	}
	return records, nil
}

func (r *passengerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM passengers`); err != nil {
		return 0, errors.DatabaseError("failed to count passengers", err)
	}
	return count, nil
}

// ReplaceAll deletes the stored records and bulk loads the new set with COPY.
// Both happen in one transaction so readers never see a partial set.
func (r *passengerRepository) ReplaceAll(ctx context.Context, records []passenger.Passenger) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM passengers`); err != nil {
		return errors.DatabaseError("failed to clear passengers", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("passengers",
		"passenger_id", "survived", "class", "name", "sex", "age",
		"sib_sp", "parch", "ticket", "fare", "cabin", "embarked",
	))
	if err != nil {
		return errors.DatabaseError("failed to prepare copy", err)
	}

	for _, p := range records {
		if _, err = stmt.ExecContext(ctx,
			p.PassengerID, p.Survived, int(p.Class), p.Name, string(p.Sex), p.Age,
			p.SiblingsSpouses, p.ParentsChildren, p.Ticket, p.Fare, p.Cabin, p.Embarked,
		); err != nil {
			_ = stmt.Close()
			return errors.DatabaseError(fmt.Sprintf("failed to copy passenger %d", p.PassengerID), err)
		}
	}
	// The empty exec flushes the buffered COPY data.
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return errors.DatabaseError("failed to flush copy", err)
	}
	if err = stmt.Close(); err != nil {
		return errors.DatabaseError("failed to close copy", err)
	}

	if err = tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit passengers", err)
	}
	return nil
}
