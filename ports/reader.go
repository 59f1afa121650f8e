package ports

import (
	"context"

	"gotitanic/domain/passenger"
)

// PassengerReader loads passenger records from an external source
type PassengerReader interface {
	Read(ctx context.Context) (*ImportResult, error)
}

// ImportResult holds the records accepted from a source and the rows that
// failed validation
type ImportResult struct {
	Accepted []passenger.Passenger `json:"accepted"`
	Rejected []RejectedRow         `json:"rejected"`
}

// RejectedRow is a source row that did not pass ingestion validation
type RejectedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
