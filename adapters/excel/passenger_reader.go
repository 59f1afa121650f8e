package excel

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gotitanic/domain/core"
	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/ports"
)

// PassengerReader maps a manifest file onto validated passenger records
type PassengerReader struct {
	reader *DataReader
	logger *internal.Logger
}

// NewPassengerReader creates a reader for an XLSX, CSV or JSON manifest
func NewPassengerReader(config ReaderConfig) *PassengerReader {
	return &PassengerReader{
		reader: NewDataReader(config),
		logger: internal.DefaultLogger.WithComponent("import"),
	}
}

var _ ports.PassengerReader = (*PassengerReader)(nil)

// Read parses every row. Rows that fail parsing or validation are reported in
// Rejected and never reach Accepted; a missing required column fails the
// whole read.
func (r *PassengerReader) Read(ctx context.Context) (*ports.ImportResult, error) {
	data, err := r.reader.ReadData()
	if err != nil {
		return nil, err
	}
	for _, col := range requiredColumns {
		if !slices.Contains(data.Headers, col) {
			return nil, fmt.Errorf("%w: missing column %s", core.ErrInvalidRecord, col)
		}
	}

	result := &ports.ImportResult{
		Accepted: make([]passenger.Passenger, 0, len(data.Rows)),
		Rejected: []ports.RejectedRow{},
	}
	seenIDs := make(map[int]int, len(data.Rows))

	for i, row := range data.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNum := i + 1

		p, err := parsePassenger(row)
		if err == nil {
			err = p.Validate()
		}
		if err == nil {
			if first, dup := seenIDs[p.PassengerID]; dup {
				err = fmt.Errorf("duplicate passenger id %d, first seen at row %d", p.PassengerID, first)
			}
		}
		if err != nil {
			result.Rejected = append(result.Rejected, ports.RejectedRow{Row: rowNum, Reason: err.Error()})
			r.logger.Debug("row %d rejected: %v", rowNum, err)
			continue
		}

		seenIDs[p.PassengerID] = rowNum
		result.Accepted = append(result.Accepted, p)
	}

	r.logger.Info("import finished: %d accepted, %d rejected", len(result.Accepted), len(result.Rejected))
	return result, nil
}

func parsePassenger(row RawRowData) (passenger.Passenger, error) {
	var p passenger.Passenger
	var err error

	if p.PassengerID, err = strconv.Atoi(row[ColPassengerID]); err != nil {
		return p, fmt.Errorf("%s %q is not an integer", ColPassengerID, row[ColPassengerID])
	}
	if p.Survived, err = parseSurvived(row[ColSurvived]); err != nil {
		return p, err
	}
	if p.Class, err = passenger.ParseClass(row[ColClass]); err != nil {
		return p, err
	}
	if p.Sex, err = passenger.ParseSex(row[ColSex]); err != nil {
		return p, err
	}
	if row[ColAge] == "" {
		return p, fmt.Errorf("%s is missing", ColAge)
	}
	if p.Age, err = strconv.ParseFloat(row[ColAge], 64); err != nil {
		return p, fmt.Errorf("%s %q is not a number", ColAge, row[ColAge])
	}
	if p.SiblingsSpouses, err = optionalInt(row, ColSibSp); err != nil {
		return p, err
	}
	if p.ParentsChildren, err = optionalInt(row, ColParch); err != nil {
		return p, err
	}
	if v := row[ColFare]; v != "" {
		if p.Fare, err = strconv.ParseFloat(v, 64); err != nil {
			return p, fmt.Errorf("%s %q is not a number", ColFare, v)
		}
	}

	p.Name = row[ColName]
	p.Ticket = row[ColTicket]
	p.Cabin = row[ColCabin]
	p.Embarked = strings.ToUpper(row[ColEmbarked])
	return p, nil
}

func parseSurvived(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("%s %q is not 0 or 1", ColSurvived, v)
}

func optionalInt(row RawRowData, col string) (int, error) {
	v := row[col]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", col, v)
	}
	return n, nil
}
