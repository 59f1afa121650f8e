package core

import (
	"errors"
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestNewIDIsTimeOrdered(t *testing.T) {
	first := NewID()
	time.Sleep(2 * time.Millisecond)
	second := NewID()
	if !(first.String() < second.String()) {
		t.Errorf("Expected %s to sort before %s", first, second)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input    string
		hasError bool
	}{
		{"0190b2c4-6c1e-7a3b-9f2a-3c4d5e6f7a8b", false},
		{"  0190b2c4-6c1e-7a3b-9f2a-3c4d5e6f7a8b ", false},
		{"", true},
		{"   ", true},
		{"not-a-uuid", true},
	}

	for _, tt := range tests {
		_, err := ParseID(tt.input)
		if (err != nil) != tt.hasError {
			t.Errorf("ParseID(%q) error = %v, want error %v", tt.input, err, tt.hasError)
		}
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsNotFoundError(ErrSnapshotNotFound) {
		t.Error("Expected snapshot not found to be a not found error")
	}
	if !IsValidationError(NewInvalidFilterError("sex", "is unknown")) {
		t.Error("Expected invalid filter to be a validation error")
	}
	if IsValidationError(ErrNoData) {
		t.Error("No data is not a validation error")
	}

	cause := errors.New("connection refused")
	err := NewRebuildError("store", cause)
	if !errors.Is(err, ErrRebuildFailed) || !errors.Is(err, cause) {
		t.Errorf("Expected rebuild error to wrap both sentinel and cause, got %v", err)
	}
}
