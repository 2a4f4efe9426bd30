package core

import (
	"fmt"
	"testing"
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

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Errorf("Expected distinct run IDs, got %s twice", a)
	}
}

// TestParseVariableKey tests variable key parsing
func TestParseVariableKey(t *testing.T) {
	tests := []struct {
		input   string
		want    VariableKey
		wantErr bool
	}{
		{"age", "age", false},
		{"  income  ", "income", false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		got, err := ParseVariableKey(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVariableKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVariableKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsConfigurationError(fmt.Errorf("%w: sideways", ErrUnknownDirection)) {
		t.Error("Expected wrapped ErrUnknownDirection to be a configuration error")
	}
	if IsConfigurationError(ErrZeroExpected) {
		t.Error("ErrZeroExpected is not a configuration error")
	}
	if !IsDataError(NewVariableNotFoundError("age")) {
		t.Error("Expected variable-not-found to be a data error")
	}
}
