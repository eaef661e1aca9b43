package tree

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type stringerValue struct{}

func (stringerValue) String() string { return "from-stringer" }

func TestAttrString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "null"},
		{"undefined", Undefined, "undefined"},
		{"empty", "", ""},
		{"string", "yes", "yes"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"negative int64", int64(-7), "-7"},
		{"uint", uint(3), "3"},
		{"float", 1.5, "1.5"},
		{"whole float", float64(2), "2"},
		{"bytes", []byte("raw"), "raw"},
		{"stringer", stringerValue{}, "from-stringer"},
		{"slice", []int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttrString(tt.value); got != tt.want {
				t.Errorf("AttrString(%#v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestMismatchError(t *testing.T) {
	err := error(&MismatchError{Recent: "span"})
	if !errors.Is(err, ErrMismatchedElement) {
		t.Error("MismatchError should match ErrMismatchedElement")
	}
	if errors.Is(err, ErrFlush) {
		t.Error("MismatchError should not match ErrFlush")
	}
	if !strings.Contains(err.Error(), "'span'") {
		t.Errorf("message should name the recent element, got %q", err.Error())
	}

	bare := &MismatchError{}
	if strings.Contains(bare.Error(), "Most recent") {
		t.Errorf("message without element should not mention one, got %q", bare.Error())
	}
}

func TestFlushError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &FlushError{Attr: "data-late"})
	if !errors.Is(err, ErrFlush) {
		t.Error("wrapped FlushError should match ErrFlush")
	}

	var fe *FlushError
	if !errors.As(err, &fe) || fe.Attr != "data-late" {
		t.Errorf("errors.As should recover attribute name, got %+v", fe)
	}
}

func TestIsContractError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"mismatch", &MismatchError{}, true},
		{"flush", &FlushError{Attr: "x"}, true},
		{"invalid name", ErrInvalidName, true},
		{"wrapped", fmt.Errorf("ctx: %w", &FlushError{}), true},
		{"io", errors.New("broken pipe"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContractError(tt.err); got != tt.want {
				t.Errorf("IsContractError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	var zero Bounds
	if !zero.IsEmpty() {
		t.Error("zero Bounds should be empty")
	}
	if !EmptyBounds.IsEmpty() {
		t.Error("EmptyBounds should be empty")
	}

	b := NewBounds(2, 5)
	if b.IsEmpty() {
		t.Error("NewBounds should not be empty")
	}
	if b.First != 2 || b.Last != 5 {
		t.Errorf("got %+v", b)
	}
}

func TestNodeTokenValid(t *testing.T) {
	if Unaddressable.Valid() {
		t.Error("Unaddressable should not be valid")
	}
	if !NodeToken(0).Valid() {
		t.Error("token 0 should be valid")
	}
}
