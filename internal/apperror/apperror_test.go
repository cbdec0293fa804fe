package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfClassifiesUnknownAsInfrastructure(t *testing.T) {
	if got := KindOf(errors.New("socket closed")); got != KindInfrastructure {
		t.Fatalf("unknown error classified as %s, want infrastructure", got)
	}
	if got := KindOf(NotFound("missing")); got != KindNotFound {
		t.Fatalf("got %s, want not_found", got)
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := Conflict("already closed")
	wrapped := fmt.Errorf("closing application: %w", inner)

	if !Is(wrapped, KindConflict) {
		t.Fatal("kind lost through fmt.Errorf wrapping")
	}
	e, ok := As(wrapped)
	if !ok || e.Message != "already closed" {
		t.Fatalf("As(wrapped) = %v, %v", e, ok)
	}
}

func TestInfrastructureStampsCorrelationID(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	e := Infrastructure("database unreachable", cause)

	if e.CorrelationID == "" {
		t.Fatal("infrastructure error missing correlation ID")
	}
	if !errors.Is(e, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}

	other := Infrastructure("database unreachable", cause)
	if other.CorrelationID == e.CorrelationID {
		t.Fatal("correlation IDs must be unique per occurrence")
	}
}

func TestValidationCarriesFields(t *testing.T) {
	e := Validation("invalid application data", map[string]string{
		"student.name": "name is required",
		"student.gpa":  "must be between 0.0 and 4.0",
	})
	if e.Kind != KindValidation {
		t.Fatalf("got kind %s", e.Kind)
	}
	if len(e.Fields) != 2 {
		t.Fatalf("fields dropped: %v", e.Fields)
	}
	if e.CorrelationID != "" {
		t.Fatal("client faults must not allocate correlation IDs")
	}
}
