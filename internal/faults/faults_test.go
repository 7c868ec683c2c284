package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   Kind
		wantOK bool
	}{
		{name: "direct", err: New(NotFound, "gone"), want: NotFound, wantOK: true},
		{name: "wrapped once", err: fmt.Errorf("context: %w", New(Forbidden, "no")), want: Forbidden, wantOK: true},
		{name: "wrapped fault chain", err: Wrap(NetworkFailure, "outer", New(ServerRejected, "inner")), want: NetworkFailure, wantOK: true},
		{name: "plain error", err: errors.New("boom"), wantOK: false},
		{name: "nil", err: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KindOf(tt.err)
			if ok != tt.wantOK {
				t.Fatalf("KindOf() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(AuthRequired, "Please log in"), "fallback"); got != "Please log in" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("raw"), "fallback"); got != "fallback" {
		t.Errorf("UserMessage() = %q, want fallback", got)
	}
	if got := UserMessage(&Error{Kind: NetworkFailure}, "fallback"); got != "fallback" {
		t.Errorf("UserMessage() on empty message = %q, want fallback", got)
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	err := Wrap(NetworkFailure, "Request failed", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is() did not reach the wrapped cause")
	}
}
