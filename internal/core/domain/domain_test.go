package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestError_IsMatchesOnKind(t *testing.T) {
	wrapped := fmt.Errorf("insert user: %w", &Error{Kind: KindUsernameTaken, Message: "duplicate key"})

	if !errors.Is(wrapped, ErrUsernameTaken) {
		t.Fatalf("expected wrapped error to match ErrUsernameTaken")
	}
	if errors.Is(wrapped, ErrEmailTaken) {
		t.Fatalf("different kinds must not match")
	}
	if !errors.Is(ErrInternshipNotFound, ErrApplicationNotFound) {
		t.Fatalf("errors of the same kind must match regardless of message")
	}
}

func TestStoreUnavailable_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := StoreUnavailable("find user", cause)

	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected store_unavailable kind")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if err.Error() != "find user: connection refused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(Validation("bad")); got != KindValidation {
		t.Fatalf("expected validation, got %q", got)
	}
	if got := KindOf(InvalidTransition(ApplicationAccepted, ApplicationPending)); got != KindInvalidTransition {
		t.Fatalf("expected invalid_transition, got %q", got)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Fatalf("expected empty kind, got %q", got)
	}
}

func TestApplicationStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to ApplicationStatus
		want     bool
	}{
		{ApplicationPending, ApplicationReviewed, true},
		{ApplicationPending, ApplicationAccepted, true},
		{ApplicationPending, ApplicationRejected, true},
		{ApplicationReviewed, ApplicationAccepted, true},
		{ApplicationReviewed, ApplicationRejected, true},
		{ApplicationReviewed, ApplicationPending, false},
		{ApplicationAccepted, ApplicationRejected, false},
		{ApplicationRejected, ApplicationReviewed, false},
		{ApplicationPending, ApplicationPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %t, want %t", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestSession_ExpiredAt(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now}

	if s.ExpiredAt(now.Add(-time.Second)) {
		t.Fatalf("session must be valid before its expiry")
	}
	if !s.ExpiredAt(now) {
		t.Fatalf("session must be expired at its expiry instant")
	}
}

func TestInternship_ClosedAt(t *testing.T) {
	now := time.Now()
	open := &Internship{}
	if open.ClosedAt(now) {
		t.Fatalf("listing without deadline never closes")
	}

	deadline := now.Add(time.Hour)
	i := &Internship{Deadline: &deadline}
	if i.ClosedAt(now) || !i.ClosedAt(deadline.Add(time.Second)) {
		t.Fatalf("unexpected deadline handling")
	}
}
