package scrim

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{from: StatusCheckingIn, to: StatusActive, want: true},
		{from: StatusCheckingIn, to: StatusCancelled, want: true},
		{from: StatusCheckingIn, to: StatusCompleted, want: false},
		{from: StatusActive, to: StatusCompleted, want: true},
		{from: StatusActive, to: StatusCheckingIn, want: false},
		{from: StatusCompleted, to: StatusCancelled, want: false},
		{from: StatusCancelled, to: StatusActive, want: false},
	}
	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got=%v want=%v", tc.from, tc.to, got, tc.want)
		}
	}

	if got := SourcesFor(StatusCancelled); !reflect.DeepEqual(got, []Status{StatusCheckingIn, StatusActive}) {
		t.Fatalf("unexpected cancel sources: %v", got)
	}
	if got := SourcesFor(StatusCheckingIn); len(got) != 0 {
		t.Fatalf("nothing should return to checking_in, got %v", got)
	}
}

func TestCreateParamsValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	valid := CreateParams{
		UID:             "SCRIM-ABC123",
		League:          "Academy",
		MatchType:       MatchTypeQueue,
		PlayerIDs:       []int64{1, 2, 3, 4},
		MapIDs:          []int64{10, 11, 12},
		CreatedAt:       now,
		CheckInDeadline: now.Add(5 * time.Minute),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	short := valid
	short.PlayerIDs = []int64{1, 2, 3}
	if err := short.Validate(); !errors.Is(err, ErrInvalidPlayerCount) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrInvalidPlayerCount)
	}

	dupPlayer := valid
	dupPlayer.PlayerIDs = []int64{1, 2, 2, 4}
	if err := dupPlayer.Validate(); err == nil {
		t.Fatalf("expected duplicate player error")
	}

	dupMap := valid
	dupMap.MapIDs = []int64{10, 10}
	if err := dupMap.Validate(); err == nil {
		t.Fatalf("expected duplicate map error")
	}
}

func TestCheckInExpired(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)
	s := Scrim{CheckInDeadline: &deadline}
	if s.CheckInExpired(deadline) {
		t.Fatalf("deadline instant itself is not expired")
	}
	if !s.CheckInExpired(deadline.Add(time.Second)) {
		t.Fatalf("expected expired after deadline")
	}
	if (Scrim{}).CheckInExpired(deadline) {
		t.Fatalf("scrim without deadline never expires")
	}
}
