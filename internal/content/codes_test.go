package content

import (
	"context"
	"errors"
	"testing"
)

// stubChecker marks a fixed set of codes taken.
type stubChecker struct {
	taken map[int]bool
	err   error
	calls int
}

func (s *stubChecker) Exists(_ context.Context, code int) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.taken[code], nil
}

func TestIsAvailable(t *testing.T) {
	chk := &stubChecker{taken: map[int]bool{7: true}}
	r := NewResolver(chk, 0)

	free, err := r.IsAvailable(context.Background(), 7)
	if err != nil {
		t.Fatalf("IsAvailable(7): %v", err)
	}
	if free {
		t.Fatalf("code 7 should be taken")
	}

	free, err = r.IsAvailable(context.Background(), 8)
	if err != nil {
		t.Fatalf("IsAvailable(8): %v", err)
	}
	if !free {
		t.Fatalf("code 8 should be free")
	}
}

func TestFindNearestAvailableOrdering(t *testing.T) {
	// 10 and its immediate neighbours 11, 9 are taken; next ring free.
	chk := &stubChecker{taken: map[int]bool{10: true, 11: true, 9: true}}
	r := NewResolver(chk, 0)

	got, err := r.FindNearestAvailable(context.Background(), 10, 3)
	if err != nil {
		t.Fatalf("FindNearestAvailable: %v", err)
	}
	// offset 2 probes +2 then -2, offset 3 probes +3 first
	want := []int{12, 8, 13}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFindNearestAvailableSkipsNonPositive(t *testing.T) {
	chk := &stubChecker{taken: map[int]bool{1: true, 2: true}}
	r := NewResolver(chk, 0)

	got, err := r.FindNearestAvailable(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("FindNearestAvailable: %v", err)
	}
	// offset 1 probes 2 (taken) and skips 0; offset 2 yields 3.
	want := []int{3, 4}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, c := range got {
		if c <= 0 {
			t.Fatalf("returned non-positive code %d", c)
		}
	}
}

func TestFindNearestAvailableNeverReturnsRequested(t *testing.T) {
	chk := &stubChecker{taken: map[int]bool{}}
	r := NewResolver(chk, 0)

	got, err := r.FindNearestAvailable(context.Background(), 50, 5)
	if err != nil {
		t.Fatalf("FindNearestAvailable: %v", err)
	}
	for _, c := range got {
		if c == 50 {
			t.Fatalf("suggestions must not include the requested code: %v", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 suggestions, got %v", got)
	}
}

func TestFindNearestAvailableRespectsCeiling(t *testing.T) {
	// Everything within reach is taken: the search must stop at the
	// ceiling and return what it found, with no error.
	allTaken := &stubChecker{taken: map[int]bool{}}
	for i := 1; i <= 30; i++ {
		allTaken.taken[i] = true
	}
	r := NewResolver(allTaken, 10)

	got, err := r.FindNearestAvailable(context.Background(), 15, 3)
	if err != nil {
		t.Fatalf("FindNearestAvailable: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no suggestions under the ceiling, got %v", got)
	}
}

func TestFindNearestAvailablePropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	chk := &stubChecker{err: boom}
	r := NewResolver(chk, 0)

	if _, err := r.FindNearestAvailable(context.Background(), 10, 3); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestFindNearestAvailableZeroCount(t *testing.T) {
	chk := &stubChecker{taken: map[int]bool{}}
	r := NewResolver(chk, 0)

	got, err := r.FindNearestAvailable(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("FindNearestAvailable: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result for count 0, got %v", got)
	}
	if chk.calls != 0 {
		t.Fatalf("expected no lookups for count 0, did %d", chk.calls)
	}
}
