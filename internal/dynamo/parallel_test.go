package dynamo

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestParallelForCoversRange(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		minChunk int
		workers  int
	}{
		{"empty", 0, 16, 4},
		{"below chunk", 10, 16, 4},
		{"single worker", 100, 16, 1},
		{"uneven", 103, 16, 4},
		{"many workers", 1000, 1, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			ParallelFor(tt.n, tt.minChunk, tt.workers, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestRangesAreOrderedAndContiguous(t *testing.T) {
	ranges := Ranges(103, 16, 4)
	if len(ranges) == 0 || len(ranges) > 4 {
		t.Fatalf("unexpected range count %d", len(ranges))
	}
	next := 0
	for _, r := range ranges {
		if r[0] != next {
			t.Fatalf("range starts at %d, want %d", r[0], next)
		}
		if r[1] <= r[0] {
			t.Fatalf("empty range %v", r)
		}
		next = r[1]
	}
	if next != 103 {
		t.Errorf("ranges end at %d, want 103", next)
	}
}

func TestWorkers(t *testing.T) {
	if Workers(3) != 3 {
		t.Error("explicit worker count not honored")
	}
	if Workers(0) < 1 {
		t.Error("default worker count must be positive")
	}
}

func TestActivationError(t *testing.T) {
	err := &ActivationError{Chain: "hair", Root: 7, Wrapped: ErrMissingNode}
	if !errors.Is(err, ErrMissingNode) {
		t.Error("ActivationError does not unwrap")
	}
	want := `activate "hair" root 7: dynamo: referenced scene node does not exist`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsSilent(&ActivationError{Wrapped: ErrDegenerateRestPose}) {
		t.Error("degenerate rest pose should be silent")
	}
	if IsSilent(err) {
		t.Error("missing node must not be silent")
	}
}
