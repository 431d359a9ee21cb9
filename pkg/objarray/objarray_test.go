package objarray

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDestroyCallsEveryElement(t *testing.T) {
	var destroyed []int
	Destroy([]int{1, 2, 3}, func(v int) { destroyed = append(destroyed, v) })
	if diff := cmp.Diff([]int{1, 2, 3}, destroyed); diff != "" {
		t.Fatalf("unexpected destroy order (-want +got):\n%s", diff)
	}
}

func TestJoinOrderAndEmptySides(t *testing.T) {
	if got := Join([]int{1, 2}, []int{3, 4}); !cmp.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("got %v, want [1 2 3 4]", got)
	}
	var empty []int
	if got := Join(empty, []int{1}); !cmp.Equal(got, []int{1}) {
		t.Fatalf("got %v, want [1] when left is empty", got)
	}
	if got := Join([]int{1}, empty); !cmp.Equal(got, []int{1}) {
		t.Fatalf("got %v, want [1] when right is empty", got)
	}
}

func TestTraverseStopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	var seen []int
	err := Traverse([]int{1, 2, 3}, func(v int) error {
		seen = append(seen, v)
		if v == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got err %v, want boom", err)
	}
	if diff := cmp.Diff([]int{1, 2}, seen); diff != "" {
		t.Fatalf("unexpected traversal (-want +got):\n%s", diff)
	}
}
