package fn

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResultBasics(t *testing.T) {
	r := Ok(42)
	if !r.IsOk() || r.IsErr() {
		t.Fatal("Ok result misreports state")
	}
	v, err := r.Unwrap()
	if v != 42 || err != nil {
		t.Fatalf("unexpected unwrap: %d, %v", v, err)
	}

	e := Err[int](errors.New("boom"))
	if e.IsOk() {
		t.Fatal("Err result reports ok")
	}
	if _, err := e.Unwrap(); err == nil {
		t.Fatal("Err result must surface its error")
	}
}

func TestFromPair(t *testing.T) {
	if r := FromPair("x", nil); r.IsErr() {
		t.Fatal("FromPair with nil error should be ok")
	}
	if r := FromPair("", errors.New("bad")); r.IsOk() {
		t.Fatal("FromPair with error should be err")
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	r := Retry(context.Background(), RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond}, func(context.Context) Result[string] {
		attempts++
		if attempts < 3 {
			return Errf[string]("attempt %d", attempts)
		}
		return Ok("done")
	})
	if r.IsErr() {
		t.Fatal("expected success on third attempt")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryExhausted(t *testing.T) {
	r := Retry(context.Background(), RetryOpts{MaxAttempts: 2, InitialWait: time.Millisecond}, func(context.Context) Result[int] {
		return Errf[int]("always fails")
	})
	if r.IsOk() {
		t.Fatal("expected failure after exhausting attempts")
	}
}

func TestRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := Retry(ctx, RetryOpts{MaxAttempts: 5, InitialWait: time.Hour}, func(context.Context) Result[int] {
		return Errf[int]("fail")
	})
	_, err := r.Unwrap()
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSliceHelpers(t *testing.T) {
	doubled := Map([]int{1, 2, 3}, func(v int) int { return v * 2 })
	if doubled[2] != 6 {
		t.Fatalf("unexpected map result: %v", doubled)
	}

	evens := Filter([]int{1, 2, 3, 4}, func(v int) bool { return v%2 == 0 })
	if len(evens) != 2 {
		t.Fatalf("unexpected filter result: %v", evens)
	}

	kept := FilterMap([]string{"1", "x", "3"}, func(s string) (string, bool) {
		return s, s != "x"
	})
	if len(kept) != 2 {
		t.Fatalf("unexpected filtermap result: %v", kept)
	}

	flat := FlatMap([][]int{{1}, {2, 3}}, func(v []int) []int { return v })
	if len(flat) != 3 {
		t.Fatalf("unexpected flatmap result: %v", flat)
	}

	uniq := Unique([]string{"a", "b", "a"})
	if len(uniq) != 2 || uniq[0] != "a" {
		t.Fatalf("unexpected unique result: %v", uniq)
	}
}

func TestParMapPreservesOrder(t *testing.T) {
	in := []int{5, 4, 3, 2, 1}
	out := ParMap(in, 2, func(v int) int {
		time.Sleep(time.Duration(v) * time.Millisecond)
		return v * 10
	})
	for i, v := range out {
		if v != in[i]*10 {
			t.Fatalf("order not preserved at %d: %v", i, out)
		}
	}
}

func TestParMapEmpty(t *testing.T) {
	out := ParMap(nil, 4, func(v int) int { return v })
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %v", out)
	}
}
