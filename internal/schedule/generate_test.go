package schedule_test

import (
	"slices"
	"testing"
	"time"

	"github.com/glizzus/timed-requests/internal/generator"
	"github.com/glizzus/timed-requests/internal/schedule"
	"github.com/google/go-cmp/cmp"
)

func TestGenerateTestTimesSortsOffsets(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 250*int(time.Millisecond), time.UTC)
	offsets := &generator.SequenceGenerator[int]{Values: []int{12, 3, 19, 7, 7}}

	got, err := schedule.GenerateTestTimes(now, 5, 20, offsets)
	if err != nil {
		t.Fatalf("GenerateTestTimes returned error: %v", err)
	}

	want := []schedule.TimeOfDay{
		{Hour: 10, Minute: 0, Second: 3},
		{Hour: 10, Minute: 0, Second: 7},
		{Hour: 10, Minute: 0, Second: 7},
		{Hour: 10, Minute: 0, Second: 12},
		{Hour: 10, Minute: 0, Second: 19},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenerateTestTimes mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateTestTimesRandomWithinRange(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for range 50 {
		got, err := schedule.GenerateTestTimes(now, 5, 20, schedule.NewTestOffsets(20))
		if err != nil {
			t.Fatalf("GenerateTestTimes returned error: %v", err)
		}
		if len(got) != 5 {
			t.Fatalf("expected 5 times, got %d", len(got))
		}
		if !slices.IsSortedFunc(got, schedule.TimeOfDay.Compare) {
			t.Errorf("expected non-decreasing times, got %v", got)
		}
		for _, tod := range got {
			if tod.Hour != 10 || tod.Minute != 0 || tod.Second < 3 || tod.Second > 19 {
				t.Errorf("time %s not between 3 and 19 seconds after %s", tod, now.Format(time.TimeOnly))
			}
		}
	}
}

func TestGenerateTestTimesRejectsBadArguments(t *testing.T) {
	now := time.Now()
	tc := []struct {
		name string
		n    int
		rng  int
	}{
		{name: "no tests", n: 0, rng: 20},
		{name: "range too small", n: 3, rng: 3},
	}

	for _, test := range tc {
		t.Run(test.name, func(t *testing.T) {
			if _, err := schedule.GenerateTestTimes(now, test.n, test.rng, schedule.NewTestOffsets(20)); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}
