package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/glizzus/timed-requests/internal/schedule"
	"github.com/google/go-cmp/cmp"
)

func TestParseList(t *testing.T) {
	tc := []struct {
		name     string
		input    string
		expected []schedule.TimeOfDay
		err      bool
	}{
		{
			name:     "single time",
			input:    "09:15:25",
			expected: []schedule.TimeOfDay{{Hour: 9, Minute: 15, Second: 25}},
		},
		{
			name:  "repeated times are kept",
			input: "13:45:09,13:45:09, 23:59:59",
			expected: []schedule.TimeOfDay{
				{Hour: 13, Minute: 45, Second: 9},
				{Hour: 13, Minute: 45, Second: 9},
				{Hour: 23, Minute: 59, Second: 59},
			},
		},
		{name: "empty", input: "", err: true},
		{name: "trailing comma", input: "09:00:00,", err: true},
		{name: "missing seconds", input: "09:00", err: true},
		{name: "single digit field", input: "9:00:00", err: true},
		{name: "hour out of range", input: "24:00:00", err: true},
		{name: "second out of range", input: "10:00:60", err: true},
		{name: "signed field", input: "10:+1:00", err: true},
		{name: "not a number", input: "aa:bb:cc", err: true},
	}

	for _, test := range tc {
		t.Run(test.name, func(t *testing.T) {
			got, err := schedule.ParseList(test.input)
			if test.err {
				if err == nil {
					t.Fatalf("expected error but got %v", got)
				}
				var parseErr *schedule.ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("expected *ParseError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("ParseList(%q) mismatch (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestTimeOfDayStringRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00:00", "09:05:01", "23:59:59"} {
		tod, err := schedule.ParseTimeOfDay(s)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q) returned error: %v", s, err)
		}
		if tod.String() != s {
			t.Errorf("expected %q, got %q", s, tod.String())
		}
	}
}

func TestTimeOfDayCompare(t *testing.T) {
	a := schedule.TimeOfDay{Hour: 9, Minute: 0, Second: 0}
	b := schedule.TimeOfDay{Hour: 9, Minute: 0, Second: 1}

	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("unexpected ordering between %s and %s", a, b)
	}
	if !b.After(a) || a.After(b) || a.After(a) {
		t.Errorf("After() disagrees with Compare() for %s and %s", a, b)
	}
}

func TestTimeOfDayOfIgnoresSubSecond(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 2, 3, 999_999_999, time.UTC)
	want := schedule.TimeOfDay{Hour: 14, Minute: 2, Second: 3}
	if got := schedule.TimeOfDayOf(at); got != want {
		t.Errorf("TimeOfDayOf(%v) = %v; want %v", at, got, want)
	}
	if on := want.On(at); !on.Equal(time.Date(2024, 3, 1, 14, 2, 3, 0, time.UTC)) {
		t.Errorf("On() = %v", on)
	}
}

func TestTimeOfDayText(t *testing.T) {
	in := schedule.TimeOfDay{Hour: 7, Minute: 8, Second: 9}
	b, err := in.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText returned error: %v", err)
	}
	if string(b) != "07:08:09" {
		t.Errorf("MarshalText = %q", b)
	}

	var out schedule.TimeOfDay
	if err := out.UnmarshalText([]byte("25:00:00")); err == nil {
		t.Error("expected UnmarshalText to reject an invalid hour")
	}
}
