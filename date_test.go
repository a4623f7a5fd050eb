package ibcapuk

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		in   string
		want Date
	}{
		{"2024-01-02", NewDate(2024, time.January, 2)},
		{"2024-1-2", NewDate(2024, time.January, 2)}, // lenient single digits
		{"2025-04-06", NewDate(2025, time.April, 6)},
	}
	for _, tc := range testCases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Fatalf("ParseDate(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "02/01/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q): want an error", in)
		}
	}
}

func TestDateAdd(t *testing.T) {
	testCases := []struct {
		on   string
		days int
		want string
	}{
		{"2024-03-01", 30, "2024-03-31"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-01-10", -7, "2024-01-03"},
	}
	for _, tc := range testCases {
		if got := MustParseDate(tc.on).Add(tc.days); got.String() != tc.want {
			t.Errorf("%s + %d days = %s, want %s", tc.on, tc.days, got, tc.want)
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(MustParseDate("2024-04-06"), MustParseDate("2025-04-05"))

	testCases := []struct {
		on   string
		want bool
	}{
		{"2024-04-05", false},
		{"2024-04-06", true}, // boundaries included
		{"2024-12-25", true},
		{"2025-04-05", true},
		{"2025-04-06", false},
	}
	for _, tc := range testCases {
		if got := r.Contains(MustParseDate(tc.on)); got != tc.want {
			t.Errorf("Contains(%s) = %v, want %v", tc.on, got, tc.want)
		}
	}
}

func TestNewRangeSwapsReversedBounds(t *testing.T) {
	r := NewRange(MustParseDate("2024-02-01"), MustParseDate("2024-01-01"))
	if r.From.After(r.To) {
		t.Errorf("range %s not normalized", r)
	}
}
