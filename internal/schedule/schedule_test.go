package schedule

import (
	"testing"
	"time"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return d
}

func TestShipDate(t *testing.T) {
	tests := []struct {
		name     string
		received string
		want     string
	}{
		{"friday ships next friday", "2024-03-01", "2024-03-08"},
		{"wednesday ships next wednesday", "2024-03-06", "2024-03-13"},
		{"monday ships next monday", "2024-03-04", "2024-03-11"},
		{"saturday ships next friday", "2024-03-02", "2024-03-08"},
		{"sunday ships next friday", "2024-03-03", "2024-03-08"},
		{"crosses month end", "2024-01-29", "2024-02-05"},
		{"crosses year end", "2024-12-27", "2025-01-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShipDate(date(t, tt.received)).Format(DateLayout)
			if got != tt.want {
				t.Fatalf("ShipDate(%s) = %s, want %s", tt.received, got, tt.want)
			}
		})
	}
}

func TestAddWeekdaysCountsExactlyNWeekdays(t *testing.T) {
	start := date(t, "2024-01-01")
	for offset := 0; offset < 28; offset++ {
		d := start.AddDate(0, 0, offset)
		for _, n := range []int{1, 3, 5, 10} {
			got := AddWeekdays(d, n)
			if !IsWeekday(got) {
				t.Fatalf("AddWeekdays(%s, %d) = %s is not a weekday", d.Format(DateLayout), n, got.Weekday())
			}
			counted := 0
			for cur := d.AddDate(0, 0, 1); !cur.After(got); cur = cur.AddDate(0, 0, 1) {
				if IsWeekday(cur) {
					counted++
				}
			}
			if counted != n {
				t.Fatalf("AddWeekdays(%s, %d) counted %d weekdays", d.Format(DateLayout), n, counted)
			}
		}
	}
}

func TestAddWeekdaysNonPositive(t *testing.T) {
	d := date(t, "2024-03-06")
	if got := AddWeekdays(d, 0); !got.Equal(d) {
		t.Fatalf("expected unchanged date, got %s", got)
	}
	if got := AddWeekdays(d, -2); !got.Equal(d) {
		t.Fatalf("expected unchanged date for negative n, got %s", got)
	}
}
