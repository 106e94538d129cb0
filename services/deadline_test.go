package services

import (
	"testing"
	"time"
)

func TestDeadline(t *testing.T) {
	utc := time.UTC
	bangkok := time.FixedZone("ICT", 7*60*60)

	cases := []struct {
		name string
		from time.Time
		days int
		want time.Time
	}{
		{"response window", time.Date(2024, 3, 10, 15, 30, 0, 0, utc), ResponseWindowDays, time.Date(2024, 3, 12, 0, 0, 0, 0, utc)},
		{"review window", time.Date(2024, 3, 10, 8, 0, 0, 0, utc), ReviewWindowDays, time.Date(2024, 3, 13, 0, 0, 0, 0, utc)},
		{"just before midnight", time.Date(2024, 3, 10, 23, 59, 59, 0, utc), 1, time.Date(2024, 3, 12, 0, 0, 0, 0, utc)},
		{"exact midnight", time.Date(2024, 3, 10, 0, 0, 0, 0, utc), 1, time.Date(2024, 3, 12, 0, 0, 0, 0, utc)},
		{"month rollover", time.Date(2024, 1, 30, 12, 0, 0, 0, utc), 2, time.Date(2024, 2, 2, 0, 0, 0, 0, utc)},
		{"leap day", time.Date(2024, 2, 28, 9, 0, 0, 0, utc), 1, time.Date(2024, 3, 1, 0, 0, 0, 0, utc)},
		{"year rollover", time.Date(2024, 12, 31, 9, 0, 0, 0, utc), 1, time.Date(2025, 1, 2, 0, 0, 0, 0, utc)},
		{"zero days", time.Date(2024, 3, 10, 9, 0, 0, 0, utc), 0, time.Date(2024, 3, 11, 0, 0, 0, 0, utc)},
		{"keeps location", time.Date(2024, 3, 10, 23, 0, 0, 0, bangkok), 1, time.Date(2024, 3, 12, 0, 0, 0, 0, bangkok)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Deadline(tc.from, tc.days)
			if !got.Equal(tc.want) {
				t.Fatalf("Deadline(%s, %d) = %s, want %s", tc.from, tc.days, got, tc.want)
			}
			if got.Location() != tc.from.Location() {
				t.Fatalf("expected location %s, got %s", tc.from.Location(), got.Location())
			}
		})
	}
}

func TestDeadlineIsAfterFromAndAtMidnight(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 48; h++ {
		at := from.Add(time.Duration(h) * time.Hour)
		for days := 0; days <= 3; days++ {
			d := Deadline(at, days)
			if !d.After(at) {
				t.Fatalf("deadline %s not after %s", d, at)
			}
			if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 || d.Nanosecond() != 0 {
				t.Fatalf("deadline %s is not midnight", d)
			}
			if d.Sub(at) > time.Duration(days+1)*24*time.Hour {
				t.Fatalf("deadline %s more than %d days after %s", d, days+1, at)
			}
		}
	}
}
