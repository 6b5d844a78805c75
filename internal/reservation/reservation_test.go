package reservation

import (
	"testing"
	"time"
)

func TestParseFormatRoundTrip(t *testing.T) {
	at, err := ParseDateTime("2099-01-05 08:05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatDateTime(at); got != "2099-01-05 08:05" {
		t.Fatalf("format = %q, not zero-padded fixed width", got)
	}

	for _, raw := range []string{"2099-1-5 8:05", "2099-01-05", "2099-01-05 08:05:30", ""} {
		if _, err := ParseDateTime(raw); err == nil {
			t.Errorf("parse %q: expected error", raw)
		}
	}
}

func TestServiceWindow(t *testing.T) {
	cases := map[string]bool{
		"2099-01-05 17:59": false,
		"2099-01-05 18:00": true,
		"2099-01-05 21:30": true,
		"2099-01-05 21:31": false,
		"2099-01-05 12:00": false,
	}
	for raw, want := range cases {
		at, err := ParseDateTime(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got := InServiceWindow(at); got != want {
			t.Errorf("InServiceWindow(%s) = %v, want %v", raw, got, want)
		}
	}
}

func TestSlotBoundary(t *testing.T) {
	for raw, want := range map[string]bool{
		"2099-01-05 19:00": true,
		"2099-01-05 19:30": true,
		"2099-01-05 19:15": false,
		"2099-01-05 19:01": false,
	} {
		at, _ := ParseDateTime(raw)
		if got := OnSlotBoundary(at); got != want {
			t.Errorf("OnSlotBoundary(%s) = %v, want %v", raw, got, want)
		}
	}
}

func TestNaiveKeepsWallClock(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	local := time.Date(2099, 1, 5, 19, 0, 0, 0, loc)
	n := Naive(local)
	if n.Hour() != 19 || n.Location() != time.UTC {
		t.Fatalf("Naive changed the wall clock: %v", n)
	}
}

func TestDateOf(t *testing.T) {
	at, _ := ParseDateTime("2099-01-05 19:45")
	if got := DateOf(at); !got.Equal(time.Date(2099, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("DateOf = %v", got)
	}
}
