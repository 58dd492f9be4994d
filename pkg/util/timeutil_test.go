package util

import (
	"testing"
	"time"
)

func TestExpired(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		deadline time.Time
		want     bool
	}{
		{name: "zero never expires", deadline: time.Time{}, want: false},
		{name: "future", deadline: now.Add(time.Second), want: false},
		{name: "exact", deadline: now, want: true},
		{name: "past", deadline: now.Add(-time.Minute), want: true},
	}
	for _, tc := range cases {
		if got := Expired(tc.deadline, now); got != tc.want {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestNowUTC(t *testing.T) {
	if NowUTC().Location() != time.UTC {
		t.Fatalf("expected UTC location")
	}
}
