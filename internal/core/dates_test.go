package core

import (
	"sort"
	"testing"
)

func TestFormatDate(t *testing.T) {
	cases := []struct {
		iso  string
		want string
	}{
		{"2004-04-04", "4 Avr. 04"},
		{"2001-01-01", "1 Jan. 01"},
		{"2022-12-31", "31 Déc. 22"},
		{"2020-05-12", "12 Mai. 20"},
	}
	for _, tc := range cases {
		got, err := FormatDate(tc.iso)
		if err != nil {
			t.Fatalf("FormatDate(%q): %v", tc.iso, err)
		}
		if got != tc.want {
			t.Fatalf("FormatDate(%q) = %q, want %q", tc.iso, got, tc.want)
		}
	}
}

func TestFormatDateMalformed(t *testing.T) {
	for _, iso := range []string{"", "not-a-date", "2004-13-01", "04-04-2004"} {
		if _, err := FormatDate(iso); err == nil {
			t.Fatalf("FormatDate(%q): expected error", iso)
		}
	}
}

func TestAntiChronoOrdering(t *testing.T) {
	dates := []string{"2001-01-01", "2004-04-04", "2002-02-02"}
	sort.SliceStable(dates, func(i, j int) bool { return AntiChrono(dates[i], dates[j]) })

	want := []string{"2004-04-04", "2002-02-02", "2001-01-01"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, dates[i], want[i])
		}
	}
}

func TestFormatStatus(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusPending, "En attente"},
		{StatusAccepted, "Accepté"},
		{StatusRefused, "Refusé"},
		{Status("draft"), "draft"},
	}
	for _, tc := range cases {
		if got := FormatStatus(tc.status); got != tc.want {
			t.Fatalf("FormatStatus(%q) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestAntiChronoPairwise(t *testing.T) {
	// a sorts before b iff a > b lexicographically.
	if !AntiChrono("2004-04-04", "2002-02-02") {
		t.Fatal("later date must sort first")
	}
	if AntiChrono("2002-02-02", "2004-04-04") {
		t.Fatal("earlier date must not sort first")
	}
	if AntiChrono("2002-02-02", "2002-02-02") {
		t.Fatal("equal dates must not be strictly ordered")
	}
}
