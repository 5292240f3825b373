package utils

import "testing"

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  Maria   Quispe "); got != "Maria Quispe" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeDayList(t *testing.T) {
	cases := map[string]string{
		"Saturday, Sunday": "saturday,sunday",
		" monday ,, ":      "monday",
		"":                 "",
	}
	for in, want := range cases {
		if got := NormalizeDayList(in); got != want {
			t.Errorf("NormalizeDayList(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	if got, err := NormalizeClock(" 09:30 "); err != nil || got != "09:30" {
		t.Errorf("got %q, %v", got, err)
	}
	if got, err := NormalizeClock(""); err != nil || got != "" {
		t.Errorf("got %q, %v", got, err)
	}
	if _, err := NormalizeClock("25:00"); err == nil {
		t.Error("expected error for 25:00")
	}
}

func TestParseAmount(t *testing.T) {
	if _, err := ParseAmount("-1"); err == nil {
		t.Error("expected error for negative amount")
	}
	if _, err := ParseAmount(""); err == nil {
		t.Error("expected error for empty amount")
	}
	d, err := ParseAmount(" 188.80 ")
	if err != nil {
		t.Fatal(err)
	}
	if FormatAmount(d) != "188.80" {
		t.Errorf("got %s", FormatAmount(d))
	}
}
