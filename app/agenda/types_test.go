package agenda

import (
	"testing"
	"time"
)

func TestNormalizeTop(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5", "TOP 5"},
		{"TOP 5", "TOP 5"},
		{"5, 6", "TOP 5, TOP 6"},
		{"ZP 1", "ZP 1"},
		{"5,ZP 2", "TOP 5, ZP 2"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeTop(tt.input); got != tt.want {
			t.Errorf("NormalizeTop(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGenerateUid(t *testing.T) {
	start := time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)

	got := GenerateUid(start, "Befragung der Bundesregierung", "TOP 1")
	want := "1705482000000-befragung-der-bundesregierung-top-1@bt-agenda.dev"
	if got != want {
		t.Errorf("GenerateUid() = %q, want %q", got, want)
	}
}

func TestComposeDescription(t *testing.T) {
	got := ComposeDescription("Überwiesen", "Erste Beratung")
	want := "Status: Überwiesen\n\nErste Beratung"
	if got != want {
		t.Errorf("ComposeDescription() = %q, want %q", got, want)
	}

	if got := ComposeDescription("", "Erste Beratung"); got != "Erste Beratung" {
		t.Errorf("ComposeDescription without status = %q, want %q", got, "Erste Beratung")
	}
}

func TestIsRollCall(t *testing.T) {
	if !IsRollCall("Abschließende Beratung\nNamentliche Abstimmung") {
		t.Error("expected description ending with the marker to count as roll call")
	}
	if !IsRollCall("Namentliche Abstimmung  ") {
		t.Error("expected trailing whitespace to be ignored")
	}
	if IsRollCall("Namentliche Abstimmung angekündigt") {
		t.Error("marker in the middle of the text must not count")
	}
	if IsRollCall("") {
		t.Error("empty description must not count")
	}
}

func TestItemEquivalentTo(t *testing.T) {
	start := time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)
	base := Item{
		Start:   start,
		End:     start.Add(time.Hour),
		Top:     "TOP 5",
		Thema:   "Wahlrechtsreform",
		Status:  "Überwiesen",
		Uid:     GenerateUid(start, "Wahlrechtsreform", "TOP 5"),
		Dtstamp: time.Date(2024, 1, 17, 8, 0, 0, 0, time.UTC),
	}

	other := base
	other.Dtstamp = other.Dtstamp.Add(24 * time.Hour)
	if !base.EquivalentTo(other) {
		t.Error("items differing only in dtstamp must be equivalent")
	}

	other = base
	other.Status = "Abgesetzt"
	if base.EquivalentTo(other) {
		t.Error("items with different status must not be equivalent")
	}

	other = base
	other.End = other.End.Add(15 * time.Minute)
	if base.EquivalentTo(other) {
		t.Error("items with different end time must not be equivalent")
	}
}
