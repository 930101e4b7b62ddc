package loglevel

import "testing"

func TestNormalize_AcceptsAllLevelsAnyCase(t *testing.T) {
	inputs := map[string]string{
		"debug": "DEBUG",
		"Info":  "INFO",
		"WARN":  "WARN",
		"eRrOr": "ERROR",
		"fatal": "FATAL",
	}
	for in, want := range inputs {
		got, ok := Normalize(in)
		if !ok {
			t.Errorf("Normalize(%q) rejected, want accepted", in)
		}
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize_EmptyDefaultsToInfo(t *testing.T) {
	got, ok := Normalize("")
	if !ok || got != Default {
		t.Errorf("Normalize(\"\") = %q, %v; want %q, true", got, ok, Default)
	}
}

func TestNormalize_RejectsUnknown(t *testing.T) {
	for _, in := range []string{"TRACE", "notice", "INFO ok", "warn1"} {
		if _, ok := Normalize(in); ok {
			t.Errorf("Normalize(%q) accepted, want rejected", in)
		}
	}
}

func TestAll_ListsEveryLevel(t *testing.T) {
	if All() != "DEBUG, INFO, WARN, ERROR, FATAL" {
		t.Errorf("All() = %q", All())
	}
}
