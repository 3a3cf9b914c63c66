package domain

import "testing"

func TestNormalizeHumanName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                  "",
		"   ":               "",
		"  Snow   Run  ":    "Snow Run",
		"Lisbon\t\nweekend": "Lisbon weekend",
	}
	for in, want := range cases {
		if got := NormalizeHumanName(in); got != want {
			t.Fatalf("NormalizeHumanName(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestAccess_Levels(t *testing.T) {
	t.Parallel()

	if AccessNone.CanRead() {
		t.Fatalf("none must not read")
	}
	if !AccessView.CanRead() || AccessView.CanWrite() {
		t.Fatalf("view must read but not write")
	}
	if !AccessEdit.CanWrite() || !AccessOwner.CanWrite() {
		t.Fatalf("edit and owner must write")
	}
}
