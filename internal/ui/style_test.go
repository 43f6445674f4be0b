package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestClassIcon_NoColor(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	cases := map[string]string{
		"on_early":     "✓",
		"before_early": "»",
		"before_late":  "●",
		"on_late":      "!",
		"after_late":   "✗",
		"unknown":      "◌",
	}
	for class, want := range cases {
		if got := ClassIcon(class); got != want {
			t.Errorf("ClassIcon(%q) = %q, want %q", class, got, want)
		}
	}
}

func TestActivityName_Stable(t *testing.T) {
	if activityColorIndex("Pour concrete") != activityColorIndex("Pour concrete") {
		t.Fatal("expected the same palette index for the same name")
	}
	SetColor(false)
	defer SetColor(true)
	if got := ActivityName("A"); got != "A" {
		t.Errorf("expected plain name without color, got %q", got)
	}
}

func TestPrintLogo(t *testing.T) {
	SetColor(false)
	defer SetColor(true)
	var buf bytes.Buffer
	PrintLogo(&buf)
	if !strings.Contains(buf.String(), "P  A  T  H  L  O  O  M") {
		t.Errorf("logo missing brand line:\n%s", buf.String())
	}
}
