package pet

import (
	"regexp"
	"strings"
	"testing"
)

func TestTransitionIsTotal(t *testing.T) {
	statuses := []Status{StatusHome, StatusLost, StatusFound}
	for _, from := range statuses {
		for _, to := range statuses {
			got, ok := Transition(from, to)
			if !ok {
				t.Errorf("Transition(%s, %s): rejected", from, to)
			}
			if got != to {
				t.Errorf("Transition(%s, %s) = %s, want %s", from, to, got, to)
			}
		}
	}
}

func TestTransitionRejectsUnknownTarget(t *testing.T) {
	got, ok := Transition(StatusLost, Status("adopted"))
	if ok {
		t.Error("expected unknown target to be rejected")
	}
	if got != StatusLost {
		t.Errorf("current status changed to %s on rejected transition", got)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusHome, StatusLost, StatusFound} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false", s)
		}
	}
	if ValidStatus(Status("")) || ValidStatus(Status("missing")) {
		t.Error("invalid status reported valid")
	}
}

func TestSlugifyFormat(t *testing.T) {
	slugPattern := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	tests := []struct {
		name string
		base string
	}{
		{"Biscuit", "biscuit"},
		{"Mr. Whiskers III", "mr-whiskers-iii"},
		{"  Luna!  ", "luna"},
		{"écho", "cho"},
	}
	for _, tt := range tests {
		slug := Slugify(tt.name)
		if !slugPattern.MatchString(slug) {
			t.Errorf("Slugify(%q) = %q, not URL-safe", tt.name, slug)
		}
		if !strings.HasPrefix(slug, tt.base+"-") {
			t.Errorf("Slugify(%q) = %q, want prefix %q", tt.name, slug, tt.base+"-")
		}
		if len(slug) != len(tt.base)+5 {
			t.Errorf("Slugify(%q) = %q, want 4-char suffix", tt.name, slug)
		}
	}
}

func TestSlugifyUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		slug := Slugify("Biscuit")
		if seen[slug] {
			t.Fatalf("duplicate slug %q after %d generations", slug, i)
		}
		seen[slug] = true
	}
}

func TestSlugifySymbolOnlyName(t *testing.T) {
	slug := Slugify("!!!")
	if len(slug) != 4 {
		t.Errorf("Slugify(\"!!!\") = %q, want bare 4-char suffix", slug)
	}
}
