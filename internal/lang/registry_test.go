package lang

import "testing"

func TestCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(All()))
	for _, l := range All() {
		if seen[l.Code] {
			t.Fatalf("duplicate language code %q", l.Code)
		}
		seen[l.Code] = true
	}
}

func TestLookup(t *testing.T) {
	l, ok := Lookup("fr")
	if !ok {
		t.Fatalf("expected fr to be supported")
	}
	if l.Name != "French" || l.NativeName != "Français" || l.CountryCode != "FR" {
		t.Fatalf("unexpected entry: %+v", l)
	}

	if _, ok := Lookup("xx"); ok {
		t.Fatalf("expected xx to be unknown")
	}
}

func TestNameFallsBackToCode(t *testing.T) {
	if got := Name("de"); got != "German" {
		t.Fatalf("Name(de) = %q", got)
	}
	if got := Name("xx"); got != "xx" {
		t.Fatalf("Name(xx) = %q, want the code itself", got)
	}
	if got := NativeName("xx"); got != "xx" {
		t.Fatalf("NativeName(xx) = %q, want the code itself", got)
	}
}

func TestDefaultsAreSupported(t *testing.T) {
	if _, ok := Lookup(DefaultInputLanguage); !ok {
		t.Fatalf("default input language %q not in catalog", DefaultInputLanguage)
	}
	if _, ok := Lookup(DefaultSearchLanguage); !ok {
		t.Fatalf("default search language %q not in catalog", DefaultSearchLanguage)
	}
}
