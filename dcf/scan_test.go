package dcf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func bytesReader(s string) *strings.Reader { return strings.NewReader(s) }

type namedReader struct {
	*strings.Reader
}

func (namedReader) Name() string { return "named.dcf" }

type urlReader struct {
	*strings.Reader
}

func (urlReader) URL() string { return "https://example.org/PACKAGES" }

func TestSourceName(t *testing.T) {
	if got := NewSource(namedReader{strings.NewReader("")}).Name(); got != "named.dcf" {
		t.Errorf("expected named.dcf, got %q", got)
	}
	if got := NewSource(urlReader{strings.NewReader("")}).Name(); got != "https://example.org/PACKAGES" {
		t.Errorf("expected url name, got %q", got)
	}
	if got := NewStringSource("").Name(); got != "" {
		t.Errorf("expected empty name, got %q", got)
	}
	if got := NewStringSource("", WithName("x")).Name(); got != "x" {
		t.Errorf("expected x, got %q", got)
	}
}

func TestNextValueFullLine(t *testing.T) {
	tests := []struct {
		content  string
		fullLine bool
		want     string
		ok       bool
	}{
		{"Title: foo bar\n", false, "foo", true},
		{"Title: foo bar\n", true, "foo bar", true},
		{"Title:   foo bar  \n", true, "foo bar  ", true},
		{"Title:\n", false, "", true},
		{"Title:    \n", true, "", true},
		{"Other: x\n", false, "", false},
		{"TitleX: x\nTitle: y\n", false, "y", true},
		{" Title: indented\n", false, "", false},
	}

	for _, tt := range tests {
		got, ok, err := NewScanner(NewStringSource(tt.content)).NextValue("Title", tt.fullLine)
		if err != nil {
			t.Fatalf("NextValue(%q) failed: %v", tt.content, err)
		}
		if got != tt.want || ok != tt.ok {
			t.Errorf("NextValue(%q, %v) = (%q, %v), want (%q, %v)", tt.content, tt.fullLine, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNextValueResumes(t *testing.T) {
	sc := NewScanner(NewStringSource("git_url: u\ngit_branch: b\ngit_last_commit: c\n"))
	for _, f := range []string{"git_url", "git_branch", "git_last_commit"} {
		if _, ok, _ := sc.NextValue(f, false); !ok {
			t.Errorf("expected to find %s", f)
		}
	}
	// Fields appearing before the current position are not seen again.
	if _, ok, _ := NewScanner(NewStringSource("b: 1\na: 2\n")).NextValue("a", false); !ok {
		t.Error("expected to find a")
	}
	sc = NewScanner(NewStringSource("b: 1\na: 2\n"))
	sc.NextValue("a", false)
	if _, ok, _ := sc.NextValue("b", false); ok {
		t.Error("expected b to be behind the scanner")
	}
}

func TestNextValueQuotesField(t *testing.T) {
	got, ok, err := NewScanner(NewStringSource("Date/Publication: 2024-01-01 10:00\n")).NextValue("Date/Publication", true)
	if err != nil || !ok || got != "2024-01-01 10:00" {
		t.Errorf("unexpected result %q %v %v", got, ok, err)
	}
	// A regexp meta character in the field name must match literally.
	if _, ok, _ := NewScanner(NewStringSource("aXb: 1\n")).NextValue("a.b", false); ok {
		t.Error("expected a.b not to match aXb")
	}
}

func TestNextField(t *testing.T) {
	sc := NewScanner(NewStringSource("# comment\n\nPackage: foo bar\n continued\nEmpty:\nVersion: 1.0\n"))

	field, value, ok, err := sc.NextField(false)
	if err != nil || !ok || field != "Package" || value != "foo" {
		t.Errorf("unexpected first field %q=%q %v %v", field, value, ok, err)
	}
	// "Empty:" has no value and is skipped.
	field, value, ok, _ = sc.NextField(true)
	if !ok || field != "Version" || value != "1.0" {
		t.Errorf("unexpected second field %q=%q", field, value)
	}
	if _, _, ok, _ := sc.NextField(true); ok {
		t.Error("expected end of input")
	}

	_, value, _, _ = NewScanner(NewStringSource("Package: foo bar\n")).NextField(true)
	if value != "foo bar" {
		t.Errorf("expected full line value, got %q", value)
	}
}

func TestLookupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DESCRIPTION")
	if err := os.WriteFile(path, []byte("Package: foo\nVersion: 1.2-3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LookupFile(path, FieldVersion, false)
	if err != nil || got != "1.2-3" {
		t.Errorf("expected 1.2-3, got %q (%v)", got, err)
	}

	_, err = LookupFile(path, FieldMaintainer, false)
	var nf *FieldNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected FieldNotFoundError, got %v", err)
	}
	if nf.Field != "Maintainer" || nf.Source != path {
		t.Errorf("unexpected error fields %+v", nf)
	}
	if !errors.Is(err, ErrMissingField) {
		t.Error("expected errors.Is(err, ErrMissingField)")
	}
	if k, _ := KindOf(err); k != KindMissingField {
		t.Errorf("expected KindMissingField, got %v", k)
	}
	if want := "Field 'Maintainer' not found in DCF file '" + path + "'"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	if _, err := LookupFile(filepath.Join(t.TempDir(), "missing"), FieldPackage, false); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
