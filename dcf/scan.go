package dcf

import (
	"errors"
	"io"
	"regexp"
	"strings"
)

var (
	fieldWordRe = regexp.MustCompile(`^([A-Za-z0-9_.-]+)\s*:\s*(\S+)`)
	fieldLineRe = regexp.MustCompile(`^([A-Za-z0-9_.-]+)\s*:\s*(\S.*)`)
)

// Scanner looks for single field lines in a Source without building records.
//
// Successive calls resume where the previous one stopped, so reading two
// fields in the order they appear in the file costs a single pass. Continuation
// lines are not joined: only the first line of a value is seen.
type Scanner struct {
	src *Source
}

// NewScanner returns a Scanner reading from src.
func NewScanner(src *Source) *Scanner {
	return &Scanner{src: src}
}

// Source returns the underlying source.
func (s *Scanner) Source() *Source { return s.src }

// NextField returns the next line that looks like a field line with a
// non-empty value.
//
// The value starts at the first non-whitespace character after the ':'. If
// fullLine is false it stops at the next whitespace, otherwise it runs to the
// end of the line. ok is false when the end of the source is reached.
func (s *Scanner) NextField(fullLine bool) (field, value string, ok bool, err error) {
	re := fieldWordRe
	if fullLine {
		re = fieldLineRe
	}
	for {
		line, err := s.src.Next()
		if errors.Is(err, io.EOF) {
			return "", "", false, nil
		}
		if err != nil {
			return "", "", false, err
		}
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true, nil
		}
	}
}

// NextValue returns the value on the next line starting with field+":".
//
// The value is cut as in NextField. A field present with no value yields ""
// and ok true; ok is false only when the end of the source is reached first.
func (s *Scanner) NextValue(field string, fullLine bool) (value string, ok bool, err error) {
	re := valueRegexp(field, fullLine)
	prefix := field + ":"
	for {
		line, err := s.src.Next()
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], true, nil
		}
		return "", true, nil
	}
}

func valueRegexp(field string, fullLine bool) *regexp.Regexp {
	val := `\S+`
	if fullLine {
		val = `\S.*`
	}
	return regexp.MustCompile(`^` + regexp.QuoteMeta(field) + `\s*:\s*(` + val + `)`)
}

// LookupFile opens path, returns the first value of field and closes the
// file. A missing field is reported as a *FieldNotFoundError.
func LookupFile(path string, field Field, fullLine bool, opts ...Option) (string, error) {
	src, err := Open(path, opts...)
	if err != nil {
		return "", err
	}
	defer src.Close()

	val, ok, err := NewScanner(src).NextValue(string(field), fullLine)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &FieldNotFoundError{Source: path, Field: string(field)}
	}
	return val, nil
}
