package dcf

import (
	"errors"
	"fmt"
)

// Kind discriminates the errors reported by this package.
type Kind int

const (
	// KindMalformed reports input that violates the DCF grammar.
	KindMalformed Kind = iota + 1
	// KindMissingField reports a field or record absent after a full scan.
	KindMissingField
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindMissingField:
		return "missing-field"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinel errors matched by the typed errors through errors.Is.
var (
	ErrMalformed    = errors.New("malformed DCF input")
	ErrMissingField = errors.New("DCF field not found")
)

// ParseError reports a line that violates the DCF grammar.
type ParseError struct {
	// Source is the file path or handle name, possibly empty.
	Source string
	// Line is 1-based.
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("in DCF file '%s' at line %d: %s", e.Source, e.Line, e.Msg)
	}
	return fmt.Sprintf("in DCF file at line %d: %s", e.Line, e.Msg)
}

// Kind returns KindMalformed.
func (e *ParseError) Kind() Kind { return KindMalformed }

// Is makes errors.Is(err, ErrMalformed) true.
func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

// FieldNotFoundError reports a field, or a record keyed by a field value,
// that could not be found in a DCF source.
type FieldNotFoundError struct {
	Source string
	Field  string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("Field '%s' not found in DCF file '%s'", e.Field, e.Source)
}

// Kind returns KindMissingField.
func (e *FieldNotFoundError) Kind() Kind { return KindMissingField }

// Is makes errors.Is(err, ErrMissingField) true.
func (e *FieldNotFoundError) Is(target error) bool { return target == ErrMissingField }

// KindOf reports the Kind of the first error in err's chain that has one.
func KindOf(err error) (Kind, bool) {
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind(), true
	}
	return 0, false
}
