package dcf

import (
	"errors"
	"io"
	"strings"
)

// Record is one DCF entry: field name to value. Continuation lines are
// joined to the value with a single space.
type Record map[string]string

// Get returns the value of a well-known field.
func (r Record) Get(f Field) (string, bool) {
	v, ok := r[string(f)]
	return v, ok
}

// Parse reads every record of src, in file order.
func Parse(src *Source) ([]Record, error) {
	var records []Record
	err := parse(src, func(rec Record) { records = append(records, rec) })
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseMerged reads every record of src and overlays them, in file order, onto
// a single Record: later records overwrite colliding fields of earlier ones.
// The result is empty, not nil, for a document with no records.
func ParseMerged(src *Source) (Record, error) {
	merged := make(Record)
	err := parse(src, func(rec Record) {
		for k, v := range rec {
			merged[k] = v
		}
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// ParseFile opens path, parses its records and closes it.
func ParseFile(path string, opts ...Option) ([]Record, error) {
	src, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return Parse(src)
}

// ParseFileMerged opens path, parses it in merge mode and closes it.
func ParseFileMerged(path string, opts ...Option) (Record, error) {
	src, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return ParseMerged(src)
}

// parse runs the record state machine over src and hands each completed
// record to emit.
func parse(src *Source, emit func(Record)) error {
	var (
		rec Record // nil when no record is open
		key string // field receiving continuation lines
	)

	flush := func() {
		if rec != nil {
			emit(rec)
			rec = nil
		}
	}

	fail := func(msg string) error {
		return &ParseError{Source: src.Name(), Line: src.Line(), Msg: msg}
	}

	for {
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()

		case strings.HasPrefix(line, "#"):
			// comment

		case strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t"):
			if rec == nil {
				return fail("whitespace unexpected at beginning of line")
			}
			if rec[key] == "" {
				rec[key] = trimmed
			} else {
				rec[key] += " " + trimmed
			}

		default:
			pos := strings.Index(line, ":")
			if pos == -1 {
				// Only a hint: an open record suggests a broken continuation.
				if rec == nil {
					return fail("invalid line (':' missing?)")
				}
				return fail("invalid line (leading whitespace missing?)")
			}
			if rec == nil {
				rec = make(Record)
			}
			key = line[:pos]
			rec[key] = strings.TrimSpace(line[pos+1:])
		}
	}
	flush()
	return nil
}
