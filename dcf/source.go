package dcf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decoder turns the raw bytes of one line into a string.
type Decoder func([]byte) (string, error)

// DefaultDecoder accepts UTF-8 as is and decodes anything else as ISO-8859-1,
// the typical encoding of files produced on Windows builders.
func DefaultDecoder(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	return Latin1Decoder(b)
}

// Latin1Decoder decodes b as ISO-8859-1. Every byte sequence is valid.
func Latin1Decoder(b []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// StrictUTF8Decoder rejects lines that are not valid UTF-8.
func StrictUTF8Decoder(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("invalid UTF-8 sequence")
	}
	return string(b), nil
}

// Option configures a Source.
type Option func(*Source)

// WithName sets the name reported in errors.
func WithName(name string) Option {
	return func(s *Source) { s.name = name }
}

// WithDecoder replaces the DefaultDecoder.
func WithDecoder(d Decoder) Option {
	return func(s *Source) {
		if d != nil {
			s.decode = d
		}
	}
}

// Source is a line-oriented input with an optional display name.
//
// A Source is consumed once: each call to Next advances through the
// underlying stream.
type Source struct {
	name    string
	decode  Decoder
	reader  *bufio.Reader
	closer  io.Closer
	lineno  int
}

// Open opens the file at path. The caller must Close the returned Source.
func Open(path string, opts ...Option) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s := newSource(f, path, opts)
	s.closer = f
	return s, nil
}

// NewSource reads lines from r, an already open handle owned by the caller.
// The name is taken from r when it has a Name() or URL() method, unless
// WithName is given.
func NewSource(r io.Reader, opts ...Option) *Source {
	return newSource(r, nameOf(r), opts)
}

// NewStringSource is a convenience for tests and small in-memory documents.
func NewStringSource(content string, opts ...Option) *Source {
	return NewSource(strings.NewReader(content), opts...)
}

func newSource(r io.Reader, name string, opts []Option) *Source {
	s := &Source{
		name:   name,
		decode: DefaultDecoder,
		reader: bufio.NewReader(r),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nameOf extracts a best-effort identifier from a handle.
func nameOf(r io.Reader) string {
	switch v := r.(type) {
	case interface{ Name() string }:
		return v.Name()
	case interface{ URL() string }:
		return v.URL()
	}
	return ""
}

// Name returns the display name of the source, possibly empty.
func (s *Source) Name() string { return s.name }

// Line returns the 1-based number of the last line returned by Next.
func (s *Source) Line() int { return s.lineno }

// Next returns the next decoded line without its terminator, "\n" or
// "\r\n". Lines have no length limit. It returns io.EOF after the last line.
func (s *Source) Next() (string, error) {
	raw, err := s.reader.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s: %w", s.displayName(), err)
	}
	if len(raw) == 0 {
		return "", io.EOF
	}
	s.lineno++
	line, err := s.decode(TrimEOL(raw))
	if err != nil {
		return "", fmt.Errorf("decoding %s at line %d: %w", s.displayName(), s.lineno, err)
	}
	return line, nil
}

// TrimEOL removes a trailing "\n" or "\r\n" from b.
func TrimEOL(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return bytes.TrimSuffix(b, []byte("\r"))
}

// Close releases the file opened by Open. It is a no-op for sources built
// with NewSource.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func (s *Source) displayName() string {
	if s.name == "" {
		return "DCF input"
	}
	return s.name
}
