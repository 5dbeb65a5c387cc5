// Package logtail classifies the outcome of install, build and check commands
// from the last lines of their output.
//
// Only a bounded tail of each file is inspected: 12 lines for install and
// build output, 6 lines for check summaries. A signature further back is not
// seen. Absence of a known pattern is never an error; each classifier falls
// back to a default answer.
package logtail

import (
	"errors"
	"io"

	"github.com/etnz/dcfmeta/dcf"
	"github.com/phuslu/log"
)

const (
	// InstallTailSize is the number of lines inspected in the output of
	// 'R CMD INSTALL', 'R CMD build' or install.packages().
	InstallTailSize = 12
	// CheckTailSize is the number of lines inspected in the output of
	// 'R CMD check'.
	CheckTailSize = 6
)

// ReadTail returns the last n lines of the file at path, in file order, or
// fewer if the file is shorter. Memory use is bounded by n lines. Pass
// dcf.WithDecoder to read output in a node's own encoding.
func ReadTail(path string, n int, opts ...dcf.Option) ([]string, error) {
	src, err := dcf.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return readTail(src, n)
}

func readTail(src *dcf.Source, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	ring := make([]string, n)
	next, count := 0, 0
	for {
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		ring[next] = line
		next = (next + 1) % n
		count++
	}

	if count < n {
		return ring[:count], nil
	}
	tail := make([]string, 0, n)
	tail = append(tail, ring[next:]...)
	tail = append(tail, ring[:next]...)
	return tail, nil
}

// InstallPkgWasOK reports whether the install output at path shows no sign
// of failure for pkg in its last InstallTailSize lines.
//
// It looks for bad news rather than good news: install.packages() prints no
// success marker when installing a Mac binary package.
func InstallPkgWasOK(path, pkg string, opts ...dcf.Option) (bool, error) {
	tail, err := ReadTail(path, InstallTailSize, opts...)
	if err != nil {
		return false, err
	}
	if m, ok := Classify(tail, InstallRules(pkg)); ok {
		log.Debug().Str("file", path).Str("rule", m.Rule.Name).Str("line", m.Line).Msg("install failure detected")
		return false, nil
	}
	return true, nil
}

// ExtractLockingPackage returns the name of the package whose 00LOCK
// directory blocked the install.packages() run logged at path.
func ExtractLockingPackage(path string, opts ...dcf.Option) (string, bool, error) {
	tail, err := ReadTail(path, InstallTailSize, opts...)
	if err != nil {
		return "", false, err
	}
	m, ok := Classify(tail, LockRules)
	if !ok {
		return "", false, nil
	}
	return m.Value, true, nil
}

// CountWarnings returns the number of warnings reported in the last
// CheckTailSize lines of the 'R CMD check' output at path, as a string.
// It returns "0" when no count is found.
func CountWarnings(path string, opts ...dcf.Option) (string, error) {
	tail, err := ReadTail(path, CheckTailSize, opts...)
	if err != nil {
		return "", err
	}
	if m, ok := Classify(tail, WarningRules); ok {
		return m.Value, nil
	}
	return "0", nil
}
