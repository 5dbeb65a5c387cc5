// Package depgraph loads the precomputed dependency graph of a build.
//
// The graph file has one line per package:
//
//	BiocGenerics: methods utils graphics stats
//	zlibbioc:
//
// It is not a DCF file: there are no records, continuation lines or comments.
package depgraph

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/etnz/dcfmeta/dcf"
)

// Graph maps a package name to its dependencies, in the order they are
// listed. Dependencies are not required to be keys of the graph.
type Graph map[string][]string

// Load reads a dependency graph from r.
func Load(r io.Reader) (Graph, error) {
	g := make(Graph)
	src := dcf.NewSource(r)
	for {
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading dependency graph: %w", err)
		}
		pkg, deps, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("line %d: missing ':' in %q", src.Line(), line)
		}
		g[pkg] = splitDeps(deps)
	}
	return g, nil
}

// LoadFile reads the dependency graph at path.
func LoadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// splitDeps splits on single spaces and drops the empty tokens left by
// doubled separators.
func splitDeps(s string) []string {
	deps := []string{}
	for _, dep := range strings.Split(strings.TrimSpace(s), " ") {
		if dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// Packages returns the packages of g in sorted order.
func (g Graph) Packages() []string {
	pkgs := make([]string, 0, len(g))
	for pkg := range g {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}

// ReverseDeps returns, for each package appearing as a dependency, the sorted
// list of packages of g that depend on it.
func (g Graph) ReverseDeps() map[string][]string {
	rev := make(map[string][]string)
	for _, pkg := range g.Packages() {
		for _, dep := range g[pkg] {
			if r := rev[dep]; len(r) > 0 && r[len(r)-1] == pkg {
				continue
			}
			rev[dep] = append(rev[dep], pkg)
		}
	}
	return rev
}
