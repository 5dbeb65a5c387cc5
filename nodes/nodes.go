// Package nodes describes the build nodes of the pipeline: their hostname,
// architecture and native package type, which decide which packages a node
// builds.
package nodes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/etnz/dcfmeta/dcf"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// PkgTypeSource is the package type of nodes that build source packages only.
const PkgTypeSource = "source"

// Node is the platform descriptor of a build node.
type Node struct {
	// Hostname is the short name of the node, e.g. "nebbiolo1".
	Hostname string
	// OS is a human readable description of the operating system.
	OS string
	// Arch is the machine architecture, e.g. "x86_64" or "arm64".
	Arch string
	// Platform is the target triplet, e.g. "x86_64-linux-gnu".
	Platform string
	// PkgType is the native package type: "source", "win.binary",
	// "mac.binary", "mac.binary.big-sur-arm64", ...
	PkgType string
	// Encoding is the encoding of the output files produced on the node.
	Encoding string
}

// Decoder returns the line decoder matching the node's output encoding.
// Unknown or empty encodings get dcf.DefaultDecoder.
func (n Node) Decoder() dcf.Decoder {
	switch strings.ToLower(strings.ReplaceAll(n.Encoding, "-", "_")) {
	case "iso8859", "iso8859_1", "latin1", "latin_1":
		return dcf.Latin1Decoder
	}
	return dcf.DefaultDecoder
}

// Table maps hostnames to node descriptors.
type Table map[string]Node

// Lookup returns the node named hostname.
func (t Table) Lookup(hostname string) (Node, bool) {
	n, ok := t[hostname]
	if ok {
		n.Hostname = hostname
	}
	return n, ok
}

// Hostnames returns the sorted list of hostnames in the table.
func (t Table) Hostnames() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadTable reads a node table from path. The format is chosen from the
// extension: .yaml/.yml, .toml, anything else is read as JSON.
//
//	nebbiolo1:
//	  os: Linux (Ubuntu 22.04.3 LTS)
//	  arch: x86_64
//	  platform: x86_64-linux-gnu
//	  pkg_type: source
//	  encoding: utf_8
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading node table: %w", err)
	}
	t, err := decodeTable(path, data)
	if err != nil {
		return nil, fmt.Errorf("parsing node table %s: %w", path, err)
	}
	return t, nil
}

func decodeTable(path string, data []byte) (Table, error) {
	// Internal DTO for deserialization
	type node struct {
		OS       string `yaml:"os" toml:"os" json:"os"`
		Arch     string `yaml:"arch" toml:"arch" json:"arch"`
		Platform string `yaml:"platform" toml:"platform" json:"platform"`
		PkgType  string `yaml:"pkg_type" toml:"pkg_type" json:"pkg_type"`
		Encoding string `yaml:"encoding" toml:"encoding" json:"encoding"`
	}

	var dto map[string]node
	r := bytes.NewReader(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&dto); err != nil {
			return nil, err
		}
	case ".toml":
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&dto); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&dto); err != nil {
			return nil, err
		}
	}

	// Map DTO to business object
	t := make(Table, len(dto))
	for name, n := range dto {
		if n.PkgType == "" {
			return nil, fmt.Errorf("node %s: pkg_type is required", name)
		}
		t[name] = Node{
			Hostname: name,
			OS:       n.OS,
			Arch:     n.Arch,
			Platform: n.Platform,
			PkgType:  n.PkgType,
			Encoding: n.Encoding,
		}
	}
	return t, nil
}
