// Package index reads the package index of a build: a multi-record DCF file
// with one record per package to build, keyed by its Package field.
package index

import (
	"sort"
	"strings"

	"github.com/etnz/dcfmeta/dcf"
	"github.com/etnz/dcfmeta/nodes"
	"github.com/phuslu/log"
)

// Packages returns the names of all packages in src, sorted case-insensitively.
func Packages(src *dcf.Source) ([]string, error) {
	records, err := dcf.Parse(src)
	if err != nil {
		return nil, err
	}
	pkgs := make([]string, 0, len(records))
	for _, rec := range records {
		pkgs = append(pkgs, rec[string(dcf.FieldPackage)])
	}
	sortFold(pkgs)
	return pkgs, nil
}

// PackagesByName returns the records of src keyed by package name.
// A package listed twice keeps its last record.
func PackagesByName(src *dcf.Source) (map[string]dcf.Record, error) {
	records, err := dcf.Parse(src)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]dcf.Record, len(records))
	for _, rec := range records {
		byName[rec[string(dcf.FieldPackage)]] = rec
	}
	return byName, nil
}

// PackagesForNode returns the names of the packages of src supported by node,
// sorted case-insensitively.
func PackagesForNode(src *dcf.Source, node nodes.Node) ([]string, error) {
	records, err := dcf.Parse(src)
	if err != nil {
		return nil, err
	}
	var pkgs []string
	for _, rec := range records {
		if Supports(rec, node) {
			pkgs = append(pkgs, rec[string(dcf.FieldPackage)])
		}
	}
	sortFold(pkgs)
	return pkgs, nil
}

// Supports reports whether node may build the package of rec. A record
// without an UnsupportedPlatforms field is supported everywhere.
func Supports(rec dcf.Record, node nodes.Node) bool {
	unsupported, ok := rec.Get(dcf.FieldUnsupportedPlatforms)
	return !ok || IsSupported(unsupported, node)
}

// IsSupported reports whether node may build a package whose
// UnsupportedPlatforms field is unsupported.
//
// The field is a comma-separated list. Empty, "None" and "NA" entries are
// ignored. Any other entry excludes the node when it equals its hostname or
// its architecture. On nodes that build binary packages, an entry also
// excludes the node when it equals the node's package type, or when it is
// "win" or "mac" and the package type starts with it.
func IsSupported(unsupported string, node nodes.Node) bool {
	for _, platform := range strings.Split(unsupported, ",") {
		platform = strings.TrimSpace(platform)
		switch platform {
		case "", "None", "NA":
			continue
		}
		if platform == node.Hostname {
			return false
		}
		if node.Arch != "" && platform == node.Arch {
			return false
		}
		if node.PkgType == "" || node.PkgType == nodes.PkgTypeSource {
			continue
		}
		// mac.binary or mac.binary.*
		if platform == node.PkgType {
			return false
		}
		// win or mac on win.binary or mac.*
		if (platform == "win" || platform == "mac") && strings.HasPrefix(node.PkgType, platform) {
			return false
		}
	}
	return true
}

// PackageField returns the value of field in the record of pkg.
//
// It walks sc forward to the Package line of pkg, then to the next line of
// field. Records are expected once each, in file order, and field must appear
// in the record of pkg: the scan does not stop at the record boundary. desc
// names the index in errors.
func PackageField(sc *dcf.Scanner, desc, pkg, field string) (string, error) {
	for {
		name, ok, err := sc.NextValue(string(dcf.FieldPackage), false)
		if err != nil {
			return "", err
		}
		if !ok {
			log.Error().Str("package", pkg).Str("dcf", desc).Msg("can't find package in DCF file")
			return "", &dcf.FieldNotFoundError{Source: desc, Field: string(dcf.FieldPackage)}
		}
		if name == pkg {
			break
		}
	}
	val, ok, err := sc.NextValue(field, true)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Error().Str("package", pkg).Str("field", field).Str("dcf", desc).Msg("can't find field for package in DCF file")
		return "", &dcf.FieldNotFoundError{Source: desc, Field: field}
	}
	return val, nil
}

// PackagesFile is Packages on the file at path.
func PackagesFile(path string, opts ...dcf.Option) ([]string, error) {
	src, err := dcf.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return Packages(src)
}

// PackagesByNameFile is PackagesByName on the file at path.
func PackagesByNameFile(path string, opts ...dcf.Option) (map[string]dcf.Record, error) {
	src, err := dcf.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return PackagesByName(src)
}

// PackagesForNodeFile is PackagesForNode on the file at path.
func PackagesForNodeFile(path string, node nodes.Node, opts ...dcf.Option) ([]string, error) {
	src, err := dcf.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return PackagesForNode(src, node)
}

// PackageFieldFile is PackageField on the file at path.
func PackageFieldFile(path, pkg, field string, opts ...dcf.Option) (string, error) {
	src, err := dcf.Open(path, opts...)
	if err != nil {
		return "", err
	}
	defer src.Close()
	return PackageField(dcf.NewScanner(src), path, pkg, field)
}

// sortFold sorts names case-insensitively, keeping the file order of names
// equal under case folding.
func sortFold(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
}
