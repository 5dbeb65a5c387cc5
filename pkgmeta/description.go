// Package pkgmeta reads the metadata of an R package source tree.
//
// A source tree is a directory holding a DESCRIPTION file and, optionally, a
// .BBSoptions file with build options. Field lookups scan DESCRIPTION from
// the top and return the first value of the field, without continuation
// lines.
package pkgmeta

import (
	"path/filepath"

	"github.com/etnz/dcfmeta/dcf"
)

// DescriptionPath returns the path of the DESCRIPTION file of the source tree
// in dir.
func DescriptionPath(dir string) string {
	return filepath.Join(dir, string(dcf.FileDescription))
}

// OptionsPath returns the path of the .BBSoptions file of the source tree in
// dir.
func OptionsPath(dir string) string {
	return filepath.Join(dir, string(dcf.FileBBSOptions))
}

// PackageName returns the Package field of the source tree in dir.
func PackageName(dir string) (string, error) {
	return dcf.LookupFile(DescriptionPath(dir), dcf.FieldPackage, false)
}

// Version returns the Version field of the source tree in dir.
func Version(dir string) (string, error) {
	return dcf.LookupFile(DescriptionPath(dir), dcf.FieldVersion, false)
}

// PackageStatus returns the PackageStatus field of the source tree in dir,
// or "OK" when the field is absent.
func PackageStatus(dir string) (string, error) {
	status, err := dcf.LookupFile(DescriptionPath(dir), dcf.FieldPackageStatus, false)
	if kind, ok := dcf.KindOf(err); ok && kind == dcf.KindMissingField {
		return "OK", nil
	}
	return status, err
}

// SrcTarballName returns the name of the source tarball 'R CMD build' makes
// from the source tree in dir: <Package>_<Version>.tar.gz.
func SrcTarballName(dir string) (string, error) {
	pkg, err := PackageName(dir)
	if err != nil {
		return "", err
	}
	version, err := Version(dir)
	if err != nil {
		return "", err
	}
	return SrcTarball(pkg, version), nil
}
