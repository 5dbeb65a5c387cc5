package pkgmeta

import (
	"fmt"
	"path/filepath"
	"regexp"
)

var (
	versionRegexp    = regexp.MustCompile(`^[0-9]+([.-][0-9]+)*$`)
	srcTarballRegexp = regexp.MustCompile(`^([^_]+)_([^_]+)\.tar\.gz$`)
)

// VersionIsValid reports whether v is a well formed package version such as
// "1.2.3" or "0.99-1".
func VersionIsValid(v string) bool {
	return versionRegexp.MatchString(v)
}

// SrcTarball returns the source tarball name of pkg at version.
func SrcTarball(pkg, version string) string {
	return fmt.Sprintf("%s_%s.tar.gz", pkg, version)
}

// ParseSrcTarball splits the base name of a source tarball path into package
// name and version.
func ParseSrcTarball(path string) (pkg, version string, err error) {
	base := filepath.Base(path)
	m := srcTarballRegexp.FindStringSubmatch(base)
	if m == nil {
		return "", "", fmt.Errorf("%q is not a package source tarball name (<pkg>_<version>.tar.gz)", base)
	}
	return m[1], m[2], nil
}

// PackageFromSrcTarball returns the package name encoded in a source tarball
// path.
func PackageFromSrcTarball(path string) (string, error) {
	pkg, _, err := ParseSrcTarball(path)
	return pkg, err
}

// VersionFromSrcTarball returns the version encoded in a source tarball path.
func VersionFromSrcTarball(path string) (string, error) {
	_, version, err := ParseSrcTarball(path)
	return version, err
}
