package pkgmeta

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/etnz/dcfmeta/dcf"
)

// writeTree creates a source tree with the given files in a temp directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const affyDescription = `Package: affy
Version: 1.79.0
Title: Methods for Affymetrix Oligonucleotide Arrays
Description: The package contains functions for exploratory
    oligonucleotide array analysis.
License: LGPL (>= 2.0)
`

func TestDescriptionAccessors(t *testing.T) {
	dir := writeTree(t, map[string]string{"DESCRIPTION": affyDescription})

	pkg, err := PackageName(dir)
	if err != nil {
		t.Fatal(err)
	}
	if pkg != "affy" {
		t.Errorf("PackageName() = %q, want %q", pkg, "affy")
	}

	version, err := Version(dir)
	if err != nil {
		t.Fatal(err)
	}
	if version != "1.79.0" {
		t.Errorf("Version() = %q, want %q", version, "1.79.0")
	}

	status, err := PackageStatus(dir)
	if err != nil {
		t.Fatal(err)
	}
	if status != "OK" {
		t.Errorf("PackageStatus() = %q, want %q", status, "OK")
	}

	tarball, err := SrcTarballName(dir)
	if err != nil {
		t.Fatal(err)
	}
	if tarball != "affy_1.79.0.tar.gz" {
		t.Errorf("SrcTarballName() = %q, want %q", tarball, "affy_1.79.0.tar.gz")
	}
}

func TestPackageStatusDeprecated(t *testing.T) {
	dir := writeTree(t, map[string]string{"DESCRIPTION": affyDescription + "PackageStatus: Deprecated\n"})
	status, err := PackageStatus(dir)
	if err != nil {
		t.Fatal(err)
	}
	if status != "Deprecated" {
		t.Errorf("PackageStatus() = %q, want %q", status, "Deprecated")
	}
}

func TestVersionMissing(t *testing.T) {
	dir := writeTree(t, map[string]string{"DESCRIPTION": "Package: affy\n"})

	_, err := Version(dir)
	var notFound *dcf.FieldNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Version() error = %v, want *dcf.FieldNotFoundError", err)
	}
	if notFound.Field != "Version" || notFound.Source != DescriptionPath(dir) {
		t.Errorf("got %+v", notFound)
	}

	if _, err := SrcTarballName(dir); !errors.Is(err, dcf.ErrMissingField) {
		t.Errorf("SrcTarballName() error = %v, want ErrMissingField", err)
	}
}

func TestAccessorsWithoutDescription(t *testing.T) {
	dir := t.TempDir()
	if _, err := PackageName(dir); !os.IsNotExist(err) {
		t.Errorf("PackageName() error = %v, want not exist", err)
	}
	if _, err := PackageStatus(dir); !os.IsNotExist(err) {
		t.Errorf("PackageStatus() error = %v, want not exist", err)
	}
}

func TestOptions(t *testing.T) {
	dir := writeTree(t, map[string]string{
		".BBSoptions": "UnsupportedPlatforms: win\n\nRunLongTests: TRUE\nUnsupportedPlatforms: mac\n",
	})

	opts := Options(dir)
	want := dcf.Record{"UnsupportedPlatforms": "mac", "RunLongTests": "TRUE"}
	if len(opts) != len(want) {
		t.Fatalf("Options() = %v, want %v", opts, want)
	}
	for k, v := range want {
		if opts[k] != v {
			t.Errorf("Options()[%q] = %q, want %q", k, opts[k], v)
		}
	}

	if v, ok := Option(dir, "RunLongTests"); !ok || v != "TRUE" {
		t.Errorf("Option(RunLongTests) = %q, %v", v, ok)
	}
	if _, ok := Option(dir, "Nope"); ok {
		t.Error("Option(Nope) found")
	}
}

func TestOptionsAbsorbsFailures(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing file", nil},
		{"malformed file", map[string]string{".BBSoptions": "not a field line\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeTree(t, tt.files)
			if opts := Options(dir); opts != nil {
				t.Errorf("Options() = %v, want nil", opts)
			}
			if _, ok := Option(dir, "UnsupportedPlatforms"); ok {
				t.Error("Option() found a value")
			}
		})
	}
}

func TestOptionsEmptyFile(t *testing.T) {
	dir := writeTree(t, map[string]string{".BBSoptions": ""})
	opts := Options(dir)
	if opts == nil || len(opts) != 0 {
		t.Errorf("Options() = %#v, want empty record", opts)
	}
}

type fakeMaintainer struct {
	maintainer string
	err        error
}

func (f fakeMaintainer) Maintainer(ctx context.Context, descPath string) (string, error) {
	return f.maintainer, f.err
}

func TestMaintainerNameAndEmail(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		maintainer string
		name       string
		email      string
	}{
		{"Jane Doe <jane@example.org>", "Jane Doe", "jane@example.org"},
		{"Jane Doe<jane@example.org>  ", "Jane Doe", "jane@example.org"},
		{"Bioconductor Package Maintainer <maintainer@bioconductor.org>", "Bioconductor Package Maintainer", "maintainer@bioconductor.org"},
	}
	for _, tt := range tests {
		t.Run(tt.maintainer, func(t *testing.T) {
			src := fakeMaintainer{maintainer: tt.maintainer}
			name, err := MaintainerName(ctx, "pkg", src)
			if err != nil {
				t.Fatal(err)
			}
			if name != tt.name {
				t.Errorf("MaintainerName() = %q, want %q", name, tt.name)
			}
			email, err := MaintainerEmail(ctx, "pkg", src)
			if err != nil {
				t.Fatal(err)
			}
			if email != tt.email {
				t.Errorf("MaintainerEmail() = %q, want %q", email, tt.email)
			}
		})
	}
}

func TestMaintainerWithoutEmail(t *testing.T) {
	ctx := context.Background()
	src := fakeMaintainer{maintainer: "Jane Doe"}

	name, err := MaintainerName(ctx, "pkg", src)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Jane Doe" {
		t.Errorf("MaintainerName() = %q, want %q", name, "Jane Doe")
	}

	_, err = MaintainerEmail(ctx, "pkg", src)
	var notFound *dcf.FieldNotFoundError
	if !errors.As(err, &notFound) || notFound.Field != "Maintainer email" {
		t.Errorf("MaintainerEmail() error = %v, want Maintainer email not found", err)
	}
}

func TestMaintainerError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := MaintainerName(context.Background(), "pkg", fakeMaintainer{err: boom}); !errors.Is(err, boom) {
		t.Errorf("MaintainerName() error = %v, want %v", err, boom)
	}
}

// fakeRHome installs a shell script standing in for Rscript that prints out.
func fakeRHome(t *testing.T, out string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script Rscript needs a unix shell")
	}
	rHome := t.TempDir()
	bin := filepath.Join(rHome, "bin")
	if err := os.Mkdir(bin, 0755); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\nprintf '%s' '" + out + "'\n"
	if err := os.WriteFile(filepath.Join(bin, "Rscript"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return rHome
}

func TestRscriptMaintainer(t *testing.T) {
	r := &RscriptMaintainer{RHome: fakeRHome(t, "Jane Doe <jane@example.org>"), Script: "getMaintainer.R"}
	got, err := r.Maintainer(context.Background(), "DESCRIPTION")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Jane Doe <jane@example.org>" {
		t.Errorf("Maintainer() = %q", got)
	}
}

func TestRscriptMaintainerNA(t *testing.T) {
	r := &RscriptMaintainer{RHome: fakeRHome(t, "NA"), Script: "getMaintainer.R"}
	_, err := r.Maintainer(context.Background(), "pkg/DESCRIPTION")
	var notFound *dcf.FieldNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Maintainer() error = %v, want *dcf.FieldNotFoundError", err)
	}
	if notFound.Field != "Maintainer" || notFound.Source != "pkg/DESCRIPTION" {
		t.Errorf("got %+v", notFound)
	}
}

func TestRscriptMaintainerMissingBinary(t *testing.T) {
	r := &RscriptMaintainer{RHome: t.TempDir(), Script: "getMaintainer.R"}
	if _, err := r.Maintainer(context.Background(), "DESCRIPTION"); err == nil {
		t.Error("Maintainer() succeeded without an Rscript binary")
	}
}

func TestNewRscriptMaintainer(t *testing.T) {
	t.Setenv("BBS_R_HOME", "/opt/R")
	t.Setenv("BBS_HOME", "/home/biocbuild/BBS")
	r, err := NewRscriptMaintainer()
	if err != nil {
		t.Fatal(err)
	}
	if r.RHome != "/opt/R" {
		t.Errorf("RHome = %q", r.RHome)
	}
	if want := filepath.Join("/home/biocbuild/BBS", "utils", "getMaintainer.R"); r.Script != want {
		t.Errorf("Script = %q, want %q", r.Script, want)
	}
}
