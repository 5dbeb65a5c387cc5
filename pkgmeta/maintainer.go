package pkgmeta

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"github.com/etnz/dcfmeta/dcf"
)

// MaintainerSource resolves the maintainer of the package described by a
// DESCRIPTION file.
//
// The Maintainer field may be missing and computed from Authors@R, so it
// cannot be read with a plain field lookup.
type MaintainerSource interface {
	Maintainer(ctx context.Context, descPath string) (string, error)
}

// RscriptMaintainer asks R for the maintainer by running
//
//	<RHome>/bin/Rscript --vanilla <Script> <DESCRIPTION>
//
// Script prints the maintainer, or "NA" when there is none.
type RscriptMaintainer struct {
	RHome  string
	Script string
}

// NewRscriptMaintainer returns an RscriptMaintainer configured from the
// BBS_R_HOME and BBS_HOME environment variables.
func NewRscriptMaintainer() (*RscriptMaintainer, error) {
	rHome, ok := os.LookupEnv("BBS_R_HOME")
	if !ok {
		return nil, fmt.Errorf("BBS_R_HOME is not set")
	}
	bbsHome, ok := os.LookupEnv("BBS_HOME")
	if !ok {
		return nil, fmt.Errorf("BBS_HOME is not set")
	}
	return &RscriptMaintainer{
		RHome:  rHome,
		Script: filepath.Join(bbsHome, "utils", "getMaintainer.R"),
	}, nil
}

// Maintainer implements MaintainerSource.
func (r *RscriptMaintainer) Maintainer(ctx context.Context, descPath string) (string, error) {
	rscript := filepath.Join(r.RHome, "bin", "Rscript")
	cmd := exec.CommandContext(ctx, rscript, "--vanilla", r.Script, descPath)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("running %s %s: %w", rscript, r.Script, err)
	}
	maintainer, err := dcf.DefaultDecoder(bytes.TrimRight(out, "\r\n"))
	if err != nil {
		return "", err
	}
	if maintainer == "NA" {
		return "", &dcf.FieldNotFoundError{Source: descPath, Field: string(dcf.FieldMaintainer)}
	}
	return maintainer, nil
}

// maintainerRegexp splits "Jane Doe <jane@example.org>".
var maintainerRegexp = regexp.MustCompile(`^(.*\S)\s*<(.*)>\s*`)

// Maintainer returns the maintainer of the source tree in dir, as resolved by
// src.
func Maintainer(ctx context.Context, dir string, src MaintainerSource) (string, error) {
	return src.Maintainer(ctx, DescriptionPath(dir))
}

// MaintainerName returns the name part of the maintainer of the source tree
// in dir. When the maintainer has no "<email>" part it is returned whole.
func MaintainerName(ctx context.Context, dir string, src MaintainerSource) (string, error) {
	maintainer, err := Maintainer(ctx, dir, src)
	if err != nil {
		return "", err
	}
	if m := maintainerRegexp.FindStringSubmatch(maintainer); m != nil {
		return m[1], nil
	}
	return maintainer, nil
}

// MaintainerEmail returns the email part of the maintainer of the source tree
// in dir.
func MaintainerEmail(ctx context.Context, dir string, src MaintainerSource) (string, error) {
	maintainer, err := Maintainer(ctx, dir, src)
	if err != nil {
		return "", err
	}
	m := maintainerRegexp.FindStringSubmatch(maintainer)
	if m == nil {
		return "", &dcf.FieldNotFoundError{Source: DescriptionPath(dir), Field: "Maintainer email"}
	}
	return m[2], nil
}
