package pkgmeta

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/etnz/dcfmeta/dcf"
)

// ProvenanceFields are the fields InjectProvenance writes into DESCRIPTION,
// in the order it writes them.
var ProvenanceFields = []dcf.Field{
	dcf.FieldGitURL,
	dcf.FieldGitBranch,
	dcf.FieldGitLastCommit,
	dcf.FieldGitLastCommitDate,
	dcf.FieldDatePublication,
}

var provenanceLineRegexp = regexp.MustCompile(`^(` + joinFields(ProvenanceFields, "|") + `):`)

func joinFields(fields []dcf.Field, sep string) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = regexp.QuoteMeta(string(f))
	}
	return strings.Join(names, sep)
}

// Provenance is the version control origin of a package source tree, as
// recorded in its git log file.
type Provenance struct {
	URL            string
	Branch         string
	LastCommit     string
	LastCommitDate string
}

// ReadProvenance reads the git_url, git_branch, git_last_commit and
// git_last_commit_date fields of the git log file at path.
//
// The fields are looked up in that order in a single pass, so they must
// appear in that order in the file.
func ReadProvenance(path string) (Provenance, error) {
	src, err := dcf.Open(path)
	if err != nil {
		return Provenance{}, err
	}
	defer src.Close()

	sc := dcf.NewScanner(src)
	var p Provenance
	for _, f := range []struct {
		field dcf.Field
		dst   *string
	}{
		{dcf.FieldGitURL, &p.URL},
		{dcf.FieldGitBranch, &p.Branch},
		{dcf.FieldGitLastCommit, &p.LastCommit},
		{dcf.FieldGitLastCommitDate, &p.LastCommitDate},
	} {
		val, ok, err := sc.NextValue(string(f.field), false)
		if err != nil {
			return Provenance{}, err
		}
		if !ok {
			return Provenance{}, &dcf.FieldNotFoundError{Source: path, Field: string(f.field)}
		}
		*f.dst = val
	}
	return p, nil
}

// InjectProvenance rewrites the DESCRIPTION file at descPath with the
// provenance read from gitlogPath and today's Date/Publication.
func InjectProvenance(descPath, gitlogPath string) error {
	return InjectProvenanceAt(descPath, gitlogPath, time.Now())
}

// InjectProvenanceAt is InjectProvenance with a publication date of now.
//
// Blank lines and previous provenance fields are removed from the file, other
// lines are kept byte for byte, then the provenance fields are appended. The
// file is rewritten in place: callers must not run two injections on the same
// file at once.
func InjectProvenanceAt(descPath, gitlogPath string, now time.Time) error {
	p, err := ReadProvenance(gitlogPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(descPath)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, line := range splitLines(data) {
		s, err := dcf.DefaultDecoder(line)
		if err != nil {
			return fmt.Errorf("%s: %w", descPath, err)
		}
		if strings.TrimSpace(s) == "" || provenanceLineRegexp.MatchString(s) {
			continue
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	for i, v := range []string{p.URL, p.Branch, p.LastCommit, p.LastCommitDate, now.Format("2006-01-02")} {
		fmt.Fprintf(&buf, "%s: %s\n", ProvenanceFields[i], v)
	}

	info, err := os.Stat(descPath)
	if err != nil {
		return err
	}
	return os.WriteFile(descPath, buf.Bytes(), info.Mode().Perm())
}

// splitLines splits data on "\n" and "\r\n". A missing final line terminator
// is tolerated.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		line, rest, _ := bytes.Cut(data, []byte("\n"))
		lines = append(lines, bytes.TrimSuffix(line, []byte("\r")))
		data = rest
	}
	return lines
}
