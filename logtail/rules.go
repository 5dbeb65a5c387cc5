package logtail

import (
	"regexp"
)

// Outcome is what a matching rule says about a command run.
type Outcome int

const (
	// Failed marks a failed install or build.
	Failed Outcome = iota + 1
	// Locked marks an install blocked by a stale 00LOCK directory.
	Locked
	// Warnings marks a check summary with a warning count.
	Warnings
)

func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case Locked:
		return "locked"
	case Warnings:
		return "warnings"
	}
	return "unknown"
}

// Rule maps lines matching Pattern to an Outcome. When Group is positive the
// submatch of that index is extracted as the match Value.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Outcome Outcome
	Group   int
}

// Match is the first rule hit in a tail.
type Match struct {
	Rule  Rule
	Line  string
	Value string
}

// Classify scans lines in order and, for each line, tries rules in order.
// It returns the first hit.
func Classify(lines []string, rules []Rule) (Match, bool) {
	for _, line := range lines {
		for _, r := range rules {
			m := r.Pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			match := Match{Rule: r, Line: line}
			if r.Group > 0 && r.Group < len(m) {
				match.Value = m[r.Group]
			}
			return match, true
		}
	}
	return Match{}, false
}

// InstallRules are the failure signatures of an install of pkg.
func InstallRules(pkg string) []Rule {
	return []Rule{
		{Name: "removing", Pattern: regexp.MustCompile(`^\* removing`), Outcome: Failed},
		{Name: "non-zero-exit", Pattern: regexp.MustCompile(`^installation of package .* had non-zero exit status`), Outcome: Failed},
		{Name: "install-error", Pattern: regexp.MustCompile(`^Error in install\.packages\("` + regexp.QuoteMeta(pkg) + `"`), Outcome: Failed},
		{Name: "download-error", Pattern: regexp.MustCompile(`^Error in download\.file\(`), Outcome: Failed},
	}
}

// LockRules extract the package owning a stale 00LOCK directory.
var LockRules = []Rule{
	{Name: "00lock", Pattern: regexp.MustCompile(`^Try removing .*/00LOCK-([\w.]*)`), Outcome: Locked, Group: 1},
}

// WarningRules extract the warning count of a check summary.
var WarningRules = []Rule{
	{Name: "there-were", Pattern: regexp.MustCompile(`^WARNING: There (was|were) (\d+) (warning|warnings)`), Outcome: Warnings, Group: 2},
	{Name: "status", Pattern: regexp.MustCompile(`^Status: (\d+) WARNING`), Outcome: Warnings, Group: 1},
}
