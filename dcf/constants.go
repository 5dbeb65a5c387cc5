package dcf

// Field is the name of a well-known field in package metadata files.
type Field string

const (
	FieldPackage              Field = "Package"
	FieldVersion              Field = "Version"
	FieldMaintainer           Field = "Maintainer"
	FieldPackageStatus        Field = "PackageStatus"
	FieldUnsupportedPlatforms Field = "UnsupportedPlatforms"
	FieldDatePublication      Field = "Date/Publication"
)

// Provenance fields, written by the git export step and injected into the
// control file of a package.
const (
	FieldGitURL            Field = "git_url"
	FieldGitBranch         Field = "git_branch"
	FieldGitLastCommit     Field = "git_last_commit"
	FieldGitLastCommitDate Field = "git_last_commit_date"
)

// File is the name of a well-known file in a package source tree.
type File string

const (
	FileDescription File = "DESCRIPTION"
	FileBBSOptions  File = ".BBSoptions"
)
