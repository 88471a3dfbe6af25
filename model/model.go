package model

// Status describes what happened to a file between base and head.
type Status string

const (
	StatusAdded    Status = "added"
	StatusRemoved  Status = "removed"
	StatusModified Status = "modified"
	StatusRenamed  Status = "renamed"
	StatusCopied   Status = "copied"
)

// HasBase reports whether the file exists at the base revision.
func (s Status) HasBase() bool {
	return s != StatusAdded
}

// HasHead reports whether the file exists at the head revision.
func (s Status) HasHead() bool {
	return s != StatusRemoved
}

// Side selects one of the two revisions of a comparison.
type Side int

const (
	Base Side = iota
	Head
)

func (s Side) String() string {
	if s == Head {
		return "head"
	}
	return "base"
}

// FileDiff is one changed file of a comparison, with its single-file patch
// starting at the first hunk header.
type FileDiff struct {
	Filename         string
	PreviousFilename string // set for renames and copies
	Status           Status
	Patch            string
	Additions        int
	Deletions        int
}

// BaseFilename is the path of the file at the base revision.
func (f FileDiff) BaseFilename() string {
	if f.PreviousFilename != "" && (f.Status == StatusRenamed || f.Status == StatusCopied) {
		return f.PreviousFilename
	}
	return f.Filename
}

// Changes is the total number of changed lines.
func (f FileDiff) Changes() int {
	return f.Additions + f.Deletions
}

// Comparison is the set of files changed between two revisions.
type Comparison struct {
	Title string // e.g. "owner/repo" or the repository directory
	Base  string
	Head  string
	Files []FileDiff
}

// Summary holds the totals shown on the index view.
type Summary struct {
	Files     int
	Additions int
	Deletions int
}

// Changes is the total number of changed lines.
func (s Summary) Changes() int {
	return s.Additions + s.Deletions
}

// Summarize totals the line counts of all files.
func Summarize(files []FileDiff) Summary {
	s := Summary{Files: len(files)}
	for _, f := range files {
		s.Additions += f.Additions
		s.Deletions += f.Deletions
	}
	return s
}
