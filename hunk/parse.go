package hunk

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedPatch is matched by every error Parse returns for patch content it
// does not recognize.
var ErrMalformedPatch = errors.New("malformed patch")

// MalformedPatchError reports the first unrecognized line of a patch.
type MalformedPatchError struct {
	Line   int // 1-based line number within the patch
	Text   string
	Reason string
}

func (e *MalformedPatchError) Error() string {
	return fmt.Sprintf("malformed patch: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *MalformedPatchError) Is(target error) bool {
	return target == ErrMalformedPatch
}

var headerRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// gitFileHeaders are the lines git writes ahead of the first hunk of a file.
var gitFileHeaders = []string{
	"diff ", "index ", "--- ", "+++ ", "old mode ", "new mode ",
	"deleted file mode ", "new file mode ", "similarity index ", "dissimilarity index ",
	"rename from ", "rename to ", "copy from ", "copy to ", "Binary files ",
}

type parseState int

const (
	awaitingHeader parseState = iota
	leadingContext
	changes
)

// parser turns patch lines into minimal hunks. src and dst hold the line
// number of the next line on each side that is not yet part of a hunk.
type parser struct {
	state  parseState
	src    int
	dst    int
	srcBuf []Line
	dstBuf []Line
	hunks  []Hunk
}

// Parse extracts the minimal hunks of a single-file unified diff: only removed
// and added lines are kept, context lines just move the line counters. Leading
// git file headers are skipped. Any other unrecognized line fails the whole
// parse with a *MalformedPatchError.
func Parse(patch string) ([]Hunk, error) {
	if patch == "" {
		return nil, nil
	}
	lines := strings.Split(patch, "\n")
	if strings.HasSuffix(patch, "\n") {
		lines = lines[:len(lines)-1]
	}

	p := &parser{}
	for i, line := range lines {
		if err := p.feed(line); err != nil {
			err.Line = i + 1
			return nil, err
		}
	}
	p.flush()
	return p.hunks, nil
}

func (p *parser) feed(line string) *MalformedPatchError {
	if strings.HasPrefix(line, "@@") {
		return p.header(line)
	}
	if p.state == awaitingHeader {
		if isGitFileHeader(line) {
			return nil
		}
		return &MalformedPatchError{Text: line, Reason: "content before first hunk header"}
	}
	if line == "" {
		return &MalformedPatchError{Text: line, Reason: "empty line"}
	}

	switch line[0] {
	case ' ':
		if p.state == changes {
			p.flush()
		}
		p.src++
		p.dst++
	case '-':
		p.state = changes
		p.srcBuf = append(p.srcBuf, Line(line))
	case '+':
		p.state = changes
		p.dstBuf = append(p.dstBuf, Line(line))
	case '\\':
		if !strings.HasPrefix(line, noNewlineMarker) {
			return &MalformedPatchError{Text: line, Reason: "unexpected content"}
		}
	default:
		return &MalformedPatchError{Text: line, Reason: "unexpected content"}
	}
	return nil
}

// noNewlineMarker starts git's "\ No newline at end of file" line. The text
// after the marker is localized, so only the prefix is checked.
const noNewlineMarker = `\ `

func (p *parser) header(line string) *MalformedPatchError {
	r, ok := ParseHeader(line)
	if !ok {
		return &MalformedPatchError{Text: line, Reason: "invalid hunk header"}
	}
	p.flush()
	p.src = rangeStart(r.SourceStart, r.SourceLength)
	p.dst = rangeStart(r.DestStart, r.DestLength)
	p.state = leadingContext
	return nil
}

// HeaderRange holds the numbers of a hunk header as written in the patch.
type HeaderRange struct {
	SourceStart  int
	SourceLength int
	DestStart    int
	DestLength   int
}

// ParseHeader parses a "@@ -s,l +d,l @@" line. Omitted lengths default to 1.
func ParseHeader(line string) (HeaderRange, bool) {
	m := headerRegex.FindStringSubmatch(line)
	if m == nil {
		return HeaderRange{}, false
	}
	return HeaderRange{
		SourceStart:  atoi(m[1], 0),
		SourceLength: atoi(m[2], 1),
		DestStart:    atoi(m[3], 0),
		DestLength:   atoi(m[4], 1),
	}, true
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// flush emits the pending change run, if any, and moves the counters past it.
func (p *parser) flush() {
	if len(p.srcBuf) > 0 || len(p.dstBuf) > 0 {
		p.hunks = append(p.hunks, Hunk{
			SourceStart: p.src,
			SourceLines: p.srcBuf,
			DestStart:   p.dst,
			DestLines:   p.dstBuf,
		})
		p.src += len(p.srcBuf)
		p.dst += len(p.dstBuf)
	}
	p.srcBuf = nil
	p.dstBuf = nil
	if p.state == changes {
		p.state = leadingContext
	}
}

// rangeStart converts a header range to the line number of its first line.
// An empty range ("5,0") sits after the named line.
func rangeStart(start, length int) int {
	if length == 0 {
		start++
	}
	return max(start, 1)
}

func isGitFileHeader(line string) bool {
	for _, prefix := range gitFileHeaders {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
