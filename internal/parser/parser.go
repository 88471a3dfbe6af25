package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sokinpui/webrev/hunk"
	"github.com/sokinpui/webrev/model"
)

const devNull = "/dev/null"

// fileSection accumulates one file of a multi-file patch.
type fileSection struct {
	file    model.FileDiff
	oldPath string
	newPath string
	body    []string
	inBody  bool

	// Lines of the current hunk still expected on each side.
	oldLeft int
	newLeft int
}

// SplitPatch splits a multi-file patch (git or plain unified format) into one
// FileDiff per file. Each FileDiff's Patch starts at its first hunk header.
func SplitPatch(patch string) ([]model.FileDiff, error) {
	lines := strings.Split(patch, "\n")
	if strings.HasSuffix(patch, "\n") {
		lines = lines[:len(lines)-1]
	}

	var files []model.FileDiff
	var cur *fileSection
	finish := func() {
		if cur != nil {
			files = append(files, cur.finish())
			cur = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if cur != nil && cur.inHunk() {
			cur.consume(line)
			continue
		}

		switch {
		case strings.HasPrefix(line, "diff --git "):
			finish()
			cur = &fileSection{}
			cur.oldPath, cur.newPath = parseGitLine(line)
		case strings.HasPrefix(line, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ "):
			if cur == nil || cur.inBody {
				finish()
				cur = &fileSection{}
			}
			cur.oldPath = parsePathLine(line, "--- ")
			cur.newPath = parsePathLine(lines[i+1], "+++ ")
			i++
		case strings.HasPrefix(line, "@@"):
			if cur == nil {
				return nil, fmt.Errorf("line %d: hunk header before any file header", i+1)
			}
			r, ok := hunk.ParseHeader(line)
			if !ok {
				return nil, fmt.Errorf("line %d: invalid hunk header %q", i+1, line)
			}
			cur.inBody = true
			cur.oldLeft, cur.newLeft = r.SourceLength, r.DestLength
			cur.body = append(cur.body, line)
		case cur == nil:
			// Preamble such as a commit message; nothing to keep.
		case strings.HasPrefix(line, `\`):
			cur.body = append(cur.body, line)
		default:
			cur.header(line)
		}
	}
	finish()
	return files, nil
}

func (s *fileSection) inHunk() bool {
	return s.inBody && (s.oldLeft > 0 || s.newLeft > 0)
}

// consume adds a hunk body line and counts it against the header lengths.
func (s *fileSection) consume(line string) {
	if line == "" {
		// Some tools strip the trailing space of empty context lines.
		line = " "
	}
	s.body = append(s.body, line)
	switch line[0] {
	case '-':
		s.oldLeft--
		s.file.Deletions++
	case '+':
		s.newLeft--
		s.file.Additions++
	case '\\':
	default:
		s.oldLeft--
		s.newLeft--
	}
}

// header interprets an extended git header line.
func (s *fileSection) header(line string) {
	switch {
	case strings.HasPrefix(line, "new file mode"):
		s.file.Status = model.StatusAdded
	case strings.HasPrefix(line, "deleted file mode"):
		s.file.Status = model.StatusRemoved
	case strings.HasPrefix(line, "rename from "):
		s.file.Status = model.StatusRenamed
		s.oldPath = strings.TrimPrefix(line, "rename from ")
	case strings.HasPrefix(line, "rename to "):
		s.newPath = strings.TrimPrefix(line, "rename to ")
	case strings.HasPrefix(line, "copy from "):
		s.file.Status = model.StatusCopied
		s.oldPath = strings.TrimPrefix(line, "copy from ")
	case strings.HasPrefix(line, "copy to "):
		s.newPath = strings.TrimPrefix(line, "copy to ")
	}
}

func (s *fileSection) finish() model.FileDiff {
	f := s.file
	switch {
	case s.oldPath == devNull:
		f.Status = model.StatusAdded
	case s.newPath == devNull:
		f.Status = model.StatusRemoved
	case f.Status == "":
		f.Status = model.StatusModified
	}

	f.Filename = s.newPath
	if f.Status == model.StatusRemoved || f.Filename == devNull {
		f.Filename = s.oldPath
	}
	if (f.Status == model.StatusRenamed || f.Status == model.StatusCopied) && s.oldPath != f.Filename {
		f.PreviousFilename = s.oldPath
	}
	if len(s.body) > 0 {
		f.Patch = strings.Join(s.body, "\n") + "\n"
	}
	return f
}

// parseGitLine extracts both paths of "diff --git a/x b/y".
func parseGitLine(line string) (oldPath, newPath string) {
	rest := strings.TrimPrefix(line, "diff --git ")
	if i := strings.LastIndex(rest, " b/"); i >= 0 {
		return stripPrefix(rest[:i]), stripPrefix(rest[i+1:])
	}
	fields := strings.Fields(rest)
	if len(fields) == 2 {
		return stripPrefix(fields[0]), stripPrefix(fields[1])
	}
	return rest, rest
}

func parsePathLine(line, marker string) string {
	path := strings.TrimPrefix(line, marker)
	if i := strings.IndexByte(path, '\t'); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, `"`)
	if path == devNull {
		return path
	}
	return stripPrefix(path)
}

func stripPrefix(path string) string {
	path = strings.Trim(path, `"`)
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}

// ParseSource turns raw input into file diffs. Markdown input contributes its
// ```diff blocks, anything else is read as a patch.
func ParseSource(content string) ([]model.FileDiff, error) {
	if !IsMarkdown(content) {
		return SplitPatch(content)
	}

	blocks, err := ExtractDiffBlocks([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}
	var files []model.FileDiff
	for i, block := range blocks {
		diffs, err := SplitPatch(block)
		if err != nil {
			return nil, fmt.Errorf("diff block %d: %w", i+1, err)
		}
		files = append(files, diffs...)
	}
	return files, nil
}

// FilterByExtension keeps the files whose name ends in one of extensions.
// An empty list keeps everything.
func FilterByExtension(files []model.FileDiff, extensions []string) []model.FileDiff {
	if len(extensions) == 0 {
		return files
	}
	var kept []model.FileDiff
	for _, f := range files {
		if hasAllowedExtension(f.Filename, extensions) {
			kept = append(kept, f)
		}
	}
	return kept
}

func hasAllowedExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, allowedExt := range extensions {
		if ext == allowedExt {
			return true
		}
	}
	return false
}
