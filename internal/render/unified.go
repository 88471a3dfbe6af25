package render

import (
	"fmt"
	"strings"

	"github.com/sokinpui/webrev/hunk"
	"github.com/sokinpui/webrev/model"
)

const devNull = "/dev/null"

// patchPaths returns the "---" and "+++" paths of file.
func patchPaths(file model.FileDiff) (oldPath, newPath string) {
	oldPath, newPath = "a/"+file.BaseFilename(), "b/"+file.Filename
	if !file.Status.HasBase() {
		oldPath = devNull
	}
	if !file.Status.HasHead() {
		newPath = devNull
	}
	return oldPath, newPath
}

func writeUnified(b *strings.Builder, file model.FileDiff, hunks []hunk.Hunk) {
	oldPath, newPath := patchPaths(file)
	b.WriteString(fileColor.Sprintf("--- %s", oldPath) + "\n")
	b.WriteString(fileColor.Sprintf("+++ %s", newPath) + "\n")
	for _, h := range hunks {
		b.WriteString(hunkColor.Sprint(hunk.Header(h)) + "\n")
		for _, l := range hunk.Interleave(h) {
			b.WriteString(paint(roleColor(l.Role()), string(l)) + "\n")
		}
	}
}

// writePatch writes a plain patch that applies with git apply or patch(1).
func writePatch(b *strings.Builder, file model.FileDiff, hunks []hunk.Hunk) {
	oldPath, newPath := patchPaths(file)
	fmt.Fprintf(b, "--- %s\n+++ %s\n", oldPath, newPath)
	for _, h := range hunks {
		b.WriteString(h.String())
	}
}
