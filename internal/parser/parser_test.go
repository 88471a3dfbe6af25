package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/webrev/hunk"
	"github.com/sokinpui/webrev/model"
)

const gitPatch = `From 1234 Mon Sep 17 00:00:00 2001
Subject: [PATCH] example

diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,4 +1,4 @@
 package main
--- removed comment
+// added comment

 func main() {}
diff --git a/docs/new.md b/docs/new.md
new file mode 100644
index 0000000..3333333
--- /dev/null
+++ b/docs/new.md
@@ -0,0 +1,2 @@
+# Title
+text
\ No newline at end of file
diff --git a/old.txt b/old.txt
deleted file mode 100644
index 4444444..0000000
--- a/old.txt
+++ /dev/null
@@ -1 +0,0 @@
-bye
diff --git a/a.go b/b.go
similarity index 90%
rename from a.go
rename to b.go
index 5555555..6666666 100644
--- a/a.go
+++ b/b.go
@@ -2 +2 @@
-x
+y
diff --git a/same.go b/moved.go
similarity index 100%
rename from same.go
rename to moved.go
--
2.40.0
`

func TestSplitPatch(t *testing.T) {
	files, err := SplitPatch(gitPatch)
	require.NoError(t, err)
	require.Len(t, files, 5)

	assert.Equal(t, "main.go", files[0].Filename)
	assert.Equal(t, model.StatusModified, files[0].Status)
	assert.Equal(t, "@@ -1,4 +1,4 @@\n package main\n--- removed comment\n+// added comment\n \n func main() {}\n", files[0].Patch)
	assert.Equal(t, 1, files[0].Additions)
	assert.Equal(t, 1, files[0].Deletions)

	assert.Equal(t, "docs/new.md", files[1].Filename)
	assert.Equal(t, model.StatusAdded, files[1].Status)
	assert.Equal(t, "@@ -0,0 +1,2 @@\n+# Title\n+text\n\\ No newline at end of file\n", files[1].Patch)

	assert.Equal(t, "old.txt", files[2].Filename)
	assert.Equal(t, model.StatusRemoved, files[2].Status)
	assert.Equal(t, 1, files[2].Deletions)

	assert.Equal(t, "b.go", files[3].Filename)
	assert.Equal(t, "a.go", files[3].PreviousFilename)
	assert.Equal(t, model.StatusRenamed, files[3].Status)
	assert.Equal(t, "a.go", files[3].BaseFilename())

	assert.Equal(t, "moved.go", files[4].Filename)
	assert.Equal(t, "same.go", files[4].PreviousFilename)
	assert.Empty(t, files[4].Patch)

	for _, f := range files {
		_, err := hunk.Parse(f.Patch)
		assert.NoError(t, err, f.Filename)
	}
}

func TestSplitPatchPlainUnified(t *testing.T) {
	patch := "--- a/x.txt\t2024-01-01 00:00:00\n+++ b/x.txt\t2024-01-02 00:00:00\n@@ -1,2 +1,2 @@\n-a\n+b\n\n--- y.txt\n+++ y.txt\n@@ -3 +3,2 @@\n c\n+d\n"
	files, err := SplitPatch(patch)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "x.txt", files[0].Filename)
	assert.Equal(t, "@@ -1,2 +1,2 @@\n-a\n+b\n \n", files[0].Patch, "stripped empty context line is restored")
	assert.Equal(t, "y.txt", files[1].Filename)
	assert.Equal(t, 1, files[1].Additions)
}

func TestSplitPatchErrors(t *testing.T) {
	_, err := SplitPatch("@@ -1 +1 @@\n-a\n+b\n")
	assert.Error(t, err)

	_, err = SplitPatch("--- a/x\n+++ b/x\n@@ nonsense @@\n")
	assert.Error(t, err)
}

func TestParseSourceMarkdown(t *testing.T) {
	content := "Here is the fix:\n\n```diff\n--- a/app.py\n+++ b/app.py\n@@ -1 +1 @@\n-print(1)\n+print(2)\n```\n\nAnd some code:\n\n```go\npackage main\n```\n"
	files, err := ParseSource(content)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "app.py", files[0].Filename)
	assert.Equal(t, "@@ -1 +1 @@\n-print(1)\n+print(2)\n", files[0].Patch)
}

func TestExtractDiffBlocks(t *testing.T) {
	blocks, err := ExtractDiffBlocks([]byte("```patch\n@@ -1 +1 @@\n```\n\n```js\nx\n```\n\n```diff\n-a\n```\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"@@ -1 +1 @@\n", "-a\n"}, blocks)
}

func TestFilterByExtension(t *testing.T) {
	files := []model.FileDiff{{Filename: "a.go"}, {Filename: "b.py"}, {Filename: "c.go"}}

	assert.Equal(t, files, FilterByExtension(files, nil))

	kept := FilterByExtension(files, []string{".go"})
	require.Len(t, kept, 2)
	assert.Equal(t, "c.go", kept[1].Filename)
}
