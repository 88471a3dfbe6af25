package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// diffLanguages are the fence info strings treated as patches.
var diffLanguages = map[string]bool{
	"diff":  true,
	"patch": true,
	"udiff": true,
}

// ExtractDiffBlocks walks the Markdown AST of source and returns the content
// of every fenced code block tagged as a diff, in document order.
func ExtractDiffBlocks(source []byte) ([]string, error) {
	var blocks []string
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lang := strings.ToLower(string(fenced.Language(source)))
		if !diffLanguages[lang] {
			return ast.WalkSkipChildren, nil
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		blocks = append(blocks, content.String())
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return blocks, nil
}

// IsMarkdown reports whether content carries fenced code blocks rather than a
// bare patch.
func IsMarkdown(content string) bool {
	return strings.HasPrefix(content, "```") || strings.Contains(content, "\n```")
}
