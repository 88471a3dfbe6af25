package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/sokinpui/webrev/model"
)

// writeFile writes one side of the file at index with line numbers.
func (r *Renderer) writeFile(ctx context.Context, b *strings.Builder, index int, side model.Side) error {
	file, err := r.cache.File(index)
	if err != nil {
		return err
	}
	lines, err := r.cache.Lines(ctx, index, side)
	if err != nil {
		return err
	}

	name := file.Filename
	if side == model.Base {
		name = file.BaseFilename()
	}
	b.WriteString(fileColor.Sprintf("%s (%s)", name, side) + "\n")

	width := digits(len(lines))
	for i, line := range lines {
		b.WriteString(lineNoColor.Sprintf("%*d", width, i+1) + " " + line + "\n")
	}
	fmt.Fprintf(b, "%s\n", separatorColor.Sprint(EOFMarker))
	return nil
}
