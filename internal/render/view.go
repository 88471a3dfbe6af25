package render

import (
	"fmt"
	"strings"

	"github.com/sokinpui/webrev/model"
)

// View names one way of showing a file.
type View string

const (
	ViewIndex      View = "index"
	ViewContext    View = "cdiff"
	ViewUnified    View = "udiff"
	ViewSideBySide View = "sdiff"
	ViewFrames     View = "frames"
	ViewOld        View = "old"
	ViewNew        View = "new"
	ViewPatch      View = "patch"
)

// AllViews lists the views in index order.
var AllViews = []View{ViewIndex, ViewContext, ViewUnified, ViewSideBySide, ViewFrames, ViewOld, ViewNew, ViewPatch}

// ParseView accepts a view name as printed on the index.
func ParseView(s string) (View, error) {
	for _, v := range AllViews {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	names := make([]string, len(AllViews))
	for i, v := range AllViews {
		names[i] = string(v)
	}
	return "", fmt.Errorf("unknown view %q (want one of %s)", s, strings.Join(names, ", "))
}

// DefaultContext is the number of context lines a view shows around changes.
func (v View) DefaultContext() int {
	switch v {
	case ViewContext, ViewUnified:
		return 5
	case ViewSideBySide:
		return 20
	case ViewPatch:
		return 3
	default:
		return 0
	}
}

// needsContent reports whether the view cannot be built from the patch alone.
func (v View) needsContent() bool {
	return v == ViewFrames || v == ViewOld || v == ViewNew
}

// FileViews lists the views offered for a file with the given status. Without
// contents only the views that work from the patch remain.
func FileViews(status model.Status, contents bool) []View {
	var views []View
	switch status {
	case model.StatusAdded:
		views = []View{ViewNew, ViewPatch}
	case model.StatusRemoved:
		views = []View{ViewOld, ViewPatch}
	default:
		views = []View{ViewContext, ViewUnified, ViewSideBySide, ViewFrames, ViewOld, ViewNew, ViewPatch}
	}
	if contents {
		return views
	}

	var kept []View
	for _, v := range views {
		if !v.needsContent() {
			kept = append(kept, v)
		}
	}
	return kept
}
