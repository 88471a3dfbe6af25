package hunk

// Kind classifies a hunk for presentation.
type Kind int

const (
	PureAddition Kind = iota
	PureDeletion
	Modification
)

func (k Kind) String() string {
	switch k {
	case PureAddition:
		return "addition"
	case PureDeletion:
		return "deletion"
	default:
		return "modification"
	}
}

// IsPureAddition reports whether h removes no line.
func (h Hunk) IsPureAddition() bool {
	for _, l := range h.SourceLines {
		if l.Role() == Removed {
			return false
		}
	}
	return true
}

// IsPureDeletion reports whether h adds no line.
func (h Hunk) IsPureDeletion() bool {
	for _, l := range h.DestLines {
		if l.Role() == Added {
			return false
		}
	}
	return true
}

// Classify returns the kind of h. A hunk without any change line counts as a
// pure addition.
func Classify(h Hunk) Kind {
	switch {
	case h.IsPureAddition():
		return PureAddition
	case h.IsPureDeletion():
		return PureDeletion
	default:
		return Modification
	}
}
