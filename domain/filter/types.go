package filter

// Kind enumerates the fixed set of pixel filters offered by the booth.
type Kind int

const (
	None Kind = iota
	Sepia
	Posterize
	Invert
	Dramatic
)

// String returns the stable id of the filter.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Sepia:
		return "sepia"
	case Posterize:
		return "posterize"
	case Invert:
		return "invert"
	case Dramatic:
		return "contrast"
	default:
		return "unknown"
	}
}

// DisplayName returns the label shown next to the thumbnail.
func (k Kind) DisplayName() string {
	switch k {
	case None:
		return "Normal"
	case Sepia:
		return "Vintage"
	case Posterize:
		return "Poster"
	case Invert:
		return "Inverted"
	case Dramatic:
		return "Dramatic"
	default:
		return "Unknown"
	}
}

// Identity reports whether applying k leaves pixels unchanged.
func (k Kind) Identity() bool { return k == None }

// Valid reports whether k is one of the defined filters.
func (k Kind) Valid() bool { return k >= None && k <= Dramatic }

// Definition describes one selectable filter.
type Definition struct {
	Kind        Kind
	ID          string
	DisplayName string
}

var all = []Kind{None, Sepia, Posterize, Invert, Dramatic}

// All returns the filter definitions in display order.
func All() []Definition {
	defs := make([]Definition, 0, len(all))
	for _, k := range all {
		defs = append(defs, Definition{Kind: k, ID: k.String(), DisplayName: k.DisplayName()})
	}
	return defs
}

// Parse maps a filter id to its Kind.
func Parse(id string) (Kind, bool) {
	for _, k := range all {
		if k.String() == id {
			return k, true
		}
	}
	return None, false
}
