package entities

// Handing is the swing/orientation code of a door opening (LHR, RHR, LHRA, ...)
type Handing string

// Leaf identifies one physical door panel of an entry
type Leaf string

const (
	LeafA Leaf = "A"
	LeafB Leaf = "B"
)

// LeafClass classifies a handing as single- or double-leaf
type LeafClass int

const (
	SingleLeaf LeafClass = iota
	DoubleLeaf
)

// String method for LeafClass enum
func (c LeafClass) String() string {
	switch c {
	case SingleLeaf:
		return "Single"
	case DoubleLeaf:
		return "Double"
	default:
		return "Unknown"
	}
}

// Active-leaf pair handings. Every other code is single-leaf.
var doubleLeafHandings = map[Handing]struct{}{
	"LHRA": {},
	"RHRA": {},
}

// Class returns the leaf class implied by the handing code
func (h Handing) Class() LeafClass {
	if _, ok := doubleLeafHandings[h]; ok {
		return DoubleLeaf
	}
	return SingleLeaf
}

// IsDouble reports whether the handing requires an A and a B leaf
func (h Handing) IsDouble() bool {
	return h.Class() == DoubleLeaf
}

// Leaves returns the leaves an entry with this handing owns
func (h Handing) Leaves() []Leaf {
	if h.IsDouble() {
		return []Leaf{LeafA, LeafB}
	}
	return []Leaf{LeafA}
}

// Valid reports whether the leaf is one of the known panel identifiers
func (l Leaf) Valid() bool {
	return l == LeafA || l == LeafB
}
