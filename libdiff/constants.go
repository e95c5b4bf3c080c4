package libdiff

// Kind is the kind of a Change.
type Kind int

const (
	Added Kind = iota
	Removed
	Changed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	default:
		return "<unknown kind>"
	}
}

// Mark is the one character prefix of k in listings.
func (k Kind) Mark() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return "~"
	}
}

// Op is the operation of a line in a line diff.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)
