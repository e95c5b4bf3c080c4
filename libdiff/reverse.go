package libdiff

// Reverse returns the changes turning the "to" tree of cs back into its
// "from" tree.
func Reverse(cs []Change) []Change {
	res := make([]Change, len(cs))
	for i, c := range cs {
		c.From, c.To = c.To, c.From
		switch c.Kind {
		case Added:
			c.Kind = Removed
		case Removed:
			c.Kind = Added
		}
		res[i] = c
	}
	return res
}
