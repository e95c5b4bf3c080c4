package doc

import "strconv"

// Key says where InsertChild puts a new child.
type Key struct {
	Name  string
	Index int
	named bool
}

// AtIndex inserts before the item at index i of a sequence. An index
// equal to the length appends.
func AtIndex(i int) Key {
	return Key{Index: i}
}

// AtKey appends the entry k to a mapping.
func AtKey(k string) Key {
	return Key{Name: k, Index: -1, named: true}
}

// Append appends to a sequence.
func Append() Key {
	return Key{Index: -1}
}

// Before moves the insertion point of k to position i.
func (k Key) Before(i int) Key {
	k.Index = i
	return k
}

func (k Key) String() string {
	if k.named {
		return k.Name
	}
	if k.Index < 0 {
		return "<end>"
	}
	return "[" + strconv.Itoa(k.Index) + "]"
}
