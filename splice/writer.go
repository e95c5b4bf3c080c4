package splice

import (
	"sort"
	"strings"

	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/ir"
)

// insertion is text added at a source offset: a comment attached since
// parsing.
type insertion struct {
	at    int
	text  string
	group int
	order int
	owner *ir.Node
	done  bool
}

const (
	groupLine = iota
	groupAbove
	groupBelow
)

// writer copies ranges of the source, leaving out deleted ranges and
// adding each insertion once, when the copy reaches its offset.
type writer struct {
	src  []byte
	ins  []*insertion
	dels []comment.Range
	out  strings.Builder
}

func (w *writer) prepare() {
	sort.SliceStable(w.ins, func(i, j int) bool {
		a, b := w.ins[i], w.ins[j]
		if a.at != b.at {
			return a.at < b.at
		}
		if a.group != b.group {
			return a.group < b.group
		}
		return a.order < b.order
	})
	sort.Slice(w.dels, func(i, j int) bool { return w.dels[i].Start < w.dels[j].Start })
}

func (w *writer) write(s string) {
	w.out.WriteString(s)
}

// flush writes the pending insertions at offset at. With within set,
// only those owned by within or its descendants.
func (w *writer) flush(b *strings.Builder, at int, within *ir.Node) {
	for _, x := range w.ins {
		if x.at > at {
			break
		}
		if x.done || x.at != at {
			continue
		}
		if within != nil && !within.Contains(x.owner) {
			continue
		}
		b.WriteString(x.text)
		x.done = true
	}
}

func (w *writer) flushAt(at int) {
	w.flush(&w.out, at, nil)
}

func (w *writer) flushWithin(at int, n *ir.Node) {
	w.flush(&w.out, at, n)
}

// deletedUntil returns the end of the deleted range holding k, or k.
func (w *writer) deletedUntil(k int) int {
	res := k
	for _, d := range w.dels {
		if d.Start > res {
			break
		}
		if d.End > res {
			res = d.End
		}
	}
	return res
}

// next returns the first offset after k where something happens, at
// most j.
func (w *writer) next(k, j int) int {
	res := j
	for _, x := range w.ins {
		if x.at > k && x.at < res && !x.done {
			res = x.at
		}
	}
	for _, d := range w.dels {
		if d.Start > k {
			if d.Start < res {
				res = d.Start
			}
			break
		}
	}
	return res
}

// text returns src[i:j] edited. Insertions at i are included, those at
// j are not.
func (w *writer) text(i, j int) string {
	var b strings.Builder
	k := i
	w.flush(&b, k, nil)
	for k < j {
		if k > i {
			w.flush(&b, k, nil)
		}
		if e := w.deletedUntil(k); e > k {
			k = e
			continue
		}
		n := w.next(k, j)
		b.Write(w.src[k:n])
		k = n
	}
	return b.String()
}

func (w *writer) copy(i, j int) {
	w.write(w.text(i, j))
}
