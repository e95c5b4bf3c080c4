package libdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// UnifiedOption configures Unified.
type UnifiedOption func(*unified)

type unified struct {
	context int
	colors  bool
}

// Context sets the number of unchanged lines shown around changes. The
// default is 3.
func Context(n int) UnifiedOption {
	return func(u *unified) { u.context = max(n, 0) }
}

// Colors enables colored output.
func Colors(v bool) UnifiedOption {
	return func(u *unified) { u.colors = v }
}

// Unified writes the line diff of from and to in unified format and
// reports whether they differ.
func Unified(w io.Writer, fromName, toName string, from, to []byte, opts ...UnifiedOption) (bool, error) {
	u := &unified{context: 3}
	for _, opt := range opts {
		opt(u)
	}
	lines := Lines(from, to)
	var changed []int
	for i, l := range lines {
		if l.Op != Equal {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return false, nil
	}
	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	hdr := color.New(color.FgCyan)
	bold := color.New(color.Bold)
	for _, c := range []*color.Color{del, ins, hdr, bold} {
		if u.colors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	var b strings.Builder
	b.WriteString(bold.Sprintf("--- %s", fromName) + "\n")
	b.WriteString(bold.Sprintf("+++ %s", toName) + "\n")
	for i := 0; i < len(changed); {
		start := max(changed[i]-u.context, 0)
		j := i
		for j+1 < len(changed) && changed[j+1]-changed[j] <= 2*u.context+1 {
			j++
		}
		end := min(changed[j]+u.context+1, len(lines))
		b.WriteString(hdr.Sprint(hunkHeader(lines, start, end)) + "\n")
		for _, l := range lines[start:end] {
			switch l.Op {
			case Equal:
				b.WriteString(" " + l.Text + "\n")
			case Delete:
				b.WriteString(del.Sprint("-"+l.Text) + "\n")
			case Insert:
				b.WriteString(ins.Sprint("+"+l.Text) + "\n")
			}
		}
		i = j + 1
	}
	_, err := io.WriteString(w, b.String())
	return true, err
}

// hunkHeader returns the header of the hunk ls[start:end]. A side
// without lines starts at the line before the hunk.
func hunkHeader(ls []Line, start, end int) string {
	oldStart, newStart := 1, 1
	for _, l := range ls[:start] {
		if l.Op != Insert {
			oldStart++
		}
		if l.Op != Delete {
			newStart++
		}
	}
	oldN, newN := 0, 0
	for _, l := range ls[start:end] {
		if l.Op != Insert {
			oldN++
		}
		if l.Op != Delete {
			newN++
		}
	}
	if oldN == 0 {
		oldStart--
	}
	if newN == 0 {
		newStart--
	}
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldN, newStart, newN)
}
