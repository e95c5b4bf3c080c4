package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Region is a changed byte range: From[OldStart:OldEnd] became
// To[NewStart:NewEnd].
type Region struct {
	OldStart, OldEnd int
	NewStart, NewEnd int
}

// Regions returns the byte ranges in which from and to differ. Changes
// separated by fewer than join equal bytes are merged.
func Regions(from, to []byte, join int) []Region {
	diffs := diffpatch.New().DiffMain(string(from), string(to), false)
	var (
		res    []Region
		cur    *Region
		oi, ni int
	)
	for _, diff := range diffs {
		n := len(diff.Text)
		switch diff.Type {
		case diffpatch.DiffEqual:
			if cur != nil && n >= join {
				res = append(res, *cur)
				cur = nil
			}
			oi += n
			ni += n
			continue
		}
		if cur == nil {
			cur = &Region{OldStart: oi, NewStart: ni}
		}
		if diff.Type == diffpatch.DiffDelete {
			oi += n
		} else {
			ni += n
		}
		cur.OldEnd, cur.NewEnd = oi, ni
	}
	if cur != nil {
		res = append(res, *cur)
	}
	return res
}

// Within reports whether every region lies in the old range
// [start, end).
func Within(rs []Region, start, end int) bool {
	for _, r := range rs {
		if r.OldStart < start || r.OldEnd > end {
			return false
		}
	}
	return true
}

// Line is a line of a line diff, without its line break. Old and New
// are the 1-based line numbers on each side, 0 on the side the line is
// missing from.
type Line struct {
	Op   Op
	Text string
	Old  int
	New  int
}

// Lines diffs from and to line by line.
func Lines(from, to []byte) []Line {
	dmp := diffpatch.New()
	r1, r2, lines := dmp.DiffLinesToRunes(string(from), string(to))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(r1, r2, false), lines)
	var (
		res    []Line
		ol, nl = 1, 1
	)
	for _, diff := range diffs {
		for _, text := range splitLines(diff.Text) {
			l := Line{Text: text}
			switch diff.Type {
			case diffpatch.DiffEqual:
				l.Op, l.Old, l.New = Equal, ol, nl
				ol++
				nl++
			case diffpatch.DiffDelete:
				l.Op, l.Old = Delete, ol
				ol++
			case diffpatch.DiffInsert:
				l.Op, l.New = Insert, nl
				nl++
			}
			res = append(res, l)
		}
	}
	return res
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// ChangedLines returns the 1-based numbers of the lines of from which a
// line diff deletes.
func ChangedLines(from, to []byte) []int {
	var res []int
	for _, l := range Lines(from, to) {
		if l.Op == Delete {
			res = append(res, l.Old)
		}
	}
	return res
}
