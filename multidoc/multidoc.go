// Package multidoc splits a YAML stream into documents and joins
// serialized documents back together, keeping the original document
// markers, directives and trailing separator.
package multidoc

import (
	"bytes"
	"errors"
	"fmt"
)

var ErrLayout = errors.New("bad document layout")

// Segment locates one document of a stream. The header (directives,
// comments before the first marker and the "---" marker itself) is
// [Start, BodyStart), the body [BodyStart, BodyEnd) and the footer,
// a "..." end marker and what follows it, [BodyEnd, End).
type Segment struct {
	Start     int
	BodyStart int
	BodyEnd   int
	End       int
}

func (s Segment) Header(src []byte) []byte {
	return src[s.Start:s.BodyStart]
}

func (s Segment) Body(src []byte) []byte {
	return src[s.BodyStart:s.BodyEnd]
}

func (s Segment) Footer(src []byte) []byte {
	return src[s.BodyEnd:s.End]
}

// HasMarker reports whether the document starts with an explicit "---".
func (s Segment) HasMarker() bool {
	return s.BodyStart > s.Start
}

type Layout struct {
	Segments []Segment
	// TrailerStart and TrailerEnd locate a final "---" which starts no
	// document. They are equal when there is none.
	TrailerStart int
	TrailerEnd   int
}

// Multi reports whether the stream holds more than one document.
func (l *Layout) Multi() bool {
	return len(l.Segments) > 1
}

func (l *Layout) Trailer(src []byte) []byte {
	return src[l.TrailerStart:l.TrailerEnd]
}

// Find returns the index of the segment whose body contains off, or -1.
func (l *Layout) Find(off int) int {
	for i, s := range l.Segments {
		if s.BodyStart <= off && off <= s.BodyEnd {
			return i
		}
	}
	return -1
}

type lineKind int

const (
	lineContent lineKind = iota
	lineTrivia
	lineDirective
	lineStart
	lineEnd
)

func classify(ln []byte) lineKind {
	if marker(ln, "---") {
		return lineStart
	}
	if marker(ln, "...") {
		return lineEnd
	}
	if len(ln) > 0 && ln[0] == '%' {
		return lineDirective
	}
	t := bytes.TrimLeft(ln, " \t\r")
	if len(t) == 0 || t[0] == '#' {
		return lineTrivia
	}
	return lineContent
}

func marker(ln []byte, m string) bool {
	if !bytes.HasPrefix(ln, []byte(m)) {
		return false
	}
	if len(ln) == 3 {
		return true
	}
	switch ln[3] {
	case ' ', '\t', '\r':
		return true
	}
	return false
}

// Split computes the document layout of src.
func Split(src []byte) (*Layout, error) {
	l := &Layout{}
	cur := Segment{}
	inHeader := true
	directive := false
	pos := 0
	for pos < len(src) {
		le := bytes.IndexByte(src[pos:], '\n')
		next := len(src)
		if le == -1 {
			le = len(src)
		} else {
			le += pos
			next = le + 1
		}
		kind := classify(src[pos:le])
		if inHeader {
			switch kind {
			case lineStart:
				cur.BodyStart = pos + 3
				inHeader = false
				directive = false
			case lineDirective:
				directive = true
			case lineContent:
				if directive {
					return nil, fmt.Errorf("%w: directive without document start at offset %d", ErrLayout, pos)
				}
				cur.BodyStart = cur.Start
				inHeader = false
			}
			pos = next
			continue
		}
		switch kind {
		case lineStart:
			cur.BodyEnd = pos
			cur.End = pos
			l.Segments = append(l.Segments, cur)
			cur = Segment{Start: pos, BodyStart: pos + 3}
		case lineEnd:
			cur.BodyEnd = pos
			cur.End = next
			l.Segments = append(l.Segments, cur)
			cur = Segment{Start: next}
			inHeader = true
		}
		pos = next
	}
	switch {
	case !inHeader:
		cur.BodyEnd = len(src)
		cur.End = len(src)
		l.Segments = append(l.Segments, cur)
	case directive:
		return nil, fmt.Errorf("%w: directive without document", ErrLayout)
	case len(l.Segments) == 0:
		cur.BodyStart = cur.Start
		cur.BodyEnd = len(src)
		cur.End = len(src)
		l.Segments = append(l.Segments, cur)
	default:
		l.Segments[len(l.Segments)-1].End = len(src)
	}
	l.TrailerStart = len(src)
	l.TrailerEnd = len(src)
	if n := len(l.Segments); n > 1 {
		last := l.Segments[n-1]
		if last.HasMarker() && last.BodyEnd == last.End && trivia(last.Body(src)) {
			l.Segments = l.Segments[:n-1]
			l.TrailerStart = last.Start
			l.TrailerEnd = last.End
		}
	}
	return l, nil
}

func trivia(d []byte) bool {
	for len(d) > 0 {
		i := bytes.IndexByte(d, '\n')
		ln := d
		if i == -1 {
			d = nil
		} else {
			ln = d[:i]
			d = d[i+1:]
		}
		if classify(ln) != lineTrivia {
			return false
		}
	}
	return true
}

// Part is one document of a joined stream.
type Part struct {
	// Segment is the index of the original segment, or -1 for a new
	// document.
	Segment int
	Body    []byte
}

// Join assembles parts into a stream, reusing original headers and
// footers. New documents, and original documents without a marker that
// no longer come first, get a "---" header.
func (l *Layout) Join(src []byte, parts []Part) []byte {
	var buf bytes.Buffer
	sep := func() {
		if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	for i, p := range parts {
		if p.Segment < 0 {
			sep()
			if i > 0 || len(parts) > 1 {
				buf.WriteString("---\n")
			}
			buf.Write(p.Body)
			continue
		}
		seg := l.Segments[p.Segment]
		header := seg.Header(src)
		if len(header) == 0 && i > 0 {
			sep()
			buf.WriteString("---\n")
		} else if len(header) > 0 {
			sep()
			buf.Write(header)
		}
		buf.Write(p.Body)
		buf.Write(seg.Footer(src))
	}
	if l.TrailerEnd > l.TrailerStart {
		sep()
		buf.Write(l.Trailer(src))
	}
	return buf.Bytes()
}
