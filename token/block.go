package token

import (
	"fmt"
	"strings"
)

// Chomp is the block scalar chomping indicator.
type Chomp int

const (
	Clip Chomp = iota
	Strip
	Keep
)

func (c Chomp) Indicator() string {
	switch c {
	case Strip:
		return "-"
	case Keep:
		return "+"
	default:
		return ""
	}
}

// BlockHeader is the header of a block scalar.
type BlockHeader struct {
	Folded bool
	Chomp  Chomp
	// Indent is the explicit indentation indicator, or 0.
	Indent int
}

// ParseBlockHeader parses the indicators at the start of d, which must
// begin with '|' or '>'. It returns the number of bytes used.
func ParseBlockHeader(d []byte) (BlockHeader, int, error) {
	h := BlockHeader{}
	if len(d) == 0 || (d[0] != '|' && d[0] != '>') {
		return h, 0, ErrBlockHeader
	}
	h.Folded = d[0] == '>'
	i := 1
	seenChomp := false
	for i < len(d) && i < 3 {
		c := d[i]
		switch {
		case (c == '-' || c == '+') && !seenChomp:
			seenChomp = true
			if c == '-' {
				h.Chomp = Strip
			} else {
				h.Chomp = Keep
			}
		case '1' <= c && c <= '9' && h.Indent == 0:
			h.Indent = int(c - '0')
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			return h, i, nil
		default:
			return h, 0, fmt.Errorf("%w: %q", ErrBlockHeader, c)
		}
		i++
	}
	if i < len(d) {
		switch d[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return h, 0, fmt.Errorf("%w: %q", ErrBlockHeader, d[i])
		}
	}
	return h, i, nil
}

func (h BlockHeader) String() string {
	var sb strings.Builder
	if h.Folded {
		sb.WriteByte('>')
	} else {
		sb.WriteByte('|')
	}
	if h.Indent != 0 {
		sb.WriteByte(byte('0' + h.Indent))
	}
	sb.WriteString(h.Chomp.Indicator())
	return sb.String()
}

// BlockLine is one line of block scalar content with the content
// indentation removed.
type BlockLine struct {
	Text string
	// Blank lines hold no content beyond the indentation.
	Blank bool
	// Break is set when the line ends with a line break.
	Break bool
}

// BlockValue computes the value of a block scalar from its lines.
func BlockValue(lines []BlockLine, folded bool, chomp Chomp) string {
	var sb strings.Builder
	leadingBreak := false
	leadingBlank := false
	trailing := 0
	for _, ln := range lines {
		if ln.Blank {
			if ln.Break {
				trailing++
			}
			continue
		}
		trailingBlank := ln.Text != "" && isBlank(ln.Text[0])
		if folded && leadingBreak && !leadingBlank && !trailingBlank {
			if trailing == 0 {
				sb.WriteByte(' ')
			}
		} else if leadingBreak {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Repeat("\n", trailing))
		trailing = 0
		leadingBlank = trailingBlank
		sb.WriteString(ln.Text)
		leadingBreak = ln.Break
	}
	if chomp != Strip && leadingBreak {
		sb.WriteByte('\n')
	}
	if chomp == Keep {
		sb.WriteString(strings.Repeat("\n", trailing))
	}
	return sb.String()
}

// BlockLines is the inverse of BlockValue: it returns a header and lines
// which read back as v. ok is false when v cannot be written as a block
// scalar. A folded request falls back to literal when v has lines that
// would fold differently.
func BlockLines(v string, folded bool, indent int) (BlockHeader, []string, bool) {
	h := BlockHeader{Folded: folded}
	if v == "" || strings.Trim(v, "\n") == "" {
		return h, nil, false
	}
	for _, r := range v {
		if r == '\r' || r != '\n' && r != '\t' && r < 0x20 || r == 0x7f || r == 0xfeff {
			return h, nil, false
		}
	}
	body := strings.TrimRight(v, "\n")
	switch n := len(v) - len(body); n {
	case 0:
		h.Chomp = Strip
	case 1:
		h.Chomp = Clip
	default:
		h.Chomp = Keep
	}
	segs := strings.Split(body, "\n")
	for _, s := range segs {
		if s == "" {
			continue
		}
		if isBlank(s[0]) || strings.TrimLeft(s, " \t") == "" {
			h.Indent = indent
			h.Folded = false
			break
		}
	}
	var lines []string
	if !h.Folded {
		lines = segs
	} else {
		seen := false
		for _, s := range segs {
			if s != "" && seen {
				lines = append(lines, "")
			}
			seen = seen || s != ""
			lines = append(lines, s)
		}
	}
	for i := 1; i < len(v)-len(body); i++ {
		lines = append(lines, "")
	}
	return h, lines, true
}
