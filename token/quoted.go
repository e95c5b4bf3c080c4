package token

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DecodeQuoted decodes the quoted scalar at the start of d, which must
// begin with '\'' or '"'. It returns the value and the number of bytes
// consumed, closing quote included. Line breaks inside the scalar are
// folded.
func DecodeQuoted(d []byte) (string, int, error) {
	if len(d) == 0 || (d[0] != '\'' && d[0] != '"') {
		return "", 0, fmt.Errorf("%w: expected quote", ErrUnterminated)
	}
	single := d[0] == '\''
	var sb strings.Builder
	n := len(d)
	i := 1
	leadingBlanks := false
	for {
		for i < n && !isBlank(d[i]) && !isBreak(d[i]) {
			c := d[i]
			switch {
			case single && c == '\'':
				if i+1 < n && d[i+1] == '\'' {
					sb.WriteByte('\'')
					i += 2
					continue
				}
				return sb.String(), i + 1, nil
			case !single && c == '"':
				return sb.String(), i + 1, nil
			case !single && c == '\\':
				if i+1 < n && isBreak(d[i+1]) {
					i = skipBreak(d, i+1)
					leadingBlanks = true
					goto blanks
				}
				sz, err := decodeEscape(&sb, d[i:])
				if err != nil {
					return "", 0, err
				}
				i += sz
			default:
				r, sz := utf8.DecodeRune(d[i:])
				if r == utf8.RuneError && sz <= 1 {
					return "", 0, ErrBadUTF8
				}
				sb.WriteString(string(d[i : i+sz]))
				i += sz
			}
		}
	blanks:
		if i >= n {
			return "", 0, fmt.Errorf("%w %c", ErrUnterminated, d[0])
		}
		whitespace := i
		wsEnd := i
		leadingBreak := false
		trailingBreaks := 0
		for i < n && (isBlank(d[i]) || isBreak(d[i])) {
			if isBlank(d[i]) {
				i++
				if !leadingBlanks {
					wsEnd = i
				}
				continue
			}
			i = skipBreak(d, i)
			if !leadingBlanks {
				wsEnd = whitespace
				leadingBreak = true
				leadingBlanks = true
			} else {
				trailingBreaks++
			}
		}
		if leadingBlanks {
			switch {
			case leadingBreak && trailingBreaks == 0:
				sb.WriteByte(' ')
			default:
				sb.WriteString(strings.Repeat("\n", trailingBreaks))
			}
		} else {
			sb.Write(d[whitespace:wsEnd])
		}
		leadingBlanks = false
	}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isBreak(c byte) bool {
	return c == '\n' || c == '\r'
}

func skipBreak(d []byte, i int) int {
	if d[i] == '\r' && i+1 < len(d) && d[i+1] == '\n' {
		return i + 2
	}
	return i + 1
}

func decodeEscape(sb *strings.Builder, d []byte) (int, error) {
	if len(d) < 2 {
		return 0, ErrBadEscape
	}
	switch d[1] {
	case '0':
		sb.WriteByte(0)
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 't', '\t':
		sb.WriteByte('\t')
	case 'n':
		sb.WriteByte('\n')
	case 'v':
		sb.WriteByte('\v')
	case 'f':
		sb.WriteByte('\f')
	case 'r':
		sb.WriteByte('\r')
	case 'e':
		sb.WriteByte(0x1b)
	case ' ':
		sb.WriteByte(' ')
	case '"':
		sb.WriteByte('"')
	case '/':
		sb.WriteByte('/')
	case '\\':
		sb.WriteByte('\\')
	case 'N':
		sb.WriteRune('\u0085')
	case '_':
		sb.WriteRune('\u00a0')
	case 'L':
		sb.WriteRune('\u2028')
	case 'P':
		sb.WriteRune('\u2029')
	case 'x':
		return hexEscape(sb, d, 2)
	case 'u':
		return hexEscape(sb, d, 4)
	case 'U':
		return hexEscape(sb, d, 8)
	default:
		return 0, fmt.Errorf("%w \\%c", ErrBadEscape, d[1])
	}
	return 2, nil
}

func hexEscape(sb *strings.Builder, d []byte, w int) (int, error) {
	if len(d) < 2+w {
		return 0, ErrBadEscape
	}
	digits := d[2 : 2+w]
	buf := make([]byte, w/2)
	if _, err := hex.Decode(buf, digits); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadEscape, err)
	}
	var r rune
	for _, b := range buf {
		r = r<<8 | rune(b)
	}
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("%w: invalid code point %x", ErrBadEscape, r)
	}
	sb.WriteRune(r)
	return 2 + w, nil
}

// Quote returns v as a double quoted scalar.
func Quote(v string) string {
	d := make([]byte, 1, len(v)+2)
	d[0] = '"'
	for _, r := range v {
		switch r {
		case '"':
			d = append(d, '\\', '"')
		case '\\':
			d = append(d, '\\', '\\')
		case 0:
			d = append(d, '\\', '0')
		case '\b':
			d = append(d, '\\', 'b')
		case '\f':
			d = append(d, '\\', 'f')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		case 0x1b:
			d = append(d, '\\', 'e')
		case utf8.RuneError:
			d = append(d, '\\', 'u', 'F', 'F', 'F', 'D')
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				d = fmt.Appendf(d, "\\x%02X", r)
			case !unicode.IsPrint(r) && r <= 0xffff:
				d = fmt.Appendf(d, "\\u%04X", r)
			case !unicode.IsPrint(r):
				d = fmt.Appendf(d, "\\U%08X", r)
			default:
				d = utf8.AppendRune(d, r)
			}
		}
	}
	d = append(d, '"')
	return string(d)
}

// SingleQuote returns v as a single quoted scalar. ok is false when v
// cannot be written single quoted on one line.
func SingleQuote(v string) (string, bool) {
	for _, r := range v {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsPrint(r) && r != ' ' {
			return "", false
		}
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'", true
}

// NeedsQuote reports whether v cannot be written as a plain scalar in
// block context, either because of its characters or because it would
// read back as something other than a string.
func NeedsQuote(v string) bool {
	if v == "" {
		return true
	}
	if Resolve(v).Kind != KindString {
		return true
	}
	switch v[0] {
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`', ' ':
		return true
	case '-', '?', ':':
		if len(v) == 1 || v[1] == ' ' {
			return true
		}
	}
	if strings.HasPrefix(v, "---") || strings.HasPrefix(v, "...") {
		return true
	}
	last := v[len(v)-1]
	if last == ' ' || last == ':' {
		return true
	}
	if strings.Contains(v, ": ") || strings.Contains(v, " #") {
		return true
	}
	for _, r := range v {
		if r == '\t' || r == utf8.RuneError || !unicode.IsPrint(r) && r != ' ' {
			return true
		}
	}
	return false
}

// NeedsQuoteFlow is NeedsQuote for scalars inside flow collections.
func NeedsQuoteFlow(v string) bool {
	return NeedsQuote(v) || strings.ContainsAny(v, ",[]{}")
}
