package token

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the core schema type a plain scalar resolves to.
type Kind int

const (
	KindString Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "<unknown kind>"
	}
}

type Scalar struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
}

// Resolve resolves the text of a plain scalar with the YAML 1.2 core
// schema.
func Resolve(s string) Scalar {
	switch s {
	case "", "~", "null", "Null", "NULL":
		return Scalar{Kind: KindNull}
	case "true", "True", "TRUE":
		return Scalar{Kind: KindBool, Bool: true}
	case "false", "False", "FALSE":
		return Scalar{Kind: KindBool}
	case ".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF":
		return Scalar{Kind: KindFloat, Float: math.Inf(1)}
	case "-.inf", "-.Inf", "-.INF":
		return Scalar{Kind: KindFloat, Float: math.Inf(-1)}
	case ".nan", ".NaN", ".NAN":
		return Scalar{Kind: KindFloat, Float: math.NaN()}
	}
	c := s[0]
	if !asciiDigit(c) && c != '-' && c != '+' && c != '.' {
		return Scalar{}
	}
	if strings.HasPrefix(s, "0x") && len(s) > 2 && allHex(s[2:]) {
		return parseInt(s[2:], 16)
	}
	if strings.HasPrefix(s, "0o") && len(s) > 2 && allOctal(s[2:]) {
		return parseInt(s[2:], 8)
	}
	if isDecimal(s) {
		return parseInt(s, 10)
	}
	if isFloat(s) {
		// out of range values are still floats
		f, _ := strconv.ParseFloat(s, 64)
		return Scalar{Kind: KindFloat, Float: f}
	}
	return Scalar{}
}

func parseInt(s string, base int) Scalar {
	i, err := strconv.ParseInt(s, base, 64)
	if err == nil {
		return Scalar{Kind: KindInt, Int: i}
	}
	f, _ := strconv.ParseFloat(s, 64)
	if base != 10 {
		u, uerr := strconv.ParseUint(s, base, 64)
		if uerr != nil {
			return Scalar{}
		}
		f = float64(u)
	}
	return Scalar{Kind: KindFloat, Float: f}
}

func isDecimal(s string) bool {
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	return len(s) > 0 && asciiDigits(s) == len(s)
}

// isFloat matches [-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?
func isFloat(s string) bool {
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if len(s) == 0 {
		return false
	}
	digits := asciiDigits(s)
	if digits == 0 {
		if s[0] != '.' {
			return false
		}
		f := asciiDigits(s[1:])
		if f == 0 {
			return false
		}
		return exp(s[1+f:]) == len(s)-1-f
	}
	rest := s[digits:]
	if len(rest) > 0 && rest[0] == '.' {
		rest = rest[1+asciiDigits(rest[1:]):]
	}
	return exp(rest) == len(rest)
}

func asciiDigits(s string) int {
	i := 0
	for i < len(s) {
		if !asciiDigit(s[i]) {
			return i
		}
		i++
	}
	return i
}

func asciiDigit(c byte) bool {
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	default:
		return false
	}
}

// exp returns the length of an exponent at the start of s, or 0.
func exp(s string) int {
	if len(s) < 2 {
		return 0
	}
	switch s[0] {
	case 'e', 'E':
	default:
		return 0
	}
	i := 1
	switch s[1] {
	case '+', '-':
		i++
	default:
	}
	if i == len(s) {
		return 0
	}
	n := asciiDigits(s[i:])
	if n == 0 {
		return 0
	}
	return i + n
}

func allHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case asciiDigit(c):
		case 'a' <= c && c <= 'f':
		case 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func allOctal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}
