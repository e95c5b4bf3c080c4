package token

import (
	"errors"
	"testing"
)

func TestDecodeQuoted(t *testing.T) {
	tests := []struct {
		in   string
		want string
		n    int
	}{
		{`'abc' rest`, "abc", 5},
		{`'it''s'`, "it's", 7},
		{`''`, "", 2},
		{`"a\tb"`, "a\tb", 6},
		{`"\x41é\U0001F600"`, "Aé😀", 18},
		{`"a\"b"`, `a"b`, 6},
		{"'a\n  b'", "a b", 7},
		{"'a  \n\n  b'", "a\nb", 10},
		{"\"a\\\n   b\"", "ab", 9},
		{"\"a \\\n b\"", "a b", 8},
		{"\"a\n\n\n b\"", "a\n\nb", 8},
	}
	for _, tc := range tests {
		got, n, err := DecodeQuoted([]byte(tc.in))
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %q want %q", tc.in, got, tc.want)
		}
		if n != tc.n {
			t.Errorf("%q: consumed %d want %d", tc.in, n, tc.n)
		}
	}
}

func TestDecodeQuotedErrors(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{`'abc`, ErrUnterminated},
		{`"abc`, ErrUnterminated},
		{`"\q"`, ErrBadEscape},
		{`"\x4"`, ErrBadEscape},
		{"'\xff'", ErrBadUTF8},
	}
	for _, tc := range tests {
		_, _, err := DecodeQuoted([]byte(tc.in))
		if !errors.Is(err, tc.err) {
			t.Errorf("%q: got %v want %v", tc.in, err, tc.err)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, v := range []string{"", "abc", "a\"b", "back\\slash", "tab\there", "nl\nnl", "\x01ctl", "é😀"} {
		q := Quote(v)
		got, n, err := DecodeQuoted([]byte(q))
		if err != nil {
			t.Errorf("%q -> %s: %v", v, q, err)
			continue
		}
		if got != v || n != len(q) {
			t.Errorf("%q -> %s -> %q (%d/%d)", v, q, got, n, len(q))
		}
	}
}

func TestSingleQuote(t *testing.T) {
	q, ok := SingleQuote("it's")
	if !ok || q != "'it''s'" {
		t.Errorf("got %s %t", q, ok)
	}
	if _, ok := SingleQuote("a\nb"); ok {
		t.Errorf("newline should not be single quoted")
	}
}

func TestNeedsQuote(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"abc", false},
		{"hello world", false},
		{"a:b", false},
		{"a: b", true},
		{"a #b", true},
		{"a#b", false},
		{"trailing:", true},
		{" lead", true},
		{"trail ", true},
		{"- x", true},
		{"-x", false},
		{"true", true},
		{"True", true},
		{"yes", false},
		{"null", true},
		{"~", true},
		{"12", true},
		{"1.5", true},
		{"0x1F", true},
		{".inf", true},
		{"1.2.3", false},
		{"*ref", true},
		{"&a", true},
		{"!tag", true},
		{"[x", true},
		{"---", true},
		{"a\nb", true},
		{"tab\tin", true},
	}
	for _, tc := range tests {
		if got := NeedsQuote(tc.in); got != tc.want {
			t.Errorf("NeedsQuote(%q) = %t want %t", tc.in, got, tc.want)
		}
	}
	if !NeedsQuoteFlow("a,b") {
		t.Errorf("comma needs quoting in flow")
	}
}
