package token

import "testing"

func TestPosDoc(t *testing.T) {
	d := []byte("ab\ncde\n\nf")
	pd := NewPosDoc(d)
	tests := []struct {
		off, line, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{5, 1, 2},
		{7, 2, 0},
		{8, 3, 0},
	}
	for _, tc := range tests {
		l, c := pd.LineCol(tc.off)
		if l != tc.line || c != tc.col {
			t.Errorf("%d: got %d:%d want %d:%d", tc.off, l, c, tc.line, tc.col)
		}
		if off := pd.Offset(tc.line, tc.col); off != tc.off {
			t.Errorf("%d:%d: got offset %d want %d", tc.line, tc.col, off, tc.off)
		}
	}
	if pd.Lines() != 4 {
		t.Errorf("got %d lines", pd.Lines())
	}
}
