package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

func (y *Node) Path() string {
	if y.Parent == nil {
		return "$"
	}
	switch y.Parent.Type {
	case ObjectType:
		f := y.ParentField
		if y.IsKey() {
			f = y.String
		}
		return y.Parent.Path() + "." + pathString(f)

	case ArrayType, MultiDocType:
		return y.Parent.Path() + "[" + strconv.Itoa(y.ParentIndex) + "]"
	default:
		panic("parent but not in container")
	}
}

type Path struct {
	IndexAll bool
	Index    *int
	Field    *string
	Subtree  bool
	Next     *Path
}

func (p *Path) String() string {
	buf := bytes.NewBuffer([]byte{'$'})
	x := p
	for x != nil {
		if x.Subtree {
			buf.WriteString("..")
			x = x.Next
			continue
		}
		if x.IndexAll {
			buf.WriteString("[*]")
			x = x.Next
			continue
		}
		if x.Field != nil {
			buf.WriteString("." + pathString(*x.Field))
			x = x.Next
			continue
		}
		if x.Index != nil {
			fmt.Fprintf(buf, "[%d]", *x.Index)
			x = x.Next
			continue
		}
		x = x.Next
	}
	return buf.String()

}

func ParsePath(p string) (*Path, error) {
	if len(p) == 0 || p[0] != '$' {
		return nil, fmt.Errorf("%w: %q should start with '$'", ErrPath, p)
	}
	root := &Path{}
	if len(p) == 1 {
		return root, nil
	}
	err := parseFrag(p[1:], root)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrPath, p, err)
	}
	return root, nil
}

func parseFrag(frag string, parent *Path) error {
	if len(frag) == 0 {
		return nil
	}
	switch frag[0] {
	case '.':
		if len(frag) > 1 && frag[1] == '.' {
			parent.Subtree = true
			next := &Path{}
			err := parseFrag(frag[2:], next)
			if err != nil {
				return err
			}
			parent.Next = next
			return nil
		}
		field, rest, err := parseField(frag[1:])
		if err != nil {
			return err
		}
		parent.Field = &field
		if len(rest) == 0 {
			return nil
		}
		next := &Path{}
		err = parseFrag(rest, next)
		if err != nil {
			return err
		}
		parent.Next = next
		return nil
	case '[':
		i := strings.IndexByte(frag[1:], ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		index, all, err := parseIndex(frag[1 : i+1])
		if err != nil {
			return err
		}
		parent.IndexAll = all
		if !all {
			parent.Index = &index
		}
		if len(frag) == i+2 {
			return nil
		}
		next := &Path{}
		err = parseFrag(frag[i+2:], next)
		if err != nil {
			return err
		}
		parent.Next = next
		return nil
	default:
		return fmt.Errorf("expected '.' or '['")
	}
}

func parseIndex(is string) (index int, all bool, err error) {
	if len(is) == 1 && is[0] == '*' {
		return 0, true, nil
	}
	u64, err := strconv.ParseUint(is, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return int(u64), false, nil
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch c {
		case '\\':
			escaped = true
		case '\'':
			if !escaped {
				return string(res), frag[i+1:], nil
			}
			fallthrough
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// GetPath returns the node addressed by yPath within y. The node is part
// of y, not a copy, so it may be used as a mutation target. A missing
// field or index yields ErrNotFound.
func (y *Node) GetPath(yPath string) (*Node, error) {
	yp, err := ParsePath(yPath)
	if err != nil {
		return nil, err
	}
	res := y
	for yp != nil {
		if yp.IndexAll {
			return nil, fmt.Errorf("%w: any index in get", ErrPath)
		}
		if yp.Subtree {
			return nil, fmt.Errorf("%w: recurse .. in get", ErrPath)
		}
		if yp.Index != nil {
			if res.Type != ArrayType && res.Type != MultiDocType {
				return nil, fmt.Errorf("%w: expected array at %s, got %s", ErrPath, res.Path(), res.Type)
			}
			index := *yp.Index
			if index < 0 || index >= len(res.Values) {
				return nil, fmt.Errorf("%w: index out of bounds %d (len %d)", ErrNotFound, index, len(res.Values))
			}
			res = res.Values[index]
			yp = yp.Next
			continue
		}
		if yp.Field != nil {
			if res.Type != ObjectType {
				return nil, fmt.Errorf("%w: expected object at %s, got %s", ErrPath, res.Path(), res.Type)
			}
			i := res.KeyIndex(*yp.Field)
			if i == -1 {
				return nil, fmt.Errorf("%w: %s.%s", ErrNotFound, res.Path(), pathString(*yp.Field))
			}
			res = res.Values[i]
			yp = yp.Next
			continue
		}
		if yp.Next != nil {
			return nil, fmt.Errorf("%w: unexpected next w/out index or field", ErrPath)
		}
		return res, nil
	}
	return res, nil
}

func pathString(f string) string {
	if f != "" && strings.IndexAny(f, "'.*$[] ") == -1 {
		return f
	}
	return "'" + strings.Replace(f, "'", "\\'", -1) + "'"
}

// ListPath appends to dst every node matched by yPath, which may use
// [*] and .. wildcards.
func (y *Node) ListPath(dst []*Node, yPath string) ([]*Node, error) {
	yp, err := ParsePath(yPath)
	if err != nil {
		return nil, err
	}
	return y.listPath(dst, yp)
}

func (y *Node) listPath(dst []*Node, yp *Path) ([]*Node, error) {
	if yp == nil {
		return append(dst, y), nil
	}
	var err error
	if yp.Subtree {
		if err := y.Visit(func(node *Node, isPost bool) (bool, error) {
			if isPost {
				return false, nil
			}
			if node.Type.IsLeaf() {
				return false, nil
			}
			dst, err = node.listPath(dst, yp.Next)
			if err != nil {
				return false, err
			}
			return true, nil
		}); err != nil {
			return nil, err
		}
		return dst, nil
	}
	switch y.Type {
	case ObjectType:
		if yp.IndexAll || yp.Index != nil {
			return dst, nil
		}

		if yp.Field == nil && yp.Next == nil {
			return append(dst, y), nil
		}

		field := *yp.Field
		for i := range y.Fields {
			if y.Fields[i].String != field {
				continue
			}
			dst, err = y.Values[i].listPath(dst, yp.Next)
			if err != nil {
				return nil, err
			}
		}
		return dst, nil

	case ArrayType, MultiDocType:
		if yp.Field != nil {
			return dst, nil
		}
		if yp.Index == nil && !yp.IndexAll && yp.Next == nil {
			return append(dst, y), nil
		}
		if yp.Index != nil {
			idx := *yp.Index
			if 0 <= idx && idx < len(y.Values) {
				dst, err = y.Values[idx].listPath(dst, yp.Next)
				if err != nil {
					return nil, err
				}
			}
			return dst, nil
		}
		if !yp.IndexAll {
			return dst, nil
		}
		for _, yv := range y.Values {
			dst, err = yv.listPath(dst, yp.Next)
			if err != nil {
				return nil, err
			}
		}
		return dst, nil

	case StringType, NumberType, NullType, BoolType, AliasType:
		if yp.Field != nil || yp.Index != nil || yp.IndexAll {
			return dst, nil
		}
		if yp.Next == nil {
			dst = append(dst, y)
			return dst, nil
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("unknown type %s", y.Type)
	}
}
