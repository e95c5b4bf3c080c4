package ir

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ToAny converts y to plain Go values: map[string]any, []any, string,
// bool, int, float64 and nil, the way a generic YAML decoder would.
// Aliases are expanded with resolve; dangling aliases become nil.
func ToAny(y *Node, resolve Resolver) any {
	return toAny(y, resolve, 0)
}

func toAny(y *Node, resolve Resolver, depth int) any {
	switch y.Type {
	case NullType:
		return nil
	case BoolType:
		return y.Bool
	case NumberType:
		if y.Int64 != nil {
			if *y.Int64 >= math.MinInt && *y.Int64 <= math.MaxInt {
				return int(*y.Int64)
			}
			return *y.Int64
		}
		if y.Float64 != nil {
			return *y.Float64
		}
		return y.Number
	case StringType:
		return y.String
	case AliasType:
		if resolve == nil || depth > maxAliasDepth {
			return nil
		}
		t := resolve(y)
		if t == nil {
			return nil
		}
		return toAny(t, resolve, depth+1)
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			res[f.String] = toAny(y.Values[i], resolve, depth)
		}
		return res
	case ArrayType, MultiDocType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = toAny(v, resolve, depth)
		}
		return res
	default:
		return nil
	}
}

// FromAny builds a tree from plain Go values such as those produced by
// encoding/json or an expression evaluator. Map keys are sorted.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x, nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return FromInt(int64(x)), nil
	case uint16:
		return FromInt(int64(x)), nil
	case uint32:
		return FromInt(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		return fromFloat(float64(x)), nil
	case float64:
		return fromFloat(x), nil
	case []any:
		vals := make([]*Node, len(x))
		for i, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			vals[i] = n
		}
		return FromSlice(vals), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kvs := make([]KeyVal, len(keys))
		for i, k := range keys {
			n, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			kvs[i] = KeyVal{Key: k, Val: n}
		}
		return FromKeyVals(kvs), nil
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = e
		}
		return FromAny(m)
	default:
		return nil, fmt.Errorf("cannot convert %T to a node", v)
	}
}

func fromUint(u uint64) *Node {
	if u <= math.MaxInt64 {
		return FromInt(int64(u))
	}
	f := float64(u)
	return &Node{Type: NumberType, Float64: &f, Number: strconv.FormatUint(u, 10)}
}

// fromFloat keeps integral values produced by JSON decoding as integers.
func fromFloat(f float64) *Node {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return FromInt(int64(f))
	}
	return FromFloat(f)
}

// FormatFloat renders f so that it reads back as a float.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'E':
			return s
		}
	}
	return s + ".0"
}
