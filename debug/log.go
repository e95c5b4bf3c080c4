package debug

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/signadot/yedit/encode"
	"github.com/signadot/yedit/ir"
)

// Logf writes to stderr, rendering *ir.Node arguments as YAML and
// generic maps and slices as JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *ir.Node:
			args[i] = encode.String(x)
		default:
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
