package splice

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/signadot/yedit/format"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/parse"
)

// validate reparses out and checks that every document is equivalent to
// the corresponding document of in.Root. In strict mode, output without
// dangling or forward aliases must also decode with an independent
// YAML implementation.
func validate(out []byte, in Input, cfg format.Config) error {
	res, err := parse.Parse(out, parse.ParseComments(false), parse.WithMaxSize(0))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerializeValidation, err)
	}
	want := docsOf(in.Root)
	if len(want) == 0 {
		want = []*ir.Node{ir.Null()}
	}
	if len(want) != len(res.Docs) {
		return fmt.Errorf("%w: %d documents, want %d", ErrSerializeValidation, len(res.Docs), len(want))
	}
	var ra ir.Resolver
	if in.Anchors != nil {
		ra = in.Anchors.Resolver()
	}
	rb := res.Anchors.Resolver()
	for i, d := range want {
		if !ir.Equivalent(d, res.Docs[i], ra, rb) {
			return fmt.Errorf("%w: document %d differs", ErrSerializeValidation, i)
		}
	}
	if !cfg.Strict || len(res.Anchors.Dangling()) > 0 || res.Anchors.HasForward() {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(out))
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: strict decode: %w", ErrSerializeValidation, err)
		}
	}
}
