package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/yedit/token"
)

var (
	ErrParse    = errors.New("parse error")
	ErrEncoding = errors.New("invalid encoding")
	ErrTooLarge = errors.New("document too large")

	errKeyProps   = errors.New("properties on mapping keys are not supported")
	errComplexKey = errors.New("complex mapping keys are not supported")
	errAliasKey   = errors.New("alias mapping keys are not supported")
)

// Error is a parse failure at a position of the source. Every Error
// matches ErrParse with errors.Is.
type Error struct {
	Err      error
	Pos      token.Pos
	Filename string
}

func (e *Error) Error() string {
	line, col := e.Pos.LineCol()
	name := e.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %v", name, line+1, col+1, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrParse
}
