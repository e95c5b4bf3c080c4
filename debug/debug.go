// Package debug holds switches for diagnostic output, read once from the
// environment.
//
//	YEDIT_DEBUG_PARSE   parse results
//	YEDIT_DEBUG_PLAN    save plans
//	YEDIT_DEBUG_SPLICE  splice decisions while serializing
//	YEDIT_DEBUG_EDIT    tree mutations
//	YEDIT_DEBUG_LSP     language server requests
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse  bool
	Plan   bool
	Splice bool
	Edit   bool
	LSP    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("YEDIT_DEBUG_PARSE")
	d.Plan = boolEnv("YEDIT_DEBUG_PLAN")
	d.Splice = boolEnv("YEDIT_DEBUG_SPLICE")
	d.Edit = boolEnv("YEDIT_DEBUG_EDIT")
	d.LSP = boolEnv("YEDIT_DEBUG_LSP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Plan() bool {
	return d.Plan
}
func Splice() bool {
	return d.Splice
}
func Edit() bool {
	return d.Edit
}
func LSP() bool {
	return d.LSP
}
