// Package token provides the lexical layer for YAML: byte offset to
// line/column mapping, quoted scalar decoding and quoting, core schema
// resolution of plain scalars and block scalar folding.
package token
