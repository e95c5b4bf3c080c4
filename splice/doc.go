// Package splice writes an edited tree back to YAML, reusing the bytes
// of its source wherever they still hold.
//
// A SavePlan gives every node a Tier. Unchanged nodes are copied,
// nodes with changed descendants are copied around them, collections
// which gained or lost entries keep the text of surviving entries, and
// the rest is formatted by package encode at the position of the text
// it replaces. Collections touching anchors or aliases whose structure
// changed are formatted as a whole with their aliases expanded.
//
// Comments attached since parsing are inserted at the offsets their
// position implies; detached comments have their source text removed.
//
// Serialize reparses its output and fails with ErrSerializeValidation
// unless every document reads back equivalent to the tree.
package splice
