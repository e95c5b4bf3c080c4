// Package libdiff compares YAML sources and trees.
//
// Regions and Lines compare two texts, typically a source and the output
// of saving an edit of it; Unified renders a line diff. Diff compares two
// trees value by value and lists what was added, removed or changed.
package libdiff
