// Package treefmt prints module trees, token lists and build statistics for
// people. It works on anything implementing View: a live session or a
// snapshot read from disk.
package treefmt
