// Package diag defines the diagnostic model shared by the tree builder, the
// expansion scheduler and the CLI.
//
// Producers emit through a Reporter and never format anything themselves.
// BagReporter collects into a Bag which supports a limit, sorting and
// deduplication; Format renders a Bag for the terminal.
//
// A diagnostic is non-fatal by definition. Failures that abort a build
// (I/O, size limits, malformed event streams) are returned as errors.
package diag
