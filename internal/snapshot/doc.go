// Package snapshot persists a finished session: source files, interned names
// and paths, scopes and the node arena. A snapshot read back from disk can be
// printed like a live session but not expanded further.
package snapshot
