// Package tree builds one byte-addressed syntax tree for a whole program.
//
// A Session owns every table of a build: the source registry, the name and
// path interners, the scope table and the node arena. New parses the root
// file; Expand then pulls in every `mod name;` declaration without an inline
// body, round by round, until no pending module remains. Each expanded file
// is appended to the same arena and its root node is written into the slot
// reserved by the declaring Module record.
//
// Sessions are independent: nothing here is process-wide, so several roots
// can be built side by side.
package tree
