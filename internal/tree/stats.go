package tree

// Stats summarises a session.
type Stats struct {
	Files       int // files in the registry
	FileParses  int // root parse included
	Rounds      int // expansion rounds
	Tokens      int // token records emitted
	Structural  int // structural records emitted
	ArenaBytes  int
	Names       int
	Paths       int // root included
	Scopes      int
	Modules     int
	Macros      int
	ParseErrors int
	Duplicates  int
	Malformed   int
	Unresolved  int // modules still pending
}

// Stats returns the current counters.
func (s *Session) Stats() Stats {
	st := s.stats
	st.Files = s.sources.Len()
	st.ArenaBytes = s.nodes.Len()
	st.Names = s.names.Len()
	st.Paths = s.paths.Len()
	st.Scopes = s.scopes.Len()
	st.Modules = len(s.modules)
	st.Macros = len(s.macros)
	st.Unresolved = len(s.pending)
	return st
}
