package source

type (
	// FileID identifies a file inside a Registry.
	FileID uint16
	// Loc is a byte offset into the registry's shared code buffer.
	Loc uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
)

// Plus returns the location n bytes after l.
func (l Loc) Plus(n uint32) Loc { return l + Loc(n) }

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
