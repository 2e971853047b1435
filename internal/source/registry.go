package source

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"fortio.org/safecast"
)

var (
	// ErrSourceTooLarge reports that the shared code buffer would exceed the
	// range addressable by Loc.
	ErrSourceTooLarge = errors.New("source exceeds 4 GiB limit")
	// ErrTooManyFiles reports that FileID space is exhausted.
	ErrTooManyFiles = errors.New("too many source files")
)

type fileEntry struct {
	name    uint32 // offset into Registry.names
	code    Loc    // offset into Registry.code
	flags   FileFlags
	lineIdx []uint32
}

// Registry stores the text of every loaded file in one append-only buffer.
// A file's range ends where the next file's range begins.
type Registry struct {
	names []byte
	code  []byte
	files []fileEntry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make([]byte, 0, 256),
		code:  make([]byte, 0, 1<<14),
		files: make([]fileEntry, 0, 16),
	}
}

// Add appends content under the given name and returns its FileID.
// The same name may be added more than once; every call creates a new file.
func (r *Registry) Add(name string, content []byte, flags FileFlags) (FileID, error) {
	id, err := safecast.Conv[uint16](len(r.files))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, ErrTooManyFiles)
	}
	if uint64(len(r.code))+uint64(len(content)) > math.MaxUint32 {
		return 0, fmt.Errorf("%s: %w", name, ErrSourceTooLarge)
	}
	nameOff, err := safecast.Conv[uint32](len(r.names))
	if err != nil {
		return 0, fmt.Errorf("%s: file names overflow: %w", name, err)
	}
	codeOff := Loc(len(r.code)) // проверено выше

	r.names = append(r.names, normalizePath(name)...)
	r.code = append(r.code, content...)
	r.files = append(r.files, fileEntry{
		name:    nameOff,
		code:    codeOff,
		flags:   flags,
		lineIdx: buildLineIndex(content),
	})
	return FileID(id), nil
}

// Load reads a file from disk, strips a BOM, normalizes CRLF and calls Add.
func (r *Registry) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return r.Add(path, content, flags)
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (r *Registry) AddVirtual(name string, content []byte) (FileID, error) {
	return r.Add(name, content, FileVirtual)
}

// Len returns the number of files.
func (r *Registry) Len() int { return len(r.files) }

// Name returns the (slash-normalized) name the file was added under.
func (r *Registry) Name(id FileID) string {
	i := r.files[id].name
	if int(id)+1 < len(r.files) {
		return string(r.names[i:r.files[id+1].name])
	}
	return string(r.names[i:])
}

// Flags returns the metadata recorded for the file.
func (r *Registry) Flags(id FileID) FileFlags { return r.files[id].flags }

// Range returns the file's span in the shared code buffer.
func (r *Registry) Range(id FileID) Span {
	start := r.files[id].code
	if int(id)+1 < len(r.files) {
		return Span{Start: start, End: r.files[id+1].code}
	}
	return Span{Start: start, End: Loc(len(r.code))}
}

// Code returns the bytes covered by sp. The slice aliases the registry buffer
// and must not be modified.
func (r *Registry) Code(sp Span) []byte {
	return r.code[sp.Start:sp.End:sp.End]
}

// Text returns the whole content of a file.
func (r *Registry) Text(id FileID) []byte {
	return r.Code(r.Range(id))
}

// FileAt returns the file whose range contains loc. A location equal to the
// end of the buffer belongs to the last file.
func (r *Registry) FileAt(loc Loc) (FileID, bool) {
	if len(r.files) == 0 || int(loc) > len(r.code) {
		return 0, false
	}
	// первый файл, который начинается после loc, минус один
	i := sort.Search(len(r.files), func(i int) bool { return r.files[i].code > loc }) - 1
	if i < 0 {
		return 0, false
	}
	// пустые файлы делят начало со следующим; берём последний с таким началом
	return FileID(i), true
}

// Resolve converts a location into its file and line/column.
func (r *Registry) Resolve(loc Loc) (FileID, LineCol, bool) {
	id, ok := r.FileAt(loc)
	if !ok {
		return 0, LineCol{}, false
	}
	f := &r.files[id]
	return id, toLineCol(f.lineIdx, uint32(loc-f.code)), true
}

// Format renders loc as "name:line:col", or the raw offset when it is out of range.
func (r *Registry) Format(loc Loc) string {
	id, lc, ok := r.Resolve(loc)
	if !ok {
		return fmt.Sprintf("@%d", loc)
	}
	return fmt.Sprintf("%s:%d:%d", r.Name(id), lc.Line, lc.Col)
}
