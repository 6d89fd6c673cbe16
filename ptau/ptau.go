package ptau

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// SectionID identifies a section of the container. The ids are fixed by
// the snarkjs writer.
type SectionID uint32

const (
	SectionHeader        SectionID = 1
	SectionTauG1         SectionID = 2
	SectionTauG2         SectionID = 3
	SectionAlphaTauG1    SectionID = 4
	SectionBetaTauG1     SectionID = 5
	SectionBetaG2        SectionID = 6
	SectionContributions SectionID = 7

	// Lagrange-basis sections written by snarkjs "prepare phase2". They
	// are indexed when present but this package does not interpret them.
	SectionLagrangeTauG1      SectionID = 12
	SectionLagrangeTauG2      SectionID = 13
	SectionLagrangeAlphaTauG1 SectionID = 14
	SectionLagrangeBetaTauG1  SectionID = 15
)

// requiredSections must all be present for a file to be usable.
var requiredSections = []SectionID{
	SectionHeader, SectionTauG1, SectionTauG2, SectionAlphaTauG1,
	SectionBetaTauG1, SectionBetaG2, SectionContributions,
}

// Version is the only container version this package understands.
// Unrecognized versions fail closed rather than guessing a layout.
const Version = 1

var magic = [4]byte{'p', 't', 'a', 'u'}

// Section is a resolved section table entry: the byte range of one
// section's payload within the file.
type Section struct {
	ID     SectionID
	Offset int64
	Size   int64
}

// File is an immutable, indexed view over a .ptau byte source. All state
// is built at construction; afterwards every method is safe for
// concurrent use provided the underlying io.ReaderAt supports concurrent
// reads (true for os.File, bytes.Reader and memory-mapped sources).
type File struct {
	r        io.ReaderAt
	size     int64
	closer   io.Closer
	version  uint32
	sections map[SectionID]Section
	header   Header

	chainOnce sync.Once
	chain     []Contribution
	beacon    *Contribution
	chainErr  error
}

// Open indexes the .ptau file at path. The returned File keeps the file
// handle open; callers release it with Close.
func Open(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening ptau file: %v", err)
	}
	info, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("error reading ptau file info: %v", err)
	}
	f, err := NewFile(fd, info.Size())
	if err != nil {
		fd.Close()
		return nil, err
	}
	f.closer = fd
	return f, nil
}

// NewFile indexes a .ptau byte source of the given size. It reads the
// magic, version and section table, checks the required sections are
// present and decodes the header; point arrays and the contribution
// chain are left untouched until first access.
func NewFile(r io.ReaderAt, size int64) (*File, error) {
	f := &File{r: r, size: size, sections: make(map[SectionID]Section)}

	var tag [4]byte
	if size < int64(len(tag)) {
		return nil, fmt.Errorf("%w: file too short", ErrBadMagic)
	}
	if err := f.readAt(tag[:], 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if tag != magic {
		return nil, fmt.Errorf("%w: got %q", ErrBadMagic, tag[:])
	}

	version, err := f.u32At(4)
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	f.version = version

	numSections, err := f.u32At(8)
	if err != nil {
		return nil, err
	}

	pos := int64(12)
	for i := uint32(0); i < numSections; i++ {
		id, err := f.u32At(pos)
		if err != nil {
			return nil, fmt.Errorf("%w: section table entry %d", ErrTruncatedSection, i)
		}
		length, err := f.i64At(pos + 4)
		if err != nil {
			return nil, fmt.Errorf("%w: section table entry %d", ErrTruncatedSection, i)
		}
		offset := pos + 12
		// length > size-offset rather than offset+length > size: the sum
		// can wrap negative for lengths near MaxInt64.
		if length < 0 || length > size-offset {
			return nil, fmt.Errorf("%w: section %d declares %d bytes at offset %d",
				ErrTruncatedSection, id, length, offset)
		}
		if _, ok := f.sections[SectionID(id)]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateSection, id)
		}
		f.sections[SectionID(id)] = Section{ID: SectionID(id), Offset: offset, Size: length}
		pos = offset + length
	}

	for _, id := range requiredSections {
		if _, ok := f.sections[id]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrMissingSection, id)
		}
	}

	f.header, err = decodeHeader(f)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Version returns the container format version.
func (f *File) Version() uint32 { return f.version }

// Header returns the decoded ceremony header.
func (f *File) Header() Header { return f.header }

// Section returns the byte range of the section with the given id.
func (f *File) Section(id SectionID) (Section, error) {
	s, ok := f.sections[id]
	if !ok {
		return Section{}, fmt.Errorf("%w: %d", ErrMissingSection, id)
	}
	return s, nil
}

// Close releases the underlying file handle if this File was created by
// Open; it is a no-op for caller-supplied byte sources.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}
