// Package loader provides ELF binary loading for 32-bit ARM executables.
package loader

import (
	"debug/elf"
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Segment represents a loadable segment from an ELF binary.
type Segment struct {
	// VirtAddr is the virtual address where this segment is loaded.
	VirtAddr uint32
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint32
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Contains reports whether addr falls inside the file-backed part of the
// segment.
func (s *Segment) Contains(addr uint32) bool {
	return addr >= s.VirtAddr && addr-s.VirtAddr < uint32(len(s.Data))
}

// Program represents a loaded ARM ELF program.
type Program struct {
	// EntryPoint is the virtual address where execution begins.
	EntryPoint uint32
	// Segments contains all loadable segments from the ELF file.
	Segments []Segment
}

// Load parses a 32-bit little-endian ARM ELF binary.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return fromFile(f)
}

// LoadReader parses a 32-bit little-endian ARM ELF binary from r.
func LoadReader(r io.ReaderAt) (*Program, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse ELF file: %w", err)
	}

	return fromFile(f)
}

func fromFile(f *elf.File) (*Program, error) {
	if f.Class != elf.ELFCLASS32 {
		return nil, xerrors.New("not a 32-bit ELF file")
	}

	if f.Machine != elf.EM_ARM {
		return nil, xerrors.Errorf("not an ARM ELF file (machine type: %v)", f.Machine)
	}

	if f.ByteOrder != binary.LittleEndian {
		return nil, xerrors.New("big-endian ARM ELF files are not supported")
	}

	prog := &Program{
		EntryPoint: uint32(f.Entry),
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, xerrors.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, xerrors.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: uint32(phdr.Vaddr),
			Data:     data,
			MemSize:  uint32(phdr.Memsz),
			Flags:    flags,
		})
	}

	return prog, nil
}

// TextSegments returns the executable segments.
func (p *Program) TextSegments() []Segment {
	var text []Segment
	for _, seg := range p.Segments {
		if seg.Flags&SegmentFlagExecute != 0 {
			text = append(text, seg)
		}
	}
	return text
}

// Word reads the little-endian word at addr. It returns false if addr is not
// word aligned or not backed by file data.
func (p *Program) Word(addr uint32) (uint32, bool) {
	if addr&3 != 0 {
		return 0, false
	}

	for i := range p.Segments {
		seg := &p.Segments[i]
		if !seg.Contains(addr) {
			continue
		}

		offset := addr - seg.VirtAddr
		if int(offset)+4 > len(seg.Data) {
			return 0, false
		}
		return binary.LittleEndian.Uint32(seg.Data[offset:]), true
	}

	return 0, false
}
