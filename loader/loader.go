// Package loader inspects the executables produced by a benchmark build, so
// a broken build is reported before the instance reaches execution.
package loader

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"errors"
	"fmt"
	"os"
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

// Format is the container format of a binary.
type Format string

// Supported formats.
const (
	FormatELF   Format = "elf"
	FormatMachO Format = "macho"
	FormatPE    Format = "pe"
)

// ErrNotExecutable is returned for binaries that cannot be run directly,
// such as object files or shared libraries.
var ErrNotExecutable = errors.New("not an executable")

// ErrUnknownFormat is returned when the file is not ELF, Mach-O or PE.
var ErrUnknownFormat = errors.New("unknown binary format")

// Segment is a loadable segment of an ELF binary.
type Segment struct {
	VirtAddr uint64
	FileSize uint64
	MemSize  uint64
	Flags    SegmentFlags
}

// Binary describes an executable on disk.
type Binary struct {
	Path    string
	Format  Format
	Machine string
	Is64Bit bool
	// Entry is the entry point address. It is zero for formats where it is
	// not recorded in the header.
	Entry    uint64
	Segments []Segment
	Size     int64
}

// Inspect opens path and checks that it is an executable in one of the
// supported formats.
func Inspect(path string) (*Binary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat binary: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	var bin *Binary
	if f, err := elf.Open(path); err == nil {
		bin, err = fromELF(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else if f, err := macho.Open(path); err == nil {
		bin, err = fromMachO(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else if f, err := pe.Open(path); err == nil {
		bin, err = fromPE(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	bin.Path = path
	bin.Size = info.Size()
	return bin, nil
}

func fromELF(f *elf.File) (*Binary, error) {
	// ET_DYN covers position independent executables.
	if f.Type != elf.ET_EXEC && f.Type != elf.ET_DYN {
		return nil, fmt.Errorf("%w (ELF type %v)", ErrNotExecutable, f.Type)
	}
	if f.Entry == 0 {
		return nil, fmt.Errorf("%w (no entry point)", ErrNotExecutable)
	}

	bin := &Binary{
		Format:  FormatELF,
		Machine: f.Machine.String(),
		Is64Bit: f.Class == elf.ELFCLASS64,
		Entry:   f.Entry,
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
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

		bin.Segments = append(bin.Segments, Segment{
			VirtAddr: phdr.Vaddr,
			FileSize: phdr.Filesz,
			MemSize:  phdr.Memsz,
			Flags:    flags,
		})
	}

	if len(bin.Segments) == 0 {
		return nil, fmt.Errorf("%w (no loadable segments)", ErrNotExecutable)
	}

	return bin, nil
}

func fromMachO(f *macho.File) (*Binary, error) {
	if f.Type != macho.TypeExec {
		return nil, fmt.Errorf("%w (Mach-O type %v)", ErrNotExecutable, f.Type)
	}

	return &Binary{
		Format:  FormatMachO,
		Machine: f.Cpu.String(),
		Is64Bit: f.Magic == macho.Magic64,
	}, nil
}

func fromPE(f *pe.File) (*Binary, error) {
	if f.Characteristics&pe.IMAGE_FILE_EXECUTABLE_IMAGE == 0 ||
		f.Characteristics&pe.IMAGE_FILE_DLL != 0 {
		return nil, fmt.Errorf("%w (PE characteristics 0x%x)", ErrNotExecutable, f.Characteristics)
	}

	bin := &Binary{
		Format:  FormatPE,
		Machine: fmt.Sprintf("0x%x", f.Machine),
	}

	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		bin.Is64Bit = true
		bin.Entry = oh.ImageBase + uint64(oh.AddressOfEntryPoint)
	case *pe.OptionalHeader32:
		bin.Entry = uint64(oh.ImageBase) + uint64(oh.AddressOfEntryPoint)
	}

	return bin, nil
}
