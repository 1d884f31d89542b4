package loader_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/darm/loader"
)

const (
	emARM    = 40
	em386    = 3
	emARM64  = 183
	ptLoad   = 1
	ptNote   = 4
	pfX      = 0x1
	pfW      = 0x2
	pfR      = 0x4
	elfClass = 1 // ELFCLASS32
)

type testSegment struct {
	typ     uint32
	flags   uint32
	vaddr   uint32
	data    []byte
	memSize uint32
}

var _ = Describe("ELF Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "elf-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("with a valid ARM ELF binary", func() {
			var elfPath string

			BeforeEach(func() {
				elfPath = filepath.Join(tempDir, "test.elf")
				createARMELF(elfPath, binary.LittleEndian, emARM, 0x8000, []testSegment{
					{typ: ptLoad, flags: pfR | pfX, vaddr: 0x8000, data: []byte{
						0x2A, 0x00, 0xA0, 0xE3, // mov r0, #42
						0x1E, 0xFF, 0x2F, 0xE1, // bx lr
					}},
				})
			})

			It("should load without error", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog).NotTo(BeNil())
			})

			It("should extract the correct entry point", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint32(0x8000)))
			})

			It("should load segments", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(HaveLen(1))
				Expect(prog.Segments[0].VirtAddr).To(Equal(uint32(0x8000)))
				Expect(prog.Segments[0].Data).To(HaveLen(8))
			})

			It("should read little-endian words", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())

				word, ok := prog.Word(0x8000)
				Expect(ok).To(BeTrue())
				Expect(word).To(Equal(uint32(0xE3A0002A)))

				word, ok = prog.Word(0x8004)
				Expect(ok).To(BeTrue())
				Expect(word).To(Equal(uint32(0xE12FFF1E)))
			})

			It("should refuse unaligned and unmapped words", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())

				_, ok := prog.Word(0x8002)
				Expect(ok).To(BeFalse())

				_, ok = prog.Word(0x8008)
				Expect(ok).To(BeFalse())

				_, ok = prog.Word(0x7FFC)
				Expect(ok).To(BeFalse())
			})
		})

		Context("with a reader", func() {
			It("should load from memory", func() {
				elfPath := filepath.Join(tempDir, "mem.elf")
				createARMELF(elfPath, binary.LittleEndian, emARM, 0x10000, []testSegment{
					{typ: ptLoad, flags: pfR | pfX, vaddr: 0x10000, data: []byte{0x00, 0xF0, 0x20, 0xE3}},
				})

				raw, err := os.ReadFile(elfPath)
				Expect(err).NotTo(HaveOccurred())

				prog, err := loader.LoadReader(bytes.NewReader(raw))
				Expect(err).NotTo(HaveOccurred())

				word, ok := prog.Word(0x10000)
				Expect(ok).To(BeTrue())
				Expect(word).To(Equal(uint32(0xE320F000)))
			})
		})

		Context("with an invalid file", func() {
			It("should return error for non-existent file", func() {
				_, err := loader.Load("/nonexistent/path/to/file.elf")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to open"))
			})

			It("should return error for non-ELF file", func() {
				notElfPath := filepath.Join(tempDir, "not-elf.bin")
				err := os.WriteFile(notElfPath, []byte("not an elf file"), 0644)
				Expect(err).NotTo(HaveOccurred())

				_, err = loader.Load(notElfPath)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("ELF"))
			})

			It("should return error for empty file", func() {
				emptyPath := filepath.Join(tempDir, "empty.elf")
				err := os.WriteFile(emptyPath, []byte{}, 0644)
				Expect(err).NotTo(HaveOccurred())

				_, err = loader.Load(emptyPath)
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with non-ARM ELF", func() {
			It("should return error for i386 ELF", func() {
				elfPath := filepath.Join(tempDir, "x86.elf")
				createARMELF(elfPath, binary.LittleEndian, em386, 0, nil)

				_, err := loader.Load(elfPath)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not an ARM"))
			})
		})

		Context("with 64-bit ELF", func() {
			It("should return error for 64-bit ELF", func() {
				elfPath := filepath.Join(tempDir, "elf64.elf")
				createMinimal64BitELF(elfPath)

				_, err := loader.Load(elfPath)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not a 32-bit"))
			})
		})

		Context("with big-endian ELF", func() {
			It("should return error", func() {
				elfPath := filepath.Join(tempDir, "be.elf")
				createARMELF(elfPath, binary.BigEndian, emARM, 0, nil)

				_, err := loader.Load(elfPath)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("big-endian"))
			})
		})
	})

	Describe("Multi-segment ELFs", func() {
		var prog *loader.Program
		codeData := []byte{0x2A, 0x00, 0xA0, 0xE3, 0x1E, 0xFF, 0x2F, 0xE1}
		dataData := []byte{0x01, 0x02, 0x03, 0x04}

		BeforeEach(func() {
			elfPath := filepath.Join(tempDir, "multi-segment.elf")
			createARMELF(elfPath, binary.LittleEndian, emARM, 0x8000, []testSegment{
				{typ: ptLoad, flags: pfR | pfX, vaddr: 0x8000, data: codeData},
				{typ: ptLoad, flags: pfR | pfW, vaddr: 0x20000, data: dataData, memSize: 1024},
				{typ: ptNote, flags: pfR},
			})

			var err error
			prog, err = loader.Load(elfPath)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should load only PT_LOAD segments", func() {
			Expect(prog.Segments).To(HaveLen(2))
		})

		It("should keep contents and permissions", func() {
			codeSeg := prog.Segments[0]
			Expect(codeSeg.Data).To(Equal(codeData))
			Expect(codeSeg.Flags & loader.SegmentFlagExecute).NotTo(BeZero())
			Expect(codeSeg.Flags & loader.SegmentFlagWrite).To(BeZero())

			dataSeg := prog.Segments[1]
			Expect(dataSeg.Data).To(Equal(dataData))
			Expect(dataSeg.Flags & loader.SegmentFlagWrite).NotTo(BeZero())
		})

		It("should keep BSS sizes", func() {
			dataSeg := prog.Segments[1]
			Expect(dataSeg.MemSize).To(Equal(uint32(1024)))
			Expect(dataSeg.MemSize).To(BeNumerically(">", len(dataSeg.Data)))
		})

		It("should select executable segments", func() {
			text := prog.TextSegments()
			Expect(text).To(HaveLen(1))
			Expect(text[0].VirtAddr).To(Equal(uint32(0x8000)))
		})

		It("should read words from data segments too", func() {
			word, ok := prog.Word(0x20000)
			Expect(ok).To(BeTrue())
			Expect(word).To(Equal(uint32(0x04030201)))
		})

		It("should not read BSS", func() {
			_, ok := prog.Word(0x20004)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("ELFs with no loadable segments", func() {
		It("should return empty segments list", func() {
			elfPath := filepath.Join(tempDir, "no-load.elf")
			createARMELF(elfPath, binary.LittleEndian, emARM, 0x8000, []testSegment{
				{typ: ptNote, flags: pfR},
			})

			prog, err := loader.Load(elfPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(BeEmpty())
			Expect(prog.TextSegments()).To(BeEmpty())
			Expect(prog.EntryPoint).To(Equal(uint32(0x8000)))
		})
	})
})

// createARMELF writes an ELF32 executable with the given program headers.
// Segment data follows the headers in order.
func createARMELF(path string, order binary.ByteOrder, machine uint16, entryPoint uint32, segs []testSegment) {
	const ehsize, phentsize = 52, 32

	elfHeader := make([]byte, ehsize)
	copy(elfHeader[0:4], []byte{0x7f, 'E', 'L', 'F'})
	elfHeader[4] = elfClass
	if order == binary.LittleEndian {
		elfHeader[5] = 1
	} else {
		elfHeader[5] = 2
	}
	elfHeader[6] = 1                           // version
	order.PutUint16(elfHeader[16:18], 2)       // executable
	order.PutUint16(elfHeader[18:20], machine) // machine
	order.PutUint32(elfHeader[20:24], 1)       // version
	order.PutUint32(elfHeader[24:28], entryPoint)
	order.PutUint32(elfHeader[28:32], ehsize)     // phoff
	order.PutUint32(elfHeader[36:40], 0x05000000) // EABI5
	order.PutUint16(elfHeader[40:42], ehsize)
	order.PutUint16(elfHeader[42:44], phentsize)
	order.PutUint16(elfHeader[44:46], uint16(len(segs)))
	order.PutUint16(elfHeader[46:48], 40) // shentsize

	offset := uint32(ehsize + phentsize*len(segs))
	var progHeaders, payload []byte
	for _, seg := range segs {
		memSize := seg.memSize
		if memSize == 0 {
			memSize = uint32(len(seg.data))
		}

		ph := make([]byte, phentsize)
		order.PutUint32(ph[0:4], seg.typ)
		order.PutUint32(ph[4:8], offset)
		order.PutUint32(ph[8:12], seg.vaddr)
		order.PutUint32(ph[12:16], seg.vaddr)
		order.PutUint32(ph[16:20], uint32(len(seg.data)))
		order.PutUint32(ph[20:24], memSize)
		order.PutUint32(ph[24:28], seg.flags)
		order.PutUint32(ph[28:32], 0x1000)

		progHeaders = append(progHeaders, ph...)
		payload = append(payload, seg.data...)
		offset += uint32(len(seg.data))
	}

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()

	_, _ = file.Write(elfHeader)
	_, _ = file.Write(progHeaders)
	_, _ = file.Write(payload)
}

// createMinimal64BitELF creates a minimal AArch64 ELF64 to test rejection.
func createMinimal64BitELF(path string) {
	elfHeader := make([]byte, 64)

	copy(elfHeader[0:4], []byte{0x7f, 'E', 'L', 'F'})
	elfHeader[4] = 2                                         // 64-bit
	elfHeader[5] = 1                                         // little endian
	elfHeader[6] = 1                                         // version
	binary.LittleEndian.PutUint16(elfHeader[16:18], 2)       // executable
	binary.LittleEndian.PutUint16(elfHeader[18:20], emARM64) // AArch64
	binary.LittleEndian.PutUint32(elfHeader[20:24], 1)       // version
	binary.LittleEndian.PutUint64(elfHeader[32:40], 64)      // phoff
	binary.LittleEndian.PutUint16(elfHeader[52:54], 64)      // ehsize
	binary.LittleEndian.PutUint16(elfHeader[54:56], 56)      // phentsize

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()
	_, _ = file.Write(elfHeader)
}
