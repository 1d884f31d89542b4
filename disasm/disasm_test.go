package disasm_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"

	"github.com/sarchlab/darm/disasm"
	"github.com/sarchlab/darm/fetch"
	"github.com/sarchlab/darm/insts"
)

var _ = Describe("Disassembler", func() {
	var (
		d        *disasm.Disassembler
		words    []uint32
		snapshot goleak.Option
	)

	BeforeEach(func() {
		snapshot = goleak.IgnoreCurrent()

		words = make([]uint32, 4096)
		for i := range words {
			switch i % 4 {
			case 0:
				words[i] = 0xE0810002 // ADD r0, r1, r2
			case 1:
				words[i] = 0xEAFFFFFE // B .
			case 2:
				words[i] = 0xE0000291 // MUL r0, r1, r2
			default:
				words[i] = 0xE1A00000 // NOP
			}
		}

		opts := disasm.DefaultOptions()
		opts.Workers = 4
		d = disasm.New(fetch.NewWordsBacking(0x8000, words), opts)
	})

	AfterEach(func() {
		Expect(goleak.Find(snapshot)).To(Succeed())
	})

	Describe("Listing", func() {
		It("should return entries in address order", func() {
			entries, err := d.Listing(context.Background(), 0x8000, 0x8000+4*4096)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(4096))

			for i, e := range entries {
				Expect(e.Addr).To(Equal(uint32(0x8000 + 4*i)))
				Expect(e.Word).To(Equal(words[i]))
			}

			Expect(entries[0].Inst.Op).To(Equal(insts.OpADD))
			Expect(entries[1].Inst.Op).To(Equal(insts.OpB))
			Expect(entries[2].Err).To(MatchError(insts.ErrUndecodable))
			Expect(entries[3].Inst.Op).To(Equal(insts.OpNOP))
		})

		It("should count decoded, failed and unmapped words", func() {
			_, err := d.Listing(context.Background(), 0x7FF0, 0x8010)
			Expect(err).NotTo(HaveOccurred())

			Expect(d.Stats()).To(Equal(disasm.Stats{
				Decoded:  3,
				Failed:   1,
				Unmapped: 4,
			}))
		})

		It("should align the range to words", func() {
			entries, err := d.Listing(context.Background(), 0x8002, 0x8005)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Addr).To(Equal(uint32(0x8000)))
			Expect(entries[1].Addr).To(Equal(uint32(0x8004)))
		})

		It("should return nothing for an empty range", func() {
			entries, err := d.Listing(context.Background(), 0x8000, 0x8000)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("should reject an inverted range", func() {
			_, err := d.Listing(context.Background(), 0x9000, 0x8000)
			Expect(err).To(MatchError(disasm.ErrInvalidRange))
		})

		It("should reject a range longer than the listing limit", func() {
			entries, err := d.Listing(context.Background(), 0, 0xFFFFFFFF)
			Expect(err).To(MatchError(disasm.ErrInvalidRange))
			Expect(entries).To(BeNil())
			Expect(d.Stats()).To(Equal(disasm.Stats{}))
		})

		It("should accept a range of exactly the listing limit", func() {
			entries, err := d.Listing(context.Background(), 0x8000, 0x8000+4*disasm.MaxListingWords)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(disasm.MaxListingWords))
		})

		It("should stop when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := d.Listing(ctx, 0x8000, 0x8000+4*4096)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("At", func() {
		It("should decode through the cache", func() {
			e := d.At(0x8004)
			Expect(e.Inst.Op).To(Equal(insts.OpB))

			e = d.At(0x8000)
			Expect(e.Inst.Op).To(Equal(insts.OpADD))

			stats := d.CacheStats()
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(1)))
		})
	})

	Describe("BranchTarget", func() {
		It("should branch to itself for B .", func() {
			target, ok := disasm.BranchTarget(d.At(0x8004))
			Expect(ok).To(BeTrue())
			Expect(target).To(Equal(uint32(0x8004)))
		})

		It("should resolve forward BL", func() {
			inst, err := insts.Decode(0xEB000010)
			Expect(err).NotTo(HaveOccurred())

			target, ok := disasm.BranchTarget(fetch.Entry{Addr: 0x1000, Inst: inst})
			Expect(ok).To(BeTrue())
			Expect(target).To(Equal(uint32(0x1000 + 8 + 0x40)))
		})

		It("should ignore non-branches and failures", func() {
			_, ok := disasm.BranchTarget(d.At(0x8000))
			Expect(ok).To(BeFalse())

			_, ok = disasm.BranchTarget(d.At(0x8008))
			Expect(ok).To(BeFalse())
		})
	})
})
