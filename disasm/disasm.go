// Package disasm lists decoded ARMv7 instructions over address ranges.
package disasm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/darm/fetch"
	"github.com/sarchlab/darm/insts"
)

// ErrInvalidRange is returned by Listing when end is before start or the
// range spans more than MaxListingWords words.
var ErrInvalidRange = errors.New("invalid address range")

// MaxListingWords bounds the number of words one Listing call decodes
// (a 4 MiB span). Longer ranges must be listed in pieces.
const MaxListingWords = 1 << 20

// minChunkWords is the smallest number of words handed to one worker.
const minChunkWords = 256

// Options configures a Disassembler.
type Options struct {
	// Workers is the number of goroutines used by Listing.
	Workers int
	// Cache configures the cache used by At.
	Cache fetch.Config
}

// DefaultOptions returns the default disassembler options.
func DefaultOptions() Options {
	return Options{
		Workers: 4,
		Cache:   fetch.DefaultConfig(),
	}
}

// Stats holds decode counts of listings.
type Stats struct {
	Decoded  uint64
	Failed   uint64
	Unmapped uint64
}

// Disassembler decodes words from a backing store.
type Disassembler struct {
	backing fetch.BackingStore
	cache   *fetch.Cache
	decoder *insts.Decoder
	workers int

	decoded  atomic.Uint64
	failed   atomic.Uint64
	unmapped atomic.Uint64
}

// New creates a Disassembler reading from backing.
func New(backing fetch.BackingStore, opts Options) *Disassembler {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	cacheConfig := opts.Cache
	if cacheConfig.Size == 0 || cacheConfig.Associativity == 0 || cacheConfig.BlockSize == 0 {
		cacheConfig = fetch.DefaultConfig()
	}

	return &Disassembler{
		backing: backing,
		cache:   fetch.New(cacheConfig, backing),
		decoder: insts.NewDecoder(),
		workers: workers,
	}
}

// At returns the decoded word at addr through the cache.
func (d *Disassembler) At(addr uint32) fetch.Entry {
	return d.cache.Lookup(addr)
}

// CacheStats returns the statistics of the cache used by At.
func (d *Disassembler) CacheStats() fetch.Statistics {
	return d.cache.Stats()
}

// Stats returns the counts accumulated by Listing.
func (d *Disassembler) Stats() Stats {
	return Stats{
		Decoded:  d.decoded.Load(),
		Failed:   d.failed.Load(),
		Unmapped: d.unmapped.Load(),
	}
}

// Listing decodes every word in [start, end) and returns the entries in
// address order. start is rounded down and end rounded up to a word
// boundary. Undecodable and unmapped words are returned as entries with Err
// set; only cancellation of ctx or an invalid range fails the listing.
func (d *Disassembler) Listing(ctx context.Context, start, end uint32) ([]fetch.Entry, error) {
	if end < start {
		return nil, fmt.Errorf("%w: 0x%08X-0x%08X", ErrInvalidRange, start, end)
	}

	start &^= 3
	numWords := (uint64(end) - uint64(start) + 3) / 4
	if numWords > MaxListingWords {
		return nil, fmt.Errorf("%w: 0x%08X-0x%08X spans %d words, more than %d",
			ErrInvalidRange, start, end, numWords, MaxListingWords)
	}

	entries := make([]fetch.Entry, numWords)

	chunk := (numWords + uint64(d.workers) - 1) / uint64(d.workers)
	if chunk < minChunkWords {
		chunk = minChunkWords
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for lo := uint64(0); lo < numWords; lo += chunk {
		hi := min(lo+chunk, numWords)
		g.Go(func() error {
			return d.decodeRange(ctx, start, entries[lo:hi], lo)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (d *Disassembler) decodeRange(
	ctx context.Context,
	start uint32,
	out []fetch.Entry,
	first uint64,
) error {
	var decoded, failed, unmapped uint64

	defer func() {
		d.decoded.Add(decoded)
		d.failed.Add(failed)
		d.unmapped.Add(unmapped)
	}()

	for i := range out {
		if i%minChunkWords == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		addr := start + uint32(first+uint64(i))*4
		entry := fetch.Entry{Addr: addr}

		word, ok := d.backing.Word(addr)
		if !ok {
			entry.Err = fetch.ErrUnmapped
			unmapped++
			out[i] = entry
			continue
		}

		entry.Word = word
		entry.Inst, entry.Err = d.decoder.Decode(word)
		if entry.Err != nil {
			failed++
		} else {
			decoded++
		}
		out[i] = entry
	}

	return nil
}

// BranchTarget returns the destination of a B or BL entry. The PC reads
// two instructions ahead of the branch.
func BranchTarget(entry fetch.Entry) (uint32, bool) {
	if entry.Err != nil {
		return 0, false
	}

	switch entry.Inst.Op {
	case insts.OpB, insts.OpBL:
		return entry.Addr + 8 + entry.Inst.Imm, true
	default:
		return 0, false
	}
}
