// Package fetch provides a decoded-instruction cache using Akita cache
// components.
package fetch

import (
	"errors"
	"sync"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/darm/insts"
)

// ErrUnmapped is the Err of entries whose address has no backing data.
var ErrUnmapped = errors.New("address not mapped")

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes of instruction memory covered by the cache.
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes, a multiple of 4.
	BlockSize int
}

// DefaultConfig returns a 32KB, 4-way cache of 64B blocks (16 words each).
func DefaultConfig() Config {
	return Config{
		Size:          32 * 1024,
		Associativity: 4,
		BlockSize:     64,
	}
}

// Entry is one decoded word.
type Entry struct {
	Addr uint32
	Word uint32
	Inst insts.Instruction
	// Err is ErrUnmapped, a decode error, or nil.
	Err error
}

// Statistics holds cache statistics.
type Statistics struct {
	Lookups   uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache keeps decoded blocks of instructions. Blocks are decoded as a whole
// on a miss and replaced in LRU order. It is safe for concurrent use.
type Cache struct {
	mu sync.Mutex

	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Decoded blocks, indexed by (setID * associativity + wayID)
	blocks [][]Entry

	stats Statistics

	backing BackingStore
	decoder *insts.Decoder
}

// New creates a new cache with the given configuration.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	blocks := make([][]Entry, totalBlocks)
	for i := range blocks {
		blocks[i] = make([]Entry, config.BlockSize/4)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		blocks:  blocks,
		backing: backing,
		decoder: insts.NewDecoder(),
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = Statistics{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint32) uint32 {
	bs := uint32(c.config.BlockSize)
	return addr / bs * bs
}

// Lookup returns the decoded word at addr, rounded down to a word boundary.
func (c *Cache) Lookup(addr uint32) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Lookups++

	addr &^= 3
	blockAddr := c.blockAddr(addr)
	slot := (addr - blockAddr) / 4

	block := c.directory.Lookup(0, uint64(blockAddr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return c.blocks[c.blockIndex(block)][slot]
	}

	c.stats.Misses++

	victim := c.directory.FindVictim(uint64(blockAddr))
	if victim == nil {
		return c.decodeAt(addr)
	}

	if victim.IsValid {
		c.stats.Evictions++
	}

	entries := c.blocks[c.blockIndex(victim)]
	for i := range entries {
		entries[i] = c.decodeAt(blockAddr + uint32(i)*4)
	}

	victim.Tag = uint64(blockAddr)
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return entries[slot]
}

func (c *Cache) decodeAt(addr uint32) Entry {
	entry := Entry{Addr: addr}

	word, ok := c.backing.Word(addr)
	if !ok {
		entry.Err = ErrUnmapped
		return entry
	}

	entry.Word = word
	entry.Inst, entry.Err = c.decoder.Decode(word)
	return entry
}

// Invalidate drops the block holding addr.
func (c *Cache) Invalidate(addr uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	block := c.directory.Lookup(0, uint64(c.blockAddr(addr&^3)))
	if block != nil && block.IsValid {
		block.IsValid = false
	}
}

// Reset invalidates all blocks and clears statistics.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.directory.Reset()
	c.stats = Statistics{}
}
