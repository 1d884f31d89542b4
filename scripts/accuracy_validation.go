// Package main provides accuracy validation for the cached and parallel
// decode paths. Ensures they produce the same results as a direct decode.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sarchlab/darm/disasm"
	"github.com/sarchlab/darm/fetch"
	"github.com/sarchlab/darm/insts"
)

const baseAddr = 0x8000

// sampleWords returns a deterministic spread of words covering every
// encoding class and condition.
func sampleWords(n int) []uint32 {
	words := make([]uint32, n)
	x := uint32(0x2545F491)
	for i := range words {
		// xorshift32
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		words[i] = x
	}
	return words
}

func sameResult(inst1 insts.Instruction, err1 error, inst2 insts.Instruction, err2 error) bool {
	if (err1 == nil) != (err2 == nil) {
		return false
	}
	if err1 != nil {
		return err1.Error() == err2.Error()
	}
	return inst1 == inst2
}

// testCachedDecoding validates that cache lookups return what a direct
// decode returns, before and after eviction.
func testCachedDecoding(words []uint32) bool {
	fmt.Println("Testing cached decode accuracy...")

	decoder := insts.NewDecoder()
	cache := fetch.New(fetch.Config{
		Size:          1024,
		Associativity: 2,
		BlockSize:     64,
	}, fetch.NewWordsBacking(baseAddr, words))

	for pass := 0; pass < 2; pass++ {
		for i, word := range words {
			addr := uint32(baseAddr + 4*i)
			entry := cache.Lookup(addr)
			inst, err := decoder.Decode(word)

			if entry.Word != word || !sameResult(entry.Inst, entry.Err, inst, err) {
				fmt.Printf("❌ Cached decode mismatch at 0x%08X (word 0x%08X)\n", addr, word)
				fmt.Printf("  Cache:  %+v, %v\n", entry.Inst, entry.Err)
				fmt.Printf("  Direct: %+v, %v\n", inst, err)
				return false
			}
		}
	}

	stats := cache.Stats()
	fmt.Printf("✅ %d lookups consistent (hits=%d, misses=%d, evictions=%d)\n",
		stats.Lookups, stats.Hits, stats.Misses, stats.Evictions)
	return true
}

// testParallelListing validates that a listing split across workers keeps
// address order and matches a sequential decode.
func testParallelListing(words []uint32) bool {
	fmt.Println("\nTesting parallel listing accuracy...")

	decoder := insts.NewDecoder()
	backing := fetch.NewWordsBacking(baseAddr, words)

	for _, workers := range []int{1, 2, 8} {
		opts := disasm.DefaultOptions()
		opts.Workers = workers
		d := disasm.New(backing, opts)

		entries, err := d.Listing(context.Background(), baseAddr, uint32(baseAddr+4*len(words)))
		if err != nil {
			fmt.Printf("❌ Listing with %d workers failed: %v\n", workers, err)
			return false
		}

		for i, e := range entries {
			inst, derr := decoder.Decode(words[i])
			if e.Addr != uint32(baseAddr+4*i) || !sameResult(e.Inst, e.Err, inst, derr) {
				fmt.Printf("❌ Listing with %d workers differs at 0x%08X\n", workers, e.Addr)
				return false
			}
		}

		stats := d.Stats()
		fmt.Printf("✅ %d workers: %d decoded, %d failed\n", workers, stats.Decoded, stats.Failed)
	}

	return true
}

// testConditionRegistry validates that every suffix maps back to its field.
func testConditionRegistry() bool {
	fmt.Println("\nTesting condition registry...")

	for c := insts.CondEQ; c <= insts.CondAL; c++ {
		info, ok := insts.ConditionInfo(c, false)
		if !ok {
			fmt.Printf("❌ No entry for condition %d\n", c)
			return false
		}

		back, ok := insts.ConditionIndex(info.Suffix)
		if !ok || back != c {
			fmt.Printf("❌ Suffix %s maps to %d, expected %d\n", info.Suffix, back, c)
			return false
		}
	}

	fmt.Println("✅ Condition suffixes round trip")
	return true
}

func main() {
	fmt.Println("darm Accuracy Validation - Cached and Parallel Decode")
	fmt.Println("=====================================================")

	words := sampleWords(1 << 14)
	allPassed := true

	if !testCachedDecoding(words) {
		allPassed = false
	}

	if !testParallelListing(words) {
		allPassed = false
	}

	if !testConditionRegistry() {
		allPassed = false
	}

	fmt.Println()
	if allPassed {
		fmt.Println("✅ All accuracy checks passed")
		return
	}

	fmt.Println("❌ Accuracy validation failed")
	os.Exit(1)
}
