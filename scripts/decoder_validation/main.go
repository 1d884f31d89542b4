// Validate decoder allocations - the decode fast path must not allocate
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/sarchlab/darm/insts"
)

// measure runs fn iterations times and reports allocations per call.
func measure(name string, iterations, callsPerIteration int, fn func()) float64 {
	// Warm up
	for i := 0; i < 1000; i++ {
		fn()
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn()
	}
	elapsed := time.Since(start)

	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * callsPerIteration
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc
	perDecode := float64(allocations) / float64(totalDecodes)

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total decode operations: %d\n", totalDecodes)
	fmt.Printf("  Time elapsed: %v\n", elapsed)
	fmt.Printf("  Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("  Allocations: %d\n", allocations)
	fmt.Printf("  Allocations per decode: %.3f\n", perDecode)
	fmt.Printf("  Bytes per decode: %.1f\n", float64(allocatedBytes)/float64(totalDecodes))

	return perDecode
}

func main() {
	decoder := insts.NewDecoder()
	iterations := 100000

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")

	success := measure("Decodable words", iterations, 4, func() {
		_, _ = decoder.Decode(0xE0943105) // ADDS r3, r4, r5, LSL #2
		_, _ = decoder.Decode(0xE28F0008) // ADR r0, #+8
		_, _ = decoder.Decode(0xEAFFFFFE) // B .
		_, _ = decoder.Decode(0xE1A00061) // RRX r0, r1
	})

	measure("Undecodable words", iterations, 2, func() {
		_, _ = decoder.Decode(0xF57FF01F) // CLREX
		_, _ = decoder.Decode(0xE0000291) // MUL r0, r1, r2
	})

	if success == 0 {
		fmt.Printf("\n✅ SUCCESS: Zero allocations on the decode path.\n")
	} else if success < 0.1 {
		fmt.Printf("\n✅ GOOD: Low allocation rate (< 0.1 per decode)\n")
	} else {
		fmt.Printf("\n⚠️  WARNING: High allocation rate detected\n")
	}
}
