// Package main provides the entry point for darm.
// darm is an ARMv7 ARM-mode instruction decoder.
//
// For the full CLI, use: go run ./cmd/darm
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("darm - ARMv7 instruction decoder")
	fmt.Println("")
	fmt.Println("Usage: darm [global options] <command> [arguments]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  decode     Decode hexadecimal instruction words")
	fmt.Println("  dump       Disassemble the executable segments of an ARM ELF file")
	fmt.Println("  cond       Show condition codes")
	fmt.Println("")
	fmt.Println("Global options:")
	fmt.Println("  --config      Path to a YAML configuration file")
	fmt.Println("  --log-level   Log level")
	fmt.Println("  --no-color    Disable colored output")
	fmt.Println("  --workers     Number of goroutines decoding a listing")
	fmt.Println("  --cpuprofile  Write a CPU profile to the given directory")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/darm' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/darm' instead.")
	}
}
