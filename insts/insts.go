// Package insts provides ARMv7 (ARM mode) instruction definitions and decoding.
//
// This package turns a single 32-bit ARM-mode machine word into a structured
// Instruction record. It supports:
//   - Data processing with shifted register and immediate operands,
//     including the ADR pseudo-instruction
//   - Compare instructions (TST, TEQ, CMP, CMN)
//   - Move immediates: MOV, MVN, MOVW, MOVT
//   - Shift and move aliases: LSL, LSR, ASR, ROR, RRX, MOV, NOP
//   - Branches: B, BL, SVC, BX, BXJ, BLX, BKPT, MSR (register)
//   - Hints: NOP, YIELD, WFE, WFI, SEV
//
// Unconditional (cond = 0b1111) encodings and Thumb are not decoded. Words
// that share a decoded row but belong to another instruction group are
// rejected instead of misread: multiplies and halfword/doubleword transfers
// in the data processing and compare rows, and MSR (immediate) and DBG in
// the hint row.
//
// Usage:
//
//	inst, err := insts.Decode(0xE0810002) // ADD r0, r1, r2
//	if err != nil {
//		return err
//	}
//	fmt.Printf("Op: %v, Rd: %v, Rn: %v, Rm: %v\n", inst.Op, inst.Rd, inst.Rn, inst.Rm)
package insts
