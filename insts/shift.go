package insts

import "fmt"

// ShiftType represents a shift type for register operands.
type ShiftType uint8

// Shift types.
const (
	ShiftLSL ShiftType = 0b00 // Logical shift left
	ShiftLSR ShiftType = 0b01 // Logical shift right
	ShiftASR ShiftType = 0b10 // Arithmetic shift right
	ShiftROR ShiftType = 0b11 // Rotate right
)

var shiftNames = [...]string{"LSL", "LSR", "ASR", "ROR"}

func (t ShiftType) String() string {
	if int(t) < len(shiftNames) {
		return shiftNames[t]
	}
	return fmt.Sprintf("ShiftType(%d)", int(t))
}

// DecodeShift resolves an encoded shift into the label and amount an
// assembler would show:
//   - LSL #0 is no shift at all: "", 0
//   - ROR #0 is RRX: "RRX", 0
//   - LSR #0 and ASR #0 encode a shift by 32
//
// Any other pair is returned literally.
func DecodeShift(t ShiftType, amount uint8) (string, uint8) {
	t &= 0b11

	switch {
	case t == ShiftLSL && amount == 0:
		return "", 0
	case t == ShiftROR && amount == 0:
		return "RRX", 0
	case (t == ShiftLSR || t == ShiftASR) && amount == 0:
		return t.String(), 32
	}

	return t.String(), amount
}

// Shifter returns the shift applied to the operand register. Immediate
// shifts go through DecodeShift. Register shifts return the shift type and
// the index of the register holding the amount, without special cases.
func (i *Instruction) Shifter() (string, uint8) {
	if i.ShiftIsReg {
		return i.ShiftType.String(), uint8(i.Rs)
	}
	return DecodeShift(i.ShiftType, i.ShiftAmount)
}
