package insts

import (
	"errors"
	"fmt"
)

// ErrUndecodable is matched by every error returned from Decode.
var ErrUndecodable = errors.New("undecodable instruction")

// Reason tells why a word could not be decoded.
type Reason uint8

// Decode failure reasons.
const (
	// ReasonUnconditional: the condition field is 0b1111.
	ReasonUnconditional Reason = iota + 1
	// ReasonInvalidClass: bits [27:20] select no modeled encoding class.
	ReasonInvalidClass
	// ReasonUnresolvedSubOp: a secondary table has no identity for the word.
	ReasonUnresolvedSubOp
	// ReasonUnmodeledVariant: the class is known but this variant is not.
	ReasonUnmodeledVariant
)

func (r Reason) String() string {
	switch r {
	case ReasonUnconditional:
		return "unconditional instruction space"
	case ReasonInvalidClass:
		return "invalid encoding class"
	case ReasonUnresolvedSubOp:
		return "unresolved sub-opcode"
	case ReasonUnmodeledVariant:
		return "unmodeled variant"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// DecodeError is returned when a word cannot be decoded.
type DecodeError struct {
	Word   uint32
	Reason Reason
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode 0x%08X: %v", e.Word, e.Reason)
}

// Is makes every DecodeError match ErrUndecodable.
func (e *DecodeError) Is(target error) bool {
	return target == ErrUndecodable
}

func fail(word uint32, reason Reason) error {
	return &DecodeError{Word: word, Reason: reason}
}
