package fetch

import "encoding/binary"

// BackingStore supplies instruction words. *loader.Program implements it.
type BackingStore interface {
	// Word reads the word at an aligned address, or returns false if the
	// address is not mapped.
	Word(addr uint32) (uint32, bool)
}

// BytesBacking serves little-endian words from a byte slice mapped at Base.
type BytesBacking struct {
	Base uint32
	Data []byte
}

// NewWordsBacking lays out words consecutively from base.
func NewWordsBacking(base uint32, words []uint32) *BytesBacking {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}
	return &BytesBacking{Base: base, Data: data}
}

// Word reads the word at addr.
func (b *BytesBacking) Word(addr uint32) (uint32, bool) {
	if addr&3 != 0 || addr < b.Base {
		return 0, false
	}

	offset := addr - b.Base
	if uint64(offset)+4 > uint64(len(b.Data)) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b.Data[offset:]), true
}
