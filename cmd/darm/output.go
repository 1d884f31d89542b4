package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/sarchlab/darm/disasm"
	"github.com/sarchlab/darm/fetch"
	"github.com/sarchlab/darm/insts"
)

// printer writes listings to a terminal.
type printer struct {
	w          io.Writer
	omitAlways bool
	showRaw    bool

	addr     *color.Color
	raw      *color.Color
	mnemonic *color.Color
	failure  *color.Color
	comment  *color.Color
}

func getColor(noColor bool, attributes ...color.Attribute) *color.Color {
	c := color.New(attributes...)
	if noColor {
		c.DisableColor()
	}
	return c
}

func newPrinter(w io.Writer, s *state) *printer {
	noColor := !s.cfg.Color
	return &printer{
		w:          w,
		omitAlways: s.cfg.OmitAlways,
		showRaw:    s.cfg.ShowRaw,
		addr:       getColor(noColor, color.FgYellow),
		raw:        getColor(noColor, color.Faint),
		mnemonic:   getColor(noColor, color.FgCyan, color.Bold),
		failure:    getColor(noColor, color.FgRed),
		comment:    getColor(noColor, color.FgGreen),
	}
}

// describeError renders an entry error as a short placeholder.
func describeError(err error) string {
	if errors.Is(err, fetch.ErrUnmapped) {
		return "<unmapped>"
	}

	var decodeErr *insts.DecodeError
	if errors.As(err, &decodeErr) {
		return "<undecodable: " + decodeErr.Reason.String() + ">"
	}
	return "<" + err.Error() + ">"
}

// instruction writes the body of one line: the optional raw word and the
// assembly text or failure.
func (p *printer) instruction(sb *strings.Builder, word uint32, inst insts.Instruction, err error) {
	if p.showRaw {
		sb.WriteString(p.raw.Sprintf("%08X", word))
		sb.WriteString("  ")
	}

	if err != nil {
		sb.WriteString(p.failure.Sprint(describeError(err)))
		return
	}

	sb.WriteString(p.mnemonic.Sprint(disasm.Mnemonic(inst, p.omitAlways)))
	if operands := disasm.Operands(inst); operands != "" {
		sb.WriteString(" ")
		sb.WriteString(operands)
	}
}

// decoded prints a decoded word without address.
func (p *printer) decoded(word uint32, inst insts.Instruction, err error) {
	var sb strings.Builder
	p.instruction(&sb, word, inst, err)
	_, _ = fmt.Fprintln(p.w, sb.String())
}

// entry prints one listing line. Branches are annotated with their target
// and the instruction resolve returns for it.
func (p *printer) entry(e fetch.Entry, resolve func(uint32) fetch.Entry) {
	var sb strings.Builder
	sb.WriteString(p.addr.Sprintf("%8x:", e.Addr))
	sb.WriteString("\t")
	p.instruction(&sb, e.Word, e.Inst, e.Err)

	if target, ok := disasm.BranchTarget(e); ok {
		dest := resolve(target)
		if dest.Err != nil {
			sb.WriteString(p.comment.Sprintf("\t; 0x%x %s", target, describeError(dest.Err)))
		} else {
			sb.WriteString(p.comment.Sprintf("\t; 0x%x <%s>", target, disasm.Text(dest.Inst, p.omitAlways)))
		}
	}

	_, _ = fmt.Fprintln(p.w, sb.String())
}

// parseWord parses a hexadecimal word with an optional 0x prefix.
func parseWord(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid instruction word %q: %w", s, err)
	}
	return uint32(v), nil
}
