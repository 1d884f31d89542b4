package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/sarchlab/darm/disasm"
	"github.com/sarchlab/darm/fetch"
	"github.com/sarchlab/darm/loader"
)

var (
	startFlag = &cli.StringFlag{
		Name:  "start",
		Usage: "First address to list (hex), instead of the executable segments",
	}
	endFlag = &cli.StringFlag{
		Name:  "end",
		Usage: "Address after the last one to list (hex)",
	}
)

// addrRange is a half-open address range.
type addrRange struct {
	start, end uint32
}

func dumpCommand(s *state) *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Disassemble the executable segments of an ARM ELF file",
		ArgsUsage: "<program.elf>",
		Flags:     []cli.Flag{startFlag, endFlag},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return fmt.Errorf("expected one ELF file, got %d arguments", ctx.NArg())
			}

			prog, err := loader.Load(ctx.Args().First())
			if err != nil {
				return fmt.Errorf("failed to load program: %w", err)
			}

			ranges, err := dumpRanges(ctx, prog)
			if err != nil {
				return err
			}

			return s.dump(ctx, prog, ranges)
		},
	}
}

func dumpRanges(ctx *cli.Context, prog *loader.Program) ([]addrRange, error) {
	if !ctx.IsSet(startFlag.Name) && !ctx.IsSet(endFlag.Name) {
		var ranges []addrRange
		for _, seg := range prog.TextSegments() {
			ranges = append(ranges, addrRange{
				start: seg.VirtAddr,
				end:   seg.VirtAddr + uint32(len(seg.Data)),
			})
		}
		return ranges, nil
	}

	if !ctx.IsSet(startFlag.Name) || !ctx.IsSet(endFlag.Name) {
		return nil, fmt.Errorf("--start and --end must be given together")
	}

	start, err := parseWord(ctx.String(startFlag.Name))
	if err != nil {
		return nil, err
	}
	end, err := parseWord(ctx.String(endFlag.Name))
	if err != nil {
		return nil, err
	}

	return []addrRange{{start: start, end: end}}, nil
}

func (s *state) dump(ctx *cli.Context, prog *loader.Program, ranges []addrRange) error {
	d := disasm.New(prog, s.cfg.DisasmOptions())
	p := newPrinter(ctx.App.Writer, s)

	for _, r := range ranges {
		entries, err := d.Listing(ctx.Context, r.start, r.end)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(ctx.App.Writer, "\nDisassembly of 0x%08x-0x%08x:\n", r.start, r.end)
		for _, e := range entries {
			if e.Addr == prog.EntryPoint {
				_, _ = fmt.Fprintf(ctx.App.Writer, "\n%08x <_entry>:\n", e.Addr)
			}
			p.entry(e, d.At)
			s.logEntry(e)
		}
	}

	stats := d.Stats()
	cacheStats := d.CacheStats()
	s.logger.WithFields(logrus.Fields{
		"decoded":         stats.Decoded,
		"failed":          stats.Failed,
		"unmapped":        stats.Unmapped,
		"cache_lookups":   cacheStats.Lookups,
		"cache_hits":      cacheStats.Hits,
		"cache_misses":    cacheStats.Misses,
		"cache_evictions": cacheStats.Evictions,
	}).Info("listing complete")

	return nil
}

func (s *state) logEntry(e fetch.Entry) {
	if e.Err == nil {
		return
	}

	s.logger.WithFields(logrus.Fields{
		"addr":  fmt.Sprintf("0x%08x", e.Addr),
		"word":  fmt.Sprintf("0x%08X", e.Word),
		"error": e.Err,
	}).Debug("undecodable word")
}
