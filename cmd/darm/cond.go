package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/sarchlab/darm/insts"
)

func condCommand() *cli.Command {
	return &cli.Command{
		Name:      "cond",
		Usage:     "Show condition codes",
		ArgsUsage: "[suffix...]",
		Description: "Without arguments, list every condition code. With arguments, " +
			"look up each mnemonic suffix, including the HS and LO aliases. " +
			"Suffixes are case-folded to upper case before the lookup, so hs and HS match.",
		Action: func(ctx *cli.Context) error {
			conds := make([]insts.Cond, 0, insts.CondAL+1)

			if ctx.NArg() == 0 {
				for c := insts.CondEQ; c <= insts.CondAL; c++ {
					conds = append(conds, c)
				}
			}

			for _, suffix := range ctx.Args().Slice() {
				c, ok := insts.ConditionIndex(strings.ToUpper(suffix))
				if !ok {
					return fmt.Errorf("unknown condition %q", suffix)
				}
				conds = append(conds, c)
			}

			return printConds(ctx, conds)
		},
	}
}

func printConds(ctx *cli.Context, conds []insts.Cond) error {
	tw := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "COND\tSUFFIX\tINTEGER\tFLOATING POINT")
	for _, c := range conds {
		info, _ := insts.ConditionInfo(c, false)
		_, _ = fmt.Fprintf(tw, "%04b\t%s\t%s\t%s\n", uint8(c), info.Suffix, info.Integer, info.FloatingPoint)
	}

	return tw.Flush()
}
