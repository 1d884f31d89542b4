package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/darm/insts"
)

var formatFlag = &cli.StringFlag{
	Name:  "format",
	Usage: "Output format (text, yaml)",
	Value: "text",
}

// instructionRecord is the YAML form of a decoded word.
type instructionRecord struct {
	Word     string `yaml:"word"`
	Error    string `yaml:"error,omitempty"`
	Op       string `yaml:"op,omitempty"`
	Cond     string `yaml:"cond,omitempty"`
	Format   string `yaml:"format,omitempty"`
	SetFlags bool   `yaml:"set_flags,omitempty"`
	Rd       string `yaml:"rd,omitempty"`
	Rn       string `yaml:"rn,omitempty"`
	Rm       string `yaml:"rm,omitempty"`
	Rs       string `yaml:"rs,omitempty"`
	Shift    string `yaml:"shift,omitempty"`
	Imm      string `yaml:"imm,omitempty"`
	Add      bool   `yaml:"add,omitempty"`
}

func newRecord(word uint32, inst insts.Instruction, err error) instructionRecord {
	r := instructionRecord{Word: fmt.Sprintf("0x%08X", word)}
	if err != nil {
		var decodeErr *insts.DecodeError
		if errors.As(err, &decodeErr) {
			r.Error = decodeErr.Reason.String()
		} else {
			r.Error = err.Error()
		}
		return r
	}

	r.Op = inst.Op.String()
	r.Cond = inst.Cond.String()
	r.Format = inst.Format.String()
	r.SetFlags = inst.SetFlags
	r.Rd = inst.Rd.String()
	r.Rn = inst.Rn.String()
	r.Rm = inst.Rm.String()
	if inst.ShiftIsReg {
		r.Rs = inst.Rs.String()
		r.Shift = fmt.Sprintf("%v %v", inst.ShiftType, inst.Rs)
	} else if name, amount := inst.Shifter(); name == "RRX" {
		r.Shift = name
	} else if name != "" {
		r.Shift = fmt.Sprintf("%s #%d", name, amount)
	}
	r.Imm = fmt.Sprintf("0x%X", inst.Imm)
	r.Add = inst.Add

	return r
}

func decodeCommand(s *state) *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode instruction words",
		ArgsUsage: "[hex words...]",
		Description: "Decode 32-bit ARM-mode instruction words given as hexadecimal " +
			"arguments, or read from standard input when no argument is given.",
		Flags: []cli.Flag{formatFlag},
		Action: func(ctx *cli.Context) error {
			args := ctx.Args().Slice()
			if len(args) == 0 {
				scanner := bufio.NewScanner(ctx.App.Reader)
				scanner.Split(bufio.ScanWords)
				for scanner.Scan() {
					args = append(args, scanner.Text())
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read words: %w", err)
				}
			}

			words := make([]uint32, 0, len(args))
			for _, arg := range args {
				word, err := parseWord(arg)
				if err != nil {
					return err
				}
				words = append(words, word)
			}

			return s.decode(ctx, words)
		},
	}
}

func (s *state) decode(ctx *cli.Context, words []uint32) error {
	decoder := insts.NewDecoder()
	format := ctx.String(formatFlag.Name)
	if format != "text" && format != "yaml" {
		return fmt.Errorf("unknown format %q", format)
	}

	var records []instructionRecord
	p := newPrinter(ctx.App.Writer, s)
	failed := 0

	for _, word := range words {
		inst, err := decoder.Decode(word)
		if err != nil {
			failed++
			s.logger.WithFields(logrus.Fields{
				"word":  fmt.Sprintf("0x%08X", word),
				"error": err,
			}).Debug("undecodable word")
		}

		if format == "yaml" {
			records = append(records, newRecord(word, inst, err))
		} else {
			p.decoded(word, inst, err)
		}
	}

	if format == "yaml" {
		enc := yaml.NewEncoder(ctx.App.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d words could not be decoded", failed, len(words))
	}
	return nil
}
