package main

import (
	"fmt"
	"io"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/sarchlab/darm/config"
)

// state is shared by the commands of one run.
type state struct {
	cfg      *config.Config
	logger   *logrus.Logger
	profiler interface{ Stop() }
}

var (
	configFlag = &cli.PathFlag{
		Name:      "config",
		Aliases:   []string{"c"},
		Usage:     "Path to a YAML configuration file",
		TakesFile: true,
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (trace, debug, info, warn, error)",
	}
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Number of goroutines decoding a listing",
	}
	cpuProfileFlag = &cli.PathFlag{
		Name:  "cpuprofile",
		Usage: "Write a CPU profile to the given directory",
	}
)

func newApp(stdout, stderr io.Writer) *cli.App {
	s := &state{}

	return &cli.App{
		Name:      "darm",
		Usage:     "ARMv7 instruction decoder",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			configFlag,
			logLevelFlag,
			noColorFlag,
			workersFlag,
			cpuProfileFlag,
		},
		Commands: []*cli.Command{
			decodeCommand(s),
			dumpCommand(s),
			condCommand(),
		},
		Before: func(ctx *cli.Context) error {
			return s.setup(ctx, stderr)
		},
		After: func(*cli.Context) error {
			if s.profiler != nil {
				s.profiler.Stop()
				s.profiler = nil
			}
			return nil
		},
	}
}

// setup resolves the configuration from defaults, the config file, DARM_*
// variables and global flags, in that order.
func (s *state) setup(ctx *cli.Context, stderr io.Writer) error {
	cfg := config.Default()
	if path := ctx.Path(configFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(nil); err != nil {
		return err
	}

	if ctx.IsSet(logLevelFlag.Name) {
		cfg.LogLevel = ctx.String(logLevelFlag.Name)
	}
	if ctx.Bool(noColorFlag.Name) {
		cfg.Color = false
	}
	if ctx.IsSet(workersFlag.Name) {
		cfg.Workers = ctx.Int(workersFlag.Name)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	s.cfg = cfg

	s.logger = logrus.New()
	s.logger.SetOutput(stderr)
	s.logger.SetFormatter(&logrus.TextFormatter{DisableColors: !cfg.Color})
	s.logger.SetLevel(cfg.Level())

	if dir := ctx.Path(cpuProfileFlag.Name); dir != "" {
		s.profiler = profile.Start(
			profile.CPUProfile,
			profile.ProfilePath(dir),
			profile.NoShutdownHook,
			profile.Quiet,
		)
		s.logger.WithField("dir", dir).Debug("CPU profiling enabled")
	}

	return nil
}
