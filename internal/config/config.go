// Package config builds choosers from command-line flags and environment variables.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/antithesishq/pforeign-go/machine"
	"github.com/antithesishq/pforeign-go/random"
	"github.com/antithesishq/pforeign-go/trace"
)

// Environment variables, each overriding the matching flag.
const (
	EnvSeed        = random.SeedEnvVar
	EnvTraceOutput = "PFOREIGN_TRACE_OUTPUT"
	EnvReplay      = "PFOREIGN_REPLAY"
	EnvMaxChoices  = "PFOREIGN_MAX_CHOICES"
)

// Config holds chooser configuration.
type Config struct {
	// Seed seeds the random strategy when SeedSet is true.
	Seed    uint64
	SeedSet bool

	// TracePath receives every choice as a JSON line.
	TracePath string

	// ReplayPath names a trace to replay instead of choosing randomly.
	ReplayPath string

	// MaxChoices bounds the number of choices per machine; zero means no limit.
	MaxChoices int
}

// RegisterFlags binds cfg to flags on fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Func("seed", "seed for random choices (env: "+EnvSeed+")", func(s string) error {
		seed, err := random.ParseSeed(s)
		if err != nil {
			return err
		}
		c.Seed, c.SeedSet = seed, true
		return nil
	})
	fs.StringVar(&c.TracePath, "trace", "", "file to write the choice trace to (env: "+EnvTraceOutput+")")
	fs.StringVar(&c.ReplayPath, "replay", "", "choice trace to replay (env: "+EnvReplay+")")
	fs.IntVar(&c.MaxChoices, "max-choices", 0, "maximum choices per machine, 0 for no limit (env: "+EnvMaxChoices+")")
}

// Load parses args into a Config and applies environment overrides.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("pforeign", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides replaces fields with the environment settings. A set
// but unparsable value is an error rather than a silent fallback.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := random.ParseSeed(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSeed, v, err)
		}
		c.Seed, c.SeedSet = seed, true
	}

	if v := os.Getenv(EnvTraceOutput); v != "" {
		c.TracePath = v
	}

	if v := os.Getenv(EnvReplay); v != "" {
		c.ReplayPath = v
	}

	if v := os.Getenv(EnvMaxChoices); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil && i < 0 {
			err = fmt.Errorf("must not be negative")
		}
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvMaxChoices, v, err)
		}
		c.MaxChoices = i
	}
	return nil
}

// Session owns the resources shared by the choosers of one run.
type Session struct {
	cfg    *Config
	logger *zap.Logger
	gen    random.Generator
	writer *trace.Writer

	// replaying is set whenever a replay trace is configured, even an
	// empty one.
	replaying bool
	replay    []machine.Choice
}

// Open prepares a Session: it loads the replay trace and creates the output
// trace, if configured.
func (c *Config) Open(logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{cfg: c, logger: logger}

	switch {
	case c.ReplayPath != "":
		choices, err := trace.Load(c.ReplayPath)
		if err != nil {
			return nil, fmt.Errorf("loading replay: %w", err)
		}
		s.replay = choices
		s.replaying = true
		logger.Info("replaying trace", zap.String("path", c.ReplayPath), zap.Int("choices", len(choices)))
	case c.SeedSet:
		s.gen = random.NewSeeded(c.Seed)
		logger.Info("seeded random choices", zap.Uint64("seed", c.Seed))
	}

	if c.TracePath != "" {
		w, err := trace.Create(c.TracePath)
		if err != nil {
			return nil, err
		}
		s.writer = w
	}
	return s, nil
}

// NewChooser returns a chooser for the machine called name. When replaying,
// it replays that machine's recorded choices.
func (s *Session) NewChooser(name string) *machine.Chooser {
	strategy := machine.RandomStrategy(s.gen)
	if s.replaying {
		strategy = machine.ReplayStrategy(trace.ForMachine(s.replay, name))
	}
	opts := []machine.Option{
		machine.WithStrategy(strategy),
		machine.WithLogger(s.logger),
		machine.WithMaxChoices(s.cfg.MaxChoices),
	}
	if s.writer != nil {
		opts = append(opts, machine.WithRecorder(s.writer))
	}
	return machine.New(name, opts...)
}

// Close flushes and closes the output trace.
func (s *Session) Close() error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Close()
}
