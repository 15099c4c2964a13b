package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/capcom6/pdf-mover/internal/mover"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

const envPrefix = "PDFMOVER_"

const ArgsUsage = "<source_folder> <destination_folder>"

type Config struct {
	SourceDir      string
	DestinationDir string
	Excludes       []string

	MaxAttempts  int
	RetryDelay   time.Duration
	Workers      int
	PollInterval time.Duration

	Debug bool
}

// Flags declares the tuning options. Each of them can also be set through
// a PDFMOVER_* environment variable.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "enable debug logging",
			Sources: cli.EnvVars(envPrefix + "DEBUG"),
		},
		&cli.IntFlag{
			Name:    "max-attempts",
			Usage:   "number of move attempts while the file is locked",
			Value:   mover.DefaultMaxAttempts,
			Sources: cli.EnvVars(envPrefix + "MAX_ATTEMPTS"),
		},
		&cli.DurationFlag{
			Name:    "retry-delay",
			Usage:   "pause between two move attempts",
			Value:   mover.DefaultDelay,
			Sources: cli.EnvVars(envPrefix + "RETRY_DELAY"),
		},
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "number of files moved concurrently",
			Value:   1,
			Sources: cli.EnvVars(envPrefix + "WORKERS"),
		},
		&cli.DurationFlag{
			Name:    "poll-interval",
			Usage:   "scan the folder at this interval instead of using change notifications",
			Sources: cli.EnvVars(envPrefix + "POLL_INTERVAL"),
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Usage:   "glob of file names to leave in place",
			Sources: cli.EnvVars(envPrefix + "EXCLUDE"),
		},
	}
}

// Load builds the configuration from a parsed command. The argument count
// is checked before anything on disk is looked at.
func Load(cmd *cli.Command) (Config, error) {
	args := cmd.Args()
	if args.Len() != 2 {
		return Config{}, fmt.Errorf("%w: expected %s, got %d", ErrUsage, ArgsUsage, args.Len())
	}

	excludes := lo.Uniq(cmd.StringSlice("exclude"))

	cfg := Config{
		SourceDir:      args.Get(0),
		DestinationDir: args.Get(1),
		Excludes:       excludes,

		MaxAttempts:  int(cmd.Int("max-attempts")),
		RetryDelay:   cmd.Duration("retry-delay"),
		Workers:      int(cmd.Int("workers")),
		PollInterval: cmd.Duration("poll-interval"),

		Debug: cmd.Bool("debug"),
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if err := checkDir("source", c.SourceDir); err != nil {
		return err
	}

	if err := checkDir("destination", c.DestinationDir); err != nil {
		return err
	}

	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max-attempts must be at least 1", ErrValidationFailed)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry-delay must not be negative", ErrValidationFailed)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrValidationFailed)
	}

	if c.PollInterval < 0 {
		return fmt.Errorf("%w: poll-interval must not be negative", ErrValidationFailed)
	}

	for _, pattern := range c.Excludes {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: bad exclude pattern %q", ErrValidationFailed, pattern)
		}
	}

	return nil
}

// MoverConfig is the retry policy described by c.
func (c Config) MoverConfig() mover.Config {
	cfg := mover.DefaultConfig()
	cfg.MaxAttempts = c.MaxAttempts
	cfg.Delay = c.RetryDelay

	return cfg
}

func checkDir(role, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s %w: %s", role, ErrPathNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("can't check %s folder %s: %w", role, path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s %w: %s", role, ErrNotDirectory, path)
	}

	return nil
}
