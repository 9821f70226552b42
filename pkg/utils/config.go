package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/pagerank"
)

// EnvPrefix namespaces solver settings read from the environment,
// e.g. PAGERANK_DAMPING or PAGERANK_MAX_ITERATIONS.
const EnvPrefix = "PAGERANK"

const (
	PolicyDual   = "dual"
	PolicySingle = "single"
)

var (
	ErrUnknownPolicy    = errors.New("config: unknown policy")
	ErrInvalidThreshold = errors.New("config: threshold must be positive")
	ErrInvalidTop       = errors.New("config: top must not be negative")
)

// Config is the solver configuration as read from file and environment.
type Config struct {
	Damping         float64       `mapstructure:"damping"`
	MaxIterations   int           `mapstructure:"max_iterations"`
	Policy          string        `mapstructure:"policy"`
	CoarseThreshold float64       `mapstructure:"coarse_threshold"`
	FineTolerance   float64       `mapstructure:"fine_tolerance"`
	Workers         int           `mapstructure:"workers"`
	Budget          time.Duration `mapstructure:"budget"`
	Top             int           `mapstructure:"top"` // entries printed or returned, 0: all
}

func DefaultConfiguration() Config {
	return Config{
		Damping:         pagerank.DefaultDamping,
		MaxIterations:   pagerank.DefaultMaxIterations,
		Policy:          PolicyDual,
		CoarseThreshold: pagerank.DefaultCoarseThreshold,
		FineTolerance:   pagerank.DefaultFineTolerance,
		Workers:         1,
		Top:             5,
	}
}

// LoadConfiguration reads the configuration file at path (json, yaml or toml,
// by extension) on top of the defaults. Environment variables prefixed with
// EnvPrefix override both. An empty path skips the file.
func LoadConfiguration(path string) (Config, error) {
	v := viper.New()
	defaults := DefaultConfiguration()
	v.SetDefault("damping", defaults.Damping)
	v.SetDefault("max_iterations", defaults.MaxIterations)
	v.SetDefault("policy", defaults.Policy)
	v.SetDefault("coarse_threshold", defaults.CoarseThreshold)
	v.SetDefault("fine_tolerance", defaults.FineTolerance)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("budget", defaults.Budget)
	v.SetDefault("top", defaults.Top)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read configuration %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("could not decode configuration: %w", err)
	}
	config.Policy = strings.ToLower(config.Policy)
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the fields pagerank.NewSolver does not own.
func (c Config) Validate() error {
	var err error
	if c.Policy != PolicyDual && c.Policy != PolicySingle {
		err = multierror.Append(err, fmt.Errorf("%w: %q", ErrUnknownPolicy, c.Policy))
	}
	if !(c.CoarseThreshold > 0) {
		err = multierror.Append(err, fmt.Errorf("%w: coarse_threshold %v", ErrInvalidThreshold, c.CoarseThreshold))
	}
	if !(c.FineTolerance > 0) {
		err = multierror.Append(err, fmt.Errorf("%w: fine_tolerance %v", ErrInvalidThreshold, c.FineTolerance))
	}
	if c.Top < 0 {
		err = multierror.Append(err, fmt.Errorf("%w: %d", ErrInvalidTop, c.Top))
	}
	return err
}

// Solver converts the configuration into solver parameters. Damping and
// iteration bounds are validated by pagerank.NewSolver.
func (c Config) Solver() pagerank.Config {
	coarse := pagerank.RelativeChange{Threshold: c.CoarseThreshold}
	fine := pagerank.L1Tolerance{PerNode: c.FineTolerance}

	config := pagerank.Config{
		Damping:       c.Damping,
		MaxIterations: c.MaxIterations,
		Workers:       c.Workers,
		Budget:        c.Budget,
	}
	if c.Policy == PolicySingle {
		config.Stop = coarse
	} else {
		config.Stop = fine
		config.Watch = coarse
	}
	return config
}
