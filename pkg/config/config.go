// Package config loads and validates evolutionary run configuration from
// YAML documents.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/errors"
)

// RunConfig describes one evolutionary run: the population's structural
// parameters, the operator ratios and policies, and where to archive
// results. Operator and codec bindings are code, not configuration; they are
// attached to the population separately.
type RunConfig struct {
	// StableSize is the population size held between generations.
	StableSize int `yaml:"stable_size" validate:"required,min=2"`

	// NumChromosomes and LenChromosomes fix the genome dimensions.
	NumChromosomes int `yaml:"num_chromosomes" validate:"required,min=1"`
	LenChromosomes int `yaml:"len_chromosomes" validate:"required,min=1"`

	CrossoverRatio float64 `yaml:"crossover_ratio" validate:"min=0,max=1"`
	MutationRatio  float64 `yaml:"mutation_ratio" validate:"min=0,max=1"`
	MigrationRatio float64 `yaml:"migration_ratio" validate:"min=0,max=1"`

	Scheme  string `yaml:"scheme,omitempty" validate:"omitempty,oneof=darwin lamarck-children lamarck-all baldwin-children baldwin-all"`
	Elitism string `yaml:"elitism,omitempty" validate:"omitempty,oneof=parents-survive one-parent-survives parents-die rescore-parents"`

	// MaxGenerations caps the run; the generation hook can stop earlier.
	MaxGenerations int `yaml:"max_generations" validate:"required,min=1"`

	// Islands is the number of archipelago populations; 1 means a plain
	// generational run.
	Islands int `yaml:"islands,omitempty" validate:"omitempty,min=1,max=1024"`

	// RandomSeed gives deterministic runs when non-zero.
	RandomSeed int64 `yaml:"random_seed,omitempty"`

	// ArchivePath is the SQLite file recording per-generation statistics.
	// Empty disables archiving.
	ArchivePath string `yaml:"archive_path,omitempty"`
}

// DefaultRunConfig mirrors the genesis defaults: every operator fires every
// generation, Darwinian, no explicit elitism choice.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		StableSize:     100,
		NumChromosomes: 1,
		LenChromosomes: 16,
		CrossoverRatio: 1.0,
		MutationRatio:  1.0,
		MigrationRatio: 1.0,
		Scheme:         core.SchemeDarwin.String(),
		MaxGenerations: 100,
		Islands:        1,
	}
}

// Load reads and validates a RunConfig from a YAML file. Fields absent from
// the document keep the defaults.
func Load(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, errors.ResourceNotFound, "reading run configuration")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, errors.InvalidInput, "parsing run configuration")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the struct-tag constraints.
func (cfg RunConfig) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "run configuration is invalid"),
				errors.Fields{"field": first.Field(), "constraint": first.Tag()})
		}
		return errors.Wrap(err, errors.ValidationFailed, "run configuration is invalid")
	}
	return nil
}

// NewPopulation creates a population from the configuration: dimensions,
// ratios, scheme, elitism and the random seed. Callbacks still need binding.
func (cfg RunConfig) NewPopulation() *core.Population {
	pop := core.NewPopulation(cfg.StableSize, cfg.NumChromosomes, cfg.LenChromosomes)
	cfg.Apply(pop)
	return pop
}

// Apply binds the configured parameters onto an existing population.
func (cfg RunConfig) Apply(pop *core.Population) {
	pop.SetParameters(core.ParseScheme(cfg.Scheme), core.ParseElitism(cfg.Elitism),
		cfg.CrossoverRatio, cfg.MutationRatio, cfg.MigrationRatio)
	if cfg.RandomSeed != 0 {
		pop.SeedRNG(cfg.RandomSeed)
	}
}
