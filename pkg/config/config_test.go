package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/evo-go/pkg/core"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := DefaultRunConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 1.0, cfg.CrossoverRatio)
	assert.Equal(t, "darwin", cfg.Scheme)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
stable_size: 120
num_chromosomes: 1
len_chromosomes: 259
crossover_ratio: 0.8
mutation_ratio: 0.05
scheme: lamarck-children
elitism: parents-survive
max_generations: 500
islands: 4
random_seed: 42
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.StableSize)
	assert.Equal(t, 259, cfg.LenChromosomes)
	assert.Equal(t, 0.8, cfg.CrossoverRatio)
	assert.Equal(t, 0.05, cfg.MutationRatio)
	assert.Equal(t, "lamarck-children", cfg.Scheme)
	assert.Equal(t, 4, cfg.Islands)
	assert.Equal(t, int64(42), cfg.RandomSeed)
	assert.Equal(t, 1.0, cfg.MigrationRatio, "unset fields keep defaults")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "stable_size: [not an int")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidationFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"stable size too small", func(c *RunConfig) { c.StableSize = 1 }},
		{"missing chromosomes", func(c *RunConfig) { c.NumChromosomes = 0 }},
		{"ratio above one", func(c *RunConfig) { c.MutationRatio = 1.5 }},
		{"negative ratio", func(c *RunConfig) { c.CrossoverRatio = -0.1 }},
		{"unknown scheme", func(c *RunConfig) { c.Scheme = "creationism" }},
		{"unknown elitism", func(c *RunConfig) { c.Elitism = "nepotism" }},
		{"no generations", func(c *RunConfig) { c.MaxGenerations = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRunConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewPopulationBindsParameters(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.StableSize = 30
	cfg.LenChromosomes = 12
	cfg.CrossoverRatio = 0.7
	cfg.Scheme = core.SchemeBaldwinAll.String()
	cfg.Elitism = core.ElitismRescoreParents.String()
	cfg.RandomSeed = 99

	pop := cfg.NewPopulation()
	t.Cleanup(func() {
		core.DefaultRegistry.Transcend(pop.ID())
	})

	assert.Equal(t, 30, pop.StableSize())
	assert.Equal(t, 12, pop.LenChromosomes())
	assert.Equal(t, 0.7, pop.CrossoverRatio)
	assert.Equal(t, core.SchemeBaldwinAll, pop.Scheme)
	assert.Equal(t, core.ElitismRescoreParents, pop.Elitism)
}

func TestApplySeedsDeterministically(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.RandomSeed = 7

	a := core.NewPopulation(cfg.StableSize, cfg.NumChromosomes, cfg.LenChromosomes)
	b := core.NewPopulation(cfg.StableSize, cfg.NumChromosomes, cfg.LenChromosomes)
	t.Cleanup(func() {
		core.DefaultRegistry.Transcend(a.ID())
		core.DefaultRegistry.Transcend(b.ID())
	})

	cfg.Apply(a)
	cfg.Apply(b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.RNG().Int63(), b.RNG().Int63())
	}
}
