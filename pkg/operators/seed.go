package operators

import (
	"github.com/XiaoConstantine/evo-go/pkg/core"
)

// SeedCharRandom fills char chromosomes with uniformly random bytes.
type SeedCharRandom struct{}

func (SeedCharRandom) Name() string { return "seed_char_random" }

func (SeedCharRandom) Seed(pop *core.Population, e *core.Entity) bool {
	rng := pop.RNG()
	for _, c := range e.Chromosomes {
		alleles := c.([]byte)
		for i := range alleles {
			alleles[i] = byte(rng.Intn(256))
		}
	}
	return true
}

// SeedPrintableRandom fills char chromosomes with random printable ASCII,
// space through tilde.
type SeedPrintableRandom struct{}

func (SeedPrintableRandom) Name() string { return "seed_printable_random" }

func (SeedPrintableRandom) Seed(pop *core.Population, e *core.Entity) bool {
	rng := pop.RNG()
	for _, c := range e.Chromosomes {
		alleles := c.([]byte)
		for i := range alleles {
			alleles[i] = byte(' ' + rng.Intn('~'-' '+1))
		}
	}
	return true
}

// SeedIntegerRandom fills integer chromosomes with random non-negative
// values.
type SeedIntegerRandom struct{}

func (SeedIntegerRandom) Name() string { return "seed_integer_random" }

func (SeedIntegerRandom) Seed(pop *core.Population, e *core.Entity) bool {
	rng := pop.RNG()
	for _, c := range e.Chromosomes {
		alleles := c.([]int32)
		for i := range alleles {
			alleles[i] = rng.Int31()
		}
	}
	return true
}

// SeedIntegerZero fills integer chromosomes with zeroes.
type SeedIntegerZero struct{}

func (SeedIntegerZero) Name() string { return "seed_integer_zero" }

func (SeedIntegerZero) Seed(pop *core.Population, e *core.Entity) bool {
	for _, c := range e.Chromosomes {
		alleles := c.([]int32)
		for i := range alleles {
			alleles[i] = 0
		}
	}
	return true
}

// SeedBooleanRandom fills boolean chromosomes with fair coin flips.
type SeedBooleanRandom struct{}

func (SeedBooleanRandom) Name() string { return "seed_boolean_random" }

func (SeedBooleanRandom) Seed(pop *core.Population, e *core.Entity) bool {
	rng := pop.RNG()
	for _, c := range e.Chromosomes {
		alleles := c.([]bool)
		for i := range alleles {
			alleles[i] = rng.Intn(2) == 1
		}
	}
	return true
}

// SeedDoubleRandom fills double chromosomes with uniform values in [0, 1).
type SeedDoubleRandom struct{}

func (SeedDoubleRandom) Name() string { return "seed_double_random" }

func (SeedDoubleRandom) Seed(pop *core.Population, e *core.Entity) bool {
	rng := pop.RNG()
	for _, c := range e.Chromosomes {
		alleles := c.([]float64)
		for i := range alleles {
			alleles[i] = rng.Float64()
		}
	}
	return true
}

// SeedDoubleZero fills double chromosomes with zeroes.
type SeedDoubleZero struct{}

func (SeedDoubleZero) Name() string { return "seed_double_zero" }

func (SeedDoubleZero) Seed(pop *core.Population, e *core.Entity) bool {
	for _, c := range e.Chromosomes {
		alleles := c.([]float64)
		for i := range alleles {
			alleles[i] = 0
		}
	}
	return true
}

// SeedBitstringRandom fills packed bit chromosomes with random bits.
type SeedBitstringRandom struct{}

func (SeedBitstringRandom) Name() string { return "seed_bitstring_random" }

func (SeedBitstringRandom) Seed(pop *core.Population, e *core.Entity) bool {
	rng := pop.RNG()
	for _, c := range e.Chromosomes {
		bits := c.([]byte)
		for i := 0; i < pop.LenChromosomes(); i++ {
			BitstringSet(bits, i, rng.Intn(2) == 1)
		}
	}
	return true
}
