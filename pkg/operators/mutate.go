package operators

import (
	"github.com/XiaoConstantine/evo-go/pkg/core"
)

// multiPointChance is the per-allele mutation probability used by the
// multipoint mutators.
const multiPointChance = 0.02

// Every mutator copies the parent's genes and phenome into the freshly
// allocated child first, then perturbs the child in place. Fitness is left
// unset for the engine to score.

// MutateCharDrift shifts one random char allele up or down by one, wrapping
// around the byte range.
type MutateCharDrift struct{}

func (MutateCharDrift) Name() string { return "mutate_char_singlepoint_drift" }

func (MutateCharDrift) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	alleles := child.Chromosomes[rng.Intn(pop.NumChromosomes())].([]byte)
	i := rng.Intn(len(alleles))
	if rng.Intn(2) == 0 {
		alleles[i]++
	} else {
		alleles[i]--
	}
}

// MutateCharRandomize replaces one random char allele with a random byte.
type MutateCharRandomize struct{}

func (MutateCharRandomize) Name() string { return "mutate_char_singlepoint_randomize" }

func (MutateCharRandomize) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	alleles := child.Chromosomes[rng.Intn(pop.NumChromosomes())].([]byte)
	alleles[rng.Intn(len(alleles))] = byte(rng.Intn(256))
}

// MutateCharMultipoint drifts each char allele independently with small
// probability.
type MutateCharMultipoint struct{}

func (MutateCharMultipoint) Name() string { return "mutate_char_multipoint" }

func (MutateCharMultipoint) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	for _, c := range child.Chromosomes {
		alleles := c.([]byte)
		for i := range alleles {
			if rng.Float64() < multiPointChance {
				if rng.Intn(2) == 0 {
					alleles[i]++
				} else {
					alleles[i]--
				}
			}
		}
	}
}

// printableDrift shifts a printable byte by one step, wrapping within the
// space-to-tilde range.
func printableDrift(b byte, up bool) byte {
	if up {
		if b >= '~' {
			return ' '
		}
		return b + 1
	}
	if b <= ' ' {
		return '~'
	}
	return b - 1
}

// MutatePrintableDrift shifts one random allele by one step while staying in
// printable ASCII.
type MutatePrintableDrift struct{}

func (MutatePrintableDrift) Name() string { return "mutate_printable_singlepoint_drift" }

func (MutatePrintableDrift) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	alleles := child.Chromosomes[rng.Intn(pop.NumChromosomes())].([]byte)
	i := rng.Intn(len(alleles))
	alleles[i] = printableDrift(alleles[i], rng.Intn(2) == 0)
}

// MutatePrintableRandomize replaces one random allele with a random printable
// character.
type MutatePrintableRandomize struct{}

func (MutatePrintableRandomize) Name() string { return "mutate_printable_singlepoint_randomize" }

func (MutatePrintableRandomize) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	alleles := child.Chromosomes[rng.Intn(pop.NumChromosomes())].([]byte)
	alleles[rng.Intn(len(alleles))] = byte(' ' + rng.Intn('~'-' '+1))
}

// MutateIntegerDrift shifts one random integer allele up or down by one.
type MutateIntegerDrift struct{}

func (MutateIntegerDrift) Name() string { return "mutate_integer_singlepoint_drift" }

func (MutateIntegerDrift) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	alleles := child.Chromosomes[rng.Intn(pop.NumChromosomes())].([]int32)
	i := rng.Intn(len(alleles))
	if rng.Intn(2) == 0 {
		alleles[i]++
	} else {
		alleles[i]--
	}
}

// MutateIntegerRandomize replaces one random integer allele with a random
// non-negative value.
type MutateIntegerRandomize struct{}

func (MutateIntegerRandomize) Name() string { return "mutate_integer_singlepoint_randomize" }

func (MutateIntegerRandomize) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	alleles := child.Chromosomes[rng.Intn(pop.NumChromosomes())].([]int32)
	alleles[rng.Intn(len(alleles))] = rng.Int31()
}

// MutateIntegerMultipoint drifts each integer allele independently with small
// probability.
type MutateIntegerMultipoint struct{}

func (MutateIntegerMultipoint) Name() string { return "mutate_integer_multipoint" }

func (MutateIntegerMultipoint) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	for _, c := range child.Chromosomes {
		alleles := c.([]int32)
		for i := range alleles {
			if rng.Float64() < multiPointChance {
				if rng.Intn(2) == 0 {
					alleles[i]++
				} else {
					alleles[i]--
				}
			}
		}
	}
}

// MutateBooleanSinglepoint flips one random boolean allele.
type MutateBooleanSinglepoint struct{}

func (MutateBooleanSinglepoint) Name() string { return "mutate_boolean_singlepoint" }

func (MutateBooleanSinglepoint) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	alleles := child.Chromosomes[rng.Intn(pop.NumChromosomes())].([]bool)
	i := rng.Intn(len(alleles))
	alleles[i] = !alleles[i]
}

// MutateBooleanMultipoint flips each boolean allele independently with small
// probability.
type MutateBooleanMultipoint struct{}

func (MutateBooleanMultipoint) Name() string { return "mutate_boolean_multipoint" }

func (MutateBooleanMultipoint) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	for _, c := range child.Chromosomes {
		alleles := c.([]bool)
		for i := range alleles {
			if rng.Float64() < multiPointChance {
				alleles[i] = !alleles[i]
			}
		}
	}
}

// MutateDoubleDrift perturbs one random double allele by a unit gaussian
// step.
type MutateDoubleDrift struct{}

func (MutateDoubleDrift) Name() string { return "mutate_double_singlepoint_drift" }

func (MutateDoubleDrift) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	alleles := child.Chromosomes[rng.Intn(pop.NumChromosomes())].([]float64)
	alleles[rng.Intn(len(alleles))] += rng.NormFloat64()
}

// MutateDoubleRandomize replaces one random double allele with a uniform
// value in [0, 1).
type MutateDoubleRandomize struct{}

func (MutateDoubleRandomize) Name() string { return "mutate_double_singlepoint_randomize" }

func (MutateDoubleRandomize) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	alleles := child.Chromosomes[rng.Intn(pop.NumChromosomes())].([]float64)
	alleles[rng.Intn(len(alleles))] = rng.Float64()
}

// MutateBitstringSinglepoint flips one random bit.
type MutateBitstringSinglepoint struct{}

func (MutateBitstringSinglepoint) Name() string { return "mutate_bitstring_singlepoint" }

func (MutateBitstringSinglepoint) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	bits := child.Chromosomes[rng.Intn(pop.NumChromosomes())].([]byte)
	i := rng.Intn(pop.LenChromosomes())
	BitstringSet(bits, i, !BitstringGet(bits, i))
}

// MutateBitstringMultipoint flips each bit independently with small
// probability.
type MutateBitstringMultipoint struct{}

func (MutateBitstringMultipoint) Name() string { return "mutate_bitstring_multipoint" }

func (MutateBitstringMultipoint) Mutate(pop *core.Population, parent, child *core.Entity) {
	pop.CopyAllChromosomes(child, parent)
	rng := pop.RNG()
	for _, c := range child.Chromosomes {
		bits := c.([]byte)
		for i := 0; i < pop.LenChromosomes(); i++ {
			if rng.Float64() < multiPointChance {
				BitstringSet(bits, i, !BitstringGet(bits, i))
			}
		}
	}
}
