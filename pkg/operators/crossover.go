package operators

import (
	"math/rand"

	"github.com/XiaoConstantine/evo-go/pkg/core"
)

// Crossovers write into freshly constructed daughter and son entities. Each
// chromosome is recombined independently with its own cut points.

// A chromosome shorter than two alleles has no interior cut point; the
// parents pass through unchanged.
func crossSinglePoint[T any](rng *rand.Rand, mother, father, daughter, son []T) {
	if len(mother) < 2 {
		copy(daughter, mother)
		copy(son, father)
		return
	}
	point := 1 + rng.Intn(len(mother)-1)
	copy(daughter[:point], mother[:point])
	copy(daughter[point:], father[point:])
	copy(son[:point], father[:point])
	copy(son[point:], mother[point:])
}

func crossDoublePoint[T any](rng *rand.Rand, mother, father, daughter, son []T) {
	if len(mother) < 2 {
		copy(daughter, mother)
		copy(son, father)
		return
	}
	a := 1 + rng.Intn(len(mother)-1)
	b := 1 + rng.Intn(len(mother)-1)
	if a > b {
		a, b = b, a
	}
	copy(daughter, mother)
	copy(son, father)
	copy(daughter[a:b], father[a:b])
	copy(son[a:b], mother[a:b])
}

func crossMixing[T any](rng *rand.Rand, mother, father, daughter, son []T) {
	for i := range mother {
		if rng.Intn(2) == 0 {
			daughter[i] = mother[i]
			son[i] = father[i]
		} else {
			daughter[i] = father[i]
			son[i] = mother[i]
		}
	}
}

func eachChromosome[T any](rng *rand.Rand, mother, father, daughter, son *core.Entity,
	cross func(*rand.Rand, []T, []T, []T, []T)) {
	for i := range mother.Chromosomes {
		cross(rng,
			mother.Chromosomes[i].([]T), father.Chromosomes[i].([]T),
			daughter.Chromosomes[i].([]T), son.Chromosomes[i].([]T))
	}
}

// CrossoverCharSinglepoint cuts each char chromosome at one random point and
// swaps the tails.
type CrossoverCharSinglepoint struct{}

func (CrossoverCharSinglepoint) Name() string { return "crossover_char_singlepoints" }

func (CrossoverCharSinglepoint) Crossover(pop *core.Population, mother, father, daughter, son *core.Entity) {
	eachChromosome[byte](pop.RNG(), mother, father, daughter, son, crossSinglePoint[byte])
}

// CrossoverCharDoublepoint swaps the segment between two random cut points.
type CrossoverCharDoublepoint struct{}

func (CrossoverCharDoublepoint) Name() string { return "crossover_char_doublepoints" }

func (CrossoverCharDoublepoint) Crossover(pop *core.Population, mother, father, daughter, son *core.Entity) {
	eachChromosome[byte](pop.RNG(), mother, father, daughter, son, crossDoublePoint[byte])
}

// CrossoverCharMixing draws each allele from either parent with equal
// probability, giving complementary children.
type CrossoverCharMixing struct{}

func (CrossoverCharMixing) Name() string { return "crossover_char_allele_mixing" }

func (CrossoverCharMixing) Crossover(pop *core.Population, mother, father, daughter, son *core.Entity) {
	eachChromosome[byte](pop.RNG(), mother, father, daughter, son, crossMixing[byte])
}

// CrossoverIntegerSinglepoint is single-point crossover for integer
// chromosomes.
type CrossoverIntegerSinglepoint struct{}

func (CrossoverIntegerSinglepoint) Name() string { return "crossover_integer_singlepoints" }

func (CrossoverIntegerSinglepoint) Crossover(pop *core.Population, mother, father, daughter, son *core.Entity) {
	eachChromosome[int32](pop.RNG(), mother, father, daughter, son, crossSinglePoint[int32])
}

// CrossoverIntegerDoublepoint is double-point crossover for integer
// chromosomes.
type CrossoverIntegerDoublepoint struct{}

func (CrossoverIntegerDoublepoint) Name() string { return "crossover_integer_doublepoints" }

func (CrossoverIntegerDoublepoint) Crossover(pop *core.Population, mother, father, daughter, son *core.Entity) {
	eachChromosome[int32](pop.RNG(), mother, father, daughter, son, crossDoublePoint[int32])
}

// CrossoverIntegerMixing is per-allele mixing for integer chromosomes.
type CrossoverIntegerMixing struct{}

func (CrossoverIntegerMixing) Name() string { return "crossover_integer_allele_mixing" }

func (CrossoverIntegerMixing) Crossover(pop *core.Population, mother, father, daughter, son *core.Entity) {
	eachChromosome[int32](pop.RNG(), mother, father, daughter, son, crossMixing[int32])
}

// CrossoverBooleanSinglepoint is single-point crossover for boolean
// chromosomes.
type CrossoverBooleanSinglepoint struct{}

func (CrossoverBooleanSinglepoint) Name() string { return "crossover_boolean_singlepoints" }

func (CrossoverBooleanSinglepoint) Crossover(pop *core.Population, mother, father, daughter, son *core.Entity) {
	eachChromosome[bool](pop.RNG(), mother, father, daughter, son, crossSinglePoint[bool])
}

// CrossoverDoubleMixing swaps whole chromosomes between parents at random,
// leaving allele runs intact.
type CrossoverDoubleMixing struct{}

func (CrossoverDoubleMixing) Name() string { return "crossover_double_mixing" }

func (CrossoverDoubleMixing) Crossover(pop *core.Population, mother, father, daughter, son *core.Entity) {
	rng := pop.RNG()
	for i := range mother.Chromosomes {
		m := mother.Chromosomes[i].([]float64)
		f := father.Chromosomes[i].([]float64)
		d := daughter.Chromosomes[i].([]float64)
		s := son.Chromosomes[i].([]float64)
		if rng.Intn(2) == 0 {
			copy(d, m)
			copy(s, f)
		} else {
			copy(d, f)
			copy(s, m)
		}
	}
}

// CrossoverDoubleAlleleMixing is per-allele mixing for double chromosomes.
type CrossoverDoubleAlleleMixing struct{}

func (CrossoverDoubleAlleleMixing) Name() string { return "crossover_double_allele_mixing" }

func (CrossoverDoubleAlleleMixing) Crossover(pop *core.Population, mother, father, daughter, son *core.Entity) {
	eachChromosome[float64](pop.RNG(), mother, father, daughter, son, crossMixing[float64])
}

// CrossoverBitstringSinglepoint cuts each packed bit chromosome at one
// random bit position and swaps the tails.
type CrossoverBitstringSinglepoint struct{}

func (CrossoverBitstringSinglepoint) Name() string { return "crossover_bitstring_singlepoints" }

func (CrossoverBitstringSinglepoint) Crossover(pop *core.Population, mother, father, daughter, son *core.Entity) {
	rng := pop.RNG()
	n := pop.LenChromosomes()
	for i := range mother.Chromosomes {
		m := mother.Chromosomes[i].([]byte)
		f := father.Chromosomes[i].([]byte)
		d := daughter.Chromosomes[i].([]byte)
		s := son.Chromosomes[i].([]byte)
		if n < 2 {
			copy(d, m)
			copy(s, f)
			continue
		}
		point := 1 + rng.Intn(n-1)
		for j := 0; j < n; j++ {
			if j < point {
				BitstringSet(d, j, BitstringGet(m, j))
				BitstringSet(s, j, BitstringGet(f, j))
			} else {
				BitstringSet(d, j, BitstringGet(f, j))
				BitstringSet(s, j, BitstringGet(m, j))
			}
		}
	}
}
