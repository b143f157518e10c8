package snapshot

import (
	"bufio"
	"context"
	"os"

	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/errors"
	"github.com/XiaoConstantine/evo-go/pkg/logging"
	"github.com/XiaoConstantine/evo-go/pkg/operators"
)

// callbackTable maps a population's bindings to the 18-slot id table.
// Function-typed hooks have no registry presence: non-nil hooks serialize as
// the custom sentinel.
func callbackTable(pop *core.Population) [numSlots]int32 {
	var table [numSlots]int32

	funcSlot := func(bound bool) int32 {
		if bound {
			return operators.CustomID
		}
		return operators.UnboundID
	}
	table[slotGenerationHook] = funcSlot(pop.GenerationHook != nil)
	table[slotIterationHook] = funcSlot(pop.IterationHook != nil)
	table[slotDataDestructor] = funcSlot(pop.DataDestructor != nil)
	table[slotDataRefIncrementor] = funcSlot(pop.DataRefIncrementor != nil)

	codecID := operators.LookupID(pop.Codec)
	for slot := slotCodecConstruct; slot <= slotCodecToString; slot++ {
		table[slot] = codecID
	}

	table[slotEvaluate] = operators.LookupID(pop.Evaluator)
	table[slotSeed] = operators.LookupID(pop.Seeder)
	table[slotAdapt] = operators.LookupID(pop.Adapter)
	table[slotSelectOne] = operators.LookupID(pop.SelectOne)
	table[slotSelectTwo] = operators.LookupID(pop.SelectTwo)
	table[slotMutate] = operators.LookupID(pop.Mutator)
	table[slotCrossover] = operators.LookupID(pop.Crossover)
	table[slotReplace] = operators.LookupID(pop.Replacer)
	return table
}

// bindSlot resolves one id back to a built-in instance. Custom sentinels and
// ids this build does not know are reported so the caller can warn; the slot
// stays unbound.
func bindSlot(ctx context.Context, pop *core.Population, slot int, id int32) {
	logger := logging.GetLogger()

	switch slot {
	case slotGenerationHook, slotIterationHook, slotDataDestructor, slotDataRefIncrementor:
		if id != operators.UnboundID {
			logger.Warn(ctx, "population %d: hook slot %d was bound to user code; rebind it before evolving",
				pop.ID(), slot)
		}
		return
	case slotCodecDestruct, slotCodecReplicate, slotCodecToBytes, slotCodecFromBytes, slotCodecToString:
		// Covered by the construct slot; all six carry the codec id.
		return
	}

	if id == operators.UnboundID {
		return
	}

	s, ok := operators.Instantiate(id)
	if !ok {
		logger.Warn(ctx, "population %d: slot %d carries unresolvable callback id %d; rebind it before evolving",
			pop.ID(), slot, id)
		return
	}

	bound := true
	switch slot {
	case slotCodecConstruct:
		if codec, isCodec := s.(core.ChromosomeCodec); isCodec {
			pop.Codec = codec
		} else {
			bound = false
		}
	case slotEvaluate:
		if v, isRole := s.(core.Evaluator); isRole {
			pop.Evaluator = v
		} else {
			bound = false
		}
	case slotSeed:
		if v, isRole := s.(core.Seeder); isRole {
			pop.Seeder = v
		} else {
			bound = false
		}
	case slotAdapt:
		if v, isRole := s.(core.Adapter); isRole {
			pop.Adapter = v
		} else {
			bound = false
		}
	case slotSelectOne:
		if v, isRole := s.(core.SelectorOne); isRole {
			pop.SelectOne = v
		} else {
			bound = false
		}
	case slotSelectTwo:
		if v, isRole := s.(core.SelectorTwo); isRole {
			pop.SelectTwo = v
		} else {
			bound = false
		}
	case slotMutate:
		if v, isRole := s.(core.Mutator); isRole {
			pop.Mutator = v
		} else {
			bound = false
		}
	case slotCrossover:
		if v, isRole := s.(core.CrossoverOp); isRole {
			pop.Crossover = v
		} else {
			bound = false
		}
	case slotReplace:
		if v, isRole := s.(core.Replacer); isRole {
			pop.Replacer = v
		} else {
			bound = false
		}
	}
	if !bound {
		logger.Warn(ctx, "population %d: callback id %d does not fit slot %d; rebind it before evolving",
			pop.ID(), id, slot)
	}
}

// WritePopulation saves a population and all of its entities.
func WritePopulation(ctx context.Context, pop *core.Population, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "creating population snapshot")
	}
	defer f.Close()

	fw := &writer{w: bufio.NewWriter(f)}
	fw.bytes([]byte(populationMagic))
	fw.bytes(versionBlock())

	fw.int32(int32(pop.Size()))
	fw.int32(int32(pop.StableSize()))
	fw.int32(int32(pop.NumChromosomes()))
	fw.int32(int32(pop.LenChromosomes()))
	fw.float64(pop.CrossoverRatio)
	fw.float64(pop.MutationRatio)
	fw.float64(pop.MigrationRatio)
	fw.int32(int32(pop.Scheme))
	fw.int32(int32(pop.Elitism))
	fw.int32(int32(pop.Island()))

	for _, id := range callbackTable(pop) {
		fw.int32(id)
	}

	for rank := 0; rank < pop.Size(); rank++ {
		e := pop.EntityByRank(rank)
		buf := pop.Codec.ToBytes(pop, e)
		fw.float64(e.Fitness)
		fw.uint32(uint32(len(buf)))
		fw.bytes(buf)
	}

	fw.bytes([]byte(footer))
	if fw.err != nil {
		return fw.err
	}
	if err := fw.w.Flush(); err != nil {
		return errors.Wrap(err, errors.Unknown, "flushing population snapshot")
	}

	logging.GetLogger().Debug(ctx, "wrote population %d (%d entities) to %s",
		pop.ID(), pop.Size(), path)
	return nil
}

// ReadPopulation restores a population from a snapshot file, registering it
// under a fresh handle. Current-format files carry the island number; the
// previous format omits it and is still accepted. Slots that name custom or
// unknown callbacks are left unbound with a warning, except the codec: a
// file holding entities encoded by an unresolvable codec cannot be restored.
func ReadPopulation(ctx context.Context, path string) (*core.Population, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ResourceNotFound, "opening population snapshot")
	}
	defer f.Close()

	fr := &reader{r: bufio.NewReader(f)}
	magic := string(fr.bytes(len(populationMagic)))
	if fr.err != nil {
		return nil, fr.err
	}
	hasIsland := true
	switch magic {
	case populationMagic:
	case populationMagicV1:
		hasIsland = false
	default:
		corrupt("unrecognized population snapshot format %q", magic)
	}
	fr.bytes(versionBlockLength)

	size := fr.int32()
	stableSize := fr.int32()
	numChromosomes := fr.int32()
	lenChromosomes := fr.int32()
	crossover := fr.float64()
	mutation := fr.float64()
	migrationRatio := fr.float64()
	scheme := fr.int32()
	elitism := fr.int32()
	island := int32(-1)
	if hasIsland {
		island = fr.int32()
	}
	if fr.err != nil {
		return nil, fr.err
	}
	if size < 0 || stableSize <= 0 || numChromosomes <= 0 || lenChromosomes <= 0 {
		corrupt("population snapshot header carries impossible dimensions")
	}

	pop := core.NewPopulation(int(stableSize), int(numChromosomes), int(lenChromosomes))
	pop.SetParameters(core.Scheme(scheme), core.Elitism(elitism), crossover, mutation, migrationRatio)
	pop.SetIsland(int(island))

	for slot := 0; slot < numSlots; slot++ {
		bindSlot(ctx, pop, slot, fr.int32())
	}
	if fr.err != nil {
		return nil, fr.err
	}
	if size > 0 && pop.Codec == nil {
		corrupt("population snapshot carries %d entities but its chromosome codec is custom or unknown and cannot be restored", size)
	}

	for i := int32(0); i < size; i++ {
		fitness := fr.float64()
		n := fr.uint32()
		buf := fr.bytes(int(n))
		if fr.err != nil {
			return nil, fr.err
		}
		e := pop.GetFreeEntity()
		pop.Codec.FromBytes(pop, e, buf)
		e.Fitness = fitness
	}

	tail := fr.bytes(len(footer))
	if fr.err != nil {
		return nil, fr.err
	}
	if string(tail) != footer {
		corrupt("population snapshot footer missing; file truncated or overwritten")
	}

	logging.GetLogger().Debug(ctx, "read population %d (%d entities) from %s",
		pop.ID(), pop.Size(), path)
	return pop, nil
}
