package operators

import (
	"github.com/XiaoConstantine/evo-go/pkg/core"
)

// Callback slot serialization sentinels.
const (
	// UnboundID marks a callback slot with nothing bound.
	UnboundID int32 = 0
	// CustomID marks a slot bound to a user-supplied strategy that cannot
	// be persisted; it must be rebound after a snapshot is restored.
	CustomID int32 = -1
)

// builtins assigns a stable positive id to every built-in strategy. Snapshot
// files persist these ids, so the table is append-only: never reorder or
// remove entries.
var builtins = []func() core.Strategy{
	func() core.Strategy { return CharCodec{} },           // 1
	func() core.Strategy { return IntegerCodec{} },        // 2
	func() core.Strategy { return BooleanCodec{} },        // 3
	func() core.Strategy { return DoubleCodec{} },         // 4
	func() core.Strategy { return BitstringCodec{} },      // 5
	func() core.Strategy { return SeedCharRandom{} },      // 6
	func() core.Strategy { return SeedPrintableRandom{} }, // 7
	func() core.Strategy { return SeedIntegerRandom{} },   // 8
	func() core.Strategy { return SeedIntegerZero{} },     // 9
	func() core.Strategy { return SeedBooleanRandom{} },   // 10
	func() core.Strategy { return SeedDoubleRandom{} },    // 11
	func() core.Strategy { return SeedDoubleZero{} },      // 12
	func() core.Strategy { return SeedBitstringRandom{} }, // 13
	func() core.Strategy { return SelectOneRandom{} },     // 14
	func() core.Strategy { return SelectTwoRandom{} },     // 15
	func() core.Strategy { return &SelectOneEvery{} },     // 16
	func() core.Strategy { return &SelectTwoEvery{} },     // 17
	func() core.Strategy { return SelectOneBestOf2{} },    // 18
	func() core.Strategy { return SelectTwoBestOf2{} },    // 19
	func() core.Strategy { return SelectOneRandomRank{} }, // 20
	func() core.Strategy { return SelectOneRoulette{} },   // 21
	func() core.Strategy { return SelectTwoRoulette{} },   // 22
	func() core.Strategy { return SelectOneRouletteRebased{} },      // 23
	func() core.Strategy { return SelectTwoRouletteRebased{} },      // 24
	func() core.Strategy { return &SelectOneSUS{} },                 // 25
	func() core.Strategy { return &SelectTwoSUS{} },                 // 26
	func() core.Strategy { return CrossoverCharSinglepoint{} },      // 27
	func() core.Strategy { return CrossoverCharDoublepoint{} },      // 28
	func() core.Strategy { return CrossoverCharMixing{} },           // 29
	func() core.Strategy { return CrossoverIntegerSinglepoint{} },   // 30
	func() core.Strategy { return CrossoverIntegerDoublepoint{} },   // 31
	func() core.Strategy { return CrossoverIntegerMixing{} },        // 32
	func() core.Strategy { return CrossoverBooleanSinglepoint{} },   // 33
	func() core.Strategy { return CrossoverDoubleMixing{} },         // 34
	func() core.Strategy { return CrossoverDoubleAlleleMixing{} },   // 35
	func() core.Strategy { return CrossoverBitstringSinglepoint{} }, // 36
	func() core.Strategy { return MutateCharDrift{} },               // 37
	func() core.Strategy { return MutateCharRandomize{} },           // 38
	func() core.Strategy { return MutateCharMultipoint{} },          // 39
	func() core.Strategy { return MutatePrintableDrift{} },          // 40
	func() core.Strategy { return MutatePrintableRandomize{} },      // 41
	func() core.Strategy { return MutateIntegerDrift{} },            // 42
	func() core.Strategy { return MutateIntegerRandomize{} },        // 43
	func() core.Strategy { return MutateIntegerMultipoint{} },       // 44
	func() core.Strategy { return MutateBooleanSinglepoint{} },      // 45
	func() core.Strategy { return MutateBooleanMultipoint{} },       // 46
	func() core.Strategy { return MutateDoubleDrift{} },             // 47
	func() core.Strategy { return MutateDoubleRandomize{} },         // 48
	func() core.Strategy { return MutateBitstringSinglepoint{} },    // 49
	func() core.Strategy { return MutateBitstringMultipoint{} },     // 50
	func() core.Strategy { return ReplaceByFitness{} },              // 51
	func() core.Strategy { return AdaptHillClimb{} },                // 52
}

var idsByName = buildNameIndex()

func buildNameIndex() map[string]int32 {
	index := make(map[string]int32, len(builtins))
	for i, factory := range builtins {
		index[factory().Name()] = int32(i + 1)
	}
	return index
}

// LookupID resolves a bound strategy to its persistent id. Nil slots map to
// UnboundID; strategies outside the built-in table map to CustomID.
func LookupID(s core.Strategy) int32 {
	if s == nil {
		return UnboundID
	}
	name := s.Name()
	if name == "" {
		return CustomID
	}
	if id, ok := idsByName[name]; ok {
		return id
	}
	return CustomID
}

// IDByName resolves a built-in name to its persistent id, or CustomID when
// the name is unknown.
func IDByName(name string) int32 {
	if id, ok := idsByName[name]; ok {
		return id
	}
	return CustomID
}

// Instantiate constructs a fresh instance of the built-in with the given id.
// Returns nil,false for UnboundID, CustomID and out-of-range ids. Stateful
// strategies (the exhaustive and SUS selectors) come back reset.
func Instantiate(id int32) (core.Strategy, bool) {
	if id <= 0 || int(id) > len(builtins) {
		return nil, false
	}
	return builtins[id-1](), true
}
