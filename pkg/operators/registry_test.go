package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/evo-go/pkg/core"
)

func TestLookupIDSentinels(t *testing.T) {
	assert.Equal(t, UnboundID, LookupID(nil))

	custom := core.EvaluatorFunc(func(*core.Population, *core.Entity) bool { return true })
	assert.Equal(t, CustomID, LookupID(custom))
}

func TestBuiltinIDsAreStable(t *testing.T) {
	// These ids are persisted in snapshot files; they must never change.
	assert.Equal(t, int32(1), LookupID(CharCodec{}))
	assert.Equal(t, int32(5), LookupID(BitstringCodec{}))
	assert.Equal(t, int32(7), LookupID(SeedPrintableRandom{}))
	assert.Equal(t, int32(25), LookupID(&SelectOneSUS{}))
	assert.Equal(t, int32(29), LookupID(CrossoverCharMixing{}))
	assert.Equal(t, int32(40), LookupID(MutatePrintableDrift{}))
	assert.Equal(t, int32(51), LookupID(ReplaceByFitness{}))
	assert.Equal(t, int32(52), LookupID(AdaptHillClimb{}))
}

func TestInstantiateRoundtrip(t *testing.T) {
	seen := make(map[string]int32)
	for id := int32(1); ; id++ {
		s, ok := Instantiate(id)
		if !ok {
			break
		}
		require.NotEmpty(t, s.Name(), "builtin %d has no name", id)
		assert.Equal(t, id, LookupID(s), "%s does not round-trip", s.Name())

		prev, dup := seen[s.Name()]
		assert.False(t, dup, "name %q claimed by ids %d and %d", s.Name(), prev, id)
		seen[s.Name()] = id

		assert.Equal(t, id, IDByName(s.Name()))
	}
	assert.Len(t, seen, 52)
}

func TestInstantiateRejectsSentinels(t *testing.T) {
	for _, id := range []int32{UnboundID, CustomID, 9999} {
		s, ok := Instantiate(id)
		assert.False(t, ok)
		assert.Nil(t, s)
	}
	assert.Equal(t, CustomID, IDByName("no_such_operator"))
}
