package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/operators"
)

func newPop(t *testing.T, stableSize int) *core.Population {
	t.Helper()
	pop := core.NewPopulation(stableSize, 1, 8)
	pop.Codec = operators.CharCodec{}
	pop.Seeder = operators.SeedPrintableRandom{}
	pop.SeedRNG(11)
	t.Cleanup(pop.Extinction)
	return pop
}

func TestPipeCarriesMessagesInOrder(t *testing.T) {
	a, b := NewPipe(4)
	require.NoError(t, a.Send([]byte("one")))
	require.NoError(t, a.Send([]byte("two")))

	m1, err := b.Receive()
	require.NoError(t, err)
	m2, err := b.Receive()
	require.NoError(t, err)
	assert.Equal(t, "one", string(m1))
	assert.Equal(t, "two", string(m2))
}

func TestPipeCloseUnblocksReceiver(t *testing.T) {
	a, b := NewPipe(1)
	a.Close()
	_, err := b.Receive()
	assert.Error(t, err)
}

func TestSendByMaskAndAppendReceive(t *testing.T) {
	ctx := context.Background()
	src := newPop(t, 10)
	dst := newPop(t, 10)
	src.Seed()
	for rank := 0; rank < src.Size(); rank++ {
		src.EntityByRank(rank).Fitness = float64(rank)
	}

	mask := make([]bool, src.Size())
	for _, rank := range []int{2, 5, 7} {
		mask[rank] = true
	}

	out, in := NewPipe(32)
	require.NoError(t, SendByMask(ctx, src, out, 3, mask))

	immigrants, err := AppendReceive(ctx, dst, in)
	require.NoError(t, err)
	require.Len(t, immigrants, 3)
	assert.Equal(t, 3, dst.Size())

	for i, rank := range []int{2, 5, 7} {
		want := src.EntityByRank(rank)
		got := immigrants[i]
		assert.Equal(t, want.Fitness, got.Fitness)
		assert.Equal(t, want.Chromosomes[0].([]byte), got.Chromosomes[0].([]byte))
		assert.NotSame(t, want, got, "migration must copy, never share")
	}

	// The sender keeps its entities; emigration is not destructive.
	assert.Equal(t, 10, src.Size())
}

func TestSendEveryMovesWholePopulation(t *testing.T) {
	ctx := context.Background()
	src := newPop(t, 4)
	dst := newPop(t, 4)
	src.Seed()

	out, in := NewPipe(16)
	require.NoError(t, SendEvery(ctx, src, out))

	immigrants, err := AppendReceive(ctx, dst, in)
	require.NoError(t, err)
	assert.Len(t, immigrants, 4)
}

func TestSendZeroEntities(t *testing.T) {
	ctx := context.Background()
	src := newPop(t, 4)
	dst := newPop(t, 4)
	src.Seed()

	out, in := NewPipe(4)
	require.NoError(t, SendByMask(ctx, src, out, 0, make([]bool, src.Size())))

	immigrants, err := AppendReceive(ctx, dst, in)
	require.NoError(t, err)
	assert.Empty(t, immigrants)
	assert.Equal(t, 0, dst.Size())
}

func TestSendByMaskCountMismatchPanics(t *testing.T) {
	ctx := context.Background()
	src := newPop(t, 4)
	src.Seed()

	mask := make([]bool, src.Size())
	mask[0] = true

	out, _ := NewPipe(16)
	assert.Panics(t, func() {
		_ = SendByMask(ctx, src, out, 2, mask)
	})
}

func TestReceiveLengthMismatchPanics(t *testing.T) {
	ctx := context.Background()
	dst := newPop(t, 4)

	out, in := NewPipe(16)
	require.NoError(t, sendInt32(out, 1))       // one entity
	require.NoError(t, sendInt32(out, 99))      // declared length, wrong
	require.NoError(t, sendFloat64(out, 1.5))   // fitness
	require.NoError(t, out.Send(make([]byte, 8))) // actual 8-byte encoding

	assert.Panics(t, func() {
		_, _ = AppendReceive(ctx, dst, in)
	})
}

func TestParametersRoundtrip(t *testing.T) {
	ctx := context.Background()
	src := newPop(t, 6)
	src.SetParameters(core.SchemeLamarckChildren, core.ElitismParentsDie, 0.8, 0.05, 0.1)

	out, in := NewPipe(16)
	require.NoError(t, SendParameters(ctx, src, out))

	got, err := ReceiveParameters(ctx, in)
	require.NoError(t, err)
	t.Cleanup(got.Extinction)

	assert.Equal(t, src.StableSize(), got.StableSize())
	assert.Equal(t, src.NumChromosomes(), got.NumChromosomes())
	assert.Equal(t, src.LenChromosomes(), got.LenChromosomes())
	assert.Equal(t, src.CrossoverRatio, got.CrossoverRatio)
	assert.Equal(t, src.MutationRatio, got.MutationRatio)
	assert.Equal(t, src.MigrationRatio, got.MigrationRatio)
	assert.Equal(t, src.Scheme, got.Scheme)
	assert.Equal(t, src.Elitism, got.Elitism)
	assert.Equal(t, 0, got.Size())
	assert.Nil(t, got.Codec, "callbacks never travel")
}
