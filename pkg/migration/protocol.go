package migration

import (
	"context"

	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/errors"
	"github.com/XiaoConstantine/evo-go/pkg/logging"
)

func die(format string, args ...interface{}) {
	errors.Fatalf(errors.ContractViolation, format, args...)
}

// SendByMask transmits the entities whose rank is marked in mask. count must
// equal the number of marked ranks; the caller computes both together when
// rolling the migration dice. The sender does not remove the emigrants; the
// engine dereferences them separately if emigration is destructive.
func SendByMask(ctx context.Context, pop *core.Population, conn Conn, count int, mask []bool) error {
	if len(mask) < pop.Size() {
		die("migration mask covers %d ranks, population holds %d", len(mask), pop.Size())
	}
	marked := 0
	for rank := 0; rank < pop.Size(); rank++ {
		if mask[rank] {
			marked++
		}
	}
	if marked != count {
		die("migration count %d disagrees with mask population %d", count, marked)
	}

	if err := sendInt32(conn, int32(count)); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	// All entities in a population share one encoding size, so the length
	// of the top-ranked entity's encoding stands for every emigrant.
	refLen := len(pop.Codec.ToBytes(pop, pop.EntityByRank(0)))
	if err := sendInt32(conn, int32(refLen)); err != nil {
		return err
	}

	for rank := 0; rank < pop.Size(); rank++ {
		if !mask[rank] {
			continue
		}
		e := pop.EntityByRank(rank)
		buf := pop.Codec.ToBytes(pop, e)
		if len(buf) != refLen {
			errors.Fatalf(errors.ProtocolViolation,
				"entity encoding is %d bytes, reference length is %d", len(buf), refLen)
		}
		if err := sendFloat64(conn, e.Fitness); err != nil {
			return err
		}
		if err := conn.Send(buf); err != nil {
			return err
		}
	}

	logging.GetLogger().Debug(ctx, "sent %d of %d entities from population %d",
		count, pop.Size(), pop.ID())
	return nil
}

// SendEvery transmits the entire population.
func SendEvery(ctx context.Context, pop *core.Population, conn Conn) error {
	mask := make([]bool, pop.Size())
	for i := range mask {
		mask[i] = true
	}
	return SendByMask(ctx, pop, conn, pop.Size(), mask)
}

// AppendReceive accepts a migration stream and appends each immigrant to the
// population as a fresh entity. Fitness travels with the genes, so
// immigrants are not re-scored. Returns the new entities in arrival order.
func AppendReceive(ctx context.Context, pop *core.Population, conn Conn) ([]*core.Entity, error) {
	count, err := receiveInt32(conn)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	refLen, err := receiveInt32(conn)
	if err != nil {
		return nil, err
	}

	immigrants := make([]*core.Entity, 0, count)
	for i := int32(0); i < count; i++ {
		fitness, err := receiveFloat64(conn)
		if err != nil {
			return nil, err
		}
		buf, err := conn.Receive()
		if err != nil {
			return nil, err
		}
		if len(buf) != int(refLen) {
			errors.Fatalf(errors.ProtocolViolation,
				"immigrant encoding is %d bytes, reference length is %d", len(buf), refLen)
		}
		e := pop.GetFreeEntity()
		pop.Codec.FromBytes(pop, e, buf)
		e.Fitness = fitness
		immigrants = append(immigrants, e)
	}

	logging.GetLogger().Debug(ctx, "received %d entities into population %d",
		count, pop.ID())
	return immigrants, nil
}

// SendParameters transmits a population's header: dimensions, operator
// ratios and evolutionary policies, without any entities. The receiver can
// genesis a structurally compatible population from it.
func SendParameters(ctx context.Context, pop *core.Population, conn Conn) error {
	if err := sendInt32(conn, int32(pop.StableSize())); err != nil {
		return err
	}
	if err := sendInt32(conn, int32(pop.NumChromosomes())); err != nil {
		return err
	}
	if err := sendInt32(conn, int32(pop.LenChromosomes())); err != nil {
		return err
	}
	if err := sendFloat64(conn, pop.CrossoverRatio); err != nil {
		return err
	}
	if err := sendFloat64(conn, pop.MutationRatio); err != nil {
		return err
	}
	if err := sendFloat64(conn, pop.MigrationRatio); err != nil {
		return err
	}
	if err := sendInt32(conn, int32(pop.Scheme)); err != nil {
		return err
	}
	return sendInt32(conn, int32(pop.Elitism))
}

// ReceiveParameters constructs a new, empty population from a parameter
// stream. Callbacks are not transmitted and must be bound by the caller
// before the population is used.
func ReceiveParameters(ctx context.Context, conn Conn) (*core.Population, error) {
	stableSize, err := receiveInt32(conn)
	if err != nil {
		return nil, err
	}
	numChromosomes, err := receiveInt32(conn)
	if err != nil {
		return nil, err
	}
	lenChromosomes, err := receiveInt32(conn)
	if err != nil {
		return nil, err
	}
	crossover, err := receiveFloat64(conn)
	if err != nil {
		return nil, err
	}
	mutation, err := receiveFloat64(conn)
	if err != nil {
		return nil, err
	}
	migrationRatio, err := receiveFloat64(conn)
	if err != nil {
		return nil, err
	}
	scheme, err := receiveInt32(conn)
	if err != nil {
		return nil, err
	}
	elitism, err := receiveInt32(conn)
	if err != nil {
		return nil, err
	}

	pop := core.NewPopulation(int(stableSize), int(numChromosomes), int(lenChromosomes))
	pop.SetParameters(core.Scheme(scheme), core.Elitism(elitism), crossover, mutation, migrationRatio)
	logging.GetLogger().Debug(ctx, "received parameters for population %d: stable size %d, %d x %d chromosomes",
		pop.ID(), stableSize, numChromosomes, lenChromosomes)
	return pop, nil
}
