package snapshot

import (
	"bufio"
	"context"
	"os"

	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/errors"
	"github.com/XiaoConstantine/evo-go/pkg/logging"
)

// WriteEntity saves a single entity's fitness and chromosome encoding.
// Phenome data never travels; it is rebuilt on evaluation.
func WriteEntity(ctx context.Context, pop *core.Population, e *core.Entity, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "creating entity snapshot")
	}
	defer f.Close()

	buf := pop.Codec.ToBytes(pop, e)

	fw := &writer{w: bufio.NewWriter(f)}
	fw.bytes([]byte(entityMagic))
	fw.bytes(versionBlock())
	fw.float64(e.Fitness)
	fw.uint32(uint32(len(buf)))
	fw.bytes(buf)
	fw.bytes([]byte(footer))
	if fw.err != nil {
		return fw.err
	}
	if err := fw.w.Flush(); err != nil {
		return errors.Wrap(err, errors.Unknown, "flushing entity snapshot")
	}

	logging.GetLogger().Debug(ctx, "wrote entity snapshot to %s", path)
	return nil
}

// ReadEntity restores an entity snapshot into a fresh entity allocated from
// the given population, which must be structurally compatible with the one
// that wrote the file.
func ReadEntity(ctx context.Context, pop *core.Population, path string) (*core.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ResourceNotFound, "opening entity snapshot")
	}
	defer f.Close()

	fr := &reader{r: bufio.NewReader(f)}
	magic := string(fr.bytes(len(entityMagic)))
	if fr.err != nil {
		return nil, fr.err
	}
	if magic != entityMagic {
		corrupt("unrecognized entity snapshot format %q", magic)
	}
	fr.bytes(versionBlockLength)

	fitness := fr.float64()
	n := fr.uint32()
	buf := fr.bytes(int(n))
	tail := fr.bytes(len(footer))
	if fr.err != nil {
		return nil, fr.err
	}
	if string(tail) != footer {
		corrupt("entity snapshot footer missing; file truncated or overwritten")
	}

	e := pop.GetFreeEntity()
	pop.Codec.FromBytes(pop, e, buf)
	e.Fitness = fitness

	logging.GetLogger().Debug(ctx, "read entity snapshot from %s", path)
	return e, nil
}
