package core

// ChromosomeCodec is the capability set for one chromosome encoding. A codec
// is bound once per population at genesis time and never changed for the
// life of the population; all of its methods are assumed internally
// consistent with each other.
type ChromosomeCodec interface {
	// Name identifies a built-in codec in the snapshot strategy registry.
	// Custom codecs return "".
	Name() string

	// Construct allocates the entity's chromosome slots. Contents are
	// undefined until seeded or copied into.
	Construct(pop *Population, e *Entity)

	// Destruct releases the entity's chromosome slots.
	Destruct(pop *Population, e *Entity)

	// Replicate deep-copies one chromosome from src to dst.
	Replicate(pop *Population, src, dst *Entity, chromosome int)

	// ToBytes serializes all of the entity's chromosomes into a single
	// buffer, used by the migration protocol and the snapshot format.
	ToBytes(pop *Population, e *Entity) []byte

	// FromBytes reconstructs all chromosomes from a ToBytes buffer.
	FromBytes(pop *Population, e *Entity, buf []byte)

	// ToString renders the chromosomes for human consumption.
	ToString(pop *Population, e *Entity) string
}
