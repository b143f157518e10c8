package core

// MinFitness is the sentinel fitness of an entity that has not been
// evaluated. It compares below every real score, so an unevaluated entity
// always loses selection contention.
const MinFitness = -999999999.0

// Entity is one candidate solution: a fitness score, one encoded chromosome
// per population chromosome slot, and an optional per-chromosome phenome
// list. Entities are owned by their population's pool and must never be
// shared between logical threads of control.
type Entity struct {
	// Fitness is the evaluated score, or MinFitness when unevaluated.
	Fitness float64

	// Chromosomes holds one codec-defined encoded value per chromosome
	// slot. Each value is owned exclusively by this entity.
	Chromosomes []interface{}

	// Data holds per-chromosome phenome entries, filled in order. Entries
	// may be shared with other entities through the population's
	// reference-increment hook. Nil until the first entry is appended.
	Data []interface{}
}

// Evaluated reports whether the entity carries a real fitness score.
func (e *Entity) Evaluated() bool {
	return e.Fitness != MinFitness
}
