package core

// Scheme selects how locally-improved (adapted) offspring feed back into the
// gene pool.
type Scheme int

const (
	// SchemeDarwin performs no adaptation.
	SchemeDarwin Scheme = iota
	// SchemeLamarckChildren adapts offspring; the adapted genotype
	// permanently replaces the offspring's genotype.
	SchemeLamarckChildren
	// SchemeLamarckAll adapts every entity, replacing genotypes.
	SchemeLamarckAll
	// SchemeBaldwinChildren adapts offspring; only the adapted fitness is
	// kept, the original genotype is retained.
	SchemeBaldwinChildren
	// SchemeBaldwinAll adapts every entity, keeping only fitness.
	SchemeBaldwinAll
)

func (s Scheme) String() string {
	switch s {
	case SchemeDarwin:
		return "darwin"
	case SchemeLamarckChildren:
		return "lamarck-children"
	case SchemeLamarckAll:
		return "lamarck-all"
	case SchemeBaldwinChildren:
		return "baldwin-children"
	case SchemeBaldwinAll:
		return "baldwin-all"
	}
	return "unknown"
}

// ParseScheme converts a configuration string to a Scheme. Unknown strings
// map to SchemeDarwin.
func ParseScheme(s string) Scheme {
	switch s {
	case "lamarck-children":
		return SchemeLamarckChildren
	case "lamarck-all":
		return SchemeLamarckAll
	case "baldwin-children":
		return SchemeBaldwinChildren
	case "baldwin-all":
		return SchemeBaldwinAll
	default:
		return SchemeDarwin
	}
}

// Elitism governs guaranteed survival of top-ranked parents across a
// generation boundary.
type Elitism int

const (
	// ElitismUnknown means the caller never chose a policy; the engine
	// treats it as ElitismParentsSurvive.
	ElitismUnknown Elitism = iota
	ElitismParentsSurvive
	ElitismOneParentSurvives
	ElitismParentsDie
	ElitismRescoreParents
)

func (e Elitism) String() string {
	switch e {
	case ElitismParentsSurvive:
		return "parents-survive"
	case ElitismOneParentSurvives:
		return "one-parent-survives"
	case ElitismParentsDie:
		return "parents-die"
	case ElitismRescoreParents:
		return "rescore-parents"
	}
	return "unknown"
}

// ParseElitism converts a configuration string to an Elitism policy.
func ParseElitism(s string) Elitism {
	switch s {
	case "parents-survive":
		return ElitismParentsSurvive
	case "one-parent-survives":
		return ElitismOneParentSurvives
	case "parents-die":
		return ElitismParentsDie
	case "rescore-parents":
		return ElitismRescoreParents
	default:
		return ElitismUnknown
	}
}

// Strategy is the common surface of every pluggable operator. Name
// identifies a built-in implementation in the snapshot registry; custom
// implementations return "" and serialize as the unregistered sentinel.
type Strategy interface {
	Name() string
}

// Evaluator scores one entity. Returns false if the entity is invalid and
// should be discarded by the caller.
type Evaluator interface {
	Strategy
	Evaluate(pop *Population, e *Entity) bool
}

// Seeder fills a freshly constructed entity with genes.
type Seeder interface {
	Strategy
	Seed(pop *Population, e *Entity) bool
}

// Adapter produces a locally-improved variant of an entity, allocated from
// the same population's pool. The original entity is left untouched; the
// engine decides, per scheme, what to keep.
type Adapter interface {
	Strategy
	Adapt(pop *Population, e *Entity) *Entity
}

// SelectorOne picks one parent from a ranked population, weighted by fitness
// rank or value.
type SelectorOne interface {
	Strategy
	SelectOne(pop *Population) *Entity
}

// SelectorTwo picks two parents from a ranked population.
type SelectorTwo interface {
	Strategy
	SelectTwo(pop *Population) (*Entity, *Entity)
}

// Mutator writes a mutated copy of parent into the freshly allocated child.
type Mutator interface {
	Strategy
	Mutate(pop *Population, parent, child *Entity)
}

// CrossoverOp recombines two parents into two freshly allocated children.
type CrossoverOp interface {
	Strategy
	Crossover(pop *Population, mother, father, daughter, son *Entity)
}

// Replacer picks the victim a steady-state insertion displaces. Returning
// the candidate itself rejects the insertion; returning nil keeps everyone
// (the population grows until culled).
type Replacer interface {
	Strategy
	Replace(pop *Population, candidate *Entity) *Entity
}

// GenerationHook runs at each generation boundary with the current best
// entity ranked first. Returning false stops the run.
type GenerationHook func(generation int, pop *Population) bool

// IterationHook is the steady-state equivalent of GenerationHook.
type IterationHook func(iteration int, pop *Population) bool

// DataDestructor destroys one phenome entry when its last owner dies.
type DataDestructor func(data interface{})

// DataRefIncrementor notes one more entity sharing a phenome entry.
type DataRefIncrementor func(data interface{})

// Function adapters for custom strategies. They serialize as unregistered.

type EvaluatorFunc func(pop *Population, e *Entity) bool

func (f EvaluatorFunc) Name() string { return "" }

func (f EvaluatorFunc) Evaluate(pop *Population, e *Entity) bool { return f(pop, e) }

type SeederFunc func(pop *Population, e *Entity) bool

func (f SeederFunc) Name() string { return "" }

func (f SeederFunc) Seed(pop *Population, e *Entity) bool { return f(pop, e) }

type AdapterFunc func(pop *Population, e *Entity) *Entity

func (f AdapterFunc) Name() string { return "" }

func (f AdapterFunc) Adapt(pop *Population, e *Entity) *Entity { return f(pop, e) }
