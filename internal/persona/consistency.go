package persona

import (
	"hash/fnv"
	"math/rand"
)

// FieldGenerator produces a value for a semantic field type using a
// seeded PRNG, so the same seed always yields the same value. The
// data generator package implements this to supply the actual
// faker/domain-overlay logic; ConsistencyStore only owns the seeding
// and persona lifecycle.
type FieldGenerator interface {
	Generate(rng *rand.Rand, fieldType string, domain Domain, traits map[string]string) (interface{}, error)
}

// ConsistencyStore binds a persona registry to a field generator so
// that repeated calls for the same (entity_id, field_type, domain)
// always produce the same value within a process lifetime.
type ConsistencyStore struct {
	registry  *Registry
	generator FieldGenerator
}

// NewConsistencyStore builds a store over an existing registry.
func NewConsistencyStore(registry *Registry, generator FieldGenerator) *ConsistencyStore {
	return &ConsistencyStore{registry: registry, generator: generator}
}

// Registry exposes the underlying persona registry, e.g. for
// relationship wiring performed outside the generation path.
func (c *ConsistencyStore) Registry() *Registry { return c.registry }

// GenerateConsistentValue looks up or creates the persona for
// entityID, seeds a PRNG with persona.Seed XOR hash(fieldType), and
// delegates to the configured generator. domain defaults to
// DomainGeneral when empty.
func (c *ConsistencyStore) GenerateConsistentValue(entityID, fieldType string, domain Domain) (interface{}, error) {
	if domain == "" {
		domain = DomainGeneral
	}
	p := c.registry.GetOrCreate(entityID, domain)

	seed := p.Seed ^ hashFieldType(fieldType)
	rng := rand.New(rand.NewSource(int64(seed)))

	traits := p.Traits
	if p.HasBackstory && len(traits) == 0 {
		traits = InferTraitsFromBackstory(domain, p.Backstory)
	}

	return c.generator.Generate(rng, fieldType, domain, traits)
}

func hashFieldType(fieldType string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fieldType))
	return h.Sum64()
}
