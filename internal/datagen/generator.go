package datagen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/persona"
)

// Config controls how the Generator behaves; mirrors the workspace
// config's datagen section so callers can pass it through unchanged.
type Config struct {
	RealisticMode         bool
	DefaultArraySize      int
	MaxArraySize          int
	IncludeOptionalFields bool
	FieldMappings         map[string]string
	ValidateGeneratedData bool
	EnableBackstories     bool
}

// DefaultConfig matches the original implementation's defaults.
func DefaultConfig() Config {
	return Config{
		RealisticMode:         true,
		DefaultArraySize:      3,
		MaxArraySize:          10,
		IncludeOptionalFields: true,
		FieldMappings:         make(map[string]string),
		ValidateGeneratedData: true,
		EnableBackstories:     false,
	}
}

type fieldPattern struct {
	pattern string
	kind    string
}

// fieldPatterns is consulted in order; the first substring match wins.
var fieldPatterns = []fieldPattern{
	{"email", "email"},
	{"mail", "email"},
	{"firstname", "name"},
	{"lastname", "name"},
	{"username", "name"},
	{"name", "name"},
	{"phone", "phone"},
	{"guid", "uuid"},
	{"uuid", "uuid"},
	{"id", "uuid"},
	{"address", "address"},
	{"ip", "ip"},
	{"website", "url"},
	{"link", "url"},
	{"url", "url"},
	{"created", "date"},
	{"updated", "date"},
	{"timestamp", "date"},
	{"date", "date"},
	{"company", "company"},
}

// Generator synthesizes field and object values from schema
// definitions, optionally routing values through a persona
// consistency store for stable per-entity generation.
type Generator struct {
	config             Config
	store              *persona.ConsistencyStore
	faker              *Faker
	backstoryTemplates map[persona.Domain][]string
}

// NewGenerator creates a generator with its own unseeded faker, used
// for one-off, non-persona-bound generation.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		config:             cfg,
		faker:              NewFaker(rand.New(rand.NewSource(time.Now().UnixNano()))),
		backstoryTemplates: defaultBackstoryTemplates(),
	}
}

// NewGeneratorWithPersona creates a generator backed by a persona
// consistency store; the generator itself implements
// persona.FieldGenerator to supply the store's seeded values.
func NewGeneratorWithPersona(cfg Config, registry *persona.Registry) *Generator {
	g := &Generator{
		config:             cfg,
		faker:              NewFaker(rand.New(rand.NewSource(time.Now().UnixNano()))),
		backstoryTemplates: defaultBackstoryTemplates(),
	}
	g.store = persona.NewConsistencyStore(registry, g)
	return g
}

// ConsistencyStore exposes the bound store, nil if persona support
// was not enabled.
func (g *Generator) ConsistencyStore() *persona.ConsistencyStore { return g.store }

// Generate implements persona.FieldGenerator: produce one seeded
// value for fieldType, applying the domain trait overlay.
func (g *Generator) Generate(rng *rand.Rand, fieldType string, domain persona.Domain, traits map[string]string) (interface{}, error) {
	f := NewFaker(rng)
	v := f.GenerateByType(fieldType)
	return persona.ApplyDomainOverlay(domain, fieldType, v, traits), nil
}

// DetermineFakerType picks the semantic type for a field: explicit
// mapping override, then name-pattern heuristics, then the schema's
// declared field_type.
func (g *Generator) DetermineFakerType(field FieldDefinition) string {
	lowerName := strings.ToLower(field.Name)
	if mapped, ok := g.config.FieldMappings[lowerName]; ok {
		return mapped
	}
	for _, p := range fieldPatterns {
		if strings.Contains(lowerName, p.pattern) {
			return p.kind
		}
	}
	return field.FieldType
}

// GenerateSchema produces one object for schema using ad-hoc
// (non-persona-bound) faker generation.
func (g *Generator) GenerateSchema(schema *SchemaDefinition) (map[string]interface{}, error) {
	obj := make(map[string]interface{})
	for _, field := range schema.Fields {
		if !field.Required && !g.config.IncludeOptionalFields {
			continue
		}
		fakerType := field.FakerTemplate
		if fakerType == "" {
			fakerType = g.DetermineFakerType(field)
		}
		value := g.faker.GenerateByType(fakerType)
		value = g.applyConstraints(value, field)
		if g.config.ValidateGeneratedData {
			if err := validateValue(value, field); err != nil {
				return nil, fmt.Errorf("field %q: %w", field.Name, err)
			}
		}
		obj[field.Name] = value
	}
	return obj, nil
}

// GenerateWithPersona routes every field through the bound consistency
// store so the same entityID always yields the same object, and
// lazily attaches a backstory on first use when enabled.
func (g *Generator) GenerateWithPersona(entityID string, domain persona.Domain, schema *SchemaDefinition) (map[string]interface{}, error) {
	if g.store == nil {
		return nil, fmt.Errorf("datagen: persona support not enabled, use NewGeneratorWithPersona")
	}
	if g.config.EnableBackstories {
		g.ensureBackstory(entityID, domain)
	}

	obj := make(map[string]interface{})
	for _, field := range schema.Fields {
		if !field.Required && !g.config.IncludeOptionalFields {
			continue
		}
		fakerType := field.FakerTemplate
		if fakerType == "" {
			fakerType = g.DetermineFakerType(field)
		}

		value, err := g.store.GenerateConsistentValue(entityID, fakerType, domain)
		if err != nil {
			logging.Get(logging.CategoryDataGen).Warn("falling back to ad-hoc generation for %s.%s: %v", entityID, field.Name, err)
			value = g.faker.GenerateByType(fakerType)
		}
		value = g.applyConstraints(value, field)

		if g.config.ValidateGeneratedData {
			if err := validateValue(value, field); err != nil {
				return nil, fmt.Errorf("field %q: %w", field.Name, err)
			}
		}
		obj[field.Name] = value
	}
	return obj, nil
}

func defaultBackstoryTemplates() map[persona.Domain][]string {
	return map[persona.Domain][]string{
		persona.DomainFinance: {
			"A long-term customer with a %s spending pattern, banking primarily in %s.",
			"A %s account holder who has used %s as their preferred currency for years.",
		},
		persona.DomainEcommerce: {
			"A %s shopper who favors %s delivery for most orders.",
		},
		persona.DomainHealthcare: {
			"A patient carrying %s insurance with a %s blood type on file.",
		},
		persona.DomainGeneral: {
			"A typical platform user with no distinguishing traits on record.",
		},
	}
}

// ensureBackstory generates and persists a backstory for entityID if
// it does not already have one, seeding default traits first when the
// persona has none.
func (g *Generator) ensureBackstory(entityID string, domain persona.Domain) {
	registry := g.store.Registry()
	p := registry.GetOrCreate(entityID, domain)
	if p.HasBackstory {
		return
	}

	if len(p.Traits) == 0 {
		defaults := defaultTraitsForDomain(domain)
		if len(defaults) > 0 {
			_ = registry.UpdateTraits(entityID, defaults)
			p = registry.Get(entityID)
		}
	}

	templates := g.backstoryTemplates[domain]
	if len(templates) == 0 {
		templates = g.backstoryTemplates[persona.DomainGeneral]
	}
	tmpl := templates[int(p.Seed%uint64(len(templates)))]

	backstory := fillBackstoryTemplate(tmpl, p.Traits)
	if err := registry.UpdateBackstory(entityID, backstory); err != nil {
		logging.Get(logging.CategoryDataGen).Warn("failed to persist backstory for %s: %v", entityID, err)
	}
}

func defaultTraitsForDomain(domain persona.Domain) map[string]string {
	switch domain {
	case persona.DomainFinance:
		return map[string]string{"spending_level": "moderate", "preferred_currency": "USD"}
	case persona.DomainEcommerce:
		return map[string]string{"customer_tier": "regular", "preferred_shipping": "standard"}
	case persona.DomainHealthcare:
		return map[string]string{"insurance_type": "private", "blood_type": "O+"}
	default:
		return nil
	}
}

func fillBackstoryTemplate(tmpl string, traits map[string]string) string {
	count := strings.Count(tmpl, "%s")
	if count == 0 {
		return tmpl
	}
	args := make([]interface{}, 0, count)
	for _, v := range traits {
		if len(args) >= count {
			break
		}
		args = append(args, v)
	}
	for len(args) < count {
		args = append(args, "unspecified")
	}
	return fmt.Sprintf(tmpl, args...)
}
