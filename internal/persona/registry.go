package persona

import (
	"sync"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// Registry is a thread-safe store of persona profiles, keyed by ID.
// Default traits are applied only at creation time; later changes to
// DefaultTraits never retro-fit existing personas.
type Registry struct {
	mu            sync.RWMutex
	personas      map[string]*Profile
	defaultTraits map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{personas: make(map[string]*Profile)}
}

// NewRegistryWithDefaultTraits creates a registry that applies the
// given traits to every persona created afterward via GetOrCreate.
func NewRegistryWithDefaultTraits(traits map[string]string) *Registry {
	r := NewRegistry()
	r.defaultTraits = traits
	return r
}

func errNotFound(id string) error {
	return errs.Newf("persona", errs.KindGeneric, "persona %q not found", id)
}

// GetOrCreate returns the existing persona for id, or creates one with
// the registry's current default traits applied.
func (r *Registry) GetOrCreate(id string, domain Domain) *Profile {
	r.mu.RLock()
	if p, ok := r.personas[id]; ok {
		defer r.mu.RUnlock()
		return p.Clone()
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.personas[id]; ok {
		return p.Clone()
	}

	p := NewProfile(id, domain)
	for k, v := range r.defaultTraits {
		p.SetTrait(k, v)
	}
	r.personas[id] = p
	logging.Get(logging.CategoryPersona).Debug("created persona %s (domain=%s)", id, domain)
	return p.Clone()
}

// Get returns a persona by ID, or nil if it does not exist.
func (r *Registry) Get(id string) *Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.personas[id]
	if !ok {
		return nil
	}
	return p.Clone()
}

// UpdateTraits merges traits into an existing persona.
func (r *Registry) UpdateTraits(id string, traits map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.personas[id]
	if !ok {
		return errNotFound(id)
	}
	for k, v := range traits {
		p.SetTrait(k, v)
	}
	return nil
}

// UpdateBackstory sets an existing persona's backstory.
func (r *Registry) UpdateBackstory(id, backstory string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.personas[id]
	if !ok {
		return errNotFound(id)
	}
	p.SetBackstory(backstory)
	return nil
}

// UpdateFull merges traits, backstory, and relationships in one call.
func (r *Registry) UpdateFull(id string, traits map[string]string, backstory *string, relationships map[string][]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.personas[id]
	if !ok {
		return errNotFound(id)
	}
	for k, v := range traits {
		p.SetTrait(k, v)
	}
	if backstory != nil {
		p.SetBackstory(*backstory)
	}
	for relType, ids := range relationships {
		for _, relID := range ids {
			p.AddRelationship(relType, relID)
		}
	}
	return nil
}

// Remove deletes a persona, reporting whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.personas[id]; !ok {
		return false
	}
	delete(r.personas, id)
	return true
}

// ListIDs returns every known persona ID.
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.personas))
	for id := range r.personas {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of registered personas.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.personas)
}

// Clear removes all personas.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.personas = make(map[string]*Profile)
}

// AddRelationship records a relationship edge from one persona to another.
func (r *Registry) AddRelationship(fromID, relType, toID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.personas[fromID]
	if !ok {
		return errNotFound(fromID)
	}
	p.AddRelationship(relType, toID)
	return nil
}

// GetRelatedPersonas resolves the persona's relationship edges into
// the corresponding profiles (edges pointing at unknown IDs are
// skipped).
func (r *Registry) GetRelatedPersonas(id, relType string) ([]*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.personas[id]
	if !ok {
		return nil, errNotFound(id)
	}
	var out []*Profile
	for _, relatedID := range p.RelatedPersonas(relType) {
		if related, ok := r.personas[relatedID]; ok {
			out = append(out, related.Clone())
		}
	}
	return out, nil
}

// FindPersonasWithRelationshipTo performs a reverse lookup: every
// persona that has a relType edge pointing at targetID.
func (r *Registry) FindPersonasWithRelationshipTo(targetID, relType string) []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Profile
	for _, p := range r.personas {
		for _, id := range p.Relationships[relType] {
			if id == targetID {
				out = append(out, p.Clone())
				break
			}
		}
	}
	return out
}
