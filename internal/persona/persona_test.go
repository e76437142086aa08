package persona

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileSeedIsDeterministicPerIDAndDomain(t *testing.T) {
	p1 := NewProfile("user-42", DomainFinance)
	p2 := NewProfile("user-42", DomainFinance)
	require.Equal(t, p1.Seed, p2.Seed)

	p3 := NewProfile("user-42", DomainEcommerce)
	require.NotEqual(t, p1.Seed, p3.Seed)
}

func TestRegistryGetOrCreateIsIdempotent(t *testing.T) {
	r := NewRegistry()
	a := r.GetOrCreate("user-1", DomainGeneral)
	b := r.GetOrCreate("user-1", DomainGeneral)
	require.Equal(t, a.Seed, b.Seed)
	require.Equal(t, 1, r.Count())
}

func TestRegistryDefaultTraitsAppliedOnlyAtCreation(t *testing.T) {
	r := NewRegistryWithDefaultTraits(map[string]string{"tier": "standard"})
	p := r.GetOrCreate("user-1", DomainGeneral)
	v, ok := p.GetTrait("tier")
	require.True(t, ok)
	require.Equal(t, "standard", v)

	r.defaultTraits["tier"] = "changed"
	again := r.GetOrCreate("user-1", DomainGeneral)
	v, ok = again.GetTrait("tier")
	require.True(t, ok)
	require.Equal(t, "standard", v, "existing persona must not be retro-fit with new defaults")
}

func TestRegistryRelationships(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate("alice", DomainGeneral)
	r.GetOrCreate("bob", DomainGeneral)

	require.NoError(t, r.AddRelationship("alice", "friend", "bob"))

	related, err := r.GetRelatedPersonas("alice", "friend")
	require.NoError(t, err)
	require.Len(t, related, 1)
	require.Equal(t, "bob", related[0].ID)

	reverse := r.FindPersonasWithRelationshipTo("bob", "friend")
	require.Len(t, reverse, 1)
	require.Equal(t, "alice", reverse[0].ID)
}

func TestRegistryUpdateUnknownPersonaErrors(t *testing.T) {
	r := NewRegistry()
	err := r.UpdateTraits("ghost", map[string]string{"x": "y"})
	require.Error(t, err)
}

type echoGenerator struct{}

func (echoGenerator) Generate(rng *rand.Rand, fieldType string, domain Domain, traits map[string]string) (interface{}, error) {
	return rng.Int63(), nil
}

func TestConsistencyStoreGeneratesSameValueForSameInputs(t *testing.T) {
	store1 := NewConsistencyStore(NewRegistry(), echoGenerator{})
	store2 := NewConsistencyStore(NewRegistry(), echoGenerator{})

	v1, err := store1.GenerateConsistentValue("user-42", "amount", DomainFinance)
	require.NoError(t, err)
	v2, err := store2.GenerateConsistentValue("user-42", "amount", DomainFinance)
	require.NoError(t, err)
	require.Equal(t, v1, v2)

	v3, err := store1.GenerateConsistentValue("user-42", "balance", DomainFinance)
	require.NoError(t, err)
	require.NotEqual(t, v1, v3)
}

func TestInferTraitsFromBackstory(t *testing.T) {
	traits := InferTraitsFromBackstory(DomainFinance, "A high-spending long-term customer who pays in USD.")
	require.Equal(t, "high", traits["spending_level"])
	require.Equal(t, "long_term", traits["account_age"])
	require.Equal(t, "USD", traits["preferred_currency"])
}

func TestApplyDomainOverlayFinanceMultiplier(t *testing.T) {
	out := ApplyDomainOverlay(DomainFinance, "amount", 100.0, map[string]string{"spending_level": "high"})
	require.Equal(t, 200.0, out)
}

func TestApplyDomainOverlayEcommerceMultiplier(t *testing.T) {
	out := ApplyDomainOverlay(DomainEcommerce, "price", 100.0, map[string]string{"customer_tier": "new"})
	require.Equal(t, 70.0, out)
}
