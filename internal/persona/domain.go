// Package persona implements the Persona Registry and Consistency
// Store: deterministic, personality-driven data generation that stays
// stable across calls for the same entity.
package persona

// Domain is the business domain a persona belongs to; it selects which
// trait-overlay rules apply during generation.
type Domain string

const (
	DomainFinance    Domain = "finance"
	DomainEcommerce  Domain = "ecommerce"
	DomainHealthcare Domain = "healthcare"
	DomainIoT        Domain = "iot"
	DomainGeneral    Domain = "general"
)
