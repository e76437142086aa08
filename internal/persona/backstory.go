package persona

import "strings"

// financeKeywords maps case-insensitive substrings found in a
// backstory to the trait they imply. Order matters only in that a
// later match overwrites an earlier one for the same trait key.
var financeKeywords = []struct {
	keyword string
	trait   string
	value   string
}{
	{"high-spending", "spending_level", "high"},
	{"high spender", "spending_level", "high"},
	{"big spender", "spending_level", "high"},
	{"frugal", "spending_level", "low"},
	{"conservative spender", "spending_level", "conservative"},
	{"budget-conscious", "spending_level", "low"},
	{"long-term", "account_age", "long_term"},
	{"long-time customer", "account_age", "long_term"},
	{"new customer", "account_age", "new"},
	{"recently joined", "account_age", "new"},
}

var currencyKeywords = map[string]string{
	"usd":     "USD",
	"dollars": "USD",
	"eur":     "EUR",
	"euros":   "EUR",
	"gbp":     "GBP",
	"pounds":  "GBP",
	"jpy":     "JPY",
	"yen":     "JPY",
}

var ecommerceKeywords = []struct {
	keyword string
	trait   string
	value   string
}{
	{"vip", "customer_tier", "VIP"},
	{"loyal customer", "customer_tier", "VIP"},
	{"frequent buyer", "customer_tier", "VIP"},
	{"first-time buyer", "customer_tier", "new"},
	{"new shopper", "customer_tier", "new"},
	{"express shipping", "preferred_shipping", "express"},
	{"overnight delivery", "preferred_shipping", "express"},
	{"standard shipping", "preferred_shipping", "standard"},
}

var healthcareKeywords = []struct {
	keyword string
	trait   string
	value   string
}{
	{"private insurance", "insurance_type", "private"},
	{"medicare", "insurance_type", "medicare"},
	{"medicaid", "insurance_type", "medicaid"},
	{"uninsured", "insurance_type", "none"},
}

// InferTraitsFromBackstory performs a case-insensitive keyword search
// over a backstory narrative, returning traits implied by the text.
// These traits are intended for single-generation use only — callers
// must not persist them back onto the persona.
func InferTraitsFromBackstory(domain Domain, backstory string) map[string]string {
	lower := strings.ToLower(backstory)
	inferred := make(map[string]string)

	apply := func(rules []struct {
		keyword string
		trait   string
		value   string
	}) {
		for _, r := range rules {
			if strings.Contains(lower, r.keyword) {
				inferred[r.trait] = r.value
			}
		}
	}

	switch domain {
	case DomainFinance:
		apply(financeKeywords)
	case DomainEcommerce:
		apply(ecommerceKeywords)
	case DomainHealthcare:
		apply(healthcareKeywords)
	}

	for kw, code := range currencyKeywords {
		if strings.Contains(lower, kw) {
			inferred["preferred_currency"] = code
			break
		}
	}

	return inferred
}

// financeMultipliers scales amount-like fields by spending_level.
var financeMultipliers = map[string]float64{
	"high":         2.0,
	"moderate":     1.0,
	"conservative": 0.5,
	"low":          0.5,
}

// ecommerceMultipliers scales price-like fields by customer_tier.
var ecommerceMultipliers = map[string]float64{
	"VIP":     1.5,
	"regular": 1.0,
	"new":     0.7,
}

var financeAmountFields = map[string]bool{
	"amount": true, "balance": true, "transaction_amount": true,
}

var ecommercePriceFields = map[string]bool{
	"price": true, "order_total": true,
}

// ApplyDomainOverlay adjusts a generated field value according to the
// domain-specific trait rules (spec §4.C item 2). traits is the
// effective trait set for this generation (persisted traits merged
// with any backstory-inferred ones).
func ApplyDomainOverlay(domain Domain, fieldName string, value interface{}, traits map[string]string) interface{} {
	switch domain {
	case DomainFinance:
		if financeAmountFields[fieldName] {
			if level, ok := traits["spending_level"]; ok {
				if mult, ok := financeMultipliers[level]; ok {
					if f, ok := toFloat64(value); ok {
						return f * mult
					}
				}
			}
		}
		if fieldName == "currency" {
			if cur, ok := traits["preferred_currency"]; ok {
				return cur
			}
		}
		if fieldName == "account_type" {
			if at, ok := traits["account_type"]; ok {
				return at
			}
		}
	case DomainEcommerce:
		if ecommercePriceFields[fieldName] {
			if tier, ok := traits["customer_tier"]; ok {
				if mult, ok := ecommerceMultipliers[tier]; ok {
					if f, ok := toFloat64(value); ok {
						return f * mult
					}
				}
			}
		}
		if fieldName == "shipping_method" {
			if ship, ok := traits["preferred_shipping"]; ok {
				return ship
			}
		}
	case DomainHealthcare:
		if fieldName == "insurance_type" {
			if v, ok := traits["insurance_type"]; ok {
				return v
			}
		}
		if fieldName == "blood_type" {
			if v, ok := traits["blood_type"]; ok {
				return v
			}
		}
	}
	return value
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
