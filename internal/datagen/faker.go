// Package datagen implements the layered mock-data generation
// pipeline: faker primitives, domain trait overlays, backstory
// inference, constraint application, and schema/OpenAPI-driven
// synthesis.
package datagen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/net/idna"
)

var firstNames = []string{
	"Alice", "Bob", "Carla", "Dmitri", "Elena", "Farid", "Grace", "Hiro",
	"Ingrid", "Jamal", "Kiara", "Liam", "Maya", "Noah", "Olamide", "Priya",
	"Quinn", "Rosa", "Sanjay", "Tara",
}

var lastNames = []string{
	"Anders", "Brennan", "Castillo", "Dubois", "Eriksson", "Fontaine",
	"Garza", "Haddad", "Ivanov", "Johansson", "Kowalski", "Lindqvist",
	"Moreau", "Nakamura", "Okafor", "Petrov", "Quispe", "Reyes",
	"Sorensen", "Takahashi",
}

var companySuffixes = []string{"Inc", "LLC", "Group", "Partners", "Labs", "Systems", "Holdings"}
var companyWords = []string{"Acme", "Globex", "Initech", "Umbrella", "Soylent", "Hooli", "Vandelay", "Stark"}

var streetNames = []string{"Maple", "Oak", "Cedar", "Birch", "Pine", "Elm", "Willow", "Spruce"}
var cities = []string{"Riverton", "Fairview", "Greenwood", "Lakeside", "Hillcrest", "Brookfield"}

var domains = []string{"example.com", "mail.test", "corp.io", "webmail.net"}

var tlds = []string{"com", "org", "net", "io"}

// companyWordsIntl are occasionally picked for URL hostnames so the
// idna punycode normalization below has non-ASCII input to exercise.
var companyWordsIntl = []string{"Münchën", "Zürïch", "Café", "Øresund"}

const printableChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Faker produces primitive values using a caller-supplied RNG so
// generation can be made deterministic by seeding that RNG.
type Faker struct {
	rng *rand.Rand
}

// NewFaker wraps an RNG. Pass rand.New(rand.NewSource(time.Now().UnixNano()))
// for ad-hoc generation, or a seeded source for reproducible output.
func NewFaker(rng *rand.Rand) *Faker {
	return &Faker{rng: rng}
}

func (f *Faker) pick(items []string) string {
	return items[f.rng.Intn(len(items))]
}

// GenerateByType dispatches to the primitive generator for a semantic
// field type name, falling back to a generic string for unknown types.
func (f *Faker) GenerateByType(fieldType string) interface{} {
	switch strings.ToLower(fieldType) {
	case "email":
		return f.Email()
	case "name":
		return f.Name()
	case "phone":
		return f.Phone()
	case "uuid":
		return f.UUID()
	case "address":
		return f.Address()
	case "ip":
		return f.IP()
	case "url":
		return f.URL()
	case "date":
		return f.Date()
	case "company":
		return f.Company()
	case "integer":
		return f.Integer()
	case "number":
		return f.Number()
	case "boolean":
		return f.Boolean()
	case "string":
		return f.String(10)
	default:
		return f.String(10)
	}
}

func (f *Faker) Name() string {
	return f.pick(firstNames) + " " + f.pick(lastNames)
}

func (f *Faker) Email() string {
	local := strings.ToLower(f.pick(firstNames) + "." + f.pick(lastNames))
	return fmt.Sprintf("%s@%s", local, f.pick(domains))
}

func (f *Faker) Phone() string {
	return fmt.Sprintf("+1-%03d-%03d-%04d", f.rng.Intn(800)+200, f.rng.Intn(800)+200, f.rng.Intn(10000))
}

func (f *Faker) UUID() string {
	b := make([]byte, 16)
	f.rng.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

func (f *Faker) Address() string {
	return fmt.Sprintf("%d %s St, %s", f.rng.Intn(9000)+100, f.pick(streetNames), f.pick(cities))
}

func (f *Faker) IP() string {
	return fmt.Sprintf("%d.%d.%d.%d", f.rng.Intn(256), f.rng.Intn(256), f.rng.Intn(256), f.rng.Intn(256))
}

func (f *Faker) URL() string {
	host := f.hostLabel() + "." + f.pick(tlds)
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		ascii = host
	}
	return fmt.Sprintf("https://%s/%s", ascii, f.String(6))
}

// hostLabel occasionally produces a non-ASCII hostname label so URL's
// idna normalization has something to punycode-encode.
func (f *Faker) hostLabel() string {
	if f.rng.Intn(5) == 0 {
		return strings.ToLower(f.pick(companyWordsIntl))
	}
	return strings.ToLower(f.pick(companyWords))
}

func (f *Faker) Date() string {
	days := f.rng.Intn(3650)
	t := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(days) * 24 * time.Hour)
	return t.Format("2006-01-02")
}

func (f *Faker) Company() string {
	return fmt.Sprintf("%s %s", f.pick(companyWords), f.pick(companySuffixes))
}

func (f *Faker) Integer() int64 {
	return int64(f.rng.Intn(10000))
}

func (f *Faker) Number() float64 {
	return f.rng.Float64() * 10000
}

func (f *Faker) Boolean() bool {
	return f.rng.Intn(2) == 1
}

// String generates n random printable characters.
func (f *Faker) String(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = printableChars[f.rng.Intn(len(printableChars))]
	}
	return string(b)
}

// RandomElement uniformly samples one element from a non-empty slice.
func (f *Faker) RandomElement(values []interface{}) interface{} {
	if len(values) == 0 {
		return nil
	}
	return values[f.rng.Intn(len(values))]
}
