package faker

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/Rana718/dbtools/internal/types"
	"github.com/google/uuid"
)

// ValueProvider is a fixed namespace of named value generators.
type ValueProvider interface {
	Has(name string) bool
	Invoke(name string) (any, error)
	Names() []string
}

type generatorFunc func(g *DataGenerator) any

// DataGenerator produces realistic fake values by generator name. It is not
// safe for concurrent use.
type DataGenerator struct {
	rand       *rand.Rand
	counter    int
	now        time.Time
	generators map[string]generatorFunc
}

type Option func(*DataGenerator)

// WithRand injects the random source, mainly for reproducible runs.
func WithRand(r *rand.Rand) Option {
	return func(g *DataGenerator) { g.rand = r }
}

// WithSeed is WithRand over a fresh source seeded with seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithClock pins the reference time used by date generators.
func WithClock(now time.Time) Option {
	return func(g *DataGenerator) { g.now = now }
}

func NewDataGenerator(opts ...Option) *DataGenerator {
	g := &DataGenerator{
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now(),
		generators: registry,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *DataGenerator) Has(name string) bool {
	_, ok := g.generators[name]
	return ok
}

func (g *DataGenerator) Invoke(name string) (any, error) {
	fn, ok := g.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", types.ErrUnknownGenerator, name)
	}
	return fn(g), nil
}

func (g *DataGenerator) Names() []string {
	names := make([]string, 0, len(g.generators))
	for name := range g.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var registry = map[string]generatorFunc{
	"name":           func(g *DataGenerator) any { return g.generateName() },
	"first_name":     func(g *DataGenerator) any { return g.pick(firstNames) },
	"last_name":      func(g *DataGenerator) any { return g.pick(lastNames) },
	"user_name":      func(g *DataGenerator) any { return g.generateUserName() },
	"email":          func(g *DataGenerator) any { return g.generateEmail() },
	"safe_email":     func(g *DataGenerator) any { return g.generateSafeEmail() },
	"phone_number":   func(g *DataGenerator) any { return g.generatePhone() },
	"address":        func(g *DataGenerator) any { return g.generateAddress() },
	"street_address": func(g *DataGenerator) any { return g.generateStreet() },
	"city":           func(g *DataGenerator) any { return g.pick(cities) },
	"country":        func(g *DataGenerator) any { return g.pick(countries) },
	"postcode":       func(g *DataGenerator) any { return fmt.Sprintf("%05d", g.rand.Intn(100000)) },
	"company":        func(g *DataGenerator) any { return g.generateCompany() },
	"job":            func(g *DataGenerator) any { return g.pick(jobs) },
	"url":            func(g *DataGenerator) any { return g.generateURL() },
	"ipv4":           func(g *DataGenerator) any { return g.generateIPv4() },
	"word":           func(g *DataGenerator) any { return g.pick(words) },
	"sentence":       func(g *DataGenerator) any { return g.pick(sentences) },
	"paragraph":      func(g *DataGenerator) any { return g.generateParagraph() },
	"text":           func(g *DataGenerator) any { return g.generateParagraph() },
	"boolean":        func(g *DataGenerator) any { return g.rand.Intn(2) == 1 },
	"date_time":      func(g *DataGenerator) any { return g.generateTimestamp() },
	"date":           func(g *DataGenerator) any { return g.generateTimestamp().Format("2006-01-02") },
	"random_number":  func(g *DataGenerator) any { return g.rand.Intn(10000) },
	"random_int":     func(g *DataGenerator) any { return g.rand.Intn(10000) },
	"pyfloat":        func(g *DataGenerator) any { return float64(g.rand.Intn(1000000)) / 100 },
	"uuid4":          func(g *DataGenerator) any { return g.generateUUID() },
	"color_name":     func(g *DataGenerator) any { return g.pick(colors) },
}

var (
	firstNames = []string{"John", "Jane", "Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry", "Ivy", "Jack", "Karen", "Liam", "Mia", "Noah"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Lopez", "Wilson", "Anderson", "Thomas"}
	cities     = []string{"Springfield", "Riverside", "Franklin", "Greenville", "Bristol", "Clinton", "Fairview", "Salem", "Madison", "Georgetown"}
	countries  = []string{"United States", "Canada", "Germany", "France", "Japan", "Brazil", "India", "Australia", "Spain", "Vietnam"}
	streets    = []string{"Main Street", "Oak Avenue", "Pine Road", "Maple Lane", "Cedar Court", "Elm Street", "Lake View Drive", "Hill Road"}
	companies  = []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli", "Stark", "Wayne", "Wonka", "Soylent", "Cyberdyne"}
	suffixes   = []string{"Inc", "LLC", "Group", "Ltd", "Corp"}
	jobs       = []string{"Software Engineer", "Data Analyst", "Product Manager", "Designer", "Accountant", "Teacher", "Nurse", "Architect", "Consultant"}
	domains    = []string{"example.com", "test.com", "demo.com", "mail.com"}
	words      = []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}
	colors     = []string{"Red", "Green", "Blue", "Orange", "Purple", "Teal", "Olive", "Maroon", "Navy", "Silver"}
	sentences  = []string{
		"This is a sample text generated for testing purposes.",
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
		"The quick brown fox jumps over the lazy dog.",
		"Software development requires careful planning and execution.",
		"Database design is crucial for application performance.",
	}
)

func (g *DataGenerator) pick(values []string) string {
	return values[g.rand.Intn(len(values))]
}

func (g *DataGenerator) generateName() string {
	return g.pick(firstNames) + " " + g.pick(lastNames)
}

func (g *DataGenerator) generateUserName() string {
	g.counter++
	return fmt.Sprintf("%s.%s%d", strings.ToLower(g.pick(firstNames)), strings.ToLower(g.pick(lastNames)), g.counter)
}

// Emails carry a per-generator counter so consecutive values never collide.
func (g *DataGenerator) generateEmail() string {
	g.counter++
	return fmt.Sprintf("user%d_%d@%s", g.counter, g.rand.Intn(100000), g.pick(domains))
}

func (g *DataGenerator) generateSafeEmail() string {
	g.counter++
	return fmt.Sprintf("%s%d@example.org", strings.ToLower(g.pick(firstNames)), g.counter)
}

func (g *DataGenerator) generatePhone() string {
	return fmt.Sprintf("+1-%03d-%03d-%04d", g.rand.Intn(1000), g.rand.Intn(1000), g.rand.Intn(10000))
}

func (g *DataGenerator) generateStreet() string {
	return fmt.Sprintf("%d %s", g.rand.Intn(9999)+1, g.pick(streets))
}

func (g *DataGenerator) generateAddress() string {
	return fmt.Sprintf("%s, %s %05d", g.generateStreet(), g.pick(cities), g.rand.Intn(100000))
}

func (g *DataGenerator) generateCompany() string {
	return g.pick(companies) + " " + g.pick(suffixes)
}

func (g *DataGenerator) generateURL() string {
	return fmt.Sprintf("https://%s/page/%d", g.pick(domains), g.rand.Intn(1000))
}

func (g *DataGenerator) generateIPv4() string {
	return fmt.Sprintf("%d.%d.%d.%d", g.rand.Intn(223)+1, g.rand.Intn(256), g.rand.Intn(256), g.rand.Intn(254)+1)
}

func (g *DataGenerator) generateParagraph() string {
	n := g.rand.Intn(3) + 2
	parts := make([]string, n)
	for i := range parts {
		parts[i] = g.pick(sentences)
	}
	return strings.Join(parts, " ")
}

func (g *DataGenerator) generateTimestamp() time.Time {
	offset := time.Duration(g.rand.Int63n(int64(365 * 24 * time.Hour)))
	return g.now.Add(-offset).Truncate(time.Second)
}

func (g *DataGenerator) generateUUID() string {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
