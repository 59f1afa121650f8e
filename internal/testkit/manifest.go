package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"gotitanic/domain/passenger"
)

// Manifest is a generated passenger list together with its tabular form
type Manifest struct {
	Headers    []string
	Rows       [][]string // already formatted strings, one per header
	Passengers []passenger.Passenger
}

// ManifestConfig configures the manifest generator
type ManifestConfig struct {
	Rows int   `json:"rows"`
	Seed int64 `json:"seed"`

	// FemaleShare is the probability that a passenger is female
	FemaleShare float64 `json:"female_share"`
	// ClassShares weights first, second and third class
	ClassShares [3]float64 `json:"class_shares"`
	// SurvivalRates is indexed by sex (0 female, 1 male) and class - 1
	SurvivalRates [2][3]float64 `json:"survival_rates"`
}

// DefaultManifestConfig returns shares and survival rates close to the 1912
// sailing, so generated reports look like the real manifest
func DefaultManifestConfig() ManifestConfig {
	return ManifestConfig{
		Rows:        891,
		Seed:        42,
		FemaleShare: 0.35,
		ClassShares: [3]float64{0.24, 0.21, 0.55},
		SurvivalRates: [2][3]float64{
			{0.97, 0.92, 0.50},
			{0.37, 0.16, 0.14},
		},
	}
}

// ManifestHeaders is the column layout of the public manifest dumps
var ManifestHeaders = []string{
	"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age",
	"SibSp", "Parch", "Ticket", "Fare", "Cabin", "Embarked",
}

// ManifestGenerator generates reproducible synthetic manifests
type ManifestGenerator struct {
	config ManifestConfig
	rng    *rand.Rand
}

// NewManifestGenerator creates a generator; equal seeds yield equal manifests
func NewManifestGenerator(config ManifestConfig) *ManifestGenerator {
	return &ManifestGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces config.Rows passengers with ids 1..Rows
func (g *ManifestGenerator) Generate() (*Manifest, error) {
	if g.config.Rows <= 0 {
		return nil, fmt.Errorf("rows must be > 0")
	}
	if g.config.FemaleShare < 0 || g.config.FemaleShare > 1 {
		return nil, fmt.Errorf("female share must be within [0, 1], got %g", g.config.FemaleShare)
	}

	m := &Manifest{
		Headers:    ManifestHeaders,
		Rows:       make([][]string, 0, g.config.Rows),
		Passengers: make([]passenger.Passenger, 0, g.config.Rows),
	}
	for i := 1; i <= g.config.Rows; i++ {
		p := g.passenger(i)
		m.Passengers = append(m.Passengers, p)
		m.Rows = append(m.Rows, manifestRow(p))
	}
	return m, nil
}

func (g *ManifestGenerator) passenger(id int) passenger.Passenger {
	sex, sexIdx := passenger.SexMale, 1
	if g.rng.Float64() < g.config.FemaleShare {
		sex, sexIdx = passenger.SexFemale, 0
	}
	class := passenger.Class(g.weighted(g.config.ClassShares[:]) + 1)
	age := g.randomAge(class)

	p := passenger.Passenger{
		PassengerID:     id,
		Survived:        g.rng.Float64() < g.config.SurvivalRates[sexIdx][class-1],
		Class:           class,
		Name:            g.randomName(id, sex, age),
		Sex:             sex,
		Age:             age,
		SiblingsSpouses: g.weighted([]float64{0.68, 0.23, 0.09}),
		ParentsChildren: g.weighted([]float64{0.76, 0.13, 0.11}),
		Ticket:          strconv.Itoa(100000 + g.rng.Intn(900000)),
		Fare:            g.randomFare(class),
		Embarked:        []string{"S", "C", "Q"}[g.weighted([]float64{0.72, 0.19, 0.09})],
	}
	if class == passenger.FirstClass && g.rng.Float64() < 0.8 {
		p.Cabin = fmt.Sprintf("%c%d", 'A'+rune(g.rng.Intn(5)), 1+g.rng.Intn(120))
	}
	return p
}

// randomAge draws from a normal curve that gets older with the class, in
// half-year steps; infants get months as the public dumps do
func (g *ManifestGenerator) randomAge(class passenger.Class) float64 {
	mean := []float64{38, 30, 25}[class-1]
	age := mean + g.rng.NormFloat64()*14
	if age < 1 {
		return math.Round((0.17+g.rng.Float64()*0.75)*100) / 100
	}
	return math.Min(80, math.Round(age*2)/2)
}

func (g *ManifestGenerator) randomFare(class passenger.Class) float64 {
	base := []float64{60, 18, 9}[class-1]
	fare := base * math.Exp(g.rng.NormFloat64()*0.5)
	return math.Round(fare*10000) / 10000
}

func (g *ManifestGenerator) randomName(id int, sex passenger.Sex, age float64) string {
	title := "Mr."
	switch {
	case sex == passenger.SexFemale && age < 18:
		title = "Miss."
	case sex == passenger.SexFemale:
		title = "Mrs."
	case age < 13:
		title = "Master."
	}
	surnames := []string{"Andersson", "Sage", "Goodwin", "Carter", "Brown", "Johnson", "Skoog", "Panula"}
	return fmt.Sprintf("%s, %s Passenger %d", surnames[g.rng.Intn(len(surnames))], title, id)
}

// weighted returns the index picked by a cumulative draw over weights
func (g *ManifestGenerator) weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

func manifestRow(p passenger.Passenger) []string {
	survived := "0"
	if p.Survived {
		survived = "1"
	}
	return []string{
		strconv.Itoa(p.PassengerID),
		survived,
		p.Class.String(),
		p.Name,
		p.Sex.String(),
		strconv.FormatFloat(p.Age, 'f', -1, 64),
		strconv.Itoa(p.SiblingsSpouses),
		strconv.Itoa(p.ParentsChildren),
		p.Ticket,
		strconv.FormatFloat(p.Fare, 'f', -1, 64),
		p.Cabin,
		p.Embarked,
	}
}
