package analysis

import (
	"math/rand"

	"gotitanic/domain/passenger"
)

// scenarioPassengers is the four-record reference dataset
func scenarioPassengers() []passenger.Passenger {
	return []passenger.Passenger{
		{PassengerID: 1, Sex: passenger.SexMale, Class: passenger.FirstClass, Age: 30, Survived: true},
		{PassengerID: 2, Sex: passenger.SexMale, Class: passenger.FirstClass, Age: 50, Survived: false},
		{PassengerID: 3, Sex: passenger.SexFemale, Class: passenger.SecondClass, Age: 20, Survived: true},
		{PassengerID: 4, Sex: passenger.SexFemale, Class: passenger.SecondClass, Age: 40, Survived: true},
	}
}

// randomPassengers generates a reproducible synthetic manifest
func randomPassengers(n int, seed int64) []passenger.Passenger {
	rng := rand.New(rand.NewSource(seed))
	sexes := passenger.Sexes()
	classes := passenger.Classes()
	out := make([]passenger.Passenger, n)
	for i := range out {
		out[i] = passenger.Passenger{
			PassengerID: i + 1,
			Sex:         sexes[rng.Intn(len(sexes))],
			Class:       classes[rng.Intn(len(classes))],
			Age:         float64(rng.Intn(160)) / 2,
			Fare:        float64(rng.Intn(50000)) / 100,
			Survived:    rng.Intn(3) == 0,
		}
	}
	return out
}

func shuffled(records []passenger.Passenger, seed int64) []passenger.Passenger {
	out := make([]passenger.Passenger, len(records))
	copy(out, records)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
