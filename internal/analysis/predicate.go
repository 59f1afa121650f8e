package analysis

import (
	domain "gotitanic/domain/analysis"
	"gotitanic/domain/passenger"
)

// Predicate selects passengers. A nil Predicate selects every passenger.
type Predicate func(passenger.Passenger) bool

// All selects every passenger
func All() Predicate {
	return nil
}

// And combines predicates into a conjunction; nil members are ignored
func And(preds ...Predicate) Predicate {
	var active []Predicate
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return func(p passenger.Passenger) bool {
		for _, pred := range active {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

func SexIs(sex passenger.Sex) Predicate {
	return func(p passenger.Passenger) bool { return p.Sex == sex }
}

func ClassIs(class passenger.Class) Predicate {
	return func(p passenger.Passenger) bool { return p.Class == class }
}

func SurvivedIs(survived bool) Predicate {
	return func(p passenger.Passenger) bool { return p.Survived == survived }
}

// AgeBetween selects ages in the inclusive range [lo, hi]
func AgeBetween(lo, hi float64) Predicate {
	return func(p passenger.Passenger) bool { return p.Age >= lo && p.Age <= hi }
}

// AgeAtLeast selects ages >= lo; a non-positive bound selects everyone
func AgeAtLeast(lo float64) Predicate {
	if lo <= 0 {
		return nil
	}
	return func(p passenger.Passenger) bool { return p.Age >= lo }
}

// FromFilter converts a request filter into a predicate
func FromFilter(f domain.Filter) Predicate {
	if f.IsEmpty() {
		return nil
	}
	return f.Matches
}

// Select returns the passengers matching pred without copying when pred is nil
func Select(records []passenger.Passenger, pred Predicate) []passenger.Passenger {
	if pred == nil {
		return records
	}
	out := make([]passenger.Passenger, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
