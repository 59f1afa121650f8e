package analysis

import (
	"fmt"
	"math"
	"strings"

	"gotitanic/domain/core"
	"gotitanic/domain/passenger"
)

// Filter is a conjunction of constraints used for outcome ratios. Nil fields
// are unconstrained; the age range is inclusive on both ends.
type Filter struct {
	Sex    *passenger.Sex   `json:"sex,omitempty"`
	Class  *passenger.Class `json:"class,omitempty"`
	AgeMin *float64         `json:"ageMin,omitempty"`
	AgeMax *float64         `json:"ageMax,omitempty"`
}

// Validate rejects filters that reference values outside an attribute's
// domain. It runs before any computation starts.
func (f Filter) Validate() error {
	if f.Sex != nil && !f.Sex.Valid() {
		return core.NewInvalidFilterError("sex", fmt.Sprintf("%q is not one of %v", *f.Sex, passenger.Sexes()))
	}
	if f.Class != nil && !f.Class.Valid() {
		return core.NewInvalidFilterError("class", fmt.Sprintf("%d is not one of %v", *f.Class, passenger.Classes()))
	}
	bounds := []struct {
		name  string
		value *float64
	}{
		{"ageMin", f.AgeMin},
		{"ageMax", f.AgeMax},
	}
	for _, bound := range bounds {
		if bound.value == nil {
			continue
		}
		if math.IsNaN(*bound.value) || math.IsInf(*bound.value, 0) {
			return core.NewInvalidFilterError(bound.name, "must be a finite number")
		}
		if *bound.value < 0 {
			return core.NewInvalidFilterError(bound.name, "must not be negative")
		}
	}
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return core.NewInvalidFilterError("ageMin", fmt.Sprintf("%g is greater than ageMax %g", *f.AgeMin, *f.AgeMax))
	}
	return nil
}

// Matches reports whether a passenger satisfies every constraint
func (f Filter) Matches(p passenger.Passenger) bool {
	if f.Sex != nil && p.Sex != *f.Sex {
		return false
	}
	if f.Class != nil && p.Class != *f.Class {
		return false
	}
	if f.AgeMin != nil && p.Age < *f.AgeMin {
		return false
	}
	if f.AgeMax != nil && p.Age > *f.AgeMax {
		return false
	}
	return true
}

// IsEmpty reports whether the filter matches every record
func (f Filter) IsEmpty() bool {
	return f.Sex == nil && f.Class == nil && f.AgeMin == nil && f.AgeMax == nil
}

func (f Filter) String() string {
	if f.IsEmpty() {
		return "all passengers"
	}
	var parts []string
	if f.Sex != nil {
		parts = append(parts, "sex="+f.Sex.String())
	}
	if f.Class != nil {
		parts = append(parts, "class="+f.Class.String())
	}
	if f.AgeMin != nil {
		parts = append(parts, fmt.Sprintf("age>=%g", *f.AgeMin))
	}
	if f.AgeMax != nil {
		parts = append(parts, fmt.Sprintf("age<=%g", *f.AgeMax))
	}
	return strings.Join(parts, " ")
}
