package analysis

import (
	"fmt"
	"strings"

	"gotitanic/domain/core"
	"gotitanic/domain/passenger"
)

// Attribute reads one numeric field of a passenger
type Attribute struct {
	Name  string
	Value func(passenger.Passenger) float64
}

var (
	AgeAttribute  = Attribute{Name: "age", Value: func(p passenger.Passenger) float64 { return p.Age }}
	FareAttribute = Attribute{Name: "fare", Value: func(p passenger.Passenger) float64 { return p.Fare }}
)

// ParseAttribute resolves an attribute by name
func ParseAttribute(name string) (Attribute, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "age":
		return AgeAttribute, nil
	case "fare":
		return FareAttribute, nil
	}
	return Attribute{}, core.NewInvalidFilterError("attribute", fmt.Sprintf("%q is not a numeric attribute", name))
}
