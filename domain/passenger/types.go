package passenger

import (
	"fmt"
	"strconv"
	"strings"

	"gotitanic/domain/core"

	"github.com/go-playground/validator/v10"
)

// Sex is the categorical sex attribute of a passenger
type Sex string

const (
	SexFemale Sex = "female"
	SexMale   Sex = "male"
)

// Class is the ordinal ticket class (1 = first class)
type Class int

const (
	FirstClass  Class = 1
	SecondClass Class = 2
	ThirdClass  Class = 3
)

// Sexes returns the fixed sex domain in ascending order
func Sexes() []Sex {
	return []Sex{SexFemale, SexMale}
}

// Classes returns the fixed class domain in ascending order
func Classes() []Class {
	return []Class{FirstClass, SecondClass, ThirdClass}
}

// ParseSex parses a sex value, case-insensitively
func ParseSex(s string) (Sex, error) {
	sex := Sex(strings.ToLower(strings.TrimSpace(s)))
	if !sex.Valid() {
		return "", fmt.Errorf("unknown sex %q", s)
	}
	return sex, nil
}

// Valid reports whether the sex belongs to the fixed domain
func (s Sex) Valid() bool {
	return s == SexFemale || s == SexMale
}

func (s Sex) String() string { return string(s) }

// ParseClass parses a class value such as "1" or "3"
func ParseClass(s string) (Class, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("class %q is not a number", s)
	}
	class := Class(n)
	if !class.Valid() {
		return 0, fmt.Errorf("unknown class %d", n)
	}
	return class, nil
}

// Valid reports whether the class belongs to the fixed domain
func (c Class) Valid() bool {
	return c >= FirstClass && c <= ThirdClass
}

func (c Class) String() string { return strconv.Itoa(int(c)) }

// Passenger is one immutable historical record. Only PassengerID, Survived,
// Class, Sex and Age take part in analysis; the rest is carried through.
type Passenger struct {
	PassengerID     int     `json:"passengerId" db:"passenger_id" validate:"gt=0"`
	Survived        bool    `json:"survived" db:"survived"`
	Class           Class   `json:"class" db:"class" validate:"min=1,max=3"`
	Name            string  `json:"name" db:"name" validate:"required"`
	Sex             Sex     `json:"sex" db:"sex" validate:"oneof=male female"`
	Age             float64 `json:"age" db:"age" validate:"gte=0"`
	SiblingsSpouses int     `json:"sibSp" db:"sib_sp" validate:"gte=0"`
	ParentsChildren int     `json:"parch" db:"parch" validate:"gte=0"`
	Ticket          string  `json:"ticket" db:"ticket"`
	Fare            float64 `json:"fare" db:"fare" validate:"gte=0"`
	Cabin           string  `json:"cabin,omitempty" db:"cabin"`
	Embarked        string  `json:"embarked,omitempty" db:"embarked"`
}

var validate = validator.New()

// Validate checks a record at ingestion time. The analysis engine never
// validates; it assumes every record it receives passed this check.
func (p Passenger) Validate() error {
	if err := validate.Struct(p); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: passenger %d: %s", core.ErrInvalidRecord, p.PassengerID, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", core.ErrInvalidRecord, err)
	}
	return nil
}
