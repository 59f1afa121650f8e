package passenger

import (
	"testing"

	"gotitanic/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSex(t *testing.T) {
	sex, err := ParseSex(" Male ")
	require.NoError(t, err)
	assert.Equal(t, SexMale, sex)

	_, err = ParseSex("unknown")
	assert.Error(t, err)
}

func TestParseClass(t *testing.T) {
	class, err := ParseClass("2")
	require.NoError(t, err)
	assert.Equal(t, SecondClass, class)

	for _, in := range []string{"0", "4", "first", ""} {
		_, err := ParseClass(in)
		assert.Error(t, err, in)
	}
}

func TestDomainsAreAscending(t *testing.T) {
	assert.Equal(t, []Sex{"female", "male"}, Sexes())
	assert.Equal(t, []Class{1, 2, 3}, Classes())
}

func TestValidate(t *testing.T) {
	valid := Passenger{PassengerID: 1, Class: ThirdClass, Name: "Braund, Mr. Owen Harris", Sex: SexMale, Age: 22, Fare: 7.25}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.Sex = "unknown"
	invalid.Class = 5
	err := invalid.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidRecord)
	assert.Contains(t, err.Error(), "Sex")
	assert.Contains(t, err.Error(), "Class")

	negativeAge := valid
	negativeAge.Age = -1
	assert.ErrorIs(t, negativeAge.Validate(), core.ErrInvalidRecord)
}
