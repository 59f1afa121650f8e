package ui

import (
	"fmt"
	"math"
	"strconv"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/passenger"
	apperrors "gotitanic/internal/errors"

	"github.com/gin-gonic/gin"
)

var (
	filterParams       = []string{"sex", "class", "ageMin", "ageMax"}
	distributionParams = append([]string{"attribute", "width", "min", "max"}, filterParams...)
)

// parseFilter reads the optional sex, class and age bound parameters.
// Malformed and out-of-domain values are rejected here, before the service
// is called.
func parseFilter(c *gin.Context) (domain.Filter, error) {
	var filter domain.Filter

	if v, ok := c.GetQuery("sex"); ok {
		sex, err := passenger.ParseSex(v)
		if err != nil {
			return filter, apperrors.InvalidInput(err.Error())
		}
		filter.Sex = &sex
	}
	if v, ok := c.GetQuery("class"); ok {
		class, err := passenger.ParseClass(v)
		if err != nil {
			return filter, apperrors.InvalidInput(err.Error())
		}
		filter.Class = &class
	}

	var err error
	if filter.AgeMin, err = optionalFloat(c, "ageMin"); err != nil {
		return filter, err
	}
	if filter.AgeMax, err = optionalFloat(c, "ageMax"); err != nil {
		return filter, err
	}
	return filter, nil
}

// parseBinning reads width, min and max. Without width the distribution is
// raw; with it max is required and min defaults to 0.
func parseBinning(c *gin.Context) (*domain.Binning, error) {
	width, err := optionalFloat(c, "width")
	if err != nil {
		return nil, err
	}
	rangeMin, err := optionalFloat(c, "min")
	if err != nil {
		return nil, err
	}
	rangeMax, err := optionalFloat(c, "max")
	if err != nil {
		return nil, err
	}

	if width == nil {
		if rangeMin != nil || rangeMax != nil {
			return nil, apperrors.InvalidInput("min and max require width")
		}
		return nil, nil
	}
	if rangeMax == nil {
		return nil, apperrors.InvalidInput("width requires max")
	}

	binning := &domain.Binning{Width: *width, RangeMax: *rangeMax}
	if rangeMin != nil {
		binning.RangeMin = *rangeMin
	}
	if err := binning.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	return binning, nil
}

func optionalFloat(c *gin.Context, name string) (*float64, error) {
	v, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s must be a finite number, got %q", name, v))
	}
	return &f, nil
}

func optionalInt(c *gin.Context, name string, def int) (int, error) {
	v, ok := c.GetQuery(name)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("%s must be a non-negative integer, got %q", name, v))
	}
	return n, nil
}
