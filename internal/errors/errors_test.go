package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"gotitanic/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCauseChain(t *testing.T) {
	base := core.NewInvalidFilterError("ageMin", "must not be negative")
	err := Wrap(base, "estimate failed")

	assert.True(t, stderrors.Is(err, core.ErrInvalidFilter))
	assert.Equal(t, CodeInvalidFilter, GetCode(err))
	assert.Contains(t, err.Error(), "estimate failed")
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWrap_PreservesAppErrorCode(t *testing.T) {
	inner := DatabaseError("query failed", fmt.Errorf("connection reset"))
	err := Wrapf(inner, "fetch %s", "passengers")

	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeConfigInvalid, fmt.Errorf("PORT must be numeric"))
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid filter", core.NewInvalidFilterError("sex", "unknown"), http.StatusBadRequest},
		{"unknown selector", fmt.Errorf("%w: %q", core.ErrUnknownSelector, "x"), http.StatusBadRequest},
		{"invalid input", InvalidInput("width must be a number"), http.StatusBadRequest},
		{"snapshot missing", core.ErrSnapshotNotFound, http.StatusNotFound},
		{"no data", core.ErrNoData, http.StatusNotFound},
		{"rebuild failed", core.NewRebuildError("fetch", fmt.Errorf("boom")), http.StatusServiceUnavailable},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
