package report

import (
	"context"
	"testing"
	"time"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/passenger"
	"gotitanic/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioSnapshot(t *testing.T) *domain.Snapshot {
	t.Helper()
	builder, err := analysis.NewBuilder(analysis.TabulatorConfig{})
	require.NoError(t, err)

	snap, err := builder.Build(context.Background(), []passenger.Passenger{
		{PassengerID: 1, Sex: passenger.SexMale, Class: passenger.FirstClass, Age: 30, Survived: true},
		{PassengerID: 2, Sex: passenger.SexMale, Class: passenger.FirstClass, Age: 50},
		{PassengerID: 3, Sex: passenger.SexFemale, Class: passenger.SecondClass, Age: 20, Survived: true},
		{PassengerID: 4, Sex: passenger.SexFemale, Class: passenger.SecondClass, Age: 40, Survived: true},
	})
	require.NoError(t, err)
	snap.CreatedAt = time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	return snap
}

func TestMarkdown_Scenario(t *testing.T) {
	md := string(Markdown(scenarioSnapshot(t)))

	assert.Contains(t, md, "built 2026-04-15T00:00:00Z from 4 records")
	assert.Contains(t, md, "| 4 | 35.00 | 11.18 | 20 | 50 |")
	assert.Contains(t, md, "| 1 | 2 | 1 | 1 | 50.0% | 40.00 |")
	assert.Contains(t, md, "| 2 | 2 | 2 | 0 | 100.0% | 30.00 |")
	assert.Contains(t, md, "| female | 2 | 2 | 0 | 100.0% | 30.00 |")
	assert.Contains(t, md, "| male | 1 | 2 | 1 | 1 | 30.00 | 50.00 |")
	assert.Contains(t, md, "| female | 2 | 2 | 2 | 0 | 30.00 | n/a |")
}

func TestMarkdown_Deterministic(t *testing.T) {
	snap := scenarioSnapshot(t)
	assert.Equal(t, Markdown(snap), Markdown(snap))
}

func TestRender_HTML(t *testing.T) {
	out, err := Render(scenarioSnapshot(t), FormatHTML)
	require.NoError(t, err)

	page := string(out)
	assert.Contains(t, page, "<title>Passenger analysis</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<h2")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	f, err = ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)
	assert.Equal(t, "text/html; charset=utf-8", f.ContentType())

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
