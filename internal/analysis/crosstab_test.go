package analysis

import (
	"context"
	"testing"

	domain "gotitanic/domain/analysis"
	"gotitanic/domain/passenger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTabulator(t *testing.T, workers int) *Tabulator {
	t.Helper()
	tab, err := NewTabulator(TabulatorConfig{
		AgeBinning: &domain.Binning{Width: 10, RangeMin: 0, RangeMax: 80},
		Workers:    workers,
	})
	require.NoError(t, err)
	return tab
}

func TestTabulate_ScenarioSexThenClass(t *testing.T) {
	root, err := newTestTabulator(t, 2).Tabulate(context.Background(), scenarioPassengers(), SexThenClass())
	require.NoError(t, err)

	assert.Equal(t, "sex", root.Dimension)
	assert.Equal(t, 4, root.Count)
	assert.Equal(t, []string{"female", "male"}, root.Keys)

	male, ok := root.Child("male")
	require.True(t, ok)
	assert.Equal(t, "class", male.Dimension)
	assert.Equal(t, []string{"1"}, male.Keys)

	leaf, ok := root.Path("male", "1")
	require.True(t, ok)
	require.True(t, leaf.Leaf())
	assert.Equal(t, 2, leaf.Count)
	assert.Equal(t, 1, leaf.Outcome.Survived)
	assert.Equal(t, 1, leaf.Outcome.Died)
	assert.Equal(t, 30.0, leaf.Outcome.SurvivedAges.Summary.Mean)
	assert.Equal(t, 50.0, leaf.Outcome.DiedAges.Summary.Mean)

	femaleLeaf, ok := root.Path("female", "2")
	require.True(t, ok)
	assert.Equal(t, 2, femaleLeaf.Outcome.Survived)
	assert.True(t, femaleLeaf.Outcome.DiedAges.NoData)
	assert.Len(t, femaleLeaf.Outcome.DiedAges.Buckets, 8, "binned distributions stay zero-filled")

	survived, died := root.OutcomeTotals()
	assert.Equal(t, 3, survived)
	assert.Equal(t, 1, died)
}

func TestTabulate_ClassKeysSortNumerically(t *testing.T) {
	records := []passenger.Passenger{
		{Class: passenger.ThirdClass, Sex: passenger.SexMale},
		{Class: passenger.FirstClass, Sex: passenger.SexMale},
		{Class: passenger.SecondClass, Sex: passenger.SexFemale},
	}
	root, err := newTestTabulator(t, 0).Tabulate(context.Background(), records, ClassThenSex())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, root.Keys)
}

func TestTabulate_ChildCountsSumToParent(t *testing.T) {
	records := randomPassengers(891, 42)
	root, err := newTestTabulator(t, 4).Tabulate(context.Background(), records, ClassThenSex())
	require.NoError(t, err)

	var check func(node *domain.CrossTabNode)
	check = func(node *domain.CrossTabNode) {
		assert.Equal(t, node.Count, node.Ages.Count())
		if node.Leaf() {
			assert.Equal(t, node.Count, node.Outcome.Survived+node.Outcome.Died)
			return
		}
		sum := 0
		for _, key := range node.Keys {
			child := node.Children[key]
			sum += child.Count
			check(child)
		}
		assert.Equal(t, node.Count, sum)
	}
	check(root)
	assert.Equal(t, len(records), root.Count)
}

// ageDistributions collects every age distribution in the tree
func ageDistributions(node *domain.CrossTabNode) []domain.Distribution {
	dists := []domain.Distribution{node.Ages}
	if node.Leaf() {
		return append(dists, node.Outcome.SurvivedAges, node.Outcome.DiedAges)
	}
	for _, key := range node.Keys {
		dists = append(dists, ageDistributions(node.Children[key])...)
	}
	return dists
}

func TestTabulate_SiblingsShareBucketsWhenRangeWidens(t *testing.T) {
	// The 80-year-old lies past the configured range and only in one leaf.
	records := []passenger.Passenger{
		{Sex: passenger.SexMale, Class: passenger.FirstClass, Age: 80, Survived: true},
		{Sex: passenger.SexMale, Class: passenger.FirstClass, Age: 40},
		{Sex: passenger.SexFemale, Class: passenger.FirstClass, Age: 40},
	}
	root, err := newTestTabulator(t, 2).Tabulate(context.Background(), records, SexThenClass())
	require.NoError(t, err)

	dists := ageDistributions(root)
	require.Len(t, dists, 9)
	for _, d := range dists {
		assert.Len(t, d.Buckets, 9)
		assert.Equal(t, labels(root.Ages.Buckets), labels(d.Buckets))
	}

	female, ok := root.Path("female", "1")
	require.True(t, ok)
	assert.Equal(t, "[80, 90)", female.Ages.Buckets[8].Label)
	assert.Equal(t, 0, female.Ages.Buckets[8].Count)
}

func TestTabulate_BucketsAlignedAcrossRandomTree(t *testing.T) {
	records := randomPassengers(500, 11)
	records = append(records, passenger.Passenger{Sex: passenger.SexFemale, Class: passenger.ThirdClass, Age: 95})
	tab, err := NewTabulator(TabulatorConfig{AgeBinning: &domain.Binning{Width: 5, RangeMin: 10, RangeMax: 60}})
	require.NoError(t, err)

	root, err := tab.Tabulate(context.Background(), records, ClassThenSex())
	require.NoError(t, err)

	want := len(root.Ages.Buckets)
	var check func(node *domain.CrossTabNode)
	check = func(node *domain.CrossTabNode) {
		sum := 0
		for _, b := range node.Ages.Buckets {
			sum += b.Count
		}
		assert.Equal(t, node.Count, sum)
		for _, key := range node.Keys {
			check(node.Children[key])
		}
	}
	check(root)
	for _, d := range ageDistributions(root) {
		assert.Len(t, d.Buckets, want)
	}
}

func TestTabulate_IndependentOfInputOrderAndWorkers(t *testing.T) {
	records := randomPassengers(400, 3)

	sequential, err := newTestTabulator(t, 0).Tabulate(context.Background(), records, SexThenClass())
	require.NoError(t, err)

	for seed := int64(1); seed <= 3; seed++ {
		parallel, err := newTestTabulator(t, 8).Tabulate(context.Background(), shuffled(records, seed), SexThenClass())
		require.NoError(t, err)
		assert.Equal(t, sequential, parallel)
	}
}

func TestTabulate_LeafCountsAreOrderIndependent(t *testing.T) {
	records := randomPassengers(600, 11)
	tab := newTestTabulator(t, 4)

	bySex, err := tab.Tabulate(context.Background(), records, SexThenClass())
	require.NoError(t, err)
	byClass, err := tab.Tabulate(context.Background(), records, ClassThenSex())
	require.NoError(t, err)

	for _, sex := range bySex.Keys {
		for _, class := range bySex.Children[sex].Keys {
			a, ok := bySex.Path(sex, class)
			require.True(t, ok)
			b, ok := byClass.Path(class, sex)
			require.True(t, ok)
			assert.Equal(t, a.Count, b.Count)
			assert.Equal(t, a.Outcome.Survived, b.Outcome.Survived)
			assert.Equal(t, a.Ages, b.Ages)
		}
	}
}

func TestTabulate_ArbitraryDimensionDepth(t *testing.T) {
	survived := NewDimension("survived", func(p passenger.Passenger) string {
		if p.Survived {
			return "yes"
		}
		return "no"
	})
	records := randomPassengers(200, 5)

	root, err := newTestTabulator(t, 2).Tabulate(context.Background(), records, []Dimension{ClassDimension, SexDimension, survived})
	require.NoError(t, err)

	leaf, ok := root.Path("1", "female", "yes")
	require.True(t, ok)
	assert.Equal(t, leaf.Count, leaf.Outcome.Survived)
	assert.Equal(t, 0, leaf.Outcome.Died)
}

func TestTabulate_NoDimensionsIsSingleLeaf(t *testing.T) {
	root, err := newTestTabulator(t, 0).Tabulate(context.Background(), scenarioPassengers(), nil)
	require.NoError(t, err)
	assert.True(t, root.Leaf())
	assert.Equal(t, 3, root.Outcome.Survived)
}

func TestTabulate_EmptyInput(t *testing.T) {
	root, err := newTestTabulator(t, 0).Tabulate(context.Background(), nil, SexThenClass())
	require.NoError(t, err)
	assert.Equal(t, 0, root.Count)
	assert.True(t, root.Ages.NoData)
	assert.Empty(t, root.Keys)
}

func TestTabulate_MinKnownAgeAppliesToOutcomeAges(t *testing.T) {
	records := []passenger.Passenger{
		{Sex: passenger.SexMale, Class: passenger.FirstClass, Age: 0, Survived: true},
		{Sex: passenger.SexMale, Class: passenger.FirstClass, Age: 40, Survived: true},
	}
	tab, err := NewTabulator(TabulatorConfig{MinKnownAge: 1})
	require.NoError(t, err)

	root, err := tab.Tabulate(context.Background(), records, SexThenClass())
	require.NoError(t, err)
	leaf, _ := root.Path("male", "1")
	assert.Equal(t, 2, leaf.Outcome.Survived)
	assert.Equal(t, 1, leaf.Outcome.SurvivedAges.Count())
	assert.Equal(t, 2, leaf.Ages.Count())
}

func TestTabulate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestTabulator(t, 2).Tabulate(ctx, randomPassengers(50, 1), SexThenClass())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTabulator_RejectsInvalidBinning(t *testing.T) {
	_, err := NewTabulator(TabulatorConfig{AgeBinning: &domain.Binning{Width: -1, RangeMax: 10}})
	assert.Error(t, err)
}
