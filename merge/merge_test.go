package merge

import (
	"testing"

	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/refdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(candidates []core.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Name
	}
	return out
}

func TestMerge_Scenario(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"반도체": "d1", "자동차": "d2"})
	vector := []core.VectorCandidate{{Name: "반도체", Similarity: 80, Description: "d1"}}
	model := []core.ModelCandidate{
		{Name: "반도체", Score: 9, Reason: "r1"},
		{Name: "자동차", Score: 5, Reason: "r2"},
	}

	result := Merge(vector, model, dict)

	require.Len(t, result, 2)
	assert.Equal(t, []string{"반도체", "자동차"}, names(result))

	assert.Equal(t, core.Candidate{
		Name:             "반도체",
		VectorSimilarity: 80,
		ModelScore:       9,
		ModelReason:      "r1",
		Description:      "d1",
		FinalScore:       8.7,
	}, result[0])
	assert.Equal(t, core.Candidate{
		Name:        "자동차",
		ModelScore:  5,
		ModelReason: "r2",
		Description: "d2",
		FinalScore:  3.5,
	}, result[1])
}

func TestMerge_ScoreBounds(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"a": "", "b": ""})

	result := Merge(
		[]core.VectorCandidate{{Name: "a", Similarity: 100}},
		[]core.ModelCandidate{{Name: "b", Score: 10}},
		dict,
	)

	require.Len(t, result, 2)
	assert.Equal(t, "b", result[0].Name)
	assert.Equal(t, 7.0, result[0].FinalScore)
	assert.Equal(t, "a", result[1].Name)
	assert.Equal(t, 3.0, result[1].FinalScore)
}

func TestMerge_UnknownModelNameDropped(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"반도체": "d1"})

	result := Merge(nil, []core.ModelCandidate{
		{Name: "없는업종", Score: 10, Reason: "hallucinated"},
		{Name: "반도체", Score: 4},
	}, dict)

	assert.Equal(t, []string{"반도체"}, names(result))
}

func TestMerge_UnknownVectorNameDropped(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"a": "da"})

	result := Merge([]core.VectorCandidate{
		{Name: "stale", Similarity: 99},
		{Name: "a", Similarity: 50},
	}, nil, dict)

	assert.Equal(t, []string{"a"}, names(result))
}

func TestMerge_EmptyInputs(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"a": "da"})

	result := Merge(nil, nil, dict)
	assert.NotNil(t, result)
	assert.Empty(t, result)

	result = Merge([]core.VectorCandidate{}, []core.ModelCandidate{}, nil)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestMerge_NamesAreUnionIntersectDict(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"v1": "", "v2": "", "m1": ""})

	result := Merge(
		[]core.VectorCandidate{{Name: "v1", Similarity: 10}, {Name: "vx", Similarity: 90}},
		[]core.ModelCandidate{{Name: "m1", Score: 2}, {Name: "mx", Score: 9}, {Name: "v2", Score: 1}},
		dict,
	)

	assert.ElementsMatch(t, []string{"v1", "m1", "v2"}, names(result))
}

func TestMerge_TruncatesToTopThree(t *testing.T) {
	entries := map[string]string{}
	var vector []core.VectorCandidate
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		entries[name] = ""
		vector = append(vector, core.VectorCandidate{Name: name, Similarity: float64(10 * (i + 1))})
	}
	dict := refdb.NewDictFromMap(entries)

	result := Merge(vector, nil, dict)

	require.Len(t, result, 3)
	assert.Equal(t, []string{"e", "d", "c"}, names(result))
}

func TestMerge_ResultLengthIsMinOfThree(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"a": "", "b": "", "c": "", "d": ""})
	all := []core.ModelCandidate{{Name: "a", Score: 1}, {Name: "b", Score: 2}, {Name: "c", Score: 3}, {Name: "d", Score: 4}}

	for n := 0; n <= len(all); n++ {
		result := Merge(nil, all[:n], dict)
		assert.Len(t, result, min(3, n))
	}
}

func TestMerge_SortedDescending(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"a": "", "b": "", "c": "", "d": ""})

	result := Merge(
		[]core.VectorCandidate{{Name: "a", Similarity: 20}, {Name: "b", Similarity: 95}},
		[]core.ModelCandidate{{Name: "c", Score: 6}, {Name: "a", Score: 8}, {Name: "d", Score: 1}},
		dict,
	)

	require.Len(t, result, 3)
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].FinalScore, result[i].FinalScore)
	}
	assert.Equal(t, []string{"a", "c", "b"}, names(result))
}

func TestMerge_TiesKeepInsertionOrder(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"m": "", "v": "", "w": ""})

	// 70% similarity and a model score of 3 both round to 2.1.
	result := Merge(
		[]core.VectorCandidate{{Name: "v", Similarity: 70}, {Name: "w", Similarity: 70}},
		[]core.ModelCandidate{{Name: "m", Score: 3}},
		dict,
	)

	require.Len(t, result, 3)
	assert.Equal(t, []string{"v", "w", "m"}, names(result))
	for _, c := range result {
		assert.Equal(t, 2.1, c.FinalScore)
	}
}

func TestMerge_BothSourcesKept(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"a": "canonical"})

	result := Merge(
		[]core.VectorCandidate{{Name: "a", Similarity: 64.5, Description: "from search"}},
		[]core.ModelCandidate{{Name: "a", Score: 7, Reason: "why"}},
		dict,
	)

	require.Len(t, result, 1)
	assert.Equal(t, 64.5, result[0].VectorSimilarity)
	assert.Equal(t, 7.0, result[0].ModelScore)
	assert.Equal(t, "why", result[0].ModelReason)
	assert.Equal(t, "from search", result[0].Description)
}

func TestMerge_DuplicateNames(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"a": "", "b": ""})

	result := Merge(
		[]core.VectorCandidate{{Name: "a", Similarity: 10}, {Name: "b", Similarity: 10}, {Name: "a", Similarity: 30}},
		[]core.ModelCandidate{{Name: "b", Score: 2, Reason: "first"}, {Name: "b", Score: 4, Reason: "second"}},
		dict,
	)

	require.Len(t, result, 2)
	assert.Equal(t, "b", result[0].Name)
	assert.Equal(t, 4.0, result[0].ModelScore)
	assert.Equal(t, "second", result[0].ModelReason)
	assert.Equal(t, "a", result[1].Name)
	assert.Equal(t, 30.0, result[1].VectorSimilarity)
}

func TestMerge_Idempotent(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"})
	vector := []core.VectorCandidate{{Name: "a", Similarity: 55.5}, {Name: "c", Similarity: 81.2}}
	model := []core.ModelCandidate{{Name: "b", Score: 6}, {Name: "a", Score: 3}, {Name: "d", Score: 6}}

	first := Merge(vector, model, dict)
	second := Merge(vector, model, dict)

	assert.Equal(t, first, second)
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"a": "1"})
	vector := []core.VectorCandidate{{Name: "a", Similarity: 40, Description: "x"}}
	model := []core.ModelCandidate{{Name: "a", Score: 2, Reason: "y"}}

	Merge(vector, model, dict)

	assert.Equal(t, []core.VectorCandidate{{Name: "a", Similarity: 40, Description: "x"}}, vector)
	assert.Equal(t, []core.ModelCandidate{{Name: "a", Score: 2, Reason: "y"}}, model)
}

func TestNew(t *testing.T) {
	m, err := New(WithTopN(1), WithWeights(0.5, 0.5))
	require.NoError(t, err)

	dict := refdb.NewDictFromMap(map[string]string{"a": "", "b": ""})
	result := m.Merge(
		[]core.VectorCandidate{{Name: "a", Similarity: 100}},
		[]core.ModelCandidate{{Name: "b", Score: 4}},
		dict,
	)

	require.Len(t, result, 1)
	assert.Equal(t, "a", result[0].Name)
	assert.Equal(t, 5.0, result[0].FinalScore)
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(WithTopN(0))
	assert.ErrorIs(t, err, ErrInvalidTopN)

	_, err = New(WithWeights(-1, 1))
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = New(WithWeights(0, 0))
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{8.7, 8.7},
		{2.44, 2.4},
		{2.46, 2.5},
		{0, 0},
		{9.96, 10},
		{0.15, 0.1},
		{2.25, 2.2},
		{1.65, 1.6},
		{2.175, 2.2},
		{55.55, 55.5},
		{0.35, 0.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round1(tt.in), "Round1(%v)", tt.in)
	}
}

func TestMerge_RoundsLikeDecimalFormatting(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{"a": "", "b": "", "c": "", "m": ""})

	// 5% scales to 0.15 and 15% to 0.45, both stored just below the half.
	result := Merge(
		[]core.VectorCandidate{{Name: "a", Similarity: 5}, {Name: "b", Similarity: 15}, {Name: "c", Similarity: 55}},
		[]core.ModelCandidate{{Name: "m", Score: 0.5}},
		dict,
	)

	scores := make(map[string]float64, len(result))
	for _, c := range result {
		scores[c.Name] = c.FinalScore
	}
	assert.Equal(t, map[string]float64{"c": 1.6, "b": 0.4, "m": 0.3}, scores)

	single := Merge([]core.VectorCandidate{{Name: "a", Similarity: 5}}, nil, dict)
	require.Len(t, single, 1)
	assert.Equal(t, 0.1, single[0].FinalScore)
}

func TestMerge_TypedNilDict(t *testing.T) {
	var dict *refdb.Dict

	result := Merge(
		[]core.VectorCandidate{{Name: "a", Similarity: 90}},
		[]core.ModelCandidate{{Name: "b", Score: 9}},
		dict,
	)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestShortlist(t *testing.T) {
	dict := refdb.NewDictFromMap(map[string]string{
		"반도체": "", "전자부품": "", "디스플레이": "", "통신장비": "",
	})
	merger, err := New()
	require.NoError(t, err)

	shortlist := merger.Shortlist([]core.VectorCandidate{
		{Name: "반도체", Similarity: 81.2, Description: "메모리"},
		{Name: "미지업종", Similarity: 80},
		{Name: "전자부품", Similarity: 77.5, Description: "수동 소자"},
		{Name: "반도체", Similarity: 70, Description: "중복"},
		{Name: "디스플레이", Similarity: 77.5, Description: "패널"},
		{Name: "통신장비", Similarity: 60},
	}, dict)

	assert.Equal(t, []core.Candidate{
		{Name: "반도체", VectorSimilarity: 81.2, Description: "메모리", FinalScore: 8.1},
		{Name: "전자부품", VectorSimilarity: 77.5, Description: "수동 소자", FinalScore: 7.8},
		{Name: "디스플레이", VectorSimilarity: 77.5, Description: "패널", FinalScore: 7.8},
	}, shortlist)
}

func TestShortlist_EmptyAndNilDict(t *testing.T) {
	merger, err := New(WithTopN(2))
	require.NoError(t, err)

	assert.Empty(t, merger.Shortlist(nil, refdb.NewDictFromMap(nil)))

	var typedNil *refdb.Dict
	result := merger.Shortlist([]core.VectorCandidate{{Name: "a", Similarity: 90}}, typedNil)
	assert.NotNil(t, result)
	assert.Empty(t, result)

	assert.Empty(t, merger.Shortlist([]core.VectorCandidate{{Name: "a", Similarity: 90}}, nil))
}
