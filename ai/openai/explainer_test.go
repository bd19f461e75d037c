package openai

import (
	"context"
	"strings"
	"testing"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortlist() []core.Candidate {
	return []core.Candidate{
		{Name: "반도체", VectorSimilarity: 80, ModelScore: 9, ModelReason: "수출 호조", Description: "메모리 반도체 제조", FinalScore: 8.7},
		{Name: "자동차", ModelScore: 5, ModelReason: "부품 수요", Description: "완성차 제조", FinalScore: 3.5},
	}
}

func TestExplain(t *testing.T) {
	model := &fakeModel{responses: []string{"  **이슈 요약**\n반도체 수출이 늘었다.\n"}}
	explainer := newExplainer(ai.NewConfig(), model)

	text, err := explainer.Explain(context.Background(), ai.ExplainRequest{
		Subject:    ai.SubjectIndustry,
		Query:      "반도체 수출 급증",
		Candidates: shortlist(),
	})
	require.NoError(t, err)
	assert.Equal(t, "**이슈 요약**\n반도체 수출이 늘었다.", text)

	require.Equal(t, 1, model.calls)
	assert.False(t, model.options[0].JSONMode)
	human := model.humanText(0)
	assert.Contains(t, human, "[선별된 관련 산업]")
	assert.Contains(t, human, "- 반도체 (종합점수: 8.7/10, 벡터유사도: 80%, AI점수: 9/10)")
	assert.Contains(t, human, "  산업 설명: 메모리 반도체 제조...")
}

func TestExplain_InvalidRequest(t *testing.T) {
	model := &fakeModel{}
	explainer := newExplainer(ai.NewConfig(), model)

	_, err := explainer.Explain(context.Background(), ai.ExplainRequest{Subject: ai.SubjectIndustry, Query: "q"})
	assert.ErrorIs(t, err, ai.ErrNoCandidates)

	_, err = explainer.Explain(context.Background(), ai.ExplainRequest{Subject: ai.SubjectIndustry, Candidates: shortlist()})
	assert.ErrorIs(t, err, ai.ErrEmptyQuery)

	assert.Zero(t, model.calls)
}

func TestExplain_NoChoices(t *testing.T) {
	explainer := newExplainer(ai.NewConfig(), &fakeModel{})

	_, err := explainer.Explain(context.Background(), ai.ExplainRequest{
		Subject:    ai.SubjectPastIssue,
		Query:      "q",
		Candidates: shortlist(),
	})
	assert.ErrorIs(t, err, ai.ErrMalformedResponse)
}

func TestFormatCandidates(t *testing.T) {
	got := formatCandidates(shortlist(), "산업 설명", 100)

	want := "- 반도체 (종합점수: 8.7/10, 벡터유사도: 80%, AI점수: 9/10)\n" +
		"  AI 판단 근거: 수출 호조\n" +
		"  산업 설명: 메모리 반도체 제조...\n" +
		"- 자동차 (종합점수: 3.5/10, 벡터유사도: 0%, AI점수: 5/10)\n" +
		"  AI 판단 근거: 부품 수요\n" +
		"  산업 설명: 완성차 제조..."
	assert.Equal(t, want, got)
}

func TestFormatCandidates_TruncatesByRunes(t *testing.T) {
	description := strings.Repeat("가", 250)
	got := formatCandidates([]core.Candidate{{Name: "금리 인상", Description: description}}, "과거 이슈 내용", 200)

	assert.Contains(t, got, "과거 이슈 내용: "+strings.Repeat("가", 200)+"...")
	assert.NotContains(t, got, strings.Repeat("가", 201))
}

func TestBuildExplanationPrompts_PastIssue(t *testing.T) {
	system, human, err := buildExplanationPrompts(ai.ExplainRequest{
		Subject:    ai.SubjectPastIssue,
		Query:      "환율 급등",
		Candidates: []core.Candidate{{Name: "외환위기", Description: strings.Repeat("나", 150)}},
	})
	require.NoError(t, err)

	assert.Contains(t, system, "과거 이슈")
	assert.Contains(t, human, "[현재 이슈 내용]\n환율 급등")
	assert.Contains(t, human, strings.Repeat("나", 150)+"...")
}

func TestExplain_VectorOnly(t *testing.T) {
	model := &fakeModel{responses: []string{"**이슈 요약**"}}
	explainer := newExplainer(ai.NewConfig(), model)

	_, err := explainer.Explain(context.Background(), ai.ExplainRequest{
		Subject: ai.SubjectIndustry,
		Query:   "반도체 수출 급증",
		Candidates: []core.Candidate{
			{Name: "반도체", VectorSimilarity: 81.2, Description: "메모리 반도체 제조"},
			{Name: "전자부품", VectorSimilarity: 77, Description: "설명 없음"},
		},
		VectorOnly: true,
	})
	require.NoError(t, err)

	require.Equal(t, 1, model.calls)
	human := model.humanText(0)
	assert.Contains(t, human, "[관련 산업명 (유사도 포함)]\n1. 반도체 (유사도: 81.2%)\n2. 전자부품 (유사도: 77%)")
	assert.Contains(t, human, "**반도체** (유사도: 81.2%)\n메모리 반도체 제조\n\n**전자부품** (유사도: 77%)\n설명 없음")
	assert.Contains(t, human, "- **산업명1** (유사도: X%):")
	assert.NotContains(t, human, "AI점수")
	assert.NotContains(t, human, "%!")
}

func TestFormatEvidence_KeepsFullDescription(t *testing.T) {
	description := strings.Repeat("다", 300)
	names, evidence := formatEvidence([]core.Candidate{{Name: "금리 인상", VectorSimilarity: 64.5, Description: description}})

	assert.Equal(t, "1. 금리 인상 (유사도: 64.5%)", names)
	assert.Equal(t, "**금리 인상** (유사도: 64.5%)\n"+description, evidence)
}

func TestBuildExplanationPrompts_VectorOnlyPastIssue(t *testing.T) {
	system, human, err := buildExplanationPrompts(ai.ExplainRequest{
		Subject:    ai.SubjectPastIssue,
		Query:      "환율 급등",
		Candidates: []core.Candidate{{Name: "외환위기", VectorSimilarity: 70, Description: "1997년 외환위기"}},
		VectorOnly: true,
	})
	require.NoError(t, err)

	assert.Contains(t, system, "과거 이슈명만")
	assert.Contains(t, human, "[현재 이슈 내용]\n환율 급등")
	assert.Contains(t, human, "1. 외환위기 (유사도: 70%)")
}
