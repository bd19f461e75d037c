package openai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
)

// rankingPrompts holds the system prompt and the human prompt template for
// one subject. The template takes the query, the comma-separated reference
// names and the number of candidates to return.
type rankingPrompts struct {
	system string
	human  string
}

var rankingPromptsBySubject = map[ai.Subject]rankingPrompts{
	ai.SubjectIndustry: {
		system: `너는 뉴스와 산업의 관련성을 판단하는 전문 애널리스트야.
주어진 뉴스 내용을 분석하고, 제공된 KRX 업종 리스트에서 관련 가능성이 높은 산업들을 선별해야 해.

관련성 판단 기준:
1. 직접적 영향: 뉴스가 해당 산업에 직접적인 영향을 미치는가?
2. 공급망 관계: 뉴스 관련 기업/산업과 공급망 관계가 있는가?
3. 시장 동향: 뉴스가 해당 산업의 시장 동향에 영향을 미치는가?
4. 정책/규제: 뉴스가 해당 산업 관련 정책이나 규제와 연관되는가?`,
		human: `
[뉴스 내용]
%s

[KRX 업종 리스트]
%s

위 뉴스와 관련 가능성이 높은 산업을 %d개 선별해주세요.
각 산업에 대해 관련성 점수(1-10점)와 간단한 이유를 제시해주세요.
산업명은 리스트에 있는 이름을 그대로 사용해주세요.

출력 형식 (JSON):
{
  "candidates": [
    {"industry": "산업명", "score": 점수, "reason": "관련성 이유"},
    ...
  ]
}`,
	},
	ai.SubjectPastIssue: {
		system: `너는 현재 뉴스와 과거 이슈의 관련성을 판단하는 전문 애널리스트야.
주어진 현재 뉴스 내용을 분석하고, 제공된 과거 이슈 리스트에서 관련 가능성이 높은 이슈들을 선별해야 해.

관련성 판단 기준:
1. 유사한 시장 상황: 과거 이슈와 현재 상황이 유사한 시장 환경인가?
2. 동일한 산업/기업 영향: 같은 산업이나 유사한 기업들에 영향을 미치는가?
3. 정책/경제적 유사성: 정책 변화나 경제적 요인이 유사한가?
4. 투자자 심리: 투자자들의 반응이나 시장 심리가 비슷한가?`,
		human: `
[현재 뉴스 내용]
%s

[과거 이슈 리스트]
%s

위 현재 뉴스와 관련 가능성이 높은 과거 이슈를 %d개 선별해주세요.
각 과거 이슈에 대해 관련성 점수(1-10점)와 간단한 이유를 제시해주세요.
이슈명은 리스트에 있는 이름을 그대로 사용해주세요.

출력 형식 (JSON):
{
  "candidates": [
    {"issue": "이슈명", "score": 점수, "reason": "관련성 이유"},
    ...
  ]
}`,
	},
}

// explanationPrompts holds the system prompt, the human prompt template
// (query, rendered shortlist) and the label for candidate descriptions.
type explanationPrompts struct {
	system           string
	human            string
	descriptionLabel string
}

var explanationPromptsBySubject = map[ai.Subject]explanationPrompts{
	ai.SubjectIndustry: {
		system: "너는 산업 뉴스 분석 전문가야. 정확하고 신뢰성 있는 분석을 제공해야 해.",
		human: `
[이슈 내용]
%s

[선별된 관련 산업]
%s

위 정보를 바탕으로 다음 형식으로 분석해주세요:

**이슈 요약**
(핵심 내용 1-2문장)

**관련 산업 분석**
- **산업명1** (신뢰도: X점): 관련성 설명
- **산업명2** (신뢰도: X점): 관련성 설명
- **산업명3** (신뢰도: X점): 관련성 설명

**분석 신뢰도**: 전체적인 분석의 신뢰도를 평가해주세요.
`,
		descriptionLabel: "산업 설명",
	},
	ai.SubjectPastIssue: {
		system: "너는 과거 이슈와 현재 뉴스의 연관성을 분석하는 전문가야. 정확하고 신뢰성 있는 분석을 제공해야 해.",
		human: `
[현재 이슈 내용]
%s

[선별된 관련 과거 이슈]
%s

위 정보를 바탕으로 다음 형식으로 분석해주세요:

**현재 이슈 요약**
(핵심 내용 1-2문장)

**관련 과거 이슈 분석**
- **과거이슈1** (신뢰도: X점): 현재 상황과의 유사점과 차이점 설명
- **과거이슈2** (신뢰도: X점): 현재 상황과의 유사점과 차이점 설명
- **과거이슈3** (신뢰도: X점): 현재 상황과의 유사점과 차이점 설명

**시사점**: 과거 사례를 통해 예상되는 시장 반응이나 투자 전략
`,
		descriptionLabel: "과거 이슈 내용",
	},
}

// evidencePrompts explain a similarity-only shortlist. The human template
// takes the query, the numbered name list and the per-name descriptions.
type evidencePrompts struct {
	system string
	human  string
}

var evidencePromptsBySubject = map[ai.Subject]evidencePrompts{
	ai.SubjectIndustry: {
		system: `너는 한국 산업 뉴스를 분석하는 전문 리서치 애널리스트야.
중요: 반드시 제공된 산업명만 사용하고, 제공된 산업 설명을 근거로 관련성을 설명해야 해.`,
		human: `
[이슈 내용]
%s

[관련 산업명 (유사도 포함)]
%s

[각 산업의 상세 설명 (근거자료)]
%s

위 정보를 바탕으로 다음 형식으로 답변해주세요:

**이슈 요약**
(1-2문장으로 간략히)

**관련 산업 분석**
- **산업명1** (유사도: X%%): (제공된 산업 설명을 근거로 왜 이 이슈와 관련이 있는지 설명)
- **산업명2** (유사도: X%%): (제공된 산업 설명을 근거로 왜 이 이슈와 관련이 있는지 설명)
- **산업명3** (유사도: X%%): (제공된 산업 설명을 근거로 왜 이 이슈와 관련이 있는지 설명)

**주의: 반드시 위에 제공된 산업명과 설명만 사용하세요.**
`,
	},
	ai.SubjectPastIssue: {
		system: `너는 현재 뉴스와 과거 이슈의 관련성을 분석하는 전문 리서치 애널리스트야.
중요: 반드시 제공된 과거 이슈명만 사용하고, 제공된 과거 이슈 내용을 근거로 관련성을 설명해야 해.`,
		human: `
[현재 이슈 내용]
%s

[관련 과거 이슈명 (유사도 포함)]
%s

[각 과거 이슈의 상세 내용 (근거자료)]
%s

위 정보를 바탕으로 다음 형식으로 답변해주세요:

**현재 이슈 요약**
(1-2문장으로 간략히)

**관련 과거 이슈 분석**
- **과거이슈1** (유사도: X%%): (제공된 내용을 근거로 현재 이슈와의 유사점 설명)
- **과거이슈2** (유사도: X%%): (제공된 내용을 근거로 현재 이슈와의 유사점 설명)
- **과거이슈3** (유사도: X%%): (제공된 내용을 근거로 현재 이슈와의 유사점 설명)

**주의: 반드시 위에 제공된 과거 이슈명과 내용만 사용하세요.**
`,
	},
}

func buildRankingPrompts(req ai.RankRequest) (system, human string, err error) {
	prompts, ok := rankingPromptsBySubject[req.Subject]
	if !ok {
		return "", "", ai.ErrUnknownSubject
	}
	return prompts.system, fmt.Sprintf(prompts.human, req.Query, strings.Join(req.Names, ", "), req.TopK), nil
}

func buildExplanationPrompts(req ai.ExplainRequest) (system, human string, err error) {
	if req.VectorOnly {
		return buildEvidencePrompts(req)
	}
	prompts, ok := explanationPromptsBySubject[req.Subject]
	if !ok {
		return "", "", ai.ErrUnknownSubject
	}
	shortlist := formatCandidates(req.Candidates, prompts.descriptionLabel, req.Subject.PreviewLength())
	return prompts.system, fmt.Sprintf(prompts.human, req.Query, shortlist), nil
}

// formatCandidates renders the shortlist, one block per candidate:
//
//	- 반도체 (종합점수: 8.7/10, 벡터유사도: 80%, AI점수: 9/10)
//	  AI 판단 근거: 수출 호조
//	  산업 설명: 메모리 반도체 제조...
func formatCandidates(candidates []core.Candidate, descriptionLabel string, previewLength int) string {
	var sb strings.Builder
	for i, c := range candidates {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "- %s (종합점수: %s/10, 벡터유사도: %s%%, AI점수: %s/10)\n",
			c.Name, formatScore(c.FinalScore), formatScore(c.VectorSimilarity), formatScore(c.ModelScore))
		fmt.Fprintf(&sb, "  AI 판단 근거: %s\n", c.ModelReason)
		fmt.Fprintf(&sb, "  %s: %s...", descriptionLabel, truncateRunes(c.Description, previewLength))
	}
	return sb.String()
}

func buildEvidencePrompts(req ai.ExplainRequest) (system, human string, err error) {
	prompts, ok := evidencePromptsBySubject[req.Subject]
	if !ok {
		return "", "", ai.ErrUnknownSubject
	}
	names, evidence := formatEvidence(req.Candidates)
	return prompts.system, fmt.Sprintf(prompts.human, req.Query, names, evidence), nil
}

// formatEvidence renders a similarity-only shortlist as a numbered name list
//
//	1. 반도체 (유사도: 80%)
//
// and as one block per candidate holding its full description.
func formatEvidence(candidates []core.Candidate) (names, evidence string) {
	nameLines := make([]string, len(candidates))
	blocks := make([]string, len(candidates))
	for i, c := range candidates {
		similarity := formatScore(c.VectorSimilarity)
		nameLines[i] = fmt.Sprintf("%d. %s (유사도: %s%%)", i+1, c.Name, similarity)
		blocks[i] = fmt.Sprintf("**%s** (유사도: %s%%)\n%s", c.Name, similarity, c.Description)
	}
	return strings.Join(nameLines, "\n"), strings.Join(blocks, "\n\n")
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
