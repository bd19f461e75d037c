package analysis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/issuematch/ai"
)

const ruleWidth = 80

// WriteReport renders a report for a terminal. position and total place the
// issue within its batch.
func WriteReport(w io.Writer, report *Report, position, total int) error {
	var sb strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(&sb, "\n%s\n", rule)
	fmt.Fprintf(&sb, "이슈 %d/%d: %s\n", position, total, report.Issue.Title)
	fmt.Fprintf(&sb, "%s\n", rule)

	if report.Skipped {
		sb.WriteString(notFoundMessage(report.Subject))
		sb.WriteByte('\n')
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString(report.Explanation)
	sb.WriteString("\n\n상세 점수:\n")
	for i, c := range report.Candidates {
		if report.VectorOnly {
			fmt.Fprintf(&sb, "%d. %s: 벡터 유사도 %s%%\n", i+1, c.Name, formatScore(c.VectorSimilarity))
			continue
		}
		fmt.Fprintf(&sb, "%d. %s: 종합%s/10 (벡터 유사도 %s%% + AI 분석 점수 %s/10)\n",
			i+1, c.Name, formatScore(c.FinalScore), formatScore(c.VectorSimilarity), formatScore(c.ModelScore))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func notFoundMessage(subject ai.Subject) string {
	if subject == ai.SubjectPastIssue {
		return "관련 과거 이슈를 찾을 수 없습니다."
	}
	return "관련 산업을 찾을 수 없습니다."
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
