package document

import (
	"strings"
)

const (
	fieldSeparator = ": "
	byteOrderMark  = "\ufeff"

	// MissingDescription stands in for an entity with no description.
	MissingDescription = "설명 없음"
)

// Layout names the labels that carry an entity's name and mark the start of
// its body text within a document. With RequireBody set, a document lacking
// the body marker yields no candidate.
type Layout struct {
	NameLabel   string
	BodyLabel   string
	RequireBody bool
}

var (
	// IndustryLayout matches documents built from the KRX industry table.
	IndustryLayout = Layout{NameLabel: "KRX 업종명", BodyLabel: "상세내용"}

	// StrictIndustryLayout is IndustryLayout for callers that explain
	// matches from their own body text.
	StrictIndustryLayout = Layout{NameLabel: "KRX 업종명", BodyLabel: "상세내용", RequireBody: true}

	// PastIssueLayout matches documents built from the past issue table.
	PastIssueLayout = Layout{NameLabel: "Issue_name", BodyLabel: "Contents"}
)

// Fields holds the values recovered from a document.
type Fields struct {
	Name    string
	Body    string
	HasBody bool
}

// Format renders one table row as field lines in column order.
// Values beyond the number of columns are ignored; missing values are empty.
func Format(columns []string, values []string) string {
	var sb strings.Builder
	for i, column := range columns {
		if i > 0 {
			sb.WriteByte('\n')
		}
		value := ""
		if i < len(values) {
			value = values[i]
		}
		sb.WriteString(strings.TrimSpace(StripBOM(column)))
		sb.WriteString(fieldSeparator)
		sb.WriteString(value)
	}
	return sb.String()
}

// Parse recovers the name and body of a document.
//
// The name is the trimmed remainder of the first line containing
// "<NameLabel>:". The body is the trimmed text between the first and the
// second occurrence of "<BodyLabel>:" (or the end of the text). ok is false
// when no name line exists; HasBody is false when the body marker is absent.
func Parse(text string, layout Layout) (fields Fields, ok bool) {
	text = StripBOM(text)

	nameMarker := layout.NameLabel + ":"
	if layout.NameLabel == "" || !strings.Contains(text, nameMarker) {
		return Fields{}, false
	}

	for line := range strings.SplitSeq(text, "\n") {
		idx := strings.Index(line, nameMarker)
		if idx < 0 {
			continue
		}
		fields.Name = strings.TrimSpace(line[:idx] + line[idx+len(nameMarker):])
		break
	}
	if fields.Name == "" {
		return Fields{}, false
	}

	if layout.BodyLabel != "" {
		parts := strings.Split(text, layout.BodyLabel+":")
		if len(parts) > 1 {
			fields.Body = strings.TrimSpace(parts[1])
			fields.HasBody = true
		}
	}

	return fields, true
}

// StripBOM removes every byte order mark from s.
func StripBOM(s string) string {
	return strings.ReplaceAll(s, byteOrderMark, "")
}
