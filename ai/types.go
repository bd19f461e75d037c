package ai

import "github.com/poiesic/issuematch/core"

// Subject selects the reference set a ranker or explainer works against.
type Subject int

const (
	// SubjectIndustry ranks KRX industry classifications.
	SubjectIndustry Subject = iota
	// SubjectPastIssue ranks historical market issues.
	SubjectPastIssue
)

// String returns the subject's namespace-style name.
func (s Subject) String() string {
	switch s {
	case SubjectIndustry:
		return "industry"
	case SubjectPastIssue:
		return "past_issue"
	default:
		return "unknown"
	}
}

// NameField is the JSON key that carries a candidate's name in ranker
// responses.
func (s Subject) NameField() string {
	switch s {
	case SubjectIndustry:
		return "industry"
	case SubjectPastIssue:
		return "issue"
	default:
		return ""
	}
}

// PreviewLength is how many runes of a candidate description an explanation
// prompt shows.
func (s Subject) PreviewLength() int {
	if s == SubjectPastIssue {
		return 200
	}
	return 100
}

// Valid reports whether s is a known subject.
func (s Subject) Valid() bool {
	return s == SubjectIndustry || s == SubjectPastIssue
}

// ParseSubject returns the Subject named by String.
func ParseSubject(name string) (Subject, error) {
	switch name {
	case "industry":
		return SubjectIndustry, nil
	case "past_issue":
		return SubjectPastIssue, nil
	default:
		return 0, ErrUnknownSubject
	}
}

// RankRequest asks a CandidateRanker to pick reference names for a query.
type RankRequest struct {
	Subject Subject
	Query   string   // Issue title and body
	Names   []string // Reference names the model may choose from
	TopK    int      // How many names to ask for
}

// ExplainRequest asks an Explainer to justify the merged shortlist.
type ExplainRequest struct {
	Subject    Subject
	Query      string
	Candidates []core.Candidate
	// VectorOnly marks a shortlist taken straight from similarity search.
	// Its candidates carry no model score and are explained from their
	// descriptions alone.
	VectorOnly bool
}
