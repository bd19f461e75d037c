package analysis

import (
	"fmt"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/document"
	"github.com/poiesic/issuematch/refdb"
)

// Profile binds a reference set to the namespace, document layout and table
// schema it is stored with.
type Profile struct {
	Subject   ai.Subject
	Namespace string
	Layout    document.Layout
	Schema    refdb.Schema
	VectorK   int // Documents fetched by similarity search
	ModelTopK int // Candidates requested from the ranker

	// VectorOnly shortlists by similarity alone. The ranker is not called.
	VectorOnly bool
}

var (
	IndustryProfile = Profile{
		Subject:   ai.SubjectIndustry,
		Namespace: "industry",
		Layout:    document.IndustryLayout,
		Schema:    refdb.IndustrySchema,
		VectorK:   10,
		ModelTopK: 10,
	}

	// VectorOnlyIndustryProfile explains the closest industry documents from
	// their own descriptions, without asking the model to rank names.
	VectorOnlyIndustryProfile = Profile{
		Subject:    ai.SubjectIndustry,
		Namespace:  "industry",
		Layout:     document.StrictIndustryLayout,
		Schema:     refdb.IndustrySchema,
		VectorK:    5,
		ModelTopK:  10,
		VectorOnly: true,
	}

	PastIssueProfile = Profile{
		Subject:   ai.SubjectPastIssue,
		Namespace: "past_issue",
		Layout:    document.PastIssueLayout,
		Schema:    refdb.PastIssueSchema,
		VectorK:   10,
		ModelTopK: 10,
	}
)

// ProfileFor returns the predefined profile for a subject name
// ("industry" or "past_issue").
func ProfileFor(name string) (Profile, error) {
	subject, err := ai.ParseSubject(name)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidProfile, name)
	}
	if subject == ai.SubjectPastIssue {
		return PastIssueProfile, nil
	}
	return IndustryProfile, nil
}

// VectorOnlyProfileFor returns the similarity-only profile for a subject
// name. Only industries have one.
func VectorOnlyProfileFor(name string) (Profile, error) {
	subject, err := ai.ParseSubject(name)
	if err != nil || subject != ai.SubjectIndustry {
		return Profile{}, fmt.Errorf("%w: no similarity-only profile for %q", ErrInvalidProfile, name)
	}
	return VectorOnlyIndustryProfile, nil
}

// Validate checks the profile is usable.
func (p Profile) Validate() error {
	if !p.Subject.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ai.ErrUnknownSubject)
	}
	if err := core.ValidateNamespace(p.Namespace); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	if p.Layout.NameLabel == "" {
		return fmt.Errorf("%w: layout has no name label", ErrInvalidProfile)
	}
	if p.VectorK < 1 || p.ModelTopK < 1 {
		return fmt.Errorf("%w: VectorK and ModelTopK must be positive", ErrInvalidProfile)
	}
	return nil
}
