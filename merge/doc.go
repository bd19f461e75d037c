// Package merge combines similarity-search candidates and language-model
// candidates into one ranked shortlist.
//
// Every candidate carries a vector similarity in [0,100] and a model score in
// [0,10]; either may be zero when only one source proposed the name. The final
// score is
//
//	round(similarity/10*0.3 + modelScore*0.7, 1)
//
// and only the three best candidates are returned. Names the reference
// dictionary does not know are never returned, so a hallucinated model answer
// cannot reach the report.
//
// Basic usage:
//
//	ranked := merge.Merge(vectorCandidates, modelCandidates, dict)
//
// A Merger built with New allows a different shortlist size or weighting:
//
//	m, err := merge.New(merge.WithTopN(5))
//	ranked := m.Merge(vectorCandidates, modelCandidates, dict)
package merge
