package entity

import "sort"

// PlaceholderCorrection is the corrected text synthesized for items the
// annotation service could not process.
const PlaceholderCorrection = "Error processing this item."

// AnnotationSpan represents one flagged error region within a text
type AnnotationSpan struct {
	OriginalSpan  string `json:"original_span"`
	CorrectedSpan string `json:"corrected_span"`
	StartIndex    int    `json:"start_index"`
	EndIndex      int    `json:"end_index"`
	ErrorCode     string `json:"error_code"`
	MacroCode     string `json:"macro_code"`
	Explanation   string `json:"explanation"`
}

// InBounds reports whether the span indexes are valid for a text of the
// given length (0 <= start < end <= length).
func (s AnnotationSpan) InBounds(length int) bool {
	return s.StartIndex >= 0 && s.StartIndex < s.EndIndex && s.EndIndex <= length
}

// AnalysisResult represents the annotated outcome for a single input text
type AnalysisResult struct {
	OriginalText  string           `json:"original_text"`
	CorrectedText string           `json:"corrected_text"`
	Annotations   []AnnotationSpan `json:"annotations"`
	Failed        bool             `json:"failed"`
}

// NewFailureResult synthesizes the placeholder result for an item that
// could not be annotated. It carries no annotations and is never persisted.
func NewFailureResult(originalText string) *AnalysisResult {
	return &AnalysisResult{
		OriginalText:  originalText,
		CorrectedText: PlaceholderCorrection,
		Annotations:   []AnnotationSpan{},
		Failed:        true,
	}
}

// NormalizeAnnotations drops spans that fall outside the original text and
// sorts the remainder by start index. Rendering downstream assumes sorted
// spans; overlap is tolerated and left to the renderer. Returns the number
// of spans dropped.
func (r *AnalysisResult) NormalizeAnnotations() int {
	length := len(r.OriginalText)
	kept := r.Annotations[:0]
	dropped := 0
	for _, span := range r.Annotations {
		if !span.InBounds(length) {
			dropped++
			continue
		}
		kept = append(kept, span)
	}
	r.Annotations = kept
	sort.SliceStable(r.Annotations, func(i, j int) bool {
		return r.Annotations[i].StartIndex < r.Annotations[j].StartIndex
	})
	return dropped
}

// ErrorCount returns the number of annotations in the result
func (r *AnalysisResult) ErrorCount() int {
	return len(r.Annotations)
}
