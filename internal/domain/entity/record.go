package entity

import (
	"time"

	"github.com/google/uuid"
)

// Record represents one persisted analysis result
type Record struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	OriginalText  string           `json:"original_text" gorm:"type:text;not null"`
	CorrectedText string           `json:"corrected_text" gorm:"type:text;not null"`
	ErrorCount    int              `json:"error_count" gorm:"not null;default:0"`
	CreatedAt     time.Time        `json:"created_at" gorm:"autoCreateTime;index"`
	Annotations   []RecordAnnotation `json:"annotations,omitempty" gorm:"foreignKey:RecordID"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "records"
}

// RecordAnnotation represents one stored annotation span belonging to a record
type RecordAnnotation struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	RecordID      uuid.UUID `json:"record_id" gorm:"type:uuid;not null;index"`
	OriginalSpan  string    `json:"original_span" gorm:"type:text;not null"`
	CorrectedSpan string    `json:"corrected_span" gorm:"type:text;not null"`
	StartIndex    int       `json:"start_index" gorm:"not null"`
	EndIndex      int       `json:"end_index" gorm:"not null"`
	ErrorCode     string    `json:"error_code" gorm:"type:varchar(50);not null;index"`
	MacroCode     string    `json:"macro_code" gorm:"type:varchar(50);not null"`
	Explanation   string    `json:"explanation" gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RecordAnnotation) TableName() string {
	return "record_annotations"
}

// NewRecord builds a Record from an analysis result, denormalizing the
// annotation count into ErrorCount.
func NewRecord(result *AnalysisResult) *Record {
	id := uuid.New()
	annotations := make([]RecordAnnotation, len(result.Annotations))
	for i, span := range result.Annotations {
		annotations[i] = RecordAnnotation{
			ID:            uuid.New(),
			RecordID:      id,
			OriginalSpan:  span.OriginalSpan,
			CorrectedSpan: span.CorrectedSpan,
			StartIndex:    span.StartIndex,
			EndIndex:      span.EndIndex,
			ErrorCode:     span.ErrorCode,
			MacroCode:     span.MacroCode,
			Explanation:   span.Explanation,
		}
	}
	return &Record{
		ID:            id,
		OriginalText:  result.OriginalText,
		CorrectedText: result.CorrectedText,
		ErrorCount:    len(result.Annotations),
		Annotations:   annotations,
	}
}

// ToAnalysisResult converts a stored record back into an analysis result
func (r *Record) ToAnalysisResult() *AnalysisResult {
	annotations := make([]AnnotationSpan, len(r.Annotations))
	for i, a := range r.Annotations {
		annotations[i] = AnnotationSpan{
			OriginalSpan:  a.OriginalSpan,
			CorrectedSpan: a.CorrectedSpan,
			StartIndex:    a.StartIndex,
			EndIndex:      a.EndIndex,
			ErrorCode:     a.ErrorCode,
			MacroCode:     a.MacroCode,
			Explanation:   a.Explanation,
		}
	}
	return &AnalysisResult{
		OriginalText:  r.OriginalText,
		CorrectedText: r.CorrectedText,
		Annotations:   annotations,
	}
}
