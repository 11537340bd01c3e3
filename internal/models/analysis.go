package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisKind string

const (
	KindATSCheck        AnalysisKind = "ats_check"
	KindCoverLetter     AnalysisKind = "cover_letter"
	KindCoverLetterText AnalysisKind = "cover_letter_text"
)

// Analysis is the optional history record of one completed pipeline run.
// The uploaded file itself is never persisted; only the outcome and a short
// excerpt of the extracted text are kept.
type Analysis struct {
	ID               uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Kind             AnalysisKind `gorm:"type:text;not null" json:"kind"`
	OriginalFileName string       `gorm:"type:text" json:"original_filename,omitempty"`
	Score            *float64     `gorm:"type:decimal(5,2)" json:"score,omitempty"`
	CoverLetter      *string      `gorm:"type:text" json:"cover_letter,omitempty"`
	UsedFallback     bool         `gorm:"not null;default:false" json:"used_fallback"`
	SourceExcerpt    string       `gorm:"type:text" json:"source_excerpt,omitempty"`
	CreatedAt        time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Analysis) TableName() string {
	return "analyses"
}
