package practice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssessmentStatus string

const (
	AssessmentScored      AssessmentStatus = "scored"
	AssessmentTooShort    AssessmentStatus = "too_short"
	AssessmentUnavailable AssessmentStatus = "unavailable"
	AssessmentError       AssessmentStatus = "error"
)

type Correction struct {
	Original    string `json:"original"`
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
}

// Submission is one scored practice response. Rows are written once, inside
// the same transaction that updates the progress aggregates.
type Submission struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_submission_user_created,priority:1" json:"user_id"`
	Category       Category   `gorm:"column:category;not null" json:"part"`
	QuestionID     *uuid.UUID `gorm:"type:uuid;index" json:"question_id,omitempty"`
	UserQuestionID *uuid.UUID `gorm:"type:uuid;index" json:"user_question_id,omitempty"`

	Transcript          string `gorm:"column:transcript;type:text" json:"transcription"`
	AudioRef            string `gorm:"column:audio_ref" json:"audio_url,omitempty"`
	TranscriptionMethod string `gorm:"column:transcription_method" json:"transcription_method,omitempty"`

	FluencyScore       Score `gorm:"column:fluency_score;type:numeric(3,1);not null;default:0" json:"fluency_score"`
	VocabularyScore    Score `gorm:"column:vocabulary_score;type:numeric(3,1);not null;default:0" json:"vocabulary_score"`
	GrammarScore       Score `gorm:"column:grammar_score;type:numeric(3,1);not null;default:0" json:"grammar_score"`
	PronunciationScore Score `gorm:"column:pronunciation_score;type:numeric(3,1);not null;default:0" json:"pronunciation_score"`
	OverallScore       Score `gorm:"column:overall_score;type:numeric(3,1);not null;default:0" json:"overall_band"`

	Narrative        string                          `gorm:"column:narrative;type:text" json:"feedback"`
	Strengths        datatypes.JSONSlice[string]     `gorm:"column:strengths" json:"strengths"`
	Improvements     datatypes.JSONSlice[string]     `gorm:"column:improvements" json:"improvements"`
	Corrections      datatypes.JSONSlice[Correction] `gorm:"column:corrections" json:"corrections"`
	AssessmentStatus AssessmentStatus                `gorm:"column:assessment_status;not null" json:"assessment_status"`

	CreatedAt time.Time `gorm:"not null;index:idx_submission_user_created,priority:2" json:"created_at"`
}

func (Submission) TableName() string { return "practice_submission" }

func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
