package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	domainagg "github.com/yungbote/speaking-practice-backend/internal/domain/aggregates"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/domain/progress"
	"github.com/yungbote/speaking-practice-backend/internal/observability"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

var (
	ErrInvalidCategory  = errors.New("invalid category")
	ErrQuestionNotFound = errors.New("question not found")
	ErrTranscriptEmpty  = errors.New("transcript is required")
)

// AudioStore persists uploaded audio and returns an opaque reference.
type AudioStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

type SubmitAudioInput struct {
	UserID         uuid.UUID
	Category       practice.Category
	QuestionID     *uuid.UUID
	UserQuestionID *uuid.UUID

	Audio         []byte
	MimeType      string
	FileName      string
	LanguageCode  string
	PreferPrimary bool
}

type SubmitTextInput struct {
	UserID         uuid.UUID
	Category       practice.Category
	QuestionID     *uuid.UUID
	UserQuestionID *uuid.UUID
	Transcript     string
}

type SubmissionResult struct {
	Submission *practice.Submission    `json:"submission"`
	Assessment *Assessment             `json:"assessment"`
	Progress   domainagg.LedgerOutcome `json:"progress"`
}

type SubmissionService interface {
	SubmitAudio(ctx context.Context, in SubmitAudioInput) (*SubmissionResult, error)
	SubmitText(ctx context.Context, in SubmitTextInput) (*SubmissionResult, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*practice.Submission, error)
	ListByQuestion(ctx context.Context, userID, questionID uuid.UUID) ([]*practice.Submission, error)
}

type SubmissionServiceDeps struct {
	Log           *logger.Logger
	Store         AudioStore
	Transcription TranscriptionResolver
	Feedback      FeedbackResolver
	Ledger        ProgressLedger
	Submissions   repos.SubmissionRepo
	Questions     repos.QuestionRepo
	UserQuestions repos.UserQuestionRepo
	Clock         progress.Clock
}

type submissionService struct {
	deps SubmissionServiceDeps
	log  *logger.Logger
}

func NewSubmissionService(deps SubmissionServiceDeps) SubmissionService {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	if deps.Clock == nil {
		deps.Clock = progress.NewClock(time.UTC)
	}
	return &submissionService{deps: deps, log: log.With("service", "SubmissionService")}
}

func (s *submissionService) SubmitAudio(ctx context.Context, in SubmitAudioInput) (*SubmissionResult, error) {
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if len(in.Audio) == 0 {
		return nil, ErrMissingAudio
	}
	ctx, span := observability.StartSpan(ctx, "submission.audio")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	questionText, err := s.questionText(ctx, in.UserID, in.QuestionID, in.UserQuestionID)
	if err != nil {
		return nil, err
	}

	ref := ""
	if s.deps.Store != nil {
		key := fmt.Sprintf("audio/%s/%s%s", in.UserID, uuid.New(), audioExtension(in.FileName, in.MimeType))
		ref, err = s.deps.Store.Put(ctx, key, in.MimeType, bytes.NewReader(in.Audio))
		if err != nil {
			err = fmt.Errorf("store audio: %w", err)
			return nil, err
		}
	}

	tr, err := s.deps.Transcription.Resolve(ctx, TranscriptionRequest{
		Audio:         in.Audio,
		MimeType:      in.MimeType,
		AudioRef:      ref,
		Language:      in.LanguageCode,
		PreferPrimary: in.PreferPrimary,
	})
	if err != nil {
		s.discardAudio(ref)
		return nil, err
	}

	sub := &practice.Submission{
		UserID:              in.UserID,
		Category:            in.Category,
		QuestionID:          in.QuestionID,
		UserQuestionID:      in.UserQuestionID,
		Transcript:          tr.Text,
		AudioRef:            ref,
		TranscriptionMethod: string(tr.Method),
	}
	res, err := s.assessAndRecord(ctx, sub, questionText)
	if err != nil {
		s.discardAudio(ref)
		return nil, err
	}
	return res, nil
}

func (s *submissionService) SubmitText(ctx context.Context, in SubmitTextInput) (*SubmissionResult, error) {
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	transcript := strings.TrimSpace(in.Transcript)
	if transcript == "" {
		return nil, ErrTranscriptEmpty
	}
	questionText, err := s.questionText(ctx, in.UserID, in.QuestionID, in.UserQuestionID)
	if err != nil {
		return nil, err
	}
	sub := &practice.Submission{
		UserID:         in.UserID,
		Category:       in.Category,
		QuestionID:     in.QuestionID,
		UserQuestionID: in.UserQuestionID,
		Transcript:     transcript,
	}
	return s.assessAndRecord(ctx, sub, questionText)
}

// assessAndRecord scores the transcript, degrading on scoring failure, and
// commits the submission with its progress updates.
func (s *submissionService) assessAndRecord(ctx context.Context, sub *practice.Submission, questionText string) (*SubmissionResult, error) {
	a, ferr := s.deps.Feedback.Resolve(ctx, sub.Transcript, questionText, sub.Category)
	if ferr != nil {
		s.log.Warn("Scoring degraded", "error", ferr, "user_id", sub.UserID)
		a = DegradedAssessment(ferr)
	}
	applyAssessment(sub, a)

	rec, err := s.deps.Ledger.RecordSubmission(ctx, domainagg.RecordSubmissionInput{
		Submission: sub,
		Day:        s.deps.Clock.Today(),
	})
	if err != nil {
		return nil, err
	}
	observability.Current().IncSubmission(sub.Category.String(), string(sub.AssessmentStatus))
	s.log.Info("Recorded submission",
		"user_id", sub.UserID,
		"submission_id", rec.SubmissionID,
		"category", int(sub.Category),
		"method", sub.TranscriptionMethod,
		"assessment_status", sub.AssessmentStatus,
		"attempts", rec.Attempts,
	)
	return &SubmissionResult{Submission: sub, Assessment: a, Progress: rec.Outcome}, nil
}

func applyAssessment(sub *practice.Submission, a *Assessment) {
	sub.FluencyScore = a.Fluency
	sub.VocabularyScore = a.Vocabulary
	sub.GrammarScore = a.Grammar
	sub.PronunciationScore = a.Pronunciation
	sub.OverallScore = a.Overall
	sub.Strengths = a.Strengths
	sub.Improvements = a.Improvements
	sub.Corrections = a.Corrections
	sub.AssessmentStatus = a.Status
	if a.Status == practice.AssessmentScored {
		sub.Narrative = FormatNarrative(a)
	} else {
		sub.Narrative = a.Feedback
	}
}

func (s *submissionService) questionText(ctx context.Context, userID uuid.UUID, questionID, userQuestionID *uuid.UUID) (string, error) {
	dbc := dbctx.Context{Ctx: ctx}
	switch {
	case questionID != nil && s.deps.Questions != nil:
		q, err := s.deps.Questions.GetByID(dbc, *questionID)
		if err != nil {
			return "", fmt.Errorf("load question: %w", err)
		}
		if q == nil {
			return "", ErrQuestionNotFound
		}
		return q.Text, nil
	case userQuestionID != nil && s.deps.UserQuestions != nil:
		q, err := s.deps.UserQuestions.GetForUser(dbc, userID, *userQuestionID)
		if err != nil {
			return "", fmt.Errorf("load user question: %w", err)
		}
		if q == nil {
			return "", ErrQuestionNotFound
		}
		return q.Text, nil
	default:
		return "", nil
	}
}

func (s *submissionService) discardAudio(ref string) {
	if ref == "" || s.deps.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.deps.Store.Delete(ctx, ref); err != nil {
		s.log.Warn("Failed to discard audio", "audio_ref", ref, "error", err)
	}
}

func (s *submissionService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*practice.Submission, error) {
	return s.deps.Submissions.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit, offset)
}

func (s *submissionService) ListByQuestion(ctx context.Context, userID, questionID uuid.UUID) ([]*practice.Submission, error) {
	return s.deps.Submissions.ListByQuestion(dbctx.Context{Ctx: ctx}, userID, questionID)
}

func audioExtension(fileName, mimeType string) string {
	if ext := strings.ToLower(filepath.Ext(strings.TrimSpace(fileName))); ext != "" && len(ext) <= 6 {
		return ext
	}
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/flac", "audio/x-flac":
		return ".flac"
	case "audio/ogg", "audio/opus":
		return ".ogg"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	default:
		return ".webm"
	}
}
