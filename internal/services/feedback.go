package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/observability"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
	"github.com/yungbote/speaking-practice-backend/internal/platform/openai"
)

const (
	MinTranscriptRunes     = 10
	defaultScoringTimeout  = 60 * time.Second
	degradedScore          = practice.Score(50)
	reachabilityCacheTTL   = 30 * time.Second
	tooShortFeedback       = "No response was detected or the response was too short to evaluate. Please try speaking more clearly and at a normal pace. For Part 1, aim for 2-4 sentences. For Part 2, speak for 1-2 minutes. For Part 3, provide detailed responses with examples."
	unavailableFeedback    = "Feedback service unavailable. Your response was recorded and default scores were applied."
	scoringErrorFeedbackFm = "Feedback error occurred: %v. Your response was recorded and default scores were applied."
)

var tooShortImprovements = []string{
	"Provide a longer response",
	"Speak clearly into the microphone",
	"Address the question directly",
}

// ErrScoringUnavailable means the scoring backend is not configured or not reachable.
var ErrScoringUnavailable = errors.New("scoring service unavailable")

// ScoringError wraps a failed scoring call: timeout, transport error or a
// payload that could not be parsed.
type ScoringError struct {
	Err error
}

func (e *ScoringError) Error() string { return "scoring failed: " + e.Err.Error() }
func (e *ScoringError) Unwrap() error { return e.Err }

type Assessment struct {
	Fluency       practice.Score        `json:"fluency_score"`
	Vocabulary    practice.Score        `json:"vocabulary_score"`
	Grammar       practice.Score        `json:"grammar_score"`
	Pronunciation practice.Score        `json:"pronunciation_score"`
	Overall       practice.Score        `json:"overall_band"`
	Feedback      string                `json:"feedback"`
	Strengths     []string              `json:"strengths"`
	Improvements  []string              `json:"improvements"`
	Corrections   []practice.Correction `json:"sample_corrections"`

	Status practice.AssessmentStatus `json:"assessment_status"`
}

// TooShortAssessment is the fixed result for transcripts below MinTranscriptRunes.
func TooShortAssessment() *Assessment {
	return &Assessment{
		Feedback:     tooShortFeedback,
		Strengths:    []string{},
		Improvements: append([]string(nil), tooShortImprovements...),
		Corrections:  []practice.Correction{},
		Status:       practice.AssessmentTooShort,
	}
}

// DegradedAssessment is the substitute a caller stores when Resolve failed.
func DegradedAssessment(err error) *Assessment {
	a := &Assessment{
		Fluency:       degradedScore,
		Vocabulary:    degradedScore,
		Grammar:       degradedScore,
		Pronunciation: degradedScore,
		Overall:       degradedScore,
		Strengths:     []string{},
		Improvements:  []string{},
		Corrections:   []practice.Correction{},
	}
	if err == nil || errors.Is(err, ErrScoringUnavailable) {
		a.Feedback = unavailableFeedback
		a.Status = practice.AssessmentUnavailable
		return a
	}
	a.Feedback = fmt.Sprintf(scoringErrorFeedbackFm, err)
	a.Status = practice.AssessmentError
	return a
}

func TranscriptTooShort(transcript string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(transcript)) < MinTranscriptRunes
}

// Capability reports whether a remote backend can be used.
type Capability interface {
	Configured() bool
	Reachable(ctx context.Context) bool
}

// Pinger is the liveness probe a Capability uses.
type Pinger interface {
	Ping(ctx context.Context) error
}

type pingCapability struct {
	pinger     Pinger
	configured bool
	ttl        time.Duration
	now        func() time.Time

	mu        sync.Mutex
	checkedAt time.Time
	reachable bool
}

// NewPingCapability caches the last probe result for ttl.
func NewPingCapability(p Pinger, configured bool, ttl time.Duration) Capability {
	if ttl <= 0 {
		ttl = reachabilityCacheTTL
	}
	return &pingCapability{pinger: p, configured: configured && p != nil, ttl: ttl, now: time.Now}
}

func (c *pingCapability) Configured() bool { return c.configured }

func (c *pingCapability) Reachable(ctx context.Context) bool {
	if !c.configured {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.checkedAt.IsZero() && c.now().Sub(c.checkedAt) < c.ttl {
		return c.reachable
	}
	c.reachable = c.pinger.Ping(ctx) == nil
	c.checkedAt = c.now()
	return c.reachable
}

// ScoringBackend is the structured-output model call.
type ScoringBackend interface {
	GenerateJSON(ctx context.Context, in openai.JSONRequest, out any) error
}

type FeedbackStatus struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
	Model     string `json:"model,omitempty"`
}

type FeedbackResolver interface {
	Resolve(ctx context.Context, transcript, questionText string, category practice.Category) (*Assessment, error)
	Status(ctx context.Context) FeedbackStatus
}

type FeedbackResolverDeps struct {
	Log        *logger.Logger
	Backend    ScoringBackend
	Capability Capability
	Prompt     *FeedbackPrompt
	Model      string
	Timeout    time.Duration
}

type feedbackResolver struct {
	log        *logger.Logger
	backend    ScoringBackend
	capability Capability
	prompt     *FeedbackPrompt
	model      string
	timeout    time.Duration
}

func NewFeedbackResolver(deps FeedbackResolverDeps) (FeedbackResolver, error) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	prompt := deps.Prompt
	if prompt == nil {
		p, err := LoadFeedbackPrompt()
		if err != nil {
			return nil, err
		}
		prompt = p
	}
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = defaultScoringTimeout
	}
	return &feedbackResolver{
		log:        log.With("service", "FeedbackResolver"),
		backend:    deps.Backend,
		capability: deps.Capability,
		prompt:     prompt,
		model:      deps.Model,
		timeout:    timeout,
	}, nil
}

func (f *feedbackResolver) available(ctx context.Context) bool {
	if f.backend == nil || f.capability == nil || !f.capability.Configured() {
		return false
	}
	return f.capability.Reachable(ctx)
}

func (f *feedbackResolver) Status(ctx context.Context) FeedbackStatus {
	switch {
	case f.backend == nil || f.capability == nil || !f.capability.Configured():
		return FeedbackStatus{Error: "scoring backend not configured"}
	case !f.capability.Reachable(ctx):
		return FeedbackStatus{Error: "scoring backend not reachable"}
	default:
		return FeedbackStatus{Available: true, Model: f.model}
	}
}

func (f *feedbackResolver) Resolve(ctx context.Context, transcript, questionText string, category practice.Category) (*Assessment, error) {
	if TranscriptTooShort(transcript) {
		return TooShortAssessment(), nil
	}
	if !f.available(ctx) {
		observability.Current().ObserveScoring("unavailable", 0)
		return nil, ErrScoringUnavailable
	}

	ctx, span := observability.StartSpan(ctx, "feedback.resolve")
	start := time.Now()
	a, err := f.score(ctx, transcript, questionText, category)
	observability.EndSpan(span, err)
	if err != nil {
		observability.Current().ObserveScoring("error", time.Since(start))
		f.log.Warn("Scoring failed", "error", err, "category", int(category))
		return nil, &ScoringError{Err: err}
	}
	observability.Current().ObserveScoring("success", time.Since(start))
	return a, nil
}

type assessmentPayload struct {
	FluencyScore       *float64              `json:"fluency_score"`
	VocabularyScore    *float64              `json:"vocabulary_score"`
	GrammarScore       *float64              `json:"grammar_score"`
	PronunciationScore *float64              `json:"pronunciation_score"`
	OverallBand        *float64              `json:"overall_band"`
	Feedback           string                `json:"feedback"`
	Strengths          []string              `json:"strengths"`
	Improvements       []string              `json:"improvements"`
	SampleCorrections  []practice.Correction `json:"sample_corrections"`
}

func (f *feedbackResolver) score(ctx context.Context, transcript, questionText string, category practice.Category) (*Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var p assessmentPayload
	err := f.backend.GenerateJSON(ctx, openai.JSONRequest{
		System:     f.prompt.SystemPrompt(),
		User:       f.prompt.UserPrompt(transcript, questionText, category),
		SchemaName: "speaking_assessment",
		Schema:     assessmentSchema(),
	}, &p)
	if err != nil {
		return nil, err
	}
	return p.toAssessment()
}

func (p assessmentPayload) toAssessment() (*Assessment, error) {
	scores := []struct {
		name string
		v    *float64
	}{
		{"fluency_score", p.FluencyScore},
		{"vocabulary_score", p.VocabularyScore},
		{"grammar_score", p.GrammarScore},
		{"pronunciation_score", p.PronunciationScore},
		{"overall_band", p.OverallBand},
	}
	for _, s := range scores {
		if s.v == nil {
			return nil, fmt.Errorf("malformed assessment: missing %s", s.name)
		}
	}
	return &Assessment{
		Fluency:       practice.ScoreFromFloat(*p.FluencyScore),
		Vocabulary:    practice.ScoreFromFloat(*p.VocabularyScore),
		Grammar:       practice.ScoreFromFloat(*p.GrammarScore),
		Pronunciation: practice.ScoreFromFloat(*p.PronunciationScore),
		Overall:       practice.ScoreFromFloat(*p.OverallBand),
		Feedback:      strings.TrimSpace(p.Feedback),
		Strengths:     nonNil(p.Strengths),
		Improvements:  nonNil(p.Improvements),
		Corrections:   nonNilCorrections(p.SampleCorrections),
		Status:        practice.AssessmentScored,
	}, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func nonNilCorrections(in []practice.Correction) []practice.Correction {
	if in == nil {
		return []practice.Correction{}
	}
	return in
}

func assessmentSchema() map[string]any {
	score := map[string]any{"type": "number", "minimum": 0, "maximum": 9}
	list := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{
			"fluency_score", "vocabulary_score", "grammar_score", "pronunciation_score",
			"overall_band", "feedback", "strengths", "improvements", "sample_corrections",
		},
		"properties": map[string]any{
			"fluency_score":       score,
			"vocabulary_score":    score,
			"grammar_score":       score,
			"pronunciation_score": score,
			"overall_band":        score,
			"feedback":            map[string]any{"type": "string"},
			"strengths":           list,
			"improvements":        list,
			"sample_corrections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"original", "corrected", "explanation"},
					"properties": map[string]any{
						"original":    map[string]any{"type": "string"},
						"corrected":   map[string]any{"type": "string"},
						"explanation": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}
