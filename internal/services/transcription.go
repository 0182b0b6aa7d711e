package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/speaking-practice-backend/internal/observability"
	"github.com/yungbote/speaking-practice-backend/internal/platform/gcp"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
	"github.com/yungbote/speaking-practice-backend/internal/platform/openai"
)

type TranscriptionMethod string

const (
	MethodGoogle  TranscriptionMethod = "google"
	MethodWhisper TranscriptionMethod = "whisper"
)

func (m TranscriptionMethod) DisplayName() string {
	switch m {
	case MethodGoogle:
		return "Google Cloud Speech-to-Text"
	case MethodWhisper:
		return "Whisper"
	default:
		return string(m)
	}
}

const (
	defaultPrimaryTimeout  = 30 * time.Second
	defaultFallbackTimeout = 120 * time.Second
	defaultLanguageCode    = "en-US"
)

var (
	ErrMissingAudio         = errors.New("audio is required")
	ErrEmptyTranscript      = errors.New("transcript is empty")
	ErrProviderUnconfigured = errors.New("transcription provider not configured")
)

// Transcriber turns audio bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType, languageCode string) (string, error)
}

// TranscriberFactory builds a provider handle on first use.
type TranscriberFactory func(ctx context.Context) (Transcriber, error)

type TranscriptionRequest struct {
	Audio         []byte
	MimeType      string
	AudioRef      string
	Language      string
	PreferPrimary bool
}

type Transcription struct {
	Text   string              `json:"transcription"`
	Method TranscriptionMethod `json:"method"`
}

// TranscriptionError is returned when every attempted provider failed.
// Primary is nil when the primary provider was skipped.
type TranscriptionError struct {
	Primary  error
	Fallback error
}

func (e *TranscriptionError) Error() string {
	var parts []string
	if e.Primary != nil {
		parts = append(parts, "google: "+e.Primary.Error())
	}
	if e.Fallback != nil {
		parts = append(parts, "whisper: "+e.Fallback.Error())
	}
	if len(parts) == 0 {
		return "transcription failed"
	}
	return "transcription failed: " + strings.Join(parts, "; ")
}

func (e *TranscriptionError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Primary != nil {
		out = append(out, e.Primary)
	}
	if e.Fallback != nil {
		out = append(out, e.Fallback)
	}
	return out
}

type ProviderStatus struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type TranscriptionStatus struct {
	Google  ProviderStatus `json:"google_speech"`
	Whisper ProviderStatus `json:"whisper"`
}

type TranscriptionResolver interface {
	Resolve(ctx context.Context, req TranscriptionRequest) (Transcription, error)
	Status(ctx context.Context) TranscriptionStatus
}

type TranscriptionResolverDeps struct {
	Log *logger.Logger

	// A nil factory marks the provider as not configured.
	Primary  TranscriberFactory
	Fallback TranscriberFactory

	PrimaryTimeout  time.Duration
	FallbackTimeout time.Duration
}

// lazyTranscriber builds a provider on first use. Only a successful build is
// kept; a failed factory is retried on the next call.
type lazyTranscriber struct {
	factory TranscriberFactory
	mu      sync.Mutex
	handle  Transcriber
}

func (l *lazyTranscriber) get(ctx context.Context) (Transcriber, error) {
	if l == nil || l.factory == nil {
		return nil, ErrProviderUnconfigured
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle != nil {
		return l.handle, nil
	}
	handle, err := l.factory(ctx)
	if err != nil {
		return nil, err
	}
	if handle == nil {
		return nil, ErrProviderUnconfigured
	}
	l.handle = handle
	return handle, nil
}

type transcriptionResolver struct {
	log             *logger.Logger
	primary         *lazyTranscriber
	fallback        *lazyTranscriber
	primaryTimeout  time.Duration
	fallbackTimeout time.Duration
}

func NewTranscriptionResolver(deps TranscriptionResolverDeps) TranscriptionResolver {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	r := &transcriptionResolver{
		log:             log.With("service", "TranscriptionResolver"),
		primary:         &lazyTranscriber{factory: deps.Primary},
		fallback:        &lazyTranscriber{factory: deps.Fallback},
		primaryTimeout:  deps.PrimaryTimeout,
		fallbackTimeout: deps.FallbackTimeout,
	}
	if r.primaryTimeout <= 0 {
		r.primaryTimeout = defaultPrimaryTimeout
	}
	if r.fallbackTimeout <= 0 {
		r.fallbackTimeout = defaultFallbackTimeout
	}
	return r
}

func (r *transcriptionResolver) Resolve(ctx context.Context, req TranscriptionRequest) (Transcription, error) {
	if len(req.Audio) == 0 {
		return Transcription{}, ErrMissingAudio
	}
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = defaultLanguageCode
	}
	ctx, span := observability.StartSpan(ctx, "transcription.resolve")
	var out Transcription
	var err error
	defer func() { observability.EndSpan(span, err) }()

	var primaryErr error
	if req.PreferPrimary && r.primary.factory != nil {
		text, perr := r.attempt(ctx, r.primary, MethodGoogle, r.primaryTimeout, req, lang)
		if perr == nil {
			out = Transcription{Text: text, Method: MethodGoogle}
			return out, nil
		}
		primaryErr = perr
		r.log.Warn("Primary transcription failed, falling back", "error", perr, "audio_ref", req.AudioRef)
	}

	text, ferr := r.attempt(ctx, r.fallback, MethodWhisper, r.fallbackTimeout, req, lang)
	if ferr == nil {
		out = Transcription{Text: text, Method: MethodWhisper}
		return out, nil
	}
	err = &TranscriptionError{Primary: primaryErr, Fallback: ferr}
	r.log.Error("Transcription failed", "error", err, "audio_ref", req.AudioRef)
	return Transcription{}, err
}

func (r *transcriptionResolver) attempt(ctx context.Context, p *lazyTranscriber, method TranscriptionMethod, timeout time.Duration, req TranscriptionRequest, lang string) (string, error) {
	start := time.Now()
	text, err := func() (string, error) {
		handle, err := p.get(ctx)
		if err != nil {
			return "", err
		}
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		text, err := handle.Transcribe(cctx, req.Audio, req.MimeType, lang)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", ErrEmptyTranscript
		}
		return text, nil
	}()
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.Current().ObserveTranscription(string(method), status, time.Since(start))
	return text, err
}

func (r *transcriptionResolver) Status(ctx context.Context) TranscriptionStatus {
	check := func(p *lazyTranscriber) ProviderStatus {
		if _, err := p.get(ctx); err != nil {
			return ProviderStatus{Error: err.Error()}
		}
		return ProviderStatus{Available: true}
	}
	return TranscriptionStatus{Google: check(r.primary), Whisper: check(r.fallback)}
}

// GoogleTranscriber adapts the Speech-to-Text client.
type GoogleTranscriber struct {
	Speech gcp.Speech
}

func (g GoogleTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType, languageCode string) (string, error) {
	res, err := g.Speech.Recognize(ctx, audio, mimeType, gcp.SpeechConfig{
		LanguageCode:               languageCode,
		EnableAutomaticPunctuation: true,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// WhisperTranscriber adapts an OpenAI-compatible transcription endpoint.
type WhisperTranscriber struct {
	Client openai.Client
}

func (w WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType, languageCode string) (string, error) {
	return w.Client.Transcribe(ctx, openai.TranscriptionRequest{
		Audio:    audio,
		MimeType: mimeType,
		Language: languageCode,
	})
}

// GoogleFactory returns nil when Speech-to-Text is disabled.
func GoogleFactory(log *logger.Logger, enabled bool) TranscriberFactory {
	if !enabled {
		return nil
	}
	return func(ctx context.Context) (Transcriber, error) {
		// The client outlives the request that first needs it.
		s, err := gcp.NewSpeech(context.WithoutCancel(ctx), log)
		if err != nil {
			return nil, fmt.Errorf("init google speech: %w", err)
		}
		return GoogleTranscriber{Speech: s}, nil
	}
}

// WhisperFactory returns nil when no API key is configured.
func WhisperFactory(log *logger.Logger, cfg openai.Config) TranscriberFactory {
	if !cfg.Configured() {
		return nil
	}
	return func(ctx context.Context) (Transcriber, error) {
		c, err := openai.NewClient(log, cfg)
		if err != nil {
			return nil, fmt.Errorf("init whisper client: %w", err)
		}
		return WhisperTranscriber{Client: c}, nil
	}
}
