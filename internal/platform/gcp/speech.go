package gcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/speaking-practice-backend/internal/platform/ctxutil"
	"github.com/yungbote/speaking-practice-backend/internal/platform/httpx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

const (
	defaultSpeechModel    = "latest_long"
	defaultSpeechLanguage = "en-US"
)

// ErrNoSpeechResults is returned when recognition succeeds but yields no usable text.
var ErrNoSpeechResults = errors.New("speech: no transcription results")

type Speech interface {
	Recognize(ctx context.Context, audio []byte, mimeType string, cfg SpeechConfig) (*SpeechResult, error)
	Close() error
}

type SpeechConfig struct {
	LanguageCode string
	Model        string

	EnableAutomaticPunctuation bool

	// SampleRateHertz overrides the rate inferred from the container.
	SampleRateHertz int

	Encoding speechpb.RecognitionConfig_AudioEncoding
}

type SpeechResult struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
	Results    int     `json:"results"`
}

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

type speechService struct {
	log        *logger.Logger
	client     *speech.Client
	recognize  recognizeFunc
	maxRetries int
	backoff    time.Duration
}

func NewSpeech(ctx context.Context, log *logger.Logger) (Speech, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := speech.NewClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	s := newSpeechService(log, func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return c.Recognize(ctx, req)
	})
	s.client = c
	return s, nil
}

func newSpeechService(log *logger.Logger, fn recognizeFunc) *speechService {
	return &speechService{
		log:        log.With("service", "gcp.Speech"),
		recognize:  fn,
		maxRetries: 3,
		backoff:    750 * time.Millisecond,
	}
}

func (s *speechService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *speechService) Recognize(ctx context.Context, audio []byte, mimeType string, cfg SpeechConfig) (*SpeechResult, error) {
	ctx = ctxutil.Default(ctx)
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech recognize: empty audio")
	}
	req := &speechpb.RecognizeRequest{
		Config: buildRecognitionConfig(mimeType, cfg),
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: audio}},
	}

	start := time.Now()
	resp, err := s.retry(ctx, func() (*speechpb.RecognizeResponse, error) {
		return s.recognize(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("speech recognize: %w", err)
	}
	out := parseRecognizeResponse(resp)
	s.log.Debug("speech recognized",
		"results", out.Results,
		"chars", len(out.Text),
		"encoding", req.Config.Encoding.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if out.Text == "" {
		return out, ErrNoSpeechResults
	}
	return out, nil
}

func buildRecognitionConfig(mimeType string, cfg SpeechConfig) *speechpb.RecognitionConfig {
	if strings.TrimSpace(cfg.LanguageCode) == "" {
		cfg.LanguageCode = defaultSpeechLanguage
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultSpeechModel
	}
	enc := cfg.Encoding
	if enc == speechpb.RecognitionConfig_ENCODING_UNSPECIFIED {
		enc = inferSpeechEncoding(mimeType, "")
	}
	rate := cfg.SampleRateHertz
	if rate <= 0 {
		rate = sampleRateFor(enc)
	}
	return &speechpb.RecognitionConfig{
		LanguageCode:               cfg.LanguageCode,
		Model:                      cfg.Model,
		EnableAutomaticPunctuation: cfg.EnableAutomaticPunctuation,
		Encoding:                   enc,
		SampleRateHertz:            int32(rate),
	}
}

func inferSpeechEncoding(mimeType string, name string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case strings.Contains(m, "webm") || ext == ".webm":
		return speechpb.RecognitionConfig_WEBM_OPUS
	case strings.Contains(m, "wav") || ext == ".wav":
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac") || ext == ".flac":
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3") || strings.Contains(m, "mpeg") || ext == ".mp3":
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg") || strings.Contains(m, "opus") || ext == ".ogg" || ext == ".opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

// sampleRateFor returns the rate to declare for an encoding; 0 leaves it to the header.
func sampleRateFor(enc speechpb.RecognitionConfig_AudioEncoding) int {
	switch enc {
	case speechpb.RecognitionConfig_WEBM_OPUS, speechpb.RecognitionConfig_OGG_OPUS:
		return 48000
	case speechpb.RecognitionConfig_LINEAR16:
		return 16000
	default:
		return 0
	}
}

func parseRecognizeResponse(resp *speechpb.RecognizeResponse) *SpeechResult {
	out := &SpeechResult{}
	if resp == nil {
		return out
	}
	parts := make([]string, 0, len(resp.Results))
	var confSum float32
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		alt := r.Alternatives[0]
		text := collapseWhitespace(alt.Transcript)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		confSum += alt.Confidence
	}
	out.Text = strings.Join(parts, " ")
	out.Results = len(parts)
	if len(parts) > 0 {
		out.Confidence = confSum / float32(len(parts))
	}
	return out
}

func isRetryableSpeechError(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

func (s *speechService) retry(ctx context.Context, fn func() (*speechpb.RecognizeResponse, error)) (*speechpb.RecognizeResponse, error) {
	backoff := s.backoff
	var last error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		last = err
		if !isRetryableSpeechError(err) || attempt == s.maxRetries {
			break
		}
		s.log.Warn("speech recognize retrying", "attempt", attempt+1, "code", status.Code(err).String())
		if err := httpx.Sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return nil, last
}
