package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/speaking-practice-backend/internal/platform/ctxutil"
	"github.com/yungbote/speaking-practice-backend/internal/platform/envutil"
	"github.com/yungbote/speaking-practice-backend/internal/platform/httpx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

const defaultBaseURL = "https://api.openai.com"

// Client talks to an OpenAI-compatible API: the Responses endpoint for
// structured scoring and the audio transcription endpoint.
type Client interface {
	// GenerateJSON asks for json_schema structured output and decodes it into out.
	GenerateJSON(ctx context.Context, req JSONRequest, out any) error
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
	Model() string
	// Ping checks that the endpoint answers with the configured credentials.
	Ping(ctx context.Context) error
}

type JSONRequest struct {
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

type TranscriptionRequest struct {
	Audio    []byte
	FileName string
	MimeType string
	Language string
}

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// ConfigFromEnv reads <prefix>_API_KEY, <prefix>_BASE_URL, <prefix>_MODEL,
// <prefix>_TIMEOUT_SECONDS and <prefix>_MAX_RETRIES, falling back to the
// OPENAI_* variables for key and base url.
func ConfigFromEnv(prefix, defaultModel string) Config {
	prefix = strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(prefix)), "_")
	return Config{
		APIKey:     envutil.String(prefix+"_API_KEY", envutil.String("OPENAI_API_KEY", "")),
		BaseURL:    envutil.String(prefix+"_BASE_URL", envutil.String("OPENAI_BASE_URL", defaultBaseURL)),
		Model:      envutil.String(prefix+"_MODEL", defaultModel),
		Timeout:    envutil.Duration(prefix+"_TIMEOUT_SECONDS", envutil.Duration("OPENAI_TIMEOUT_SECONDS", 180*time.Second)),
		MaxRetries: envutil.Int(prefix+"_MAX_RETRIES", envutil.Int("OPENAI_MAX_RETRIES", 4)),
	}
}

func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

var ErrNotConfigured = errors.New("openai: missing api key")

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 180 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &client{
		log:        log.With("service", "OpenAIClient", "model", cfg.Model),
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      strings.TrimSpace(cfg.Model),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		backoff:    time.Second,
	}, nil
}

func (c *client) Model() string { return c.model }

type openAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *openAIHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *openAIHTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

type encodedBody struct {
	payload     []byte
	contentType string
}

func jsonBody(body any) (encodedBody, error) {
	if body == nil {
		return encodedBody{}, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return encodedBody{}, err
	}
	return encodedBody{payload: b, contentType: "application/json"}, nil
}

func (c *client) doOnce(ctx context.Context, method, path string, body encodedBody) (*http.Response, []byte, error) {
	var rdr io.Reader
	if body.payload != nil {
		rdr = bytes.NewReader(body.payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body.contentType != "" {
		req.Header.Set("Content-Type", body.contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &openAIHTTPError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 2048)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body encodedBody, out any) error {
	ctx = ctxutil.Default(ctx)
	backoff := c.backoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w; raw=%s", uErr, truncate(string(raw), 512))
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return err
		}
		backoff *= 2
	}
	return fmt.Errorf("unreachable retry loop")
}

// -------------------- Responses API (structured output) --------------------

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string           `json:"model"`
	Input []responsesInput `json:"input"`
	Text  struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) (text string, refusal string) {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			switch {
			case c.Type == "output_text" && c.Text != "":
				out.WriteString(c.Text)
			case c.Type == "refusal" && c.Refusal != "":
				refusal = c.Refusal
			}
		}
	}
	if refusal == "" {
		refusal = resp.Refusal
	}
	return out.String(), refusal
}

// StripJSONFence removes a surrounding ``` or ```json fence from model output.
func StripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		if lang := strings.TrimSpace(s[:nl]); lang == "" || strings.EqualFold(lang, "json") {
			s = s[nl+1:]
		}
	} else {
		s = strings.TrimPrefix(strings.TrimSpace(s), "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func (c *client) GenerateJSON(ctx context.Context, in JSONRequest, out any) error {
	if in.SchemaName == "" {
		return errors.New("schemaName required")
	}
	if in.Schema == nil {
		return errors.New("schema required")
	}
	req := responsesRequest{
		Model: c.model,
		Input: []responsesInput{
			{Role: "system", Content: in.System},
			{Role: "user", Content: in.User},
		},
	}
	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   in.SchemaName,
		"schema": in.Schema,
		"strict": true,
	}
	body, err := jsonBody(req)
	if err != nil {
		return err
	}

	var resp responsesResponse
	if err := c.do(ctx, http.MethodPost, "/v1/responses", body, &resp); err != nil {
		return err
	}
	text, refusal := extractOutputText(resp)
	if refusal != "" {
		return fmt.Errorf("model refused: %s", refusal)
	}
	text = StripJSONFence(text)
	if text == "" {
		return fmt.Errorf("no output_text found in response")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to parse model JSON: %w; text=%s", err, truncate(text, 512))
	}
	return nil
}

// -------------------- Audio transcription --------------------

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (c *client) Transcribe(ctx context.Context, in TranscriptionRequest) (string, error) {
	if len(in.Audio) == 0 {
		return "", errors.New("transcribe: empty audio")
	}
	body, err := multipartTranscription(c.model, in)
	if err != nil {
		return "", err
	}
	var resp transcriptionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/audio/transcriptions", body, &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

func multipartTranscription(model string, in TranscriptionRequest) (encodedBody, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	name := strings.TrimSpace(in.FileName)
	if name == "" {
		name = "audio" + extensionForMime(in.MimeType)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(name)))
	ct := strings.TrimSpace(in.MimeType)
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	fw, err := mw.CreatePart(h)
	if err != nil {
		return encodedBody{}, err
	}
	if _, err := fw.Write(in.Audio); err != nil {
		return encodedBody{}, err
	}
	if err := mw.WriteField("model", model); err != nil {
		return encodedBody{}, err
	}
	if lang := primaryLanguage(in.Language); lang != "" {
		if err := mw.WriteField("language", lang); err != nil {
			return encodedBody{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return encodedBody{}, err
	}
	return encodedBody{payload: buf.Bytes(), contentType: mw.FormDataContentType()}, nil
}

// primaryLanguage reduces a BCP-47 tag such as en-US to the ISO-639-1 code.
func primaryLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

func extensionForMime(mime string) string {
	m := strings.ToLower(mime)
	switch {
	case strings.Contains(m, "webm"):
		return ".webm"
	case strings.Contains(m, "wav"):
		return ".wav"
	case strings.Contains(m, "mpeg"), strings.Contains(m, "mp3"):
		return ".mp3"
	case strings.Contains(m, "ogg"):
		return ".ogg"
	case strings.Contains(m, "flac"):
		return ".flac"
	case strings.Contains(m, "mp4"), strings.Contains(m, "m4a"):
		return ".m4a"
	default:
		return ".webm"
	}
}

// Ping lists models with a short timeout and no retries.
func (c *client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 5*time.Second)
	defer cancel()
	_, _, err := c.doOnce(ctx, http.MethodGet, "/v1/models", encodedBody{})
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(" + strconv.Itoa(len(s)-n) + " more bytes)"
}
