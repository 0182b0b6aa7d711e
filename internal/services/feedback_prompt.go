package services

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/platform/promptstyle"
)

const feedbackPromptEnv = "FEEDBACK_PROMPT_YAML"

//go:embed feedback_prompt.yaml
var feedbackPromptFS embed.FS

type FeedbackPrompt struct {
	Prompt     string                       `yaml:"prompt"`
	Version    int                          `yaml:"version"`
	System     string                       `yaml:"system"`
	User       string                       `yaml:"user"`
	Categories map[practice.Category]string `yaml:"categories"`
}

// LoadFeedbackPrompt reads the file named by FEEDBACK_PROMPT_YAML, or the
// embedded default when the variable is unset.
func LoadFeedbackPrompt() (*FeedbackPrompt, error) {
	var (
		data []byte
		err  error
	)
	if path := strings.TrimSpace(os.Getenv(feedbackPromptEnv)); path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = feedbackPromptFS.ReadFile("feedback_prompt.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("read feedback prompt: %w", err)
	}
	return ParseFeedbackPrompt(data)
}

func ParseFeedbackPrompt(data []byte) (*FeedbackPrompt, error) {
	var p FeedbackPrompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse feedback prompt: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *FeedbackPrompt) validate() error {
	if strings.TrimSpace(p.System) == "" {
		return errors.New("feedback prompt: system is required")
	}
	if !strings.Contains(p.User, "{{transcription}}") {
		return errors.New("feedback prompt: user template must reference {{transcription}}")
	}
	for _, c := range practice.Categories {
		if strings.TrimSpace(p.Categories[c]) == "" {
			return fmt.Errorf("feedback prompt: missing descriptor for category %d", c)
		}
	}
	return nil
}

func (p *FeedbackPrompt) SystemPrompt() string {
	return promptstyle.ApplySystem(p.System, "json")
}

func (p *FeedbackPrompt) UserPrompt(transcript, question string, category practice.Category) string {
	part, ok := p.Categories[category]
	if !ok {
		part = fmt.Sprintf("Part %d", int(category))
	}
	return strings.NewReplacer(
		"{{part}}", part,
		"{{question}}", strings.TrimSpace(question),
		"{{transcription}}", strings.TrimSpace(transcript),
	).Replace(p.User)
}
