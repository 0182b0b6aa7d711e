package services

import (
	"context"
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/speaking-practice-backend/internal/data/repos"
	"github.com/yungbote/speaking-practice-backend/internal/domain/practice"
	"github.com/yungbote/speaking-practice-backend/internal/platform/dbctx"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

const questionSeedEnv = "QUESTION_SEED_PATH"

//go:embed question_seed.yaml
var questionSeedFS embed.FS

type yamlQuestionSeed struct {
	Questions []yamlQuestion `yaml:"questions"`
}

type yamlQuestion struct {
	Part  int    `yaml:"part"`
	Topic string `yaml:"topic"`
	Text  string `yaml:"text"`
}

func readQuestionSeed(path string) ([]byte, error) {
	if path = strings.TrimSpace(path); path != "" {
		return os.ReadFile(path)
	}
	return questionSeedFS.ReadFile("question_seed.yaml")
}

func ParseQuestionSeed(data []byte) ([]*practice.Question, error) {
	var seed yamlQuestionSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse question seed: %w", err)
	}
	out := make([]*practice.Question, 0, len(seed.Questions))
	seen := map[string]bool{}
	for i, q := range seed.Questions {
		c := practice.Category(q.Part)
		if !c.Valid() {
			return nil, fmt.Errorf("question seed #%d: invalid part %d", i+1, q.Part)
		}
		text := strings.TrimSpace(q.Text)
		if text == "" {
			return nil, fmt.Errorf("question seed #%d: text is required", i+1)
		}
		key := fmt.Sprintf("%d|%s", c, text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, &practice.Question{Category: c, Topic: strings.TrimSpace(q.Topic), Text: text})
	}
	return out, nil
}

// SeedQuestions loads the seed file (QUESTION_SEED_PATH or the embedded set)
// and inserts the questions not stored yet.
func SeedQuestions(ctx context.Context, log *logger.Logger, questions repos.QuestionRepo, path string) (int, error) {
	if path == "" {
		path = os.Getenv(questionSeedEnv)
	}
	data, err := readQuestionSeed(path)
	if err != nil {
		return 0, fmt.Errorf("read question seed: %w", err)
	}
	parsed, err := ParseQuestionSeed(data)
	if err != nil {
		return 0, err
	}
	n, err := questions.InsertMissing(dbctx.Context{Ctx: ctx}, parsed)
	if err != nil {
		return 0, fmt.Errorf("insert seed questions: %w", err)
	}
	if log != nil {
		log.Info("Seeded question pool", "inserted", n, "seed_size", len(parsed))
	}
	return n, nil
}
