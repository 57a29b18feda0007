package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"funlabs/internal/store"
	"funlabs/internal/utils"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultFixture []byte

type Fixture struct {
	Topics []TopicFixture `yaml:"topics"`
}

type TopicFixture struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	OrderIndex  int             `yaml:"order_index"`
	Lessons     []LessonFixture `yaml:"lessons"`
}

// LessonFixture names itself with Key so later lessons can list it as a
// prerequisite before any database id exists.
type LessonFixture struct {
	Key           string            `yaml:"key"`
	Title         string            `yaml:"title"`
	Description   string            `yaml:"description"`
	Difficulty    store.Difficulty  `yaml:"difficulty"`
	OrderIndex    int               `yaml:"order_index"`
	Prerequisites []string          `yaml:"prerequisites"`
	Questions     []QuestionFixture `yaml:"questions"`
}

type QuestionFixture struct {
	Type          store.QuestionType `yaml:"type"`
	Difficulty    store.Difficulty   `yaml:"difficulty"`
	Points        int                `yaml:"points"`
	OrderIndex    int                `yaml:"order_index"`
	Content       map[string]any     `yaml:"content"`
	CorrectAnswer map[string]any     `yaml:"correct_answer"`
	Explanation   string             `yaml:"explanation"`
}

type Summary struct {
	Topics    int
	Lessons   int
	Questions int
}

func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks enum values and that every prerequisite names a lesson
// declared earlier in the fixture.
func (f *Fixture) Validate() error {
	seen := make(map[string]bool)

	for _, topic := range f.Topics {
		if topic.Name == "" {
			return utils.NewValidationError("topic.name", "is required")
		}

		for _, lesson := range topic.Lessons {
			if lesson.Key == "" {
				return utils.NewValidationError("lesson.key", "is required for "+lesson.Title)
			}
			if seen[lesson.Key] {
				return utils.NewValidationError("lesson.key", "duplicate key "+lesson.Key)
			}
			if !validDifficulty(lesson.Difficulty) {
				return utils.NewValidationError("lesson.difficulty", fmt.Sprintf("invalid value %q", lesson.Difficulty))
			}
			for _, pre := range lesson.Prerequisites {
				if !seen[pre] {
					return utils.NewValidationError("lesson.prerequisites", fmt.Sprintf("%s references unknown lesson %q", lesson.Key, pre))
				}
			}
			seen[lesson.Key] = true

			for _, q := range lesson.Questions {
				if !validQuestionType(q.Type) {
					return utils.NewValidationError("question.type", fmt.Sprintf("invalid value %q", q.Type))
				}
				if !validDifficulty(q.Difficulty) {
					return utils.NewValidationError("question.difficulty", fmt.Sprintf("invalid value %q", q.Difficulty))
				}
				if q.Content == nil || q.CorrectAnswer == nil {
					return utils.NewValidationError("question", "content and correct_answer are required in "+lesson.Key)
				}
			}
		}
	}

	return nil
}

// TxRunner is implemented by stores that can run a batch of writes in one
// transaction, such as *store.PostgresLearningStore.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(store.LearningStore) error) error
}

// Apply inserts the fixture in declaration order. When s is a TxRunner the
// whole fixture is written in one transaction, so a failure leaves nothing
// behind and the returned Summary is zero.
func Apply(ctx context.Context, s store.LearningStore, f *Fixture, logger *utils.Logger) (Summary, error) {
	tx, ok := s.(TxRunner)
	if !ok {
		return apply(ctx, s, f, logger)
	}

	var sum Summary
	err := tx.WithTx(ctx, func(txStore store.LearningStore) error {
		var err error
		sum, err = apply(ctx, txStore, f, logger)
		return err
	})
	if err != nil {
		logger.Error("seed", "Seed rolled back", err)
		return Summary{}, err
	}
	return sum, nil
}

func apply(ctx context.Context, s store.LearningStore, f *Fixture, logger *utils.Logger) (Summary, error) {
	var sum Summary
	lessonIDs := make(map[string]uuid.UUID)

	for _, tf := range f.Topics {
		topic := &store.Topic{
			Name:        tf.Name,
			Description: optional(tf.Description),
			OrderIndex:  tf.OrderIndex,
		}
		if err := s.CreateTopic(ctx, topic); err != nil {
			return sum, fmt.Errorf("failed to create topic %q: %w", tf.Name, err)
		}
		sum.Topics++
		logger.Debug("seed", "Created topic "+topic.Name)

		for _, lf := range tf.Lessons {
			prerequisites := make([]uuid.UUID, 0, len(lf.Prerequisites))
			for _, key := range lf.Prerequisites {
				id, ok := lessonIDs[key]
				if !ok {
					return sum, fmt.Errorf("lesson %s: unknown prerequisite %q", lf.Key, key)
				}
				prerequisites = append(prerequisites, id)
			}

			lesson := &store.Lesson{
				TopicID:       topic.ID,
				Title:         lf.Title,
				Description:   optional(lf.Description),
				Difficulty:    lf.Difficulty,
				OrderIndex:    lf.OrderIndex,
				Prerequisites: prerequisites,
			}
			if err := s.CreateLesson(ctx, lesson); err != nil {
				return sum, fmt.Errorf("failed to create lesson %q: %w", lf.Title, err)
			}
			lessonIDs[lf.Key] = lesson.ID
			sum.Lessons++

			for _, qf := range lf.Questions {
				question, err := qf.toQuestion(lesson.ID)
				if err != nil {
					return sum, fmt.Errorf("lesson %s: %w", lf.Key, err)
				}
				if err := s.CreateQuestion(ctx, question); err != nil {
					return sum, fmt.Errorf("failed to create question in %q: %w", lf.Title, err)
				}
				sum.Questions++
			}
		}
	}

	logger.Info("seed", fmt.Sprintf("Created %d topics, %d lessons, %d questions", sum.Topics, sum.Lessons, sum.Questions))
	return sum, nil
}

func (q QuestionFixture) toQuestion(lessonID uuid.UUID) (*store.Question, error) {
	content, err := json.Marshal(q.Content)
	if err != nil {
		return nil, fmt.Errorf("invalid question content: %w", err)
	}
	answer, err := json.Marshal(q.CorrectAnswer)
	if err != nil {
		return nil, fmt.Errorf("invalid correct answer: %w", err)
	}

	return &store.Question{
		LessonID:      lessonID,
		Type:          q.Type,
		Content:       content,
		CorrectAnswer: answer,
		Explanation:   optional(q.Explanation),
		Difficulty:    q.Difficulty,
		Points:        q.Points,
		OrderIndex:    q.OrderIndex,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func validDifficulty(d store.Difficulty) bool {
	switch d {
	case store.DifficultyBeginner, store.DifficultyIntermediate, store.DifficultyAdvanced:
		return true
	}
	return false
}

func validQuestionType(t store.QuestionType) bool {
	switch t {
	case store.QuestionMultipleChoice, store.QuestionTrueFalse, store.QuestionFillBlank, store.QuestionMatching:
		return true
	}
	return false
}
