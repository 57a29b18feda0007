package seed

import (
	"context"
	"errors"
	"io"
	"testing"

	"funlabs/internal/store"
	"funlabs/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	topics    []*store.Topic
	lessons   []*store.Lesson
	questions []*store.Question
	failOn    string
}

func (r *recordingStore) ListTopics(ctx context.Context) ([]*store.Topic, error) {
	return r.topics, nil
}

func (r *recordingStore) ListQuestions(ctx context.Context, lessonID uuid.UUID) ([]*store.Question, error) {
	return nil, nil
}

func (r *recordingStore) CreateTopic(ctx context.Context, topic *store.Topic) error {
	topic.ID = uuid.New()
	r.topics = append(r.topics, topic)
	return nil
}

func (r *recordingStore) CreateLesson(ctx context.Context, lesson *store.Lesson) error {
	if r.failOn == "lesson" {
		return errors.New("insert failed")
	}
	lesson.ID = uuid.New()
	r.lessons = append(r.lessons, lesson)
	return nil
}

func (r *recordingStore) CreateQuestion(ctx context.Context, question *store.Question) error {
	question.ID = uuid.New()
	r.questions = append(r.questions, question)
	return nil
}

func discardLogger() *utils.Logger { return utils.NewLogger(io.Discard, false) }

func TestDefaultFixture(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	require.Len(t, f.Topics, 2)
	assert.Equal(t, "AI Fundamentals", f.Topics[0].Name)
	assert.Equal(t, "Machine Learning", f.Topics[1].Name)
	assert.Equal(t, []string{"ai-basics"}, f.Topics[1].Lessons[0].Prerequisites)
}

func TestApplyDefaultFixture(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	s := &recordingStore{}
	sum, err := Apply(context.Background(), s, f, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, Summary{Topics: 2, Lessons: 2, Questions: 4}, sum)

	require.Len(t, s.lessons, 2)
	aiBasics, mlBasics := s.lessons[0], s.lessons[1]
	assert.Equal(t, s.topics[0].ID, aiBasics.TopicID)
	assert.Equal(t, s.topics[1].ID, mlBasics.TopicID)
	assert.Empty(t, aiBasics.Prerequisites)
	assert.Equal(t, []uuid.UUID{aiBasics.ID}, mlBasics.Prerequisites)

	require.Len(t, s.questions, 4)
	first := s.questions[0]
	assert.Equal(t, store.QuestionMultipleChoice, first.Type)
	assert.Equal(t, aiBasics.ID, first.LessonID)
	assert.JSONEq(t, `{"correctIndices":[0]}`, string(first.CorrectAnswer))
	require.NotNil(t, first.Explanation)

	matching := s.questions[3]
	assert.Equal(t, store.QuestionMatching, matching.Type)
	assert.Equal(t, mlBasics.ID, matching.LessonID)
	assert.JSONEq(t, `{"pairs":{"supervised":"labeled","unsupervised":"patterns","reinforcement":"rewards"}}`, string(matching.CorrectAnswer))
	assert.Equal(t, 20, matching.Points)
}

func TestApplyStopsOnStoreError(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	s := &recordingStore{failOn: "lesson"}
	sum, err := Apply(context.Background(), s, f, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "What is Artificial Intelligence?")
	assert.Equal(t, 1, sum.Topics)
	assert.Empty(t, s.questions)
}

// txStore stages writes in a recordingStore and publishes them only when the
// transaction function succeeds.
type txStore struct {
	recordingStore
	committed  bool
	rolledBack bool
}

func (s *txStore) WithTx(ctx context.Context, fn func(store.LearningStore) error) error {
	staged := &recordingStore{failOn: s.failOn}
	if err := fn(staged); err != nil {
		s.rolledBack = true
		return err
	}
	s.topics = append(s.topics, staged.topics...)
	s.lessons = append(s.lessons, staged.lessons...)
	s.questions = append(s.questions, staged.questions...)
	s.committed = true
	return nil
}

func TestApplyRunsInOneTransaction(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	s := &txStore{}
	sum, err := Apply(context.Background(), s, f, discardLogger())
	require.NoError(t, err)
	assert.True(t, s.committed)
	assert.Equal(t, Summary{Topics: 2, Lessons: 2, Questions: 4}, sum)
	assert.Len(t, s.topics, 2)
	assert.Len(t, s.questions, 4)
}

func TestApplyRollsBackPartialSeed(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	s := &txStore{recordingStore: recordingStore{failOn: "lesson"}}
	sum, err := Apply(context.Background(), s, f, discardLogger())
	require.Error(t, err)
	assert.True(t, s.rolledBack)
	assert.False(t, s.committed)
	assert.Equal(t, Summary{}, sum)
	assert.Empty(t, s.topics)
	assert.Empty(t, s.lessons)
	assert.Empty(t, s.questions)
}

func TestParseRejectsInvalidFixtures(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			fixture: "topics: [",
			wantErr: "failed to parse seed fixture",
		},
		{
			name: "unknown prerequisite",
			fixture: `
topics:
  - name: T
    lessons:
      - {key: b, title: B, difficulty: BEGINNER, prerequisites: [a]}
`,
			wantErr: `unknown lesson "a"`,
		},
		{
			name: "prerequisite declared later",
			fixture: `
topics:
  - name: T
    lessons:
      - {key: b, title: B, difficulty: BEGINNER, prerequisites: [a]}
      - {key: a, title: A, difficulty: BEGINNER}
`,
			wantErr: `unknown lesson "a"`,
		},
		{
			name: "duplicate key",
			fixture: `
topics:
  - name: T
    lessons:
      - {key: a, title: A, difficulty: BEGINNER}
      - {key: a, title: A2, difficulty: BEGINNER}
`,
			wantErr: "duplicate key a",
		},
		{
			name: "bad difficulty",
			fixture: `
topics:
  - name: T
    lessons:
      - {key: a, title: A, difficulty: EXPERT}
`,
			wantErr: `invalid value "EXPERT"`,
		},
		{
			name: "bad question type",
			fixture: `
topics:
  - name: T
    lessons:
      - key: a
        title: A
        difficulty: BEGINNER
        questions:
          - {type: ESSAY, difficulty: BEGINNER, content: {q: x}, correct_answer: {a: y}}
`,
			wantErr: `invalid value "ESSAY"`,
		},
		{
			name: "missing answer",
			fixture: `
topics:
  - name: T
    lessons:
      - key: a
        title: A
        difficulty: BEGINNER
        questions:
          - {type: TRUE_FALSE, difficulty: BEGINNER, content: {statement: x}}
`,
			wantErr: "content and correct_answer are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.fixture))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
