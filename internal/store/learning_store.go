package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionFillBlank      QuestionType = "FILL_BLANK"
	QuestionMatching       QuestionType = "MATCHING"
)

type Topic struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OrderIndex  int       `json:"orderIndex"`
	CreatedAt   time.Time `json:"createdAt"`
	Lessons     []*Lesson `json:"lessons"`
}

type Lesson struct {
	ID            uuid.UUID   `json:"id"`
	TopicID       uuid.UUID   `json:"topicId"`
	Title         string      `json:"title"`
	Description   *string     `json:"description,omitempty"`
	Difficulty    Difficulty  `json:"difficulty"`
	OrderIndex    int         `json:"orderIndex"`
	Prerequisites []uuid.UUID `json:"prerequisites"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// Question content and answers are free-form JSON whose shape depends on Type.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	LessonID      uuid.UUID       `json:"lessonId"`
	Type          QuestionType    `json:"type"`
	Content       json.RawMessage `json:"content"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	Explanation   *string         `json:"explanation,omitempty"`
	Difficulty    Difficulty      `json:"difficulty"`
	Points        int             `json:"points"`
	OrderIndex    int             `json:"orderIndex"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type LearningStore interface {
	ListTopics(ctx context.Context) ([]*Topic, error)
	ListQuestions(ctx context.Context, lessonID uuid.UUID) ([]*Question, error)

	CreateTopic(ctx context.Context, topic *Topic) error
	CreateLesson(ctx context.Context, lesson *Lesson) error
	CreateQuestion(ctx context.Context, question *Question) error
}

// querier is the subset of *sql.DB and *sql.Tx the store runs queries on.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresLearningStore struct {
	db *sql.DB
	q  querier
}

func NewPostgresLearningStore(db *sql.DB) *PostgresLearningStore {
	return &PostgresLearningStore{db: db, q: db}
}

// WithTx runs fn against a store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *PostgresLearningStore) WithTx(ctx context.Context, fn func(LearningStore) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&PostgresLearningStore{db: s.db, q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListTopics returns every topic ordered by order_index with its lessons
// nested in the same order.
func (s *PostgresLearningStore) ListTopics(ctx context.Context) ([]*Topic, error) {
	query := `
		SELECT id, name, description, order_index, created_at
		FROM topics
		ORDER BY order_index ASC, created_at ASC
	`

	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []*Topic{}
	byID := make(map[uuid.UUID]*Topic)
	for rows.Next() {
		topic := &Topic{Lessons: []*Lesson{}}
		err := rows.Scan(
			&topic.ID,
			&topic.Name,
			&topic.Description,
			&topic.OrderIndex,
			&topic.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		topics = append(topics, topic)
		byID[topic.ID] = topic
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	lessons, err := s.listLessons(ctx)
	if err != nil {
		return nil, err
	}

	for _, lesson := range lessons {
		if topic, ok := byID[lesson.TopicID]; ok {
			topic.Lessons = append(topic.Lessons, lesson)
		}
	}

	return topics, nil
}

func (s *PostgresLearningStore) listLessons(ctx context.Context) ([]*Lesson, error) {
	query := `
		SELECT id, topic_id, title, description, difficulty, order_index, prerequisites, created_at
		FROM lessons
		ORDER BY order_index ASC, created_at ASC
	`

	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := []*Lesson{}
	for rows.Next() {
		lesson := &Lesson{}
		var prerequisitesJSON sql.NullString

		err := rows.Scan(
			&lesson.ID,
			&lesson.TopicID,
			&lesson.Title,
			&lesson.Description,
			&lesson.Difficulty,
			&lesson.OrderIndex,
			&prerequisitesJSON,
			&lesson.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		lesson.Prerequisites = []uuid.UUID{}
		if prerequisitesJSON.Valid && prerequisitesJSON.String != "" {
			if err := json.Unmarshal([]byte(prerequisitesJSON.String), &lesson.Prerequisites); err != nil {
				return nil, fmt.Errorf("lesson %s: invalid prerequisites: %w", lesson.ID, err)
			}
		}

		lessons = append(lessons, lesson)
	}

	return lessons, rows.Err()
}

// ListQuestions returns the questions of a lesson ordered by order_index. An
// unknown lesson yields an empty slice.
func (s *PostgresLearningStore) ListQuestions(ctx context.Context, lessonID uuid.UUID) ([]*Question, error) {
	query := `
		SELECT id, lesson_id, type, content, correct_answer, explanation,
			   difficulty, points, order_index, created_at
		FROM questions
		WHERE lesson_id = $1
		ORDER BY order_index ASC, created_at ASC
	`

	rows, err := s.q.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []*Question{}
	for rows.Next() {
		question := &Question{}
		var contentJSON, answerJSON string

		err := rows.Scan(
			&question.ID,
			&question.LessonID,
			&question.Type,
			&contentJSON,
			&answerJSON,
			&question.Explanation,
			&question.Difficulty,
			&question.Points,
			&question.OrderIndex,
			&question.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		question.Content = json.RawMessage(contentJSON)
		question.CorrectAnswer = json.RawMessage(answerJSON)
		questions = append(questions, question)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return questions, nil
}

func (s *PostgresLearningStore) CreateTopic(ctx context.Context, topic *Topic) error {
	query := `
		INSERT INTO topics (name, description, order_index)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return s.q.QueryRowContext(ctx, query, topic.Name, topic.Description, topic.OrderIndex).
		Scan(&topic.ID, &topic.CreatedAt)
}

func (s *PostgresLearningStore) CreateLesson(ctx context.Context, lesson *Lesson) error {
	prerequisites := lesson.Prerequisites
	if prerequisites == nil {
		prerequisites = []uuid.UUID{}
	}
	prerequisitesJSON, err := json.Marshal(prerequisites)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lessons (topic_id, title, description, difficulty, order_index, prerequisites)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	return s.q.QueryRowContext(
		ctx,
		query,
		lesson.TopicID,
		lesson.Title,
		lesson.Description,
		string(lesson.Difficulty),
		lesson.OrderIndex,
		string(prerequisitesJSON),
	).Scan(&lesson.ID, &lesson.CreatedAt)
}

func (s *PostgresLearningStore) CreateQuestion(ctx context.Context, question *Question) error {
	if !json.Valid(question.Content) || !json.Valid(question.CorrectAnswer) {
		return fmt.Errorf("question content and correct answer must be valid JSON")
	}

	query := `
		INSERT INTO questions (lesson_id, type, content, correct_answer, explanation, difficulty, points, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	return s.q.QueryRowContext(
		ctx,
		query,
		question.LessonID,
		string(question.Type),
		string(question.Content),
		string(question.CorrectAnswer),
		question.Explanation,
		string(question.Difficulty),
		question.Points,
		question.OrderIndex,
	).Scan(&question.ID, &question.CreatedAt)
}
