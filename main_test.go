package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"funlabs/internal/app"
	"funlabs/internal/config"
	"funlabs/internal/store"
	"funlabs/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

type emptyStore struct{}

func (emptyStore) ListTopics(ctx context.Context) ([]*store.Topic, error) { return nil, nil }

func (emptyStore) ListQuestions(ctx context.Context, lessonID uuid.UUID) ([]*store.Question, error) {
	return nil, nil
}

func (emptyStore) CreateTopic(ctx context.Context, topic *store.Topic) error { return nil }

func (emptyStore) CreateLesson(ctx context.Context, lesson *store.Lesson) error { return nil }

func (emptyStore) CreateQuestion(ctx context.Context, question *store.Question) error { return nil }

func newTestApplication(t *testing.T) (*app.Application, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	cfg := &config.Config{
		Environment: config.EnvTest,
		CORS: config.CORSConfig{
			Mode:             utils.CORSModeAllowList,
			AllowedOrigins:   []string{"http://localhost:5173"},
			WorkspacePattern: config.DefaultWorkspacePattern,
		},
	}

	application, err := app.New(cfg, utils.NewLogger(&buf, false), okPinger{}, emptyStore{})
	require.NoError(t, err)
	return application, &buf
}

func TestServeClosesApplicationOnServerError(t *testing.T) {
	application, buf := newTestApplication(t)

	code := serve(application, func(*app.Application) error {
		return errors.New("listen tcp :5000: address already in use")
	})

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "Server error: listen tcp :5000: address already in use")
	assert.Contains(t, buf.String(), "Application shutdown complete")
}

func TestServeReturnsZeroOnCleanStop(t *testing.T) {
	application, buf := newTestApplication(t)

	code := serve(application, func(*app.Application) error { return nil })

	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), "Application shutdown complete")
}
