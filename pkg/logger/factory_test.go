package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/logger"
)

type ctxKey struct{}

func TestNew_JSONDefaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("app", "formguard")),
	)
	log.Debug("hidden")
	log.Info("shown", logger.Container("signup:1"), logger.Field("email"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "formguard", rec["app"])
	assert.Equal(t, "signup:1", rec["container"])
	assert.Equal(t, "email", rec["field"])
}

func TestNew_Environment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithEnvironment("dev", "formguard"))
	log.Debug("debug line")

	out := buf.String()
	assert.Contains(t, out, "debug line")
	assert.Contains(t, out, "env=development")
	assert.Contains(t, out, "service=formguard")
}

func TestNew_ContextValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithContextValue("session", ctxKey{}))
	ctx := context.WithValue(context.Background(), ctxKey{}, "abc")
	log.With(logger.Component("test")).InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "abc", rec["session"])
	assert.Equal(t, "test", rec["component"])
}

func TestWithFormat_PanicsOnUnknown(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
}

func TestErrorAttrs(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("x")).Key)
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
	assert.Equal(t, "errors", logger.Errors(nil, errors.New("x")).Key)
	assert.NotNil(t, logger.Or(nil))
}
