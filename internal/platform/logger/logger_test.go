package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
		log, err := Setup(level)
		require.NoError(t, err, "level %q should be accepted", level)
		assert.NotNil(t, log)
	}

	_, err := Setup("verbose")
	assert.Error(t, err)

	_, err = Setup("")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	// Without a logger in the context the default is returned.
	assert.NotNil(t, FromContext(context.Background()))

	attached := slog.Default().With("trace_id", "abc123")
	ctx := WithLogger(context.Background(), attached)
	assert.Same(t, attached, FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	def := slog.Default().With("component", "test")

	// Context wins over the provided default.
	attached := slog.Default().With("trace_id", "abc123")
	ctx := WithLogger(context.Background(), attached)
	assert.Same(t, attached, FromContextOrDefault(ctx, def))

	// The provided default wins over the process default.
	assert.Same(t, def, FromContextOrDefault(context.Background(), def))

	// Nil default falls back to the process default.
	assert.NotNil(t, FromContextOrDefault(context.Background(), nil))
}
