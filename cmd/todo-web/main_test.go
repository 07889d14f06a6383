// ABOUTME: Tests for the todo-web command helpers
// ABOUTME: Covers interactive prompts and logger selection

package main

import (
	"bufio"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/2389/todo-web/internal/config"
)

func TestPrompt(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("custom\n\n"))

	assert.Equal(t, "custom", prompt(reader, "Question", "default"))
	assert.Equal(t, "default", prompt(reader, "Question", "default"))
	// EOF falls back to the default
	assert.Equal(t, "fallback", prompt(reader, "Question", "fallback"))
}

func TestIsYes(t *testing.T) {
	for _, s := range []string{"y", "Y", "yes", "YES"} {
		assert.True(t, isYes(s), s)
	}
	for _, s := range []string{"", "n", "no", "yep"} {
		assert.False(t, isYes(s), s)
	}
}

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()

	logger := setupLogger(config.LoggingConfig{Level: "warn", Format: "text"})
	_, ok := logger.Handler().(*colorHandler)
	assert.True(t, ok, "text format should use the color handler")
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))

	logger = setupLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	_, ok = logger.Handler().(*slog.JSONHandler)
	assert.True(t, ok, "json format should use the JSON handler")
	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))
}

func TestColorHandler_WithAttrsSharesLock(t *testing.T) {
	base := setupLogger(config.LoggingConfig{}).Handler().(*colorHandler)
	derived := base.WithAttrs([]slog.Attr{slog.String("component", "web")}).(*colorHandler)

	assert.Same(t, base.mu, derived.mu)
	assert.Len(t, derived.attrs, 1)
	assert.Empty(t, base.attrs)
}
