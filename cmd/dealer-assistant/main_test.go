package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-assistant/internal/common/logger"
)

type echoResponder struct {
	calls []string
}

func (e *echoResponder) Respond(_ context.Context, text string) string {
	e.calls = append(e.calls, text)
	return "reply to " + text
}

func TestChatLoop_ExitCaseInsensitive(t *testing.T) {
	r := &echoResponder{}
	var out bytes.Buffer

	err := chatLoop(context.Background(), r, strings.NewReader("how many leads today\n\nEXIT\nnever read\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"how many leads today"}, r.calls)
	assert.Contains(t, out.String(), "Bot: reply to how many leads today\n")
	assert.NotContains(t, out.String(), "never read")
}

func TestChatLoop_EndOfInput(t *testing.T) {
	r := &echoResponder{}
	var out bytes.Buffer

	err := chatLoop(context.Background(), r, strings.NewReader("list leads"), &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"list leads"}, r.calls)
}

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewNoOpLogger()

	t.Run("succeeds after failures", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("not yet")
			}
			return nil
		}, 5, time.Millisecond, log, "op")
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), func() error {
			attempts++
			return errors.New("down")
		}, 3, time.Millisecond, log, "op")
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
		assert.Contains(t, err.Error(), "op failed after 3 attempts")
	})

	t.Run("stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		attempts := 0
		err := retryWithBackoff(ctx, func() error {
			attempts++
			return errors.New("down")
		}, 5, time.Hour, log, "op")
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
		assert.Contains(t, err.Error(), "cancelled")
	})
}
