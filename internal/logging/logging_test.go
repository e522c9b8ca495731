package logging

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewOperationErrorNil(t *testing.T) {
	require.NoError(t, NewOperationError("op", "req", nil))
}

func TestOperationErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := NewOperationError("assessment.decode", "req-1", fmt.Errorf("wrap: %w", base))

	require.ErrorIs(t, err, base)
	require.Equal(t, "assessment.decode (request_id=req-1): wrap: boom", err.Error())

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, "assessment.decode", opErr.Operation)

	require.Equal(t, "op: boom", NewOperationError("op", "", base).Error())
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger("loud")
	require.Error(t, err)

	logger, err := NewLogger("debug")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestWithOperationAddsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	WithOperation(zap.New(core), "bot.photo", "abc").Info("done")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "bot.photo", fields["operation"])
	require.Equal(t, "abc", fields["request_id"])
}
