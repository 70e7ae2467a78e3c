package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type kind int

func (kind) String() string { return "expired_session" }

func TestFrom_ContextAndFallback(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	From(context.Background()).Info("fallback")

	scoped := L().With(RequestID("r-1"))
	ctx := ToContext(context.Background(), scoped)
	From(ctx).Debug("rejected", RejectKind(kind(0)), Identity("a@x.com"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "fallback", entries[0].Message)
	fields := entries[1].ContextMap()
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "expired_session", fields["reject_kind"])
	assert.Equal(t, "a@x.com", fields["identity"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel(" DEBUG "))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestBuild_Prod(t *testing.T) {
	l := build(Config{Env: "prod", Level: "warn", ServiceName: "ezdine"})
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}
