package workerpresentation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability/logctx"
)

func TestWithEventContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zaplogger.New(zap.New(core))

	ctx := WithEventContext(context.Background(), base, map[string]string{
		"event_id": "evt-1",
		"event":    "cart.item_added",
		"item":     "Pepper",
		"empty":    "",
	})
	logctx.From(ctx).Info("cart_item_added")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "evt-1", fields["event_id"])
	assert.Equal(t, "cart.item_added", fields["event"])
	assert.Equal(t, "Pepper", fields["item"])
	assert.NotContains(t, fields, "empty")
	assert.NotContains(t, fields, "trace_id")
}

func TestWithEventContext_GeneratesEventID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	ctx := WithEventContext(context.Background(), zaplogger.New(zap.New(core)), nil)
	logctx.From(ctx).Info("x")

	assert.NotEmpty(t, logs.All()[0].ContextMap()["event_id"])
}
