package ctxkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	_, ok := RequestID(context.Background())
	assert.False(t, ok)

	ctx := WithRequestID(context.Background(), "req-1")
	id, ok := RequestID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-1", id)

	_, ok = RequestID(WithRequestID(context.Background(), ""))
	assert.False(t, ok)
}

func TestTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc")
	id, ok := TraceID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = RequestID(ctx)
	assert.False(t, ok, "keys must not collide")
}
