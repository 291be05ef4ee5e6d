package configstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct{ reads []string }

func (o *countingObserver) RecordStoreRead(backend, result string) {
	o.reads = append(o.reads, backend+":"+result)
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	obs := &countingObserver{}
	s := Instrument(NewMemoryStore(map[string]string{"K": "v"}), BackendMemory, obs)

	_, ok, err := s.Get(ctx, "K")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, _ = s.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, s.Close())
	_, _, err = s.Get(ctx, "K")
	assert.Error(t, err)

	assert.Equal(t, []string{"memory:hit", "memory:miss", "memory:error"}, obs.reads)
}

func TestInstrument_NilObserver(t *testing.T) {
	inner := NewMemoryStore(nil)
	assert.Same(t, inner, Instrument(inner, BackendMemory, nil))
}
