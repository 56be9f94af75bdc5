package render_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/reportkit"
	"github.com/syssam/reportkit/render"
)

// TestMemStore tests the in-memory store contract.
func TestMemStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := render.NewMemStore()

	t.Run("MissThenHit", func(t *testing.T) {
		ok, err := s.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Fetch(ctx, "k")
		assert.ErrorIs(t, err, reportkit.ErrCacheMiss)

		require.NoError(t, s.Write(ctx, "k", "v", 0))
		ok, err = s.Exists(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)

		v, err := s.Fetch(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, s.Write(ctx, "k", "v2", 0))
		v, err := s.Fetch(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v2", v)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		require.NoError(t, s.Write(ctx, "short", "v", time.Nanosecond))
		time.Sleep(time.Millisecond)
		_, err := s.Fetch(ctx, "short")
		assert.ErrorIs(t, err, reportkit.ErrCacheMiss)
	})
}

// mapByteStore is a ByteStore over a plain map.
type mapByteStore struct {
	m   map[string][]byte
	err error
}

func (s *mapByteStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.m[key], nil
}

func (s *mapByteStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.m[key] = value
	return nil
}

// TestEnvelopeStore tests the msgpack envelope adapter.
func TestEnvelopeStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		inner := &mapByteStore{m: make(map[string][]byte)}
		s := render.NewEnvelopeStore(inner)

		_, err := s.Fetch(ctx, "k")
		assert.ErrorIs(t, err, reportkit.ErrCacheMiss)

		require.NoError(t, s.Write(ctx, "k", "<table/>", time.Minute))

		ok, err := s.Exists(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)

		v, err := s.Fetch(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "<table/>", v)

		env, err := s.Entry(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "<table/>", env.Content)
		assert.WithinDuration(t, time.Now(), env.CreatedAt, time.Minute)
	})

	t.Run("InnerFailure", func(t *testing.T) {
		boom := errors.New("connection refused")
		s := render.NewEnvelopeStore(&mapByteStore{err: boom})

		_, err := s.Fetch(ctx, "k")
		assert.True(t, reportkit.IsStoreError(err))
		assert.ErrorIs(t, err, boom)

		err = s.Write(ctx, "k", "v", 0)
		assert.True(t, reportkit.IsStoreError(err))
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		inner := &mapByteStore{m: map[string][]byte{"k": {0xc1}}} // reserved msgpack byte
		s := render.NewEnvelopeStore(inner)
		_, err := s.Fetch(ctx, "k")
		assert.True(t, reportkit.IsStoreError(err))
	})
}
