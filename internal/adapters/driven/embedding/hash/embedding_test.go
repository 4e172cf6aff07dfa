package hash

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_Deterministic(t *testing.T) {
	s := New()

	a, err := s.Embed(context.Background(), "the quick brown fox")
	require.NoError(t, err)
	b, err := s.Embed(context.Background(), "the quick brown fox")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)
}

func TestEmbed_UnitLength(t *testing.T) {
	s := New()

	vec, err := s.Embed(context.Background(), "contracts define obligations between parties")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestEmbed_CaseAndPunctuationInsensitive(t *testing.T) {
	s := New()

	a, err := s.Embed(context.Background(), "Hello, World!")
	require.NoError(t, err)
	b, err := s.Embed(context.Background(), "hello world")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEmbed_EmptyTextIsZeroVector(t *testing.T) {
	s := New()

	vec, err := s.Embed(context.Background(), "   ")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbed_DifferentTextsDiffer(t *testing.T) {
	s := New()

	a, err := s.Embed(context.Background(), "insurance policy coverage")
	require.NoError(t, err)
	b, err := s.Embed(context.Background(), "quantum entanglement physics")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestEmbedBatch_MatchesSingle(t *testing.T) {
	s := New()
	texts := []string{"first chunk", "second chunk"}

	batch, err := s.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	for i, text := range texts {
		single, err := s.Embed(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestMetadata(t *testing.T) {
	s := New()

	assert.Equal(t, DefaultDimensions, s.Dimensions())
	assert.True(t, s.Normalized())
	assert.Equal(t, "hash-fnv1a-384", s.ModelName())
}
