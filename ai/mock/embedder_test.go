package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	v1, err := m.EmbedText(ctx, "hello")
	require.NoError(t, err)
	v2, err := m.EmbedText(ctx, "hello")
	require.NoError(t, err)
	v3, err := m.EmbedText(ctx, "world")
	require.NoError(t, err)

	assert.Len(t, v1, 384)
	assert.Equal(t, v1, v2)
	assert.NotEqual(t, v1, v3)
	assert.Equal(t, 3, m.CallCount())
}

func TestMockEmbedder_EmbedTexts(t *testing.T) {
	m := &MockEmbedder{Dimensions: 8}

	vectors, err := m.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Len(t, vectors[0], 8)
	assert.Equal(t, 1, m.CallCount())
	assert.Equal(t, 3, m.TextCount())
}

func TestMockEmbedder_InjectedFuncAndReset(t *testing.T) {
	m := NewMockEmbedder()
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("boom")
	}

	_, err := m.EmbedTexts(context.Background(), []string{"x"})
	require.EqualError(t, err, "boom")

	m.Reset()
	assert.Equal(t, 0, m.CallCount())

	_, err = m.EmbedTexts(context.Background(), []string{"x"})
	require.NoError(t, err)
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	require.NotNil(t, p.Embedder())

	mp := p.(*MockProvider)
	assert.Same(t, mp.GetMockEmbedder(), p.Embedder())
	require.NoError(t, p.Close())
	assert.True(t, mp.Closed())
}
