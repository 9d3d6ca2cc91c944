package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbedDeterministic(t *testing.T) {
	e := NewHashEmbedder(0)

	a, err := e.Embed(context.Background(), "quarterly roadmap planning")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "quarterly roadmap planning")
	require.NoError(t, err)

	require.Len(t, a, DefaultDimensions)
	require.Equal(t, a, b)
}

func TestEmbedNormalized(t *testing.T) {
	e := NewHashEmbedder(128)

	v, err := e.Embed(context.Background(), "the budget was approved by finance")
	require.NoError(t, err)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	require.InDelta(t, 1.0, sum, 1e-5)
}

func TestEmbedEmptyTextIsZeroVector(t *testing.T) {
	e := NewHashEmbedder(64)

	v, err := e.Embed(context.Background(), "")
	require.NoError(t, err)

	for _, x := range v {
		require.Zero(t, x)
	}
}

func TestSimilarTextsScoreHigherThanUnrelated(t *testing.T) {
	e := NewHashEmbedder(0)
	ctx := context.Background()

	query, _ := e.Embed(ctx, "database migration deadline")
	close_, _ := e.Embed(ctx, "the database migration deadline moved to friday")
	far, _ := e.Embed(ctx, "office plants need watering more often")

	require.Greater(t, dot(query, close_), dot(query, far))
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	if math.IsNaN(s) {
		return 0
	}
	return s
}
