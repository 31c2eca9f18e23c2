package geometry

import (
	"math"
	"testing"

	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyLogical, p)

	p, err = ParsePolicy(" Physical ")
	require.NoError(t, err)
	assert.Equal(t, PolicyPhysical, p)

	_, err = ParsePolicy("device")
	require.Error(t, err)
}

func TestTransform_LogicalPassesThrough(t *testing.T) {
	tr := NewTransformer(PolicyLogical)
	in := entity.NewRect(10, 48, 1280, 720)

	for _, scale := range []float64{1, 1.25, 2} {
		out, err := tr.Transform(in, scale)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestTransform_LogicalIsIdempotent(t *testing.T) {
	tr := NewTransformer(PolicyLogical)
	in := entity.NewRect(3, 4, 500, 400)

	once, err := tr.Transform(in, 2)
	require.NoError(t, err)
	twice, err := tr.Transform(once, 2)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestTransform_PhysicalDividesByScale(t *testing.T) {
	tr := NewTransformer(PolicyPhysical)

	out, err := tr.Transform(entity.NewRect(100, 200, 1600, 1200), 2)
	require.NoError(t, err)
	assert.Equal(t, entity.NewRect(50, 100, 800, 600), out)
}

func TestTransform_PhysicalRoundTrip(t *testing.T) {
	tr := NewTransformer(PolicyPhysical)
	rects := []entity.Rect{
		entity.NewRect(0, 0, 800, 600),
		entity.NewRect(13, 47, 1019, 733),
		entity.NewRect(0.5, 1.75, 333.3, 0),
	}
	scales := []float64{1, 1.25, 1.5, 1.75, 2, 3}

	for _, r := range rects {
		for _, s := range scales {
			logical, err := tr.Transform(r, s)
			require.NoError(t, err)
			back, err := tr.Inverse(logical, s)
			require.NoError(t, err)
			assert.Truef(t, back.ApproxEqual(r, 1e-9), "scale %v: %v != %v", s, back, r)
		}
	}
}

func TestTransform_RejectsBadScale(t *testing.T) {
	for _, policy := range []Policy{PolicyLogical, PolicyPhysical} {
		tr := NewTransformer(policy)
		for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
			_, err := tr.Transform(entity.NewRect(0, 0, 10, 10), s)
			require.ErrorIs(t, err, entity.ErrScaleFactorUnavailable)
		}
	}
}

func TestTransform_RejectsBadRect(t *testing.T) {
	tr := NewTransformer(PolicyPhysical)
	_, err := tr.Transform(entity.NewRect(0, 0, -5, 10), 1)
	require.Error(t, err)
}

func TestNewTransformer_DefaultsToLogical(t *testing.T) {
	assert.Equal(t, PolicyLogical, NewTransformer("").Policy())
}
