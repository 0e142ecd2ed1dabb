package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameStream(t *testing.T) {
	d, err := NewLogNormal(6.9, 0.6)
	require.NoError(t, err)

	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, d.Draw(a), d.Draw(b))
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	d, err := NewLogNormal(6.9, 0.6)
	require.NoError(t, err)

	a := New(1)
	b := New(2)
	same := true
	for i := 0; i < 10; i++ {
		if d.Draw(a) != d.Draw(b) {
			same = false
		}
	}
	assert.False(t, same)
}

func TestLogNormalRejectsNegativeSigma(t *testing.T) {
	_, err := NewLogNormal(0, -1)

	var sampErr *SamplingError
	require.ErrorAs(t, err, &sampErr)
}

func TestFlooredNeverBelowFloor(t *testing.T) {
	d, err := NewFloored(50, 20)
	require.NoError(t, err)

	src := New(7)
	for i := 0; i < 1000; i++ {
		assert.GreaterOrEqual(t, d.Draw(src, 30), 20.0)
	}
}

func TestClampedStaysInBounds(t *testing.T) {
	d, err := NewClamped(0.4, 0, 1)
	require.NoError(t, err)

	src := New(7)
	for i := 0; i < 1000; i++ {
		v := d.Draw(src, 0.5)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestClampedRejectsInvertedBounds(t *testing.T) {
	_, err := NewClamped(0.1, 1, 0)

	var sampErr *SamplingError
	require.ErrorAs(t, err, &sampErr)
}

func TestLogNormalAlwaysPositive(t *testing.T) {
	d, err := NewLogNormal(0, 2)
	require.NoError(t, err)

	src := New(99)
	for i := 0; i < 1000; i++ {
		assert.Greater(t, d.Draw(src), 0.0)
	}
}
