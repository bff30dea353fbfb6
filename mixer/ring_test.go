// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pcm16 encodes one 16-bit sample per value.
func pcm16(values ...int16) []byte {
	out := make([]byte, 0, 2*len(values))
	for _, v := range values {
		out = append(out, byte(v), byte(uint16(v)>>8))
	}
	return out
}

func TestRing_KeepsOneSlotFree(t *testing.T) {
	t.Parallel()

	r := newRing(4, 2, 16, 1)

	for i := range 3 {
		require.True(t, r.available(), "slot %d", i)
		require.NoError(t, r.push(pcm16(1, 2), false), "slot %d", i)
	}

	assert.False(t, r.available())
	assert.ErrorIs(t, r.push(pcm16(1, 2), false), ErrRingFull)

	dst := make([]float32, 1)
	require.True(t, r.readFrame(dst))
	assert.False(t, r.available(), "slot still in use")

	require.True(t, r.readFrame(dst))
	assert.True(t, r.available(), "slot released after its last frame")
	assert.NoError(t, r.push(pcm16(3, 4), false))
}

func TestRing_InvalidChunks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		eof  bool
	}{
		{"partial frame", []byte{1, 2, 3}, false},
		{"larger than a slot", pcm16(1, 2, 3), false},
		{"empty without end marker", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newRing(4, 2, 16, 1)
			assert.ErrorIs(t, r.push(tt.data, tt.eof), ErrInvalidChunk)
			assert.Zero(t, r.pending.Load())
		})
	}
}

func TestRing_ReadDecodesFrames(t *testing.T) {
	t.Parallel()

	r := newRing(3, 4, 16, 2)
	require.NoError(t, r.push(pcm16(16384, -16384, 8192, -8192), false))

	dst := make([]float32, 2)
	require.True(t, r.readFrame(dst))
	assert.Equal(t, []float32{0.5, -0.5}, dst)
	require.True(t, r.readFrame(dst))
	assert.Equal(t, []float32{0.25, -0.25}, dst)

	assert.False(t, r.readFrame(dst), "underrun")
	assert.False(t, r.exhausted())
}

func TestRing_EndMarker(t *testing.T) {
	t.Parallel()

	r := newRing(4, 2, 16, 1)
	require.NoError(t, r.push(pcm16(100), false))
	require.NoError(t, r.push(nil, true))

	dst := make([]float32, 1)
	assert.True(t, r.readFrame(dst))
	assert.False(t, r.exhausted())

	assert.False(t, r.readFrame(dst))
	assert.True(t, r.exhausted())
	assert.Zero(t, r.pending.Load())

	r.rewind()
	assert.False(t, r.exhausted())
}

func TestRing_StarvedClearedByPush(t *testing.T) {
	t.Parallel()

	r := newRing(2, 2, 8, 1)
	r.underrun()
	r.underrun()
	assert.True(t, r.starved.Load())
	assert.Equal(t, uint64(2), r.underruns.Load())

	require.NoError(t, r.push([]byte{128}, false))
	assert.False(t, r.starved.Load())
	assert.Equal(t, uint64(2), r.underruns.Load())
}

func TestRing_DrainAndReset(t *testing.T) {
	t.Parallel()

	r := newRing(4, 2, 16, 1)
	require.NoError(t, r.push(pcm16(1), false))
	require.NoError(t, r.push(pcm16(2), true))

	r.drain()
	assert.Zero(t, r.pending.Load())
	assert.True(t, r.exhausted())
	assert.True(t, r.available())

	require.NoError(t, r.push(pcm16(3), false))
	r.reset()
	assert.Zero(t, r.pending.Load())
	assert.False(t, r.exhausted())
	assert.False(t, r.readFrame(make([]float32, 1)))
}
