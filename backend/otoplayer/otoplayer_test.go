// SPDX-License-Identifier: EPL-2.0

package otoplayer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type rampRenderer struct {
	calls int
	lost  error
}

func (r *rampRenderer) Render(out []float32) {
	r.calls++
	for i := range out {
		out[i] = float32(i) / 10
	}
}

func (r *rampRenderer) DeviceLost(err error) { r.lost = err }

func TestRead_EncodesFloat32LE(t *testing.T) {
	t.Parallel()

	r := &rampRenderer{}
	b := New()
	b.renderer = r
	b.samples = make([]float32, 2)

	p := make([]byte, 16)
	n, err := b.Read(p)
	assert.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, 1, r.calls)

	for i := range 4 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
		assert.Equal(t, float32(i)/10, got, "sample %d", i)
	}
	assert.Zero(t, b.inflight.Load())
}

func TestRead_ClosedIsSilent(t *testing.T) {
	t.Parallel()

	r := &rampRenderer{}
	b := New()
	b.renderer = r
	b.closed.Store(true)

	p := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	n, err := b.Read(p)
	assert.NoError(t, err)
	assert.Equal(t, len(p), n)
	assert.Equal(t, make([]byte, 8), p)
	assert.Zero(t, r.calls)
}

func TestClose_NotOpen(t *testing.T) {
	t.Parallel()

	assert.NoError(t, New().Close())
}
