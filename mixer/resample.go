// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// resampler interpolates linearly between the current and next source
// frame. frac is the position of the next output frame past cur. When frac
// is zero only cur is needed, so unit steps reproduce the source exactly.
type resampler struct {
	cur  []float32
	nxt  []float32
	tmp  []float32
	have int
	frac float64
}

func newResampler(channels int) resampler {
	return resampler{
		cur: make([]float32, channels),
		nxt: make([]float32, channels),
		tmp: make([]float32, channels),
	}
}

func (r *resampler) reset() {
	r.have = 0
	r.frac = 0
}

// pending is the number of loaded frames still ahead of the read position.
func (r *resampler) pending() int {
	return r.have - int(r.frac)
}

// pull writes up to frames output frames with devCh channels into dst,
// advancing step source frames per output frame. It returns early when the
// source has no frame ready; the resampler state is kept so the next call
// resumes at the same position.
func (v *voice) pull(dst []float32, frames, devCh int, step float64) int {
	r := &v.rs
	ch := v.srcChannels

	for i := range frames {
		for r.frac >= 1 {
			switch r.have {
			case 2:
				r.cur, r.nxt = r.nxt, r.cur
				r.have = 1
			case 1:
				r.have = 0
			default:
				if !v.next(r.cur) {
					return i
				}
			}
			r.frac--
		}

		if r.have == 0 {
			if !v.next(r.cur) {
				return i
			}
			r.have = 1
		}

		out := r.cur
		if r.frac > 0 {
			if r.have == 1 {
				if v.next(r.nxt) {
					r.have = 2
				} else if !v.src.exhausted() {
					return i
				}
			}
			// at the end of the source cur is held
			if r.have == 2 {
				x := float32(r.frac)
				for c := range ch {
					r.tmp[c] = utils.LinearInterpolate(r.cur[c], r.nxt[c], x)
				}
				out = r.tmp
			}
		}

		audio.MapChannels(dst[i*devCh:], out, ch, devCh)
		r.frac += step
	}
	return frames
}
