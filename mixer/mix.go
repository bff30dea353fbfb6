// SPDX-License-Identifier: EPL-2.0

package mixer

import "github.com/ik5/audmix/utils"

// Render mixes the active voices into out, which holds interleaved frames
// in the device format. Requests longer than the period are mixed one
// period at a time. A device that is not ready renders silence.
func (d *Device) Render(out []float32) {
	clear(out)
	if !d.ready.Load() {
		return
	}

	ch := d.format.Channels
	period := d.cfg.PeriodFrames

	d.epoch.Add(1)
	for off := 0; off+ch <= len(out); off += period * ch {
		frames := min(period, (len(out)-off)/ch)
		d.mixPeriod(out[off:off+frames*ch], frames)
	}
	d.epoch.Add(1)
}

func (d *Device) mixPeriod(out []float32, frames int) {
	for _, v := range *d.voices.Load() {
		if !v.registered.Load() || State(v.state.Load()) != Playing {
			continue
		}
		d.mixVoice(v, out, frames)
	}

	if master := d.master.Load(); master != 1 {
		for i := range out {
			out[i] *= master
		}
	}

	d.bus.run(out, frames)

	for i, x := range out {
		out[i] = utils.Clamp(x)
	}
}

func (d *Device) mixVoice(v *voice, out []float32, frames int) {
	ch := d.format.Channels
	buf := d.scratch[:frames*ch]

	step := float64(v.srcRate) * float64(v.pitch.Load()) / float64(d.format.SampleRate)
	n := v.pull(buf, frames, ch, step)
	clear(buf[n*ch:])

	if n > 0 {
		v.procs.run(buf[:n*ch], n)
	}

	vol := v.volume.Load()
	left, right := vol, vol
	if ch >= 2 {
		left, right = gains(vol, v.pan.Load())
	}

	for f := range n {
		frame := buf[f*ch : f*ch+ch]
		dst := out[f*ch : f*ch+ch]
		for c, x := range frame {
			switch c {
			case 0:
				dst[c] += x * left
			case 1:
				dst[c] += x * right
			default:
				dst[c] += x * vol
			}
		}
	}

	if v.finished() {
		v.autoStop()
		return
	}
	if n < frames && v.kind == Streamed {
		if s, ok := v.src.(*streamSource); ok && s.cb.Load() == nil {
			s.ring.underrun()
		}
	}
}

// gains applies the linear pan law: both channels are at full volume in the
// center and one side fades to zero as pan moves to the other.
func gains(volume, pan float32) (left, right float32) {
	return volume * min(1, 2*(1-pan)), volume * min(1, 2*pan)
}
