// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/wave"
)

// Sound is a one-shot voice over a buffer held in the device format.
type Sound struct {
	*voice
	buf *pcmBuffer
}

// LoadSound decodes the file at path into a new sound.
func (d *Device) LoadSound(path string) (*Sound, error) {
	w, err := wave.Load(path, d.cfg.Registry)
	if err != nil {
		return nil, loadError(err)
	}
	return d.LoadSoundFromWave(w)
}

// loadError maps decoder lookup failures to ErrUnsupportedFileType.
func loadError(err error) error {
	if errors.Is(err, audio.ErrUnknownFormat) {
		return fmt.Errorf("%w: %w", ErrUnsupportedFileType, err)
	}
	return err
}

// LoadSoundFromWave converts w to the device format into a new sound. w is
// not modified.
func (d *Device) LoadSoundFromWave(w *wave.Wave) (*Sound, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: invalid wave", ErrInvalidFormat)
	}

	conv := w
	if w.SampleRate() != d.format.SampleRate || w.Channels() != d.format.Channels {
		conv = w.Copy()
		if err := conv.Format(d.format.SampleRate, 32, d.format.Channels); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
	}

	buf := newPCMBuffer(conv.Samples(), d.format.Channels)
	s := d.newSound(buf)
	s.log.WithField("frames", buf.frames()).Debug("sound loaded")
	return s, nil
}

func (d *Device) newSound(buf *pcmBuffer) *Sound {
	src := &pcmSource{buf: buf}
	return &Sound{
		voice: d.newVoice(OneShot, src, d.format.SampleRate, d.format.Channels),
		buf:   buf,
	}
}

// LoadSoundAlias returns a new sound sharing src's buffer. Each alias plays,
// stops and unloads independently; the buffer is freed with the last one.
func (d *Device) LoadSoundAlias(src *Sound) (*Sound, error) {
	src.mu.Lock()
	defer src.mu.Unlock()

	if src.unloaded.Load() {
		return nil, ErrUnloaded
	}

	src.buf.acquire()
	alias := d.newSound(src.buf)
	alias.log.WithField("alias_of", src.id).Debug("sound alias loaded")
	return alias, nil
}

// FrameCount returns the sound length in device frames.
func (s *Sound) FrameCount() int {
	return s.buf.frames()
}

// Update replaces the start of the sound with samples in the device format.
// The sound is stopped first. Sounds shared with an alias are rejected.
func (s *Sound) Update(samples []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unloaded.Load() {
		return ErrUnloaded
	}
	if s.buf.refs.Load() > 1 {
		return ErrAliased
	}
	if len(samples)%s.buf.channels != 0 || len(samples) > len(s.buf.samples) {
		return fmt.Errorf("%w: %d samples for a %d frame sound", ErrInvalidChunk, len(samples), s.buf.frames())
	}

	s.stop()
	copy(s.buf.samples, samples)
	return nil
}

// Unload stops the sound and drops its reference to the shared buffer.
func (s *Sound) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unload() {
		return
	}
	if s.buf.release() {
		s.log.Debug("sound buffer released")
	}
}
