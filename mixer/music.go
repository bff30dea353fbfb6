// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
	"github.com/sirupsen/logrus"
)

const musicSampleSize = 32

// opener returns a fresh decoder positioned at the start of the track.
type opener func() (audio.Source, error)

// fileSource closes the file under a decoder.
type fileSource struct {
	audio.Source
	f *os.File
}

// FrameCount forwards to the decoder when it knows its length.
func (s fileSource) FrameCount() int64 {
	if fc, ok := s.Source.(audio.FrameCounter); ok {
		return fc.FrameCount()
	}
	return -1
}

func (s fileSource) BitDepth() int {
	if bd, ok := s.Source.(audio.BitDepther); ok {
		return bd.BitDepth()
	}
	return 16
}

func (s fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Music is a streamed voice fed from a decoder. Call Update regularly while
// it plays to keep the ring filled. Music loops by default.
type Music struct {
	*voice
	stream *streamSource

	open       opener
	dec        audio.Source
	frameCount int64
	ended      bool

	fbuf []float32
	bbuf []byte
}

// LoadMusic opens a track for streaming from path.
func (d *Device) LoadMusic(path string) (*Music, error) {
	fileType := filepath.Ext(path)
	return d.loadMusic(func() (audio.Source, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening music: %w", err)
		}
		src, err := d.cfg.Registry.Decode(fileType, f)
		if err != nil {
			f.Close()
			return nil, loadError(err)
		}
		return fileSource{Source: src, f: f}, nil
	})
}

// LoadMusicFromMemory streams a track held in data. fileType is an extension
// such as ".ogg".
func (d *Device) LoadMusicFromMemory(fileType string, data []byte) (*Music, error) {
	return d.loadMusic(func() (audio.Source, error) {
		src, err := d.cfg.Registry.Decode(fileType, bytes.NewReader(data))
		if err != nil {
			return nil, loadError(err)
		}
		return src, nil
	})
}

func (d *Device) loadMusic(open opener) (*Music, error) {
	dec, err := open()
	if err != nil {
		return nil, err
	}

	rate, channels := dec.SampleRate(), dec.Channels()
	if rate <= 0 || channels < 1 || channels > MaxChannels {
		dec.Close()
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrInvalidFormat, rate, channels)
	}

	var frameCount int64
	if fc, ok := dec.(audio.FrameCounter); ok && fc.FrameCount() > 0 {
		frameCount = fc.FrameCount()
	}

	capFrames := int(d.streamFrames.Load())
	r := newRing(d.cfg.RingSlots, capFrames, musicSampleSize, channels)
	stream := newStreamSource(r, d.cfg.PeriodFrames)

	m := &Music{
		voice:      d.newVoice(Streamed, stream, rate, channels),
		stream:     stream,
		open:       open,
		dec:        dec,
		frameCount: frameCount,
		fbuf:       make([]float32, capFrames*channels),
		bbuf:       make([]byte, capFrames*channels*musicSampleSize/8),
	}
	m.looping.Store(true)

	m.log.WithFields(logrus.Fields{
		"sample_rate": rate,
		"channels":    channels,
		"frames":      frameCount,
	}).Debug("music loaded")
	return m, nil
}

// SetLooping controls whether the track restarts when it ends.
func (m *Music) SetLooping(loop bool) { m.looping.Store(loop) }
func (m *Music) Looping() bool        { return m.looping.Load() }

// TimeLength returns the track length in seconds, or 0 when unknown.
func (m *Music) TimeLength() float64 {
	return float64(m.frameCount) / float64(m.srcRate)
}

// TimePlayed returns the playback position in seconds, derived from the
// frame cursor so it stays still while paused.
func (m *Music) TimePlayed() float64 {
	return float64(m.Cursor()) / float64(m.srcRate)
}

// Play starts the track from the beginning.
func (m *Music) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.restart(func() error {
		m.stream.reset()
		if err := m.reopen(); err != nil {
			return err
		}
		m.fill()
		return nil
	})
}

// Starved reports whether the device ran out of decoded chunks since the
// last Update that queued one.
func (m *Music) Starved() bool { return m.stream.ring.starved.Load() }

// Underruns returns how many mix cycles found the ring empty.
func (m *Music) Underruns() uint64 { return m.stream.ring.underruns.Load() }

// Update refills free ring slots from the decoder.
func (m *Music) Update() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unloaded.Load() {
		return ErrUnloaded
	}
	if m.stream.ring.starved.Load() && m.IsPlaying() {
		m.log.WithField("underruns", m.stream.ring.underruns.Load()).Warn("music stream starved")
	}
	m.fill()
	return nil
}

// Seek moves playback to seconds from the start. Seeking a stopped track is
// a no-op since Play always starts from the beginning.
func (m *Music) Seek(seconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unloaded.Load() {
		return ErrUnloaded
	}

	d := m.dev
	d.mu.Lock()
	defer d.mu.Unlock()

	state := m.State()
	if state == Stopped {
		return nil
	}

	target := max(int64(seconds*float64(m.srcRate)), 0)
	if m.frameCount > 0 {
		target = min(target, m.frameCount)
	}

	d.deregister(m.voice)
	d.quiesce()
	m.rewind()

	err := m.reopen()
	if err == nil {
		err = m.skip(target)
	}
	if err != nil {
		m.state.Store(int32(Stopped))
		return fmt.Errorf("seeking music: %w", err)
	}

	m.cursor.Store(uint64(target))
	m.fill()
	d.register(m.voice)
	m.log.WithFields(logrus.Fields{"frame": target, "state": state}).Debug("music seeked")
	return nil
}

// Unload stops the track and closes its decoder.
func (m *Music) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.unload() {
		return
	}
	if err := m.dec.Close(); err != nil {
		m.log.WithError(err).Warn("closing music decoder")
	}
}

func (m *Music) reopen() error {
	if err := m.dec.Close(); err != nil {
		m.log.WithError(err).Warn("closing music decoder")
	}
	dec, err := m.open()
	if err != nil {
		return err
	}
	m.dec = dec
	m.ended = false
	return nil
}

// skip discards frames from the decoder.
func (m *Music) skip(frames int64) error {
	ch := int64(m.srcChannels)
	for frames > 0 {
		want := min(frames*ch, int64(len(m.fbuf)))
		n, err := m.dec.ReadSamples(m.fbuf[:want])
		frames -= int64(n) / ch
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}

// readChunk reads up to one ring slot of samples and reports the end of the
// track.
func (m *Music) readChunk() (int, bool) {
	got := 0
	for got < len(m.fbuf) {
		n, err := m.dec.ReadSamples(m.fbuf[got:])
		got += n
		if errors.Is(err, io.EOF) {
			return got, true
		}
		if err != nil {
			m.log.WithError(err).Warn("decoding music")
			return got, true
		}
		if n == 0 {
			break
		}
	}
	return got, false
}

// fill pushes decoded chunks until the ring is full or the track has ended.
func (m *Music) fill() {
	r := m.stream.ring
	for !m.ended && r.available() {
		n, eof := m.readChunk()
		frames := n / m.srcChannels
		if frames == 0 && !eof {
			return
		}

		size := frames * r.frameBytes
		utils.EncodePCM(m.bbuf[:size], m.fbuf[:frames*m.srcChannels], musicSampleSize)
		if err := r.push(m.bbuf[:size], eof); err != nil {
			m.log.WithError(err).Warn("queueing music chunk")
			return
		}
		if !eof {
			continue
		}

		if !m.looping.Load() {
			m.ended = true
			return
		}
		if err := m.reopen(); err != nil {
			m.log.WithError(err).Warn("reopening music for loop")
			m.ended = true
			return
		}
	}
}
