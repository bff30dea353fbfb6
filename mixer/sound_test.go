// SPDX-License-Identifier: EPL-2.0

package mixer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/mixer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSound_StopsAtEnd(t *testing.T) {
	t.Parallel()

	d, b := newDevice(t, mixer.Config{SampleRate: 44100, Channels: 2})
	s := constSound(t, d, 44100, 0.25)
	require.NoError(t, s.Play())

	b.Pull(44099)
	assert.True(t, s.IsPlaying())
	assert.Equal(t, uint64(44099), s.Cursor())

	assert.Equal(t, []float32{0.25, 0.25}, b.Pull(1))
	assert.Equal(t, mixer.Stopped, s.State())
	assert.Zero(t, d.ActiveVoices())
	assert.Zero(t, s.Cursor())

	assert.Equal(t, []float32{0, 0}, b.Pull(1))

	require.NoError(t, s.Play(), "replay after the end")
	assert.Equal(t, []float32{0.25, 0.25}, b.Pull(1))
}

func TestSound_Pan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pan  float32
		want []float32
	}{
		{0, []float32{0.5, 0}},
		{0.5, []float32{0.5, 0.5}},
		{1, []float32{0, 0.5}},
		{-3, []float32{0.5, 0}},
	}

	for _, tt := range tests {
		d, b := newDevice(t, mixer.Config{Channels: 2})
		s := constSound(t, d, 10, 0.5)
		s.SetPan(tt.pan)
		require.NoError(t, s.Play())
		assert.Equal(t, tt.want, b.Pull(1), "pan %v", tt.pan)
	}
}

func TestSound_VolumeAndPitch(t *testing.T) {
	t.Parallel()

	d, b := newDevice(t, mixer.Config{Channels: 1})
	s := constSound(t, d, 100, 0.5)

	s.SetVolume(0.5)
	assert.Equal(t, float32(0.5), s.Volume())
	s.SetVolume(7)
	assert.Equal(t, float32(1), s.Volume())

	s.SetPitch(0)
	s.SetPitch(-1)
	assert.Equal(t, float32(1), s.Pitch())
	s.SetPitch(2)
	assert.Equal(t, float32(2), s.Pitch())

	require.NoError(t, s.Play())
	b.Pull(10)
	assert.Equal(t, uint64(19), s.Cursor(), "double speed reads two frames per output frame")
}

func TestSound_PauseResume(t *testing.T) {
	t.Parallel()

	d, b := newDevice(t, mixer.Config{Channels: 1})
	s := constSound(t, d, 100, 0.5)
	require.NoError(t, s.Play())
	b.Pull(10)

	s.Pause()
	assert.Equal(t, mixer.Paused, s.State())
	assert.Equal(t, 1, d.ActiveVoices())
	assert.Equal(t, []float32{0, 0}, b.Pull(2))
	assert.Equal(t, uint64(10), s.Cursor())

	s.Resume()
	assert.True(t, s.IsPlaying())
	assert.Equal(t, []float32{0.5, 0.5}, b.Pull(2))
	assert.Equal(t, uint64(12), s.Cursor())

	s.Stop()
	assert.Equal(t, mixer.Stopped, s.State())
	assert.Zero(t, s.Cursor())
	s.Resume()
	assert.Equal(t, mixer.Stopped, s.State(), "resume only continues a paused voice")
}

func TestSound_AliasSharesBuffer(t *testing.T) {
	t.Parallel()

	d, b := newDevice(t, mixer.Config{Channels: 1})
	s := constSound(t, d, 1000, 0.25)
	alias, err := d.LoadSoundAlias(s)
	require.NoError(t, err)
	assert.Equal(t, s.FrameCount(), alias.FrameCount())

	require.NoError(t, s.Play())
	require.NoError(t, alias.Play())
	assert.Equal(t, []float32{0.5}, b.Pull(1))

	s.Stop()
	assert.True(t, alias.IsPlaying())
	assert.Equal(t, []float32{0.25}, b.Pull(1))

	assert.ErrorIs(t, alias.Update([]float32{0}), mixer.ErrAliased)

	s.Unload()
	assert.False(t, s.IsValid())
	assert.ErrorIs(t, s.Play(), mixer.ErrUnloaded)
	_, err = d.LoadSoundAlias(s)
	assert.ErrorIs(t, err, mixer.ErrUnloaded)

	assert.True(t, alias.IsPlaying())
	assert.Equal(t, []float32{0.25}, b.Pull(1))

	alias.Unload()
	assert.Zero(t, d.ActiveVoices())
	alias.Unload()
}

func TestSound_Update(t *testing.T) {
	t.Parallel()

	d, b := newDevice(t, mixer.Config{Channels: 1})
	s := constSound(t, d, 4, 0.25)
	require.NoError(t, s.Play())

	require.NoError(t, s.Update([]float32{0.5, -0.5}))
	assert.Equal(t, mixer.Stopped, s.State())

	require.NoError(t, s.Play())
	assert.Equal(t, []float32{0.5, -0.5, 0.25, 0.25}, b.Pull(4))

	assert.ErrorIs(t, s.Update(make([]float32, 5)), mixer.ErrInvalidChunk)
}

func TestSound_VoiceProcessor(t *testing.T) {
	t.Parallel()

	d, b := newDevice(t, mixer.Config{Channels: 1})
	s := constSound(t, d, 100, 0.5)
	other := constSound(t, d, 100, 0.25)

	id := s.AttachProcessor(mixer.ProcessorFunc(func(samples []float32, frames int) {
		for i := range samples {
			samples[i] = -samples[i]
		}
	}))
	require.NoError(t, s.Play())
	require.NoError(t, other.Play())
	assert.Equal(t, []float32{-0.25}, b.Pull(1))

	s.DetachProcessor(id)
	assert.Equal(t, []float32{0.75}, b.Pull(1))
}

func TestLoadSound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	require.NoError(t, os.WriteFile(path, audiotest.WAVBytes(8000, 1, 16, audiotest.Tone16(100, 1, 16384)), 0o600))

	d, b := newDevice(t, mixer.Config{SampleRate: 8000, Channels: 2})
	s, err := d.LoadSound(path)
	require.NoError(t, err)
	assert.Equal(t, 100, s.FrameCount())

	require.NoError(t, s.Play())
	assert.Equal(t, []float32{0.5, 0.5}, b.Pull(1))
}

func TestLoadSound_Resampled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	require.NoError(t, os.WriteFile(path, audiotest.WAVBytes(4000, 1, 16, audiotest.Tone16(100, 1, 16384)), 0o600))

	d, _ := newDevice(t, mixer.Config{SampleRate: 8000, Channels: 1})
	s, err := d.LoadSound(path)
	require.NoError(t, err)
	assert.Equal(t, 200, s.FrameCount())
}

func TestLoadSound_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	unknown := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unknown, []byte("hello"), 0o600))

	d, _ := newDevice(t, mixer.Config{})

	_, err := d.LoadSound(unknown)
	assert.ErrorIs(t, err, mixer.ErrUnsupportedFileType)

	_, err = d.LoadSound(filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
