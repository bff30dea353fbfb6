// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockAiffReader simulates aiff.Decoder for testing
type mockAiffReader struct {
	sampleRate int
	channels   int
	samples    []int
	offset     int
	failWith   error
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	if m.offset >= len(m.samples) {
		return 0, nil
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func newSource(bitDepth int, samples ...int) *source {
	return &source{
		dec:        &mockAiffReader{sampleRate: 44100, channels: 1, samples: samples},
		sampleRate: 44100,
		channels:   1,
		bitDepth:   bitDepth,
		frames:     int64(len(samples)),
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("This is not AIFF data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotAiffFile) {
				t.Errorf("Decode() error = %v, want ErrNotAiffFile", err)
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(24, 1, 2, 3)

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", src.Channels())
	}
	if src.BitDepth() != 24 {
		t.Errorf("BitDepth() = %d, want 24", src.BitDepth())
	}
	if src.FrameCount() != 3 {
		t.Errorf("FrameCount() = %d, want 3", src.FrameCount())
	}
	if src.BufSize() != 4096 {
		t.Errorf("BufSize() before first read = %d, want 4096", src.BufSize())
	}
}

func TestSource_BitDepthNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		input    int
		want     float32
	}{
		{"8-bit half", 8, 64, 0.5},
		{"8-bit negative as signed", 8, -64, -0.5},
		{"8-bit negative as byte", 8, 192, -0.5},
		{"16-bit half", 16, 16384, 0.5},
		{"16-bit min", 16, -32768, -1},
		{"24-bit half", 24, 4194304, 0.5},
		{"32-bit quarter", 32, 536870912, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := make([]float32, 1)
			n, err := newSource(tt.bitDepth, tt.input).ReadSamples(buf)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != 1 {
				t.Fatalf("ReadSamples() n = %d, want 1", n)
			}
			if buf[0] != tt.want {
				t.Errorf("sample = %v, want %v", buf[0], tt.want)
			}
		})
	}
}

func TestSource_ReadSamples_ShortReadIsEOF(t *testing.T) {
	t.Parallel()

	src := newSource(16, 100, 200)

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	if n != 2 || err != io.EOF {
		t.Errorf("ReadSamples() = (%d, %v), want (2, io.EOF)", n, err)
	}

	n, err = src.ReadSamples(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after end = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	n, err := newSource(16, 1).ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := newSource(16)
	src.dec.(*mockAiffReader).failWith = io.ErrUnexpectedEOF

	_, err := src.ReadSamples(make([]float32, 4))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}
