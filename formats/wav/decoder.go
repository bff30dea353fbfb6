// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audmix/audio"
)

// pcmReader is the part of gowav.Decoder the source needs, split out for testing
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type wavSource struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	frames     int64
	intBuf     *goaudio.IntBuffer
}

func (s *wavSource) SampleRate() int   { return s.sampleRate }
func (s *wavSource) Channels() int     { return s.channels }
func (s *wavSource) BitDepth() int     { return s.bitDepth }
func (s *wavSource) FrameCount() int64 { return s.frames }
func (s *wavSource) Close() error      { return nil }

func (s *wavSource) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.dec.Format(),
			SourceBitDepth: s.bitDepth,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	n = min(n, len(dst))
	if s.bitDepth == 8 {
		// 8-bit WAV is unsigned
		for i := range n {
			dst[i] = float32(s.intBuf.Data[i]-128) / 128.0
		}
	} else {
		scale := float32(int64(1) << (s.bitDepth - 1))
		for i := range n {
			dst[i] = float32(s.intBuf.Data[i]) / scale
		}
	}

	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != 1 {
		return nil, ErrOnlyPCMSupported
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	if dec.NumChans < 1 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	channels := int(dec.NumChans)
	frameBytes := int64(bitDepth / 8 * channels)

	return &wavSource{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		bitDepth:   bitDepth,
		frames:     dec.PCMLen() / frameBytes,
	}, nil
}
