// SPDX-License-Identifier: EPL-2.0

package wave

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats"
	"github.com/ik5/audmix/utils"
)

// Load decodes the file at path, choosing the decoder from its extension.
// A nil registry uses formats.Default.
func Load(path string, reg *audio.Registry) (*Wave, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wave: %w", err)
	}
	defer f.Close()

	return decodeFrom(reg, filepath.Ext(path), f)
}

// LoadFromMemory decodes data using the decoder registered for fileType,
// for example ".wav" or "ogg".
func LoadFromMemory(fileType string, data []byte, reg *audio.Registry) (*Wave, error) {
	return decodeFrom(reg, fileType, bytes.NewReader(data))
}

func decodeFrom(reg *audio.Registry, fileType string, r io.Reader) (*Wave, error) {
	if reg == nil {
		reg = formats.Default()
	}

	src, err := reg.Decode(fileType, r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer src.Close()

	return Decode(src)
}

// sampleSizeFor maps the bit depth reported by a decoder to a sample size a
// wave can store.
func sampleSizeFor(src audio.Source) int {
	bd, ok := src.(audio.BitDepther)
	if !ok {
		return 16
	}

	switch bits := bd.BitDepth(); {
	case bits <= 8:
		return 8
	case bits < 32:
		return 16
	default:
		return 32
	}
}

// Decode reads src to the end into a new wave.
func Decode(src audio.Source) (*Wave, error) {
	channels := src.Channels()
	if err := checkFormat(src.SampleRate(), 16, channels); err != nil {
		return nil, err
	}

	var samples []float32
	if fc, ok := src.(audio.FrameCounter); ok && fc.FrameCount() > 0 {
		samples = make([]float32, 0, int(fc.FrameCount())*channels)
	}

	chunk := max(src.BufSize(), 4096)
	chunk -= chunk % channels
	buf := make([]float32, chunk)

	for {
		n, err := src.ReadSamples(buf)
		samples = append(samples, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		// a source with nothing to give and no error has ended
		if n == 0 {
			break
		}
	}

	samples = samples[:len(samples)-len(samples)%channels]
	if len(samples) == 0 {
		return nil, ErrEmpty
	}

	size := sampleSizeFor(src)
	data := make([]byte, len(samples)*size/8)
	utils.EncodePCM(data, samples, size)

	return New(len(samples)/channels, src.SampleRate(), size, channels, data)
}
