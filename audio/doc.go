// SPDX-License-Identifier: EPL-2.0

// Package audio provides low-level audio processing primitives.
//
// This package contains the building blocks shared by the decoders and the
// mixer:
//   - Source interface for decoded audio
//   - Registry for choosing a decoder by file-type hint
//   - Resampler for sample rate conversion (cubic or linear)
//   - ChannelMixer and MapChannels for channel count conversion
//   - SliceSource for serving samples already in memory
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Sources may also implement BitDepther and FrameCounter when the encoded
// stream carries that metadata.
//
// # Resampling
//
//	resampler := audio.NewResampler(source, 16000, audio.WithInterpolation(audio.Linear))
//	buf := make([]float32, 4096)
//	n, err := resampler.ReadSamples(buf)
//
// At equal rates the Resampler reproduces its input exactly. Downsampling
// applies a one-pole low-pass filter unless WithAntiAliasing(false) is given.
//
// # Channel Mixing
//
//	stereo := audio.NewChannelMixer(source, 2)
//	mono := audio.NewMonoMixer(source)
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Decode(".WAV", reader)
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0].
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // Process n samples from buf
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
