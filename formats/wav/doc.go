// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Both directions use github.com/go-audio/wav.
//
// # Supported Formats
//
//   - Integer PCM, 8, 16, 24 and 32 bits per sample
//   - Any channel count and sample rate
//
// IEEE float and compressed WAV files are rejected with ErrOnlyPCMSupported.
//
// # Decoding WAV Files
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("audio.wav")
//	source, err := decoder.Decode(file)
//
// The returned audio.Source also implements audio.BitDepther and
// audio.FrameCounter, so callers can size buffers before reading.
//
// # Writing WAV Files
//
//	file, _ := os.Create("output.wav")
//	err := wav.Encode(file, 44100, 16, 2, samples)
//
// Encode takes float samples in [-1, 1] and needs an io.WriteSeeker because
// the header sizes are patched once all data is written.
package wav
