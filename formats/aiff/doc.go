// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff.
//
//	decoder := aiff.Decoder{}
//	file, _ := os.Open("audio.aif")
//	source, err := decoder.Decode(file)
//
// Signed integer PCM at 8, 16, 24 and 32 bits is supported, with any channel
// count and sample rate. Samples are normalized to float32 in [-1.0, 1.0].
//
// go-audio needs an io.ReadSeeker. Other readers are buffered in memory
// first.
package aiff
