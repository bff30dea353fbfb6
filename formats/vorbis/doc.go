// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis.
//
//	decoder := vorbis.Decoder{}
//	file, _ := os.Open("audio.ogg")
//	source, err := decoder.Decode(file)
//
// Samples come out interleaved as float32 in [-1.0, 1.0], with the channel
// count and sample rate of the file. ReadSamples always returns whole frames.
//
// FrameCount is only known when the reader passed to Decode is an
// io.ReadSeeker.
package vorbis
