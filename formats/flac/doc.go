// SPDX-License-Identifier: EPL-2.0

// Package flac provides FLAC audio file decoding through
// github.com/gopxl/beep/v2/flac.
//
//	file, _ := os.Open("audio.flac")
//	source, err := flac.Decoder{}.Decode(file)
//
// Output is mono or stereo float32. Files with more than two channels keep
// their first two. BitDepth reports the precision stored in the stream.
package flac
