// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files.
//
//	decoder := mp3.Decoder{}
//	file, _ := os.Open("audio.mp3")
//	source, err := decoder.Decode(file)
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: always 2, mono files are duplicated by go-mp3
//   - Bit depth: reported as 16
//   - Sample rate: that of the file
//
// The source implements audio.FrameCounter when the reader passed to Decode
// is seekable; otherwise FrameCount returns -1.
//
// MP3 encoding is not supported.
package mp3
