// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/sirupsen/logrus"
)

// WAVBytes builds a canonical 44-byte-header PCM WAV file around data.
func WAVBytes(sampleRate, channels, bitsPerSample int, data []byte) []byte {
	buf := new(bytes.Buffer)

	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

// PCM16 encodes samples as little-endian signed 16-bit PCM.
func PCM16(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// Tone16 returns frames*channels copies of value as 16-bit PCM.
func Tone16(frames, channels int, value int16) []byte {
	samples := make([]int16, frames*channels)
	for i := range samples {
		samples[i] = value
	}
	return PCM16(samples...)
}

// QuietLogger returns a logger that discards its output.
func QuietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
