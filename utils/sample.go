// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
)

// Float32ToInt16 clamps x to [-1, 1] and scales it to a signed 16-bit sample.
// It is the exact inverse of the 16-bit branch of DecodeSample.
func Float32ToInt16(x float32) int16 {
	v := Clamp(x) * 32768.0
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(v)
}

// Float32ToUint8 clamps x to [-1, 1] and scales it to an unsigned 8-bit
// sample centered on 128.
func Float32ToUint8(x float32) uint8 {
	v := int(Clamp(x)*128.0) + 128
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}

// Clamp limits x to [-1, 1].
func Clamp(x float32) float32 {
	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	}
	return x
}

// ValidSampleSize reports whether bits is a sample size the PCM codec handles.
func ValidSampleSize(bits int) bool {
	return bits == 8 || bits == 16 || bits == 32
}

// DecodeSample reads one little-endian sample of the given bit depth from b.
// 8-bit samples are unsigned, 16-bit are signed and 32-bit are IEEE floats.
func DecodeSample(b []byte, bits int) float32 {
	switch bits {
	case 8:
		return (float32(b[0]) - 128) / 128
	case 16:
		return float32(int16(binary.LittleEndian.Uint16(b))) / 32768.0
	case 32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	}
	return 0
}

// EncodeSample writes x into b using the given bit depth.
func EncodeSample(b []byte, bits int, x float32) {
	switch bits {
	case 8:
		b[0] = Float32ToUint8(x)
	case 16:
		binary.LittleEndian.PutUint16(b, uint16(Float32ToInt16(x)))
	case 32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(x))
	}
}

// DecodePCM converts interleaved PCM bytes into float samples.
// It returns the number of samples written, limited by len(dst).
func DecodePCM(dst []float32, src []byte, bits int) int {
	size := bits / 8
	if size == 0 {
		return 0
	}
	n := min(len(src)/size, len(dst))
	for i := range n {
		dst[i] = DecodeSample(src[i*size:], bits)
	}
	return n
}

// EncodePCM converts float samples into interleaved PCM bytes.
// It returns the number of samples written, limited by len(dst).
func EncodePCM(dst []byte, src []float32, bits int) int {
	size := bits / 8
	if size == 0 {
		return 0
	}
	n := min(len(dst)/size, len(src))
	for i := range n {
		EncodeSample(dst[i*size:], bits, src[i])
	}
	return n
}
