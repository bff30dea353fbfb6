// SPDX-License-Identifier: EPL-2.0

// Package wave holds decoded PCM audio in memory.
//
// A Wave stores interleaved frames as 8-bit unsigned, 16-bit signed or 32-bit
// float little-endian samples:
//
//	w, err := wave.Load("effect.ogg", nil)
//	if err != nil {
//	    return err
//	}
//	w.Crop(0, w.SampleRate())        // first second
//	w.Format(48000, 16, 2)           // convert for a 48 kHz stereo device
//	samples := w.Samples()           // float32 view
//
// Files are decoded through an audio.Registry chosen by extension; a nil
// registry means formats.Default. Decoders reporting 24-bit data are stored
// as 16-bit, and 32-bit data as float.
//
// Export writes a WAV file, ExportFile picks WAV or headerless raw PCM by
// extension, and ExportAsCode emits Go source embedding the samples.
package wave
