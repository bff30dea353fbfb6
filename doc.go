// SPDX-License-Identifier: EPL-2.0

// Package audmix is an audio streaming and mixing engine.
//
// A mixer.Device pulls frames from every playing voice, applies processor
// chains, volume and pan, and hands the mix to a backend. There are three
// kinds of voice:
//   - Sound: a one-shot buffer held in memory, converted to the device format
//     at load time. Aliases share the buffer.
//   - Music: a track decoded in chunks while it plays. Call Update often
//     enough to keep its ring filled.
//   - Stream: raw PCM chunks pushed by the application, or a callback.
//
// # Supported Formats
//
// Decoding is delegated to the formats subpackages:
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF via formats/aiff
//   - FLAC via formats/flac
//
// formats.Default returns a registry with all of them, keyed by file
// extension.
//
// # Quick Start
//
//	dev, err := audmix.NewDevice(mixer.Config{})
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
//	music, err := dev.LoadMusic("theme.ogg")
//	if err != nil {
//	    return err
//	}
//	defer music.Unload()
//
//	music.Play()
//	for music.IsPlaying() {
//	    music.Update()
//	    time.Sleep(10 * time.Millisecond)
//	}
//
// # Offline Rendering
//
// NewOfflineDevice mixes without audio hardware. Bounce pulls frames from
// it into a wave, which can be exported:
//
//	dev, backend, _ := audmix.NewOfflineDevice(mixer.Config{SampleRate: 48000})
//	snd, _ := dev.LoadSound("click.wav")
//	snd.Play()
//	out, _ := audmix.Bounce(dev, backend, 48000, 16, nil)
//	out.ExportFile("click-48k.wav")
//
// # Waves
//
// The wave package holds decoded PCM for editing: Copy, Crop and Format
// convert it, Export and ExportAsCode write it out.
package audmix
