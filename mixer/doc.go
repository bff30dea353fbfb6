// SPDX-License-Identifier: EPL-2.0

// Package mixer is a real-time audio mixing engine.
//
// A Device owns one Backend, which calls Device.Render from its device
// thread. Voices are played on the device:
//
//   - Sound: a one-shot buffer converted to the device format at load time.
//     LoadSoundAlias shares the buffer between several voices.
//   - Music: a decoded track streamed through a ring. Call Update regularly.
//   - Stream: raw PCM chunks pushed by the application, or a callback.
//
// # Threads
//
// Render never blocks, allocates or logs. The active voice list is a
// copy-on-write snapshot, voice parameters are atomics, and stream chunks
// move through a ring of preallocated slots whose states change atomically.
// Calls that must not race with a mix cycle in progress, such as Stop,
// Unload and DetachProcessor, wait for that cycle to end before returning.
//
// Processors and stream callbacks run on the device thread. They must
// return quickly and must not call methods of this package.
//
// # Rings
//
// A ring of N slots holds at most N-1 chunks:
//
//	for s.IsProcessed() {
//	    if err := s.Update(nextChunk()); err != nil {
//	        break
//	    }
//	}
//
// When the device finds no chunk it plays silence for the rest of the
// period, sets the Starved flag and counts an underrun. Playback resumes
// from the next frame once a chunk is pushed.
//
// # Conversion
//
// Voices are converted to the device format on the fly: samples are decoded
// to float, channels are mapped with audio.MapChannels and the rate is
// changed by linear interpolation with step sourceRate*pitch/deviceRate.
// Pan uses a linear law: left = volume*min(1, 2*(1-pan)) and
// right = volume*min(1, 2*pan).
package mixer
