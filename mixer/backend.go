// SPDX-License-Identifier: EPL-2.0

package mixer

// Format is the device output format. Samples are always interleaved
// float32.
type Format struct {
	SampleRate int
	Channels   int
}

// Renderer is what a Backend drives. Device implements it.
type Renderer interface {
	// Render fills out with interleaved samples. It is called from the
	// backend's device thread, one call at a time.
	Render(out []float32)
	// DeviceLost reports that the output device stopped working. It must not
	// be called from inside Render.
	DeviceLost(err error)
}

// Backend owns the physical output and its device thread.
type Backend interface {
	// Open starts calling r.Render from a device thread.
	Open(f Format, r Renderer) error
	// Close stops the device thread and returns only after it has exited.
	Close() error
}
