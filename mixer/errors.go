// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	// ErrDeviceUnavailable is returned by Init when the backend cannot open an
	// output device.
	ErrDeviceUnavailable = errors.New("audio device unavailable")

	// ErrInvalidFormat is returned for sample rates, sample sizes or channel
	// counts the mixer cannot play.
	ErrInvalidFormat = errors.New("invalid audio format")

	// ErrRingFull is returned when a chunk is pushed with no free ring slot.
	ErrRingFull = errors.New("stream ring is full")

	// ErrInvalidChunk is returned for chunks that are empty, not made of whole
	// frames or larger than a ring slot.
	ErrInvalidChunk = errors.New("invalid stream chunk")

	// ErrUnloaded is returned when a voice is used after Unload.
	ErrUnloaded = errors.New("voice is unloaded")

	// ErrAliased is returned when writing to a sound buffer shared by aliases.
	ErrAliased = errors.New("sound buffer is shared by an alias")

	// ErrVoicesActive is returned by Close when voices were still registered.
	ErrVoicesActive = errors.New("voices still active")

	// ErrUnsupportedFileType is returned when no decoder matches a file type.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
