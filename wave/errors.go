// SPDX-License-Identifier: EPL-2.0

package wave

import "errors"

var (
	// ErrInvalidFormat is returned for a sample rate, sample size or channel
	// count the wave cannot hold.
	ErrInvalidFormat = errors.New("invalid wave format")

	// ErrInvalidLength is returned when the data does not hold whole frames.
	ErrInvalidLength = errors.New("wave data length does not match frame count")

	// ErrInvalidRange is returned by Crop for out-of-bounds frame ranges.
	ErrInvalidRange = errors.New("wave crop range out of bounds")

	// ErrEmpty is returned when a decoder produced no frames.
	ErrEmpty = errors.New("wave has no frames")

	// ErrUnsupportedFileType is returned when exporting to an unknown extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrInvalidName is returned by ExportAsCode for names that are not Go
	// identifiers.
	ErrInvalidName = errors.New("invalid Go identifier")
)
