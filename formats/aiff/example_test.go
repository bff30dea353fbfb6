// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/audmix/formats/aiff"
)

// ExampleDecoder_Decode_errorHandling shows matching the sentinel error for
// data that is not AIFF.
func ExampleDecoder_Decode_errorHandling() {
	_, err := aiff.Decoder{}.Decode(bytes.NewReader([]byte("RIFF....WAVE")))
	fmt.Println(errors.Is(err, aiff.ErrNotAiffFile))
	// Output:
	// true
}
