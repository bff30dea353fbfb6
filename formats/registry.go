// SPDX-License-Identifier: EPL-2.0

// Package formats wires the bundled decoders into an audio.Registry.
package formats

import (
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/flac"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
)

// Register adds every bundled decoder to r under its usual file extensions.
func Register(r *audio.Registry) {
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("flac", flac.Decoder{})
}

// Default returns a new registry holding every bundled decoder.
func Default() *audio.Registry {
	r := audio.NewRegistry()
	Register(r)
	return r
}
