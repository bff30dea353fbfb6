// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"sync"
	"testing"
)

type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(r io.Reader) (Source, error) {
	return newConstantSource(44100, 2, 100, 0), nil
}

type failingDecoder struct{}

func (d *failingDecoder) Decode(r io.Reader) (Source, error) {
	return nil, errors.New("decode failed")
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "wav"}

	registry.Register("wav", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}
	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}
}

func TestRegistry_FileTypeHints(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{name: "wav"})
	registry.Register(".OGG", &mockDecoder{name: "ogg"})

	tests := []struct {
		hint   string
		wantOK bool
	}{
		{"wav", true},
		{".wav", true},
		{"WAV", true},
		{" .Wav ", true},
		{"ogg", true},
		{"flac", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			t.Parallel()

			if _, ok := registry.Get(tt.hint); ok != tt.wantOK {
				t.Errorf("Get(%q) ok = %v, want %v", tt.hint, ok, tt.wantOK)
			}
		})
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("mp3", &mockDecoder{})
	registry.Register("aiff", &mockDecoder{})
	registry.Register("wav", &mockDecoder{})

	want := []string{"aiff", "mp3", "wav"}
	if got := registry.Formats(); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestRegistry_Decode(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{})
	registry.Register("bad", &failingDecoder{})

	src, err := registry.Decode(".wav", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("Decode(wav) error = %v", err)
	}
	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}

	if _, err := registry.Decode("flac", bytes.NewReader(nil)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Decode(flac) error = %v, want ErrUnknownFormat", err)
	}

	if _, err := registry.Decode("bad", bytes.NewReader(nil)); err == nil {
		t.Error("Decode(bad) error = nil, want decoder error")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register(string(rune('a'+i)), &mockDecoder{})
		}()
		go func() {
			defer wg.Done()
			registry.Get(string(rune('a' + i)))
		}()
	}
	wg.Wait()

	if got := len(registry.Formats()); got != 10 {
		t.Errorf("len(Formats()) = %d, want 10", got)
	}
}

func TestSliceSource(t *testing.T) {
	t.Parallel()

	src := NewSliceSource([]float32{1, 2, 3, 4, 5, 6}, 8000, 2)

	if src.FrameCount() != 3 {
		t.Errorf("FrameCount() = %d, want 3", src.FrameCount())
	}

	buf := make([]float32, 5)
	n, err := src.ReadSamples(buf)
	if err != nil || n != 4 {
		t.Fatalf("first ReadSamples() = (%d, %v), want (4, nil)", n, err)
	}

	n, err = src.ReadSamples(buf)
	if err != io.EOF || n != 2 {
		t.Fatalf("second ReadSamples() = (%d, %v), want (2, io.EOF)", n, err)
	}
	if buf[0] != 5 || buf[1] != 6 {
		t.Errorf("second read = %v, want [5 6]", buf[:2])
	}

	n, err = src.ReadSamples(buf)
	if err != io.EOF || n != 0 {
		t.Errorf("third ReadSamples() = (%d, %v), want (0, io.EOF)", n, err)
	}
}
