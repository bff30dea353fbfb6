// SPDX-License-Identifier: EPL-2.0

package wave

import (
	"bufio"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audmix/formats/wav"
)

// Export writes w as a PCM WAV file. 32-bit float waves are written as
// 32-bit integer PCM.
func (w *Wave) Export(out io.WriteSeeker) error {
	if !w.Valid() {
		return ErrInvalidLength
	}

	if err := wav.Encode(out, w.sampleRate, w.sampleSize, w.channels, w.Samples()); err != nil {
		return fmt.Errorf("exporting wave: %w", err)
	}
	return nil
}

// ExportFile writes w to path. The ".wav" extension writes a WAV file and
// ".raw" writes the PCM bytes with no header.
func (w *Wave) ExportFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" && ext != ".raw" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if ext == ".raw" {
		_, err = f.Write(w.data)
	} else {
		err = w.Export(f)
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

const bytesPerLine = 16

// ExportAsCode writes w as Go source: constants describing the format and a
// byte slice named <name>Data holding the PCM bytes.
func (w *Wave) ExportAsCode(out io.Writer, name string) error {
	if !token.IsIdentifier(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	bw := bufio.NewWriter(out)

	fmt.Fprintf(bw, "const (\n")
	fmt.Fprintf(bw, "\t%sFrameCount = %d\n", name, w.frameCount)
	fmt.Fprintf(bw, "\t%sSampleRate = %d\n", name, w.sampleRate)
	fmt.Fprintf(bw, "\t%sSampleSize = %d\n", name, w.sampleSize)
	fmt.Fprintf(bw, "\t%sChannels   = %d\n", name, w.channels)
	fmt.Fprintf(bw, ")\n\n")

	fmt.Fprintf(bw, "// %sData holds %d frames of %d-bit PCM.\n", name, w.frameCount, w.sampleSize)
	fmt.Fprintf(bw, "var %sData = []byte{", name)
	for i, b := range w.data {
		if i%bytesPerLine == 0 {
			bw.WriteString("\n\t")
		} else {
			bw.WriteByte(' ')
		}
		fmt.Fprintf(bw, "0x%02x,", b)
	}
	bw.WriteString("\n}\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing code: %w", err)
	}
	return nil
}
