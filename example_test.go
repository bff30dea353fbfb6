// SPDX-License-Identifier: EPL-2.0

package audmix_test

import (
	"fmt"
	"io"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/wave"
	"github.com/sirupsen/logrus"
)

func quiet() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Example_bounce mixes a sound offline and reads back the result.
func Example_bounce() {
	dev, backend, err := audmix.NewOfflineDevice(mixer.Config{
		SampleRate: 8000,
		Channels:   1,
		Logger:     quiet(),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer dev.Close()

	w, _ := wave.FromSamples([]float32{0.5, 0.5, 0.5, 0.5}, 8000, 16, 1)
	snd, _ := dev.LoadSoundFromWave(w)
	defer snd.Unload()

	snd.SetVolume(0.5)
	snd.Play()

	out, err := audmix.Bounce(dev, backend, 6, 16, nil)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(out.FrameCount(), out.Samples())
	fmt.Println(snd.State())
	// Output:
	// 6 [0.25 0.25 0.25 0.25 0 0]
	// stopped
}

// Example_stream pushes raw 8-bit PCM into a stream.
func Example_stream() {
	dev, backend, _ := audmix.NewOfflineDevice(mixer.Config{
		SampleRate: 8000,
		Channels:   2,
		Logger:     quiet(),
	})
	defer dev.Close()

	st, _ := dev.LoadStream(8000, 8, 1)
	defer st.Unload()

	st.SetPan(0)
	st.UpdateLast([]byte{192, 64})
	st.Play()

	out, _ := audmix.Bounce(dev, backend, 3, 32, nil)
	fmt.Println(out.Samples())
	// Output: [0.5 0 -0.5 0 0 0]
}

// Example_formatConversion resamples and upmixes a wave.
func Example_formatConversion() {
	w, _ := wave.FromSamples([]float32{0, 0.5}, 4000, 16, 1)

	if err := w.Format(8000, 16, 2); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(w.FrameCount(), w.SampleRate(), w.Channels())
	// Output: 4 8000 2
}
