package audio

import (
	"errors"
	"fmt"
	"math"

	goaudio "github.com/go-audio/audio"
)

// Envelope computes a per-frame RMS loudness envelope from a mono PCM buffer
// at the given frame rate. The result has one value per rendered frame,
// normalized so the loudest frame is 1.0; a silent buffer yields all zeros.
func Envelope(buf *goaudio.Float32Buffer, fps int) ([]float64, error) {
	if buf == nil || buf.Format == nil {
		return nil, errors.New("nil PCM buffer")
	}
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", fps)
	}
	if buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", buf.Format.SampleRate)
	}

	window := buf.Format.SampleRate / fps
	if window < 1 {
		window = 1
	}

	n := (len(buf.Data) + window - 1) / window
	env := make([]float64, n)

	var peak float64
	for i := 0; i < n; i++ {
		start := i * window
		end := start + window
		if end > len(buf.Data) {
			end = len(buf.Data)
		}

		var sum float64
		for _, s := range buf.Data[start:end] {
			sum += float64(s) * float64(s)
		}
		rms := math.Sqrt(sum / float64(end-start))
		env[i] = rms
		if rms > peak {
			peak = rms
		}
	}

	if peak > 0 {
		for i := range env {
			env[i] /= peak
		}
	}
	return env, nil
}
