// Package audio decodes WAV input and derives per-frame loudness envelopes
// used to modulate phoneme intensity during offline rendering.
package audio

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

// ErrFormatMismatch is returned when a decoded WAV does not match the
// expected channel layout.
var ErrFormatMismatch = errors.New("WAV format mismatch")

// DecodeWAV decodes WAV bytes into a float32 PCM buffer. Only mono input is
// accepted; any sample rate and PCM bit depth the decoder understands is
// allowed, since the envelope computation is rate-agnostic.
func DecodeWAV(data []byte) (*goaudio.Float32Buffer, error) {
	if len(data) == 0 {
		return nil, errors.New("empty WAV input")
	}

	r := bytes.NewReader(data)
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	if dec.NumChans != 1 {
		return nil, fmt.Errorf("%w: channels %d, want mono", ErrFormatMismatch, dec.NumChans)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading PCM data: %w", err)
	}

	return &goaudio.Float32Buffer{
		Data: buf.Data,
		Format: &goaudio.Format{
			SampleRate:  int(dec.SampleRate),
			NumChannels: int(dec.NumChans),
		},
		SourceBitDepth: int(dec.BitDepth),
	}, nil
}
