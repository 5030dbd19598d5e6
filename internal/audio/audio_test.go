package audio

import (
	"math"
	"testing"
)

func sine(freq float64, sampleRate, n int, amp float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return out
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const sampleRate = 16000
	samples := sine(440, sampleRate, sampleRate/10, 0.5)

	data, err := EncodeWAV(samples, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}

	buf, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if buf.Format.SampleRate != sampleRate {
		t.Errorf("sample rate = %d, want %d", buf.Format.SampleRate, sampleRate)
	}
	if buf.Format.NumChannels != 1 {
		t.Errorf("channels = %d, want 1", buf.Format.NumChannels)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(samples))
	}

	// 16-bit quantization: round trip within one LSB step.
	for i := range samples {
		if math.Abs(float64(buf.Data[i]-samples[i])) > 1.0/32767+1e-6 {
			t.Fatalf("sample %d = %g, want ~%g", i, buf.Data[i], samples[i])
		}
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAV(nil); err == nil {
		t.Error("DecodeWAV accepted empty input")
	}
	if _, err := DecodeWAV([]byte("definitely not a wav file")); err == nil {
		t.Error("DecodeWAV accepted garbage input")
	}
}

func TestEncodeWAVRejectsBadRate(t *testing.T) {
	if _, err := EncodeWAV([]float32{0}, 0); err == nil {
		t.Error("EncodeWAV accepted sample rate 0")
	}
}

func TestEnvelopeShape(t *testing.T) {
	const sampleRate, fps = 16000, 50

	// One second: loud first half, silent second half.
	loud := sine(440, sampleRate, sampleRate/2, 0.8)
	silent := make([]float32, sampleRate/2)
	buf, err := DecodeWAV(mustEncode(t, append(loud, silent...), sampleRate))
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}

	env, err := Envelope(buf, fps)
	if err != nil {
		t.Fatalf("Envelope: %v", err)
	}
	if len(env) != fps {
		t.Fatalf("len(env) = %d, want %d", len(env), fps)
	}

	// Peak normalization: the loudest frame is exactly 1.
	var peak float64
	for _, v := range env {
		if v < 0 || v > 1 {
			t.Fatalf("envelope value %g out of [0,1]", v)
		}
		if v > peak {
			peak = v
		}
	}
	if math.Abs(peak-1) > 1e-9 {
		t.Errorf("peak = %g, want 1", peak)
	}

	// Loud half well above the silent half.
	if env[5] < 0.5 {
		t.Errorf("loud frame = %g, want > 0.5", env[5])
	}
	if env[fps-5] != 0 {
		t.Errorf("silent frame = %g, want 0", env[fps-5])
	}
}

func TestEnvelopeSilentBufferAllZeros(t *testing.T) {
	buf, err := DecodeWAV(mustEncode(t, make([]float32, 8000), 8000))
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}

	env, err := Envelope(buf, 25)
	if err != nil {
		t.Fatalf("Envelope: %v", err)
	}
	for i, v := range env {
		if v != 0 {
			t.Fatalf("env[%d] = %g, want 0 for silence", i, v)
		}
	}
}

func TestEnvelopeArgumentErrors(t *testing.T) {
	buf, err := DecodeWAV(mustEncode(t, make([]float32, 100), 8000))
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}

	if _, err := Envelope(nil, 30); err == nil {
		t.Error("Envelope accepted a nil buffer")
	}
	if _, err := Envelope(buf, 0); err == nil {
		t.Error("Envelope accepted fps 0")
	}
}

func mustEncode(tb testing.TB, samples []float32, sampleRate int) []byte {
	tb.Helper()
	data, err := EncodeWAV(samples, sampleRate)
	if err != nil {
		tb.Fatalf("EncodeWAV: %v", err)
	}
	return data
}
