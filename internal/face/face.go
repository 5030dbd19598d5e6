// Package face defines the shared blend-shape vocabulary: canonical channel
// names and the weight map exchanged between animation layers.
package face

// Canonical blend-shape channel names, following ARKit-style naming so rigs
// exported from common avatar pipelines bind without a translation table.
const (
	JawOpen           = "jawOpen"
	MouthFunnel       = "mouthFunnel"
	MouthPucker       = "mouthPucker"
	MouthSmileLeft    = "mouthSmileLeft"
	MouthSmileRight   = "mouthSmileRight"
	MouthFrownLeft    = "mouthFrownLeft"
	MouthFrownRight   = "mouthFrownRight"
	MouthPressLeft    = "mouthPressLeft"
	MouthPressRight   = "mouthPressRight"
	MouthStretchLeft  = "mouthStretchLeft"
	MouthStretchRight = "mouthStretchRight"
	TongueOut         = "tongueOut"
	EyeBlinkLeft      = "eyeBlinkLeft"
	EyeBlinkRight     = "eyeBlinkRight"
	EyeWideLeft       = "eyeWideLeft"
	EyeWideRight      = "eyeWideRight"
)

// Weights maps channel names to scalar blend weights. Conventionally values
// lie in [0,1] but the engine does not enforce the clamp; hard bounds are the
// mesh provider's contract.
type Weights map[string]float64

// Clone returns a shallow copy. A nil receiver yields an empty, writable map.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for name, v := range w {
		out[name] = v
	}
	return out
}

// Channels returns every canonical channel name in a stable order.
func Channels() []string {
	return []string{
		JawOpen,
		MouthFunnel,
		MouthPucker,
		MouthSmileLeft,
		MouthSmileRight,
		MouthFrownLeft,
		MouthFrownRight,
		MouthPressLeft,
		MouthPressRight,
		MouthStretchLeft,
		MouthStretchRight,
		TongueOut,
		EyeBlinkLeft,
		EyeBlinkRight,
		EyeWideLeft,
		EyeWideRight,
	}
}

// EyelidChannels returns the two eye-closure channels driven by the blink
// layer, left then right.
func EyelidChannels() [2]string {
	return [2]string{EyeBlinkLeft, EyeBlinkRight}
}
