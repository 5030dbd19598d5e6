// Package expression maps discrete emotion tags to static blend-shape
// overrides.
package expression

import "github.com/example/go-faceblend/internal/face"

// Emotion is a discrete emotional state tag.
type Emotion string

// The closed set of recognized emotion tags. Unknown tags are accepted and
// resolve to the neutral baseline rather than erroring.
const (
	Neutral   Emotion = "neutral"
	Happy     Emotion = "happy"
	Sad       Emotion = "sad"
	Surprised Emotion = "surprised"
	Excited   Emotion = "excited"
	Calm      Emotion = "calm"
)

// baselineChannels is the fixed set of expression channels reset to zero
// before an emotion override is applied.
var baselineChannels = []string{
	face.MouthSmileLeft,
	face.MouthSmileRight,
	face.MouthFrownLeft,
	face.MouthFrownRight,
	face.JawOpen,
	face.EyeWideLeft,
	face.EyeWideRight,
}

// overrides holds the static per-emotion channel targets. Values are a tuned
// design parameter pinned by the visual-regression tests.
var overrides = map[Emotion]face.Weights{
	Happy: {
		face.MouthSmileLeft:  0.6,
		face.MouthSmileRight: 0.6,
	},
	Sad: {
		face.MouthFrownLeft:  0.55,
		face.MouthFrownRight: 0.55,
	},
	Surprised: {
		face.EyeWideLeft:  0.8,
		face.EyeWideRight: 0.8,
		face.JawOpen:      0.3,
	},
	Excited: {
		face.MouthSmileLeft:  0.45,
		face.MouthSmileRight: 0.45,
		face.EyeWideLeft:     0.35,
		face.EyeWideRight:    0.35,
	},
	Calm: {
		face.MouthSmileLeft:  0.12,
		face.MouthSmileRight: 0.12,
	},
}

// For returns the expression weights for emotion: the baseline channels at
// zero with the emotion's static override applied on top. The result snaps;
// easing between emotions is left to taste and deliberately not done here.
func For(emotion Emotion) face.Weights {
	w := make(face.Weights, len(baselineChannels))
	for _, name := range baselineChannels {
		w[name] = 0
	}
	for name, v := range overrides[emotion] {
		w[name] = v
	}
	return w
}

// Known reports whether tag is part of the recognized emotion set.
func Known(tag Emotion) bool {
	if tag == Neutral {
		return true
	}
	_, ok := overrides[tag]
	return ok
}
