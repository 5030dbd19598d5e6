package engine

import (
	"testing"

	"github.com/example/go-faceblend/internal/face"
	"github.com/example/go-faceblend/internal/testutil"
)

func TestComposePrecedence(t *testing.T) {
	expr := face.Weights{
		face.MouthSmileLeft: 0.6,
		face.JawOpen:        0.3, // surprised-style jaw
		face.EyeBlinkLeft:   0.9, // expression trying to squint
	}
	lip := face.Weights{
		face.JawOpen:     0.5, // speech drives the jaw
		face.MouthPucker: 0.4,
	}

	got := Compose(expr, lip, 0.2)

	want := face.Weights{
		face.MouthSmileLeft: 0.6, // expression passes through
		face.JawOpen:        0.5, // lip-sync wins on shared channel
		face.MouthPucker:    0.4,
		face.EyeBlinkLeft:   0.2, // blink wins on eyelids
		face.EyeBlinkRight:  0.2,
	}
	testutil.AssertWeights(t, got, want, 0)
}

func TestComposeBlinkWinsOverLipSync(t *testing.T) {
	lip := face.Weights{face.EyeBlinkLeft: 0.7, face.EyeBlinkRight: 0.7}

	got := Compose(nil, lip, 0)

	if got[face.EyeBlinkLeft] != 0 || got[face.EyeBlinkRight] != 0 {
		t.Fatalf("eyelids = %g/%g, want 0/0: blink overrides other layers",
			got[face.EyeBlinkLeft], got[face.EyeBlinkRight])
	}
}

func TestComposeDoesNotMutateInputs(t *testing.T) {
	expr := face.Weights{face.JawOpen: 0.3}
	lip := face.Weights{face.JawOpen: 0.5}

	_ = Compose(expr, lip, 1)

	if expr[face.JawOpen] != 0.3 || lip[face.JawOpen] != 0.5 {
		t.Fatal("Compose mutated a layer input")
	}
}

func TestComposeEmptyLayers(t *testing.T) {
	got := Compose(nil, nil, 0.5)

	want := face.Weights{
		face.EyeBlinkLeft:  0.5,
		face.EyeBlinkRight: 0.5,
	}
	testutil.AssertWeights(t, got, want, 0)
}
