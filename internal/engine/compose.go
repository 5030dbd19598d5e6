package engine

import "github.com/example/go-faceblend/internal/face"

// Compose merges the per-frame layer outputs into the final channel-weight
// set with fixed, tagged precedence:
//
//  1. expression weights form the base,
//  2. lip-sync weights overlay the base and win on any shared channel,
//  3. the blink weight is written to the two eyelid channels last and wins
//     there unconditionally.
//
// The result is a fresh map; the inputs are not mutated.
func Compose(expr, lip face.Weights, blinkWeight float64) face.Weights {
	out := make(face.Weights, len(expr)+len(lip)+2)
	for name, v := range expr {
		out[name] = v
	}
	for name, v := range lip {
		out[name] = v
	}
	for _, name := range face.EyelidChannels() {
		out[name] = blinkWeight
	}
	return out
}
