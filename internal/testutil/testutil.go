// Package testutil provides shared assertion helpers for weight-map tests.
//
// Layer outputs are float maps, so straight equality comparisons are too
// brittle; these helpers compare with an epsilon and report per-channel
// differences in one failure message.
//
// Typical usage:
//
//	func TestLayer(t *testing.T) {
//	    got := layer.Update(...)
//	    testutil.AssertWeights(t, got, face.Weights{face.JawOpen: 0.49}, 1e-9)
//	}
package testutil

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/example/go-faceblend/internal/face"
)

// DiffWeights returns a human-readable description of every channel where got
// and want differ by more than eps, or the empty string when they match.
// Channels present in one map and absent in the other are compared against 0.
func DiffWeights(got, want face.Weights, eps float64) string {
	names := map[string]bool{}
	for name := range got {
		names[name] = true
	}
	for name := range want {
		names[name] = true
	}

	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)

	var b strings.Builder
	for _, name := range ordered {
		g, w := got[name], want[name]
		if math.Abs(g-w) > eps {
			fmt.Fprintf(&b, "%s = %g, want %g; ", name, g, w)
		}
	}
	return strings.TrimSuffix(b.String(), "; ")
}

// AssertWeights fails the test when got and want differ by more than eps on
// any channel.
func AssertWeights(tb testing.TB, got, want face.Weights, eps float64) {
	tb.Helper()
	if diff := DiffWeights(got, want, eps); diff != "" {
		tb.Fatalf("weights mismatch: %s", diff)
	}
}

// AssertNear fails the test when got is not within eps of want.
func AssertNear(tb testing.TB, got, want, eps float64) {
	tb.Helper()
	if math.Abs(got-want) > eps {
		tb.Fatalf("got %g, want %g (eps %g)", got, want, eps)
	}
}
