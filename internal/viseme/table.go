// Package viseme maps phoneme codes to articulatory blend-shape targets and
// smooths those targets over time into per-frame channel weights.
package viseme

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/go-faceblend/internal/face"
)

// Silence is the phoneme code every table must define. Its target set is the
// rest position the mouth returns to between utterances.
const Silence = "sil"

// Table maps a phoneme code to a partial set of channel targets. Channels not
// listed for a code are implicitly zero for that code.
type Table map[string]face.Weights

// Weights returns a copy of the target set for code. Unknown codes resolve to
// an empty set, never an error: speech-timing sources routinely emit codes
// outside the known inventory.
func (t Table) Weights(code string) face.Weights {
	targets, ok := t[code]
	if !ok {
		return face.Weights{}
	}
	return targets.Clone()
}

// Codes returns the phoneme codes the table defines, in map order.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	return codes
}

// Validate checks that the table defines the silence entry.
func (t Table) Validate() error {
	if _, ok := t[Silence]; !ok {
		return fmt.Errorf("shape table missing %q entry", Silence)
	}
	return nil
}

// DefaultTable returns the built-in articulation model over the Oculus-style
// viseme inventory. The numeric targets are a tuned design parameter, not a
// physical law; they are pinned by the visual-regression tests and must stay
// stable across releases.
func DefaultTable() Table {
	return Table{
		Silence: {
			face.JawOpen:     0,
			face.MouthFunnel: 0,
			face.MouthPucker: 0,
			face.TongueOut:   0,
		},
		// Bilabial closure: p, b, m.
		"PP": {
			face.MouthPressLeft:  0.7,
			face.MouthPressRight: 0.7,
			face.JawOpen:         0.05,
		},
		// Labiodental: f, v.
		"FF": {
			face.MouthPressLeft:  0.4,
			face.MouthPressRight: 0.4,
			face.JawOpen:         0.1,
		},
		// Interdental: th.
		"TH": {
			face.TongueOut: 0.5,
			face.JawOpen:   0.2,
		},
		// Alveolar stops: t, d.
		"DD": {
			face.JawOpen:   0.25,
			face.TongueOut: 0.2,
		},
		// Velar stops: k, g.
		"kk": {
			face.JawOpen: 0.3,
		},
		// Postalveolar affricates: ch, j.
		"CH": {
			face.JawOpen:     0.2,
			face.MouthFunnel: 0.45,
		},
		// Sibilants: s, z.
		"SS": {
			face.JawOpen:           0.12,
			face.MouthStretchLeft:  0.4,
			face.MouthStretchRight: 0.4,
		},
		// Nasals: n, ng.
		"nn": {
			face.JawOpen:   0.15,
			face.TongueOut: 0.15,
		},
		// Rhotic: r.
		"RR": {
			face.JawOpen:     0.2,
			face.MouthPucker: 0.3,
		},
		// Open vowel: father.
		"aa": {
			face.JawOpen: 0.7,
		},
		// Mid front vowel: bed.
		"E": {
			face.JawOpen:           0.35,
			face.MouthStretchLeft:  0.3,
			face.MouthStretchRight: 0.3,
		},
		// Close front vowel: bit.
		"ih": {
			face.JawOpen:           0.25,
			face.MouthStretchLeft:  0.45,
			face.MouthStretchRight: 0.45,
		},
		// Mid back rounded vowel: go.
		"oh": {
			face.JawOpen:     0.5,
			face.MouthFunnel: 0.4,
		},
		// Close back rounded vowel: boot.
		"ou": {
			face.JawOpen:     0.3,
			face.MouthPucker: 0.65,
			face.MouthFunnel: 0.3,
		},
	}
}

// LoadTable reads a JSON shape table from path: an object mapping phoneme
// codes to {channel: weight} objects. The table must define the silence
// entry.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied configuration
	if err != nil {
		return nil, fmt.Errorf("read shape table: %w", err)
	}

	var raw map[string]map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode shape table %s: %w", path, err)
	}

	t := make(Table, len(raw))
	for code, targets := range raw {
		w := make(face.Weights, len(targets))
		for name, v := range targets {
			w[name] = v
		}
		t[code] = w
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
