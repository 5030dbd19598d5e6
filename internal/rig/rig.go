// Package rig binds the engine to a concrete avatar: a set of named morph
// channels resolved to indices once at bind time, and the rig's skeletal clip
// inventory.
package rig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/go-faceblend/internal/face"
)

// Descriptor is the on-disk description of a rig: its morph channels and
// loopable clips, as exported alongside the avatar asset.
type Descriptor struct {
	Name     string   `json:"name"`
	Channels []string `json:"channels"`
	Clips    []string `json:"clips"`
}

// DefaultDescriptor describes the built-in reference rig covering every
// canonical channel and one clip per interaction state.
func DefaultDescriptor() Descriptor {
	return Descriptor{
		Name:     "default",
		Channels: face.Channels(),
		Clips:    []string{"idle_loop", "listen_loop", "talk_loop"},
	}
}

// LoadDescriptor reads a JSON rig descriptor from path.
func LoadDescriptor(path string) (Descriptor, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied configuration
	if err != nil {
		return Descriptor{}, fmt.Errorf("read rig descriptor: %w", err)
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("decode rig descriptor %s: %w", path, err)
	}
	if len(d.Channels) == 0 {
		return Descriptor{}, fmt.Errorf("rig descriptor %s declares no channels", path)
	}
	return d, nil
}

// Rig is a bound rig instance. Channel names are resolved to indices once at
// construction; per-frame writes are index lookups into a flat weight slice.
// Rig implements the engine's MeshProvider and ClipPlayer capabilities.
type Rig struct {
	name    string
	index   map[string]int
	weights []float64
	clips   []string

	clip  string
	speed float64
	plays int
}

// New binds a descriptor into a Rig. Duplicate channel names are an error:
// the name is the lookup key and must be unique per mesh.
func New(d Descriptor) (*Rig, error) {
	index := make(map[string]int, len(d.Channels))
	for i, name := range d.Channels {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("rig %q: duplicate channel %q", d.Name, name)
		}
		index[name] = i
	}
	return &Rig{
		name:    d.Name,
		index:   index,
		weights: make([]float64, len(d.Channels)),
		clips:   append([]string(nil), d.Clips...),
	}, nil
}

// Name returns the rig name from the descriptor.
func (r *Rig) Name() string { return r.name }

// HasChannel reports whether the rig exposes the named morph channel.
func (r *Rig) HasChannel(name string) bool {
	_, ok := r.index[name]
	return ok
}

// SetWeight writes a channel weight. Unknown channels are ignored; a mesh
// lacking a channel is a normal occurrence across rigs, not an error.
func (r *Rig) SetWeight(name string, value float64) {
	i, ok := r.index[name]
	if !ok {
		return
	}
	r.weights[i] = value
}

// Weight returns the current value of a channel, or 0 if the rig lacks it.
func (r *Rig) Weight(name string) float64 {
	i, ok := r.index[name]
	if !ok {
		return 0
	}
	return r.weights[i]
}

// Snapshot returns the current channel weights as a map.
func (r *Rig) Snapshot() face.Weights {
	out := make(face.Weights, len(r.index))
	for name, i := range r.index {
		out[name] = r.weights[i]
	}
	return out
}

// Clips returns the rig's clip names.
func (r *Rig) Clips() []string {
	return append([]string(nil), r.clips...)
}

// Play records the active clip and speed. The engine debounces on
// (clip, speed) equality, so every call here is a genuine clip change.
func (r *Rig) Play(name string, speed float64) {
	r.clip = name
	r.speed = speed
	r.plays++
}

// Current returns the active clip and speed.
func (r *Rig) Current() (string, float64) {
	return r.clip, r.speed
}

// PlayCount returns how many play requests the rig has received.
func (r *Rig) PlayCount() int { return r.plays }
