// Package animstate resolves the discrete interaction state into a desired
// skeletal clip, playback speed, and body-pose tag.
package animstate

import (
	"sort"
	"strings"

	"github.com/example/go-faceblend/internal/expression"
)

// Clip base names requested by the resolver. The actual clip played is
// matched against the rig's clip set, so rigs may carry decorated names like
// "Armature|talk_loop".
const (
	ClipTalk   = "talk"
	ClipListen = "listen"
	ClipIdle   = "idle"
)

// Inputs is the sampled mode tuple from the mode/emotion source.
type Inputs struct {
	Listening bool
	Speaking  bool
	Emotion   expression.Emotion
}

// State is the resolved animation request.
type State struct {
	Clip  string
	Speed float64
	Pose  string
}

// emotionOverride adjusts speed and pose, never the clip.
type emotionOverride struct {
	speed float64
	pose  string
}

var emotionOverrides = map[expression.Emotion]emotionOverride{
	expression.Happy:   {speed: 1.3, pose: "cheerful"},
	expression.Sad:     {speed: 0.7, pose: "dejected"},
	expression.Excited: {speed: 1.5, pose: "energetic"},
	expression.Calm:    {speed: 0.9, pose: "relaxed"},
}

// Resolve maps the input tuple to a desired state. Speaking takes precedence
// over listening even if the source asserts both. The emotion override
// replaces speed and pose but leaves the clip choice to listening/speaking.
func Resolve(in Inputs) State {
	var st State
	switch {
	case in.Speaking:
		st = State{Clip: ClipTalk, Speed: 1.2, Pose: "engaged"}
	case in.Listening:
		st = State{Clip: ClipListen, Speed: 0.8, Pose: "attentive"}
	default:
		st = State{Clip: ClipIdle, Speed: 1.0, Pose: "neutral"}
	}

	if ov, ok := emotionOverrides[in.Emotion]; ok {
		st.Speed = ov.speed
		st.Pose = ov.pose
	}
	return st
}

// MatchClip picks the clip from clips that best matches want, with
// deterministic precedence: exact match, then prefix match, then substring
// match, ties broken lexicographically. When nothing matches it retries with
// the idle base name; if that also fails it reports false and the caller
// leaves the current clip playing.
func MatchClip(clips []string, want string) (string, bool) {
	if name, ok := matchOnce(clips, want); ok {
		return name, true
	}
	if want != ClipIdle {
		return matchOnce(clips, ClipIdle)
	}
	return "", false
}

func matchOnce(clips []string, want string) (string, bool) {
	if want == "" {
		return "", false
	}

	var exact, prefix, substr []string
	for _, name := range clips {
		switch {
		case name == want:
			exact = append(exact, name)
		case strings.HasPrefix(name, want):
			prefix = append(prefix, name)
		case strings.Contains(name, want):
			substr = append(substr, name)
		}
	}

	for _, class := range [][]string{exact, prefix, substr} {
		if len(class) == 0 {
			continue
		}
		sort.Strings(class)
		return class[0], true
	}
	return "", false
}
