package viseme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/go-faceblend/internal/face"
)

func TestWeightsUnknownCodeIsEmpty(t *testing.T) {
	table := DefaultTable()

	for _, code := range []string{"zz", "AA", "", "sil2", "@"} {
		got := table.Weights(code)
		if len(got) != 0 {
			t.Errorf("Weights(%q) = %v, want empty set", code, got)
		}
	}
}

func TestWeightsReturnsCopy(t *testing.T) {
	table := DefaultTable()

	first := table.Weights("aa")
	first[face.JawOpen] = 99

	second := table.Weights("aa")
	if second[face.JawOpen] != 0.7 {
		t.Fatalf("table mutated through returned map: jawOpen = %g, want 0.7", second[face.JawOpen])
	}
}

func TestDefaultTableHasSilence(t *testing.T) {
	table := DefaultTable()
	if err := table.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

// Articulation targets are a release-stable contract for visual regression
// testing. Pin the distinguishing channels of each phoneme.
func TestDefaultTableStableTargets(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		code    string
		channel string
		want    float64
	}{
		{"aa", face.JawOpen, 0.7},
		{"oh", face.MouthFunnel, 0.4},
		{"ou", face.MouthPucker, 0.65},
		{"PP", face.MouthPressLeft, 0.7},
		{"PP", face.MouthPressRight, 0.7},
		{"TH", face.TongueOut, 0.5},
		{"SS", face.MouthStretchLeft, 0.4},
		{"ih", face.MouthStretchRight, 0.45},
		{Silence, face.JawOpen, 0},
	}

	for _, tt := range tests {
		got := table.Weights(tt.code)[tt.channel]
		if got != tt.want {
			t.Errorf("Weights(%q)[%s] = %g, want %g", tt.code, tt.channel, got, tt.want)
		}
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid table", func(t *testing.T) {
		path := filepath.Join(dir, "shapes.json")
		data := `{"sil": {"jawOpen": 0}, "aa": {"jawOpen": 0.8}}`
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}

		table, err := LoadTable(path)
		if err != nil {
			t.Fatalf("LoadTable: %v", err)
		}
		if got := table.Weights("aa")[face.JawOpen]; got != 0.8 {
			t.Errorf("loaded jawOpen = %g, want 0.8", got)
		}
	})

	t.Run("missing silence entry", func(t *testing.T) {
		path := filepath.Join(dir, "nosil.json")
		if err := os.WriteFile(path, []byte(`{"aa": {"jawOpen": 0.8}}`), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadTable(path); err == nil {
			t.Fatal("LoadTable accepted a table without a silence entry")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte(`{`), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadTable(path); err == nil {
			t.Fatal("LoadTable accepted malformed JSON")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTable(filepath.Join(dir, "absent.json")); err == nil {
			t.Fatal("LoadTable accepted a missing file")
		}
	})
}
