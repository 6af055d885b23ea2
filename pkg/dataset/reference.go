package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/toolmill/camstrat/pkg/features"
	"github.com/toolmill/camstrat/pkg/mesh"
)

// DefaultTolerance is the absolute per-entry tolerance for conformance
// checks. The extractor is deterministic, so disagreement beyond
// floating-point noise means an implementation has drifted.
const DefaultTolerance = 1e-9

// ReferenceCase pins the expected feature vector for one frozen mesh. Mesh
// paths are relative to the fixture file.
type ReferenceCase struct {
	Name     string    `json:"name"`
	Mesh     string    `json:"mesh"`
	Features []float64 `json:"features"`
}

// Mismatch reports one feature entry that differs from the reference.
type Mismatch struct {
	Case  string
	Index int
	Got   float64
	Want  float64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: entry %d: got %v, want %v", m.Case, m.Index, m.Got, m.Want)
}

// LoadReferences reads a conformance fixture file.
func LoadReferences(path string) ([]ReferenceCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference fixtures: %w", err)
	}
	var cases []ReferenceCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to decode reference fixtures: %w", err)
	}
	return cases, nil
}

// CheckCase extracts features from the case's mesh and compares them with the
// pinned vector. A nil slice means the implementations agree within tol.
func CheckCase(baseDir string, rc ReferenceCase, tol float64) ([]Mismatch, error) {
	m, err := mesh.Load(filepath.Join(baseDir, rc.Mesh))
	if err != nil {
		return nil, err
	}
	f, _, err := features.Extract(m)
	if err != nil {
		return nil, err
	}

	got := f.Vector()
	if len(got) != len(rc.Features) {
		return nil, fmt.Errorf("case %s: expected %d feature entries, fixture has %d",
			rc.Name, len(got), len(rc.Features))
	}

	var mismatches []Mismatch
	for i := range got {
		if math.Abs(got[i]-rc.Features[i]) > tol {
			mismatches = append(mismatches, Mismatch{
				Case:  rc.Name,
				Index: i,
				Got:   got[i],
				Want:  rc.Features[i],
			})
		}
	}
	return mismatches, nil
}
