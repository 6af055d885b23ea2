package mesh

import (
	"fmt"

	"github.com/toolmill/camstrat/pkg/stl"
)

// Load reads a triangulated solid from an STL file and returns a repaired,
// origin-rebased mesh. Parse failures surface as ErrUnreadable; geometry
// failures surface as ErrEmpty or ErrDegenerateOnly.
func Load(path string) (*Mesh, error) {
	model, err := stl.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if model.TriangleCount() == 0 {
		return nil, ErrEmpty
	}
	return Repair(FromTriangles(model.Name, model.Triangles))
}
