package mesh

import "errors"

// Geometry error taxonomy. All of these are terminal for the sample being
// processed: callers skip or regenerate the sample rather than attempt
// partial recovery.
var (
	// ErrEmpty indicates a mesh with no vertices or no faces.
	ErrEmpty = errors.New("mesh: no geometry")

	// ErrUnreadable indicates malformed input that could not be parsed.
	ErrUnreadable = errors.New("mesh: unreadable input")

	// ErrDegenerateOnly indicates that every face was dropped during repair.
	ErrDegenerateOnly = errors.New("mesh: all faces degenerate")

	// ErrZeroArea indicates that the total valid surface area is below
	// tolerance, which would poison every downstream ratio.
	ErrZeroArea = errors.New("mesh: zero surface area")
)
