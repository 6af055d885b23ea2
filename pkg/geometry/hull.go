package geometry

import "math"

// hullFace is a triangular facet of a convex hull under construction,
// stored with counter-clockwise winding as seen from outside.
type hullFace struct {
	a, b, c int
}

// ConvexHullVolume returns the volume of the convex hull of the given point
// set, computed with an incremental construction. Degenerate inputs (fewer
// than four points, or all points coplanar within tolerance) return 0.
func ConvexHullVolume(points []Vector3) float64 {
	faces := convexHullFaces(points)
	if len(faces) == 0 {
		return 0
	}

	// The hull is closed, so the signed tetrahedron sum against the origin
	// telescopes to the enclosed volume.
	volume := 0.0
	for _, f := range faces {
		volume += points[f.a].Dot(points[f.b].Cross(points[f.c])) / 6.0
	}
	return math.Abs(volume)
}

func convexHullFaces(points []Vector3) []hullFace {
	if len(points) < 4 {
		return nil
	}

	bbox := NewBoundingBox()
	for _, p := range points {
		bbox.Extend(p)
	}
	eps := 1e-9 * math.Max(bbox.Diagonal(), 1.0)

	i0, i1, i2, i3, ok := initialTetrahedron(points, eps)
	if !ok {
		return nil
	}

	faces := []hullFace{
		{i0, i1, i2},
		{i0, i2, i3},
		{i0, i3, i1},
		{i1, i3, i2},
	}
	// Orient every starting face outward relative to the tetrahedron centroid.
	centroid := points[i0].Add(points[i1]).Add(points[i2]).Add(points[i3]).Mul(0.25)
	for i, f := range faces {
		if faceDistance(points, f, centroid) > 0 {
			faces[i] = hullFace{f.a, f.c, f.b}
		}
	}

	for idx, p := range points {
		if idx == i0 || idx == i1 || idx == i2 || idx == i3 {
			continue
		}

		var visible []hullFace
		var kept []hullFace
		for _, f := range faces {
			if faceDistance(points, f, p) > eps {
				visible = append(visible, f)
			} else {
				kept = append(kept, f)
			}
		}
		if len(visible) == 0 {
			continue // point is inside the current hull
		}

		// The horizon is every edge of a visible face whose reverse edge is
		// not itself part of the visible region.
		type edge struct{ u, v int }
		edgeSet := make(map[edge]bool, len(visible)*3)
		for _, f := range visible {
			edgeSet[edge{f.a, f.b}] = true
			edgeSet[edge{f.b, f.c}] = true
			edgeSet[edge{f.c, f.a}] = true
		}
		faces = kept
		for e := range edgeSet {
			if !edgeSet[edge{e.v, e.u}] {
				faces = append(faces, hullFace{e.u, e.v, idx})
			}
		}
	}

	return faces
}

// faceDistance returns the signed distance of point p from the plane of f,
// positive on the side the face normal points to.
func faceDistance(points []Vector3, f hullFace, p Vector3) float64 {
	n := points[f.b].Sub(points[f.a]).Cross(points[f.c].Sub(points[f.a])).Normalize()
	return n.Dot(p.Sub(points[f.a]))
}

// initialTetrahedron picks four non-coplanar points to seed the hull.
func initialTetrahedron(points []Vector3, eps float64) (int, int, int, int, bool) {
	// Most distant pair among axis extremes.
	extremes := make([]int, 0, 6)
	for axis := 0; axis < 3; axis++ {
		minIdx, maxIdx := 0, 0
		for i, p := range points {
			if component(p, axis) < component(points[minIdx], axis) {
				minIdx = i
			}
			if component(p, axis) > component(points[maxIdx], axis) {
				maxIdx = i
			}
		}
		extremes = append(extremes, minIdx, maxIdx)
	}

	i0, i1 := extremes[0], extremes[1]
	best := 0.0
	for _, i := range extremes {
		for _, j := range extremes {
			if d := points[i].Distance(points[j]); d > best {
				best = d
				i0, i1 = i, j
			}
		}
	}
	if best <= eps {
		return 0, 0, 0, 0, false
	}

	// Farthest point from the line i0-i1.
	dir := points[i1].Sub(points[i0]).Normalize()
	i2, best := -1, eps
	for i, p := range points {
		rel := p.Sub(points[i0])
		if d := rel.Sub(dir.Mul(rel.Dot(dir))).Length(); d > best {
			best = d
			i2 = i
		}
	}
	if i2 < 0 {
		return 0, 0, 0, 0, false
	}

	// Farthest point from the plane i0-i1-i2.
	n := points[i1].Sub(points[i0]).Cross(points[i2].Sub(points[i0])).Normalize()
	i3, best := -1, eps
	for i, p := range points {
		if d := math.Abs(n.Dot(p.Sub(points[i0]))); d > best {
			best = d
			i3 = i
		}
	}
	if i3 < 0 {
		return 0, 0, 0, 0, false
	}

	return i0, i1, i2, i3, true
}

func component(v Vector3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
