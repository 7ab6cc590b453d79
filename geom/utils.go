package geom

import "math"

func Abs(v Element) Element {
	if v < 0 {
		return -v
	}
	return v
}

// RegularPolygon returns n points on a circle of radius r in the XY plane,
// counter-clockwise seen from -Z, starting at +Y.
func RegularPolygon(n int, r Element) []*Vector3 {
	pts := make([]*Vector3, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = &Vector3{X: -r * Element(math.Sin(a)), Y: r * Element(math.Cos(a))}
	}
	return pts
}

func isInTriangle(p, a, b, c *Vector3) bool {
	ab, bc, ca := b.Sub(a), c.Sub(b), a.Sub(c)
	c1, c2, c3 := ab.Cross(p.Sub(a)), bc.Cross(p.Sub(b)), ca.Cross(p.Sub(c))
	return c1.Dot(c2) > 0 && c2.Dot(c3) > 0 && c3.Dot(c1) > 0
}

// Triangulate splits a simple planar polygon into triangles by ear clipping.
// Returned triangles keep the winding of the polygon.
func Triangulate(poly []*Vector3) [][3]int {
	var dst [][3]int
	if len(poly) < 3 {
		return dst
	}
	n := &Vector3{}
	for i := range poly {
		v0 := poly[(i+len(poly)-1)%len(poly)]
		v1 := poly[i]
		v2 := poly[(i+1)%len(poly)]
		n = n.Add(v0.Sub(v1).Cross(v2.Sub(v1)))
	}

	ii := make([]int, len(poly))
	for i := range ii {
		ii[i] = i
	}
	for len(ii) >= 3 {
		clipped := false
		for i := len(ii) - 1; i >= 0 && len(ii) >= 3; i-- {
			i0, i1, i2 := ii[(i+len(ii)-1)%len(ii)], ii[i], ii[(i+1)%len(ii)]
			v0, v1, v2 := poly[i0], poly[i1], poly[i2]
			if v0.Sub(v1).Cross(v2.Sub(v1)).Dot(n) < 0 {
				continue
			}
			ear := true
			for _, j := range ii {
				if j != i0 && j != i1 && j != i2 && isInTriangle(poly[j], v0, v1, v2) {
					ear = false
					break
				}
			}
			if ear {
				dst = append(dst, [3]int{i0, i1, i2})
				ii = append(ii[:i:i], ii[i+1:]...)
				clipped = true
			}
		}
		if !clipped {
			// self-intersecting: fan the rest
			for i := 1; i+1 < len(ii); i++ {
				dst = append(dst, [3]int{ii[0], ii[i], ii[i+1]})
			}
			break
		}
	}
	return dst
}
