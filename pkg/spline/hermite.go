package spline

// DOFsPerNode is the number of coefficients attached to every grid node:
// the value, d/dx, d/dy and d2/dxdy of the surface.
const DOFsPerNode = 4

// LocalDOFs is the number of basis functions supported on one element.
const LocalDOFs = 4 * DOFsPerNode

// DOF kinds within a node.
const (
	Value = iota
	SlopeX
	SlopeY
	Twist
)

// hermite1D evaluates the four cubic Hermite shape functions on a segment of
// length h at local coordinate t in [0, 1], or their first or second
// derivative with respect to the global coordinate.
//
// Order: value at left end, slope at left end, value at right end, slope at right end.
func hermite1D(t, h float64, derivative int) [4]float64 {
	switch derivative {
	case 0:
		t2, t3 := t*t, t*t*t
		return [4]float64{
			1 - 3*t2 + 2*t3,
			h * (t - 2*t2 + t3),
			3*t2 - 2*t3,
			h * (t3 - t2),
		}
	case 1:
		t2 := t * t
		return [4]float64{
			(6*t2 - 6*t) / h,
			1 - 4*t + 3*t2,
			(6*t - 6*t2) / h,
			3*t2 - 2*t,
		}
	case 2:
		return [4]float64{
			(12*t - 6) / (h * h),
			(6*t - 4) / h,
			(6 - 12*t) / (h * h),
			(6*t - 2) / h,
		}
	default:
		panic("spline: unsupported Hermite derivative order")
	}
}

// localFactors maps a local basis function to its 1D factors. Local function
// l = corner*DOFsPerNode + kind, where corners follow geometry.Element.Nodes.
var localFactors = func() [LocalDOFs][2]int {
	var f [LocalDOFs][2]int
	for corner := 0; corner < 4; corner++ {
		right, top := corner%2, corner/2
		for kind := 0; kind < DOFsPerNode; kind++ {
			xi := 2 * right
			if kind == SlopeX || kind == Twist {
				xi++
			}
			yi := 2 * top
			if kind == SlopeY || kind == Twist {
				yi++
			}
			f[corner*DOFsPerNode+kind] = [2]int{xi, yi}
		}
	}
	return f
}()

// localBasis evaluates all 16 bicubic Hermite functions of an element of size
// hx by hy at local coordinates (tx, ty), differentiated dx times along X and
// dy times along Y.
func localBasis(tx, ty, hx, hy float64, dx, dy int) [LocalDOFs]float64 {
	bx := hermite1D(tx, hx, dx)
	by := hermite1D(ty, hy, dy)
	var out [LocalDOFs]float64
	for l, f := range localFactors {
		out[l] = bx[f[0]] * by[f[1]]
	}
	return out
}
