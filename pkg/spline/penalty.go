package spline

// 4-point Gauss-Legendre rule on [-1, 1]. It integrates the roughness
// integrand of a bicubic element exactly.
var gaussPoints = [4]float64{
	-0.8611363115940526,
	-0.3399810435848563,
	0.3399810435848563,
	0.8611363115940526,
}

var gaussWeights = [4]float64{
	0.3478548451374538,
	0.6521451548625461,
	0.6521451548625461,
	0.3478548451374538,
}

// roughness returns the element matrix of the thin plate energy
//
//	integral over the element of f_xx^2 + 2 f_xy^2 + f_yy^2
//
// for an element of size hx by hy.
func roughness(hx, hy float64) [LocalDOFs][LocalDOFs]float64 {
	var k [LocalDOFs][LocalDOFs]float64
	for a, u := range gaussPoints {
		for b, v := range gaussPoints {
			tx, ty := (u+1)/2, (v+1)/2
			w := gaussWeights[a] * gaussWeights[b] * hx * hy / 4

			bxx := localBasis(tx, ty, hx, hy, 2, 0)
			bxy := localBasis(tx, ty, hx, hy, 1, 1)
			byy := localBasis(tx, ty, hx, hy, 0, 2)

			for p := 0; p < LocalDOFs; p++ {
				for q := 0; q < LocalDOFs; q++ {
					k[p][q] += w * (bxx[p]*bxx[q] + 2*bxy[p]*bxy[q] + byy[p]*byy[q])
				}
			}
		}
	}
	return k
}
