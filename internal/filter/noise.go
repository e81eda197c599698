package filter

import "github.com/chewxy/math32"

// The noise functions below follow the Ashima Arts GLSL noise so the CPU
// and GPU renditions of a pass produce the same field.

type vec3 [3]float32
type vec4 [4]float32

func fract(v float32) float32 { return v - math32.Floor(v) }

func fmod(x, y float32) float32 { return x - y*math32.Floor(x/y) }

func mod289(x float32) float32 { return x - math32.Floor(x*(1.0/289.0))*289.0 }

func permute(x float32) float32 { return mod289((x*34.0 + 1.0) * x) }

func taylorInvSqrt(r float32) float32 { return 1.79284291400159 - 0.85373472095314*r }

func fade(t float32) float32 { return t * t * t * (t*(t*6.0-15.0) + 10.0) }

func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func dot3(a, b vec3) float32 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

// gradients derives four normalized gradients from hashed lattice indices.
func gradients(ixy vec4) (g [4]vec3) {
	for i, v := range ixy {
		gx := v * (1.0 / 7.0)
		gy := fract(math32.Floor(gx)*(1.0/7.0)) - 0.5
		gx = fract(gx)
		gz := 0.5 - math32.Abs(gx) - math32.Abs(gy)
		sz := step(gz, 0)
		gx -= sz * (step(0, gx) - 0.5)
		gy -= sz * (step(0, gy) - 0.5)
		n := taylorInvSqrt(gx*gx + gy*gy + gz*gz)
		g[i] = vec3{gx * n, gy * n, gz * n}
	}
	return g
}

// Perlin3 is classic periodic Perlin noise at p with period rep, scaled to
// roughly [-1, 1].
func Perlin3(p, rep [3]float32) float32 {
	var pi0, pi1, pf0, pf1 vec3
	for i := range 3 {
		pi0[i] = fmod(math32.Floor(p[i]), rep[i])
		pi1[i] = fmod(pi0[i]+1, rep[i])
		pi0[i] = mod289(pi0[i])
		pi1[i] = mod289(pi1[i])
		pf0[i] = fract(p[i])
		pf1[i] = pf0[i] - 1
	}
	ix := vec4{pi0[0], pi1[0], pi0[0], pi1[0]}
	iy := vec4{pi0[1], pi0[1], pi1[1], pi1[1]}
	var ixy0, ixy1 vec4
	for i := range 4 {
		ixy := permute(permute(ix[i]) + iy[i])
		ixy0[i] = permute(ixy + pi0[2])
		ixy1[i] = permute(ixy + pi1[2])
	}
	g0 := gradients(ixy0)
	g1 := gradients(ixy1)

	n000 := dot3(g0[0], pf0)
	n100 := dot3(g0[1], vec3{pf1[0], pf0[1], pf0[2]})
	n010 := dot3(g0[2], vec3{pf0[0], pf1[1], pf0[2]})
	n110 := dot3(g0[3], vec3{pf1[0], pf1[1], pf0[2]})
	n001 := dot3(g1[0], vec3{pf0[0], pf0[1], pf1[2]})
	n101 := dot3(g1[1], vec3{pf1[0], pf0[1], pf1[2]})
	n011 := dot3(g1[2], vec3{pf0[0], pf1[1], pf1[2]})
	n111 := dot3(g1[3], pf1)

	fx, fy, fz := fade(pf0[0]), fade(pf0[1]), fade(pf0[2])
	nz0 := lerp(n000, n001, fz)
	nz1 := lerp(n100, n101, fz)
	nz2 := lerp(n010, n011, fz)
	nz3 := lerp(n110, n111, fz)
	ny0 := lerp(nz0, nz2, fy)
	ny1 := lerp(nz1, nz3, fy)
	return 2.2 * lerp(ny0, ny1, fx)
}

// Turbulence sums six octaves of Perlin3 and returns the magnitude.
func Turbulence(p, rep [3]float32, lacunarity, gain float32) float32 {
	var sum float32
	sc, total := float32(1), float32(1)
	for range 6 {
		sum += total * Perlin3([3]float32{p[0] * sc, p[1] * sc, p[2] * sc}, rep)
		sc *= lacunarity
		total *= gain
	}
	return math32.Abs(sum)
}

// Simplex3 is 3D simplex noise in roughly [-1, 1].
func Simplex3(x, y, z float32) float32 {
	const (
		c0 = 1.0 / 6.0
		c1 = 1.0 / 3.0
	)
	v := vec3{x, y, z}
	s := (x + y + z) * c1
	i := vec3{math32.Floor(x + s), math32.Floor(y + s), math32.Floor(z + s)}
	t := (i[0] + i[1] + i[2]) * c0
	x0 := vec3{v[0] - i[0] + t, v[1] - i[1] + t, v[2] - i[2] + t}

	// Simplex corner ordering.
	g := vec3{step(x0[1], x0[0]), step(x0[2], x0[1]), step(x0[0], x0[2])}
	l := vec3{1 - g[0], 1 - g[1], 1 - g[2]}
	i1 := vec3{min(g[0], l[2]), min(g[1], l[0]), min(g[2], l[1])}
	i2 := vec3{max(g[0], l[2]), max(g[1], l[0]), max(g[2], l[1])}

	var x1, x2, x3 vec3
	for k := range 3 {
		x1[k] = x0[k] - i1[k] + c0
		x2[k] = x0[k] - i2[k] + c1
		x3[k] = x0[k] - 0.5
		i[k] = mod289(i[k])
	}

	corners := [4]vec3{{0, 0, 0}, i1, i2, {1, 1, 1}}
	var p vec4
	for k, c := range corners {
		h := permute(i[2] + c[2])
		h = permute(h + i[1] + c[1])
		p[k] = permute(h + i[0] + c[0])
	}

	const (
		n   = 0.142857142857 // 1/7
		nsx = n * 2
		nsy = n*0.5 - 1
		nsz = n
	)

	offsets := [4]vec3{x0, x1, x2, x3}
	var sum float32
	for k := range 4 {
		j := p[k] - 49*math32.Floor(p[k]*nsz*nsz)
		xk := math32.Floor(j * nsz)
		yk := math32.Floor(j - 7*xk)
		gx := xk*nsx + nsy
		gy := yk*nsx + nsy
		h := 1 - math32.Abs(gx) - math32.Abs(gy)
		b0, b1 := gx, gy
		s0 := math32.Floor(b0)*2 + 1
		s1 := math32.Floor(b1)*2 + 1
		sh := -step(h, 0)
		grad := vec3{b0 + s0*sh, b1 + s1*sh, h}
		norm := taylorInvSqrt(dot3(grad, grad))
		grad = vec3{grad[0] * norm, grad[1] * norm, grad[2] * norm}
		m := max(0.6-dot3(offsets[k], offsets[k]), 0)
		m *= m
		sum += m * m * dot3(grad, offsets[k])
	}
	return 42 * sum
}
