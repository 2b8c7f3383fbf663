package tetrahedron

import (
	"testing"

	"github.com/cwbudde/algo-phonon/internal/testutil"
)

func BenchmarkIntegrate(b *testing.B) {
	top, freqs := cubicMesh(8, true)
	in, err := NewIntegrator(top, freqs)
	if err != nil {
		b.Fatal(err)
	}
	points := testutil.LinSpace(0, 2.5, 201)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := in.Integrate(points, nil, FunctionDelta); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStream(b *testing.B) {
	top, freqs := cubicMesh(8, true)
	in, err := NewIntegrator(top, freqs)
	if err != nil {
		b.Fatal(err)
	}
	points := testutil.LinSpace(0, 2.5, 201)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range in.Stream(points, FunctionDelta) {
		}
	}
}

func BenchmarkIntegrationWeight(b *testing.B) {
	var omegas [24][4]float64
	for j := range omegas {
		for k := range omegas[j] {
			omegas[j][k] = float64(j%5+k) * 0.37
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = IntegrationWeight(1.1, &omegas, FunctionDelta)
	}
}
