package core

import (
	"math"
	"testing"
)

func TestSeededSamplerDeterministic(t *testing.T) {
	a := NewSeededSampler(77)
	b := NewSeededSampler(77)

	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatalf("sample %d differs for identical seeds", i)
		}
	}
}

func TestSamplerRange(t *testing.T) {
	s := NewSeededSampler(1)
	for i := 0; i < 1000; i++ {
		v := s.Get3D()
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if c < 0 || c >= 1 {
				t.Fatalf("sample %v outside [0, 1)", c)
			}
		}
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	s := NewSeededSampler(2)
	for i := 0; i < 1000; i++ {
		dir, pdf := SampleCosineHemisphere(s.Get2D())

		if dir.Z < 0 {
			t.Fatalf("direction %v below the hemisphere", dir)
		}
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("direction %v not unit length", dir)
		}
		if want := dir.Z / math.Pi; math.Abs(pdf-want) > 1e-9 {
			t.Fatalf("pdf = %v, want cos/pi = %v", pdf, want)
		}
	}
}

func TestSamplePowerCosineHemisphere(t *testing.T) {
	const exponent = 32.0
	s := NewSeededSampler(3)

	for i := 0; i < 1000; i++ {
		dir, pdf := SamplePowerCosineHemisphere(exponent, s.Get2D())

		if dir.Z < 0 {
			t.Fatalf("direction %v below the hemisphere", dir)
		}
		if want := PowerCosineHemispherePdf(exponent, dir.Z); math.Abs(pdf-want) > 1e-9 {
			t.Fatalf("pdf = %v, want %v", pdf, want)
		}
	}
}

func TestSampleUniformSphere(t *testing.T) {
	s := NewSeededSampler(4)
	var below int
	for i := 0; i < 1000; i++ {
		dir := SampleUniformSphere(s.Get2D())
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("direction %v not unit length", dir)
		}
		if dir.Z < 0 {
			below++
		}
	}
	// Roughly half the samples should land in each hemisphere
	if below < 400 || below > 600 {
		t.Errorf("lower hemisphere received %d of 1000 samples", below)
	}
}

func TestSampleConcentricDisk(t *testing.T) {
	s := NewSeededSampler(5)
	for i := 0; i < 1000; i++ {
		p := SampleConcentricDisk(s.Get2D())
		if p.X*p.X+p.Y*p.Y > 1+1e-9 {
			t.Fatalf("point %v outside the unit disk", p)
		}
	}

	if center := SampleConcentricDisk(NewVec2(0.5, 0.5)); center != (Vec2{}) {
		t.Errorf("center sample maps to %v, want origin", center)
	}
}

func TestSampleUniformTriangle(t *testing.T) {
	s := NewSeededSampler(6)
	for i := 0; i < 1000; i++ {
		b := SampleUniformTriangle(s.Get2D())
		if b.X < 0 || b.Y < 0 || b.X+b.Y > 1+1e-9 {
			t.Fatalf("barycentric %v outside the triangle", b)
		}
	}
}

func TestPowerHeuristic(t *testing.T) {
	tests := []struct {
		nf   int
		fPdf float64
		ng   int
		gPdf float64
		want float64
	}{
		{1, 1, 1, 1, 0.5},
		{1, 2, 1, 0, 1},
		{1, 0, 1, 2, 0},
		{1, 0, 1, 0, 0},
		{1, 1, 1, 3, 0.1},
	}

	for _, tt := range tests {
		got := PowerHeuristic(tt.nf, tt.fPdf, tt.ng, tt.gPdf)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PowerHeuristic(%d, %v, %d, %v) = %v, want %v",
				tt.nf, tt.fPdf, tt.ng, tt.gPdf, got, tt.want)
		}
	}
}

func TestPdfConversionsRoundTrip(t *testing.T) {
	const pdfW = 0.7
	const dist = 3.2
	const cosThere = 0.4

	pdfA := PdfWtoA(pdfW, dist, cosThere)
	back := PdfAtoW(pdfA, dist, cosThere)

	if math.Abs(back-pdfW) > 1e-9 {
		t.Errorf("round trip = %v, want %v", back, pdfW)
	}

	if got := PdfAtoW(1, 1, 0); got != 0 {
		t.Errorf("grazing conversion = %v, want 0", got)
	}
}
