package integrator

import (
	"math"
	"testing"

	"github.com/mpry/go-vcm-renderer/pkg/core"
	"github.com/mpry/go-vcm-renderer/pkg/scene"
)

func isectWithNormal(n core.Vec3) scene.Isect {
	return scene.Isect{Dist: 1, MatID: 0, LightID: -1, Normal: n}
}

func TestBSDFDiffuseEvaluate(t *testing.T) {
	albedo := core.NewVec3(0.6, 0.4, 0.2)
	mat := scene.NewDiffuseMaterial(albedo)
	normal := core.NewVec3(0, 0, 1)

	in := core.NewVec3(0.3, 0.1, -1).Normalize() // ray travelling onto the surface
	bsdf := NewBSDF(in, isectWithNormal(normal), mat)
	if !bsdf.Valid() {
		t.Fatal("front-side diffuse interaction reported invalid")
	}
	if bsdf.IsDelta() {
		t.Fatal("diffuse material reported delta")
	}

	out := core.NewVec3(0.2, -0.3, 1).Normalize()
	value, directPdfW, reversePdfW, cosOut := bsdf.Evaluate(out)

	want := albedo.Multiply(1.0 / math.Pi)
	if value.Subtract(want).Length() > 1e-9 {
		t.Errorf("value = %v, want albedo/pi = %v", value, want)
	}
	if wantPdf := out.Z / math.Pi; math.Abs(directPdfW-wantPdf) > 1e-9 {
		t.Errorf("directPdfW = %v, want %v", directPdfW, wantPdf)
	}
	if wantRev := -in.Z / math.Pi; math.Abs(reversePdfW-wantRev) > 1e-9 {
		t.Errorf("reversePdfW = %v, want %v", reversePdfW, wantRev)
	}
	if math.Abs(cosOut-out.Z) > 1e-9 {
		t.Errorf("cosOut = %v, want %v", cosOut, out.Z)
	}
}

func TestBSDFBackside(t *testing.T) {
	diffuse := scene.NewDiffuseMaterial(core.NewVec3(0.5, 0.5, 0.5))
	glass := scene.NewGlassMaterial(1.5)
	normal := core.NewVec3(0, 0, 1)
	fromBelow := core.NewVec3(0, 0.2, 1).Normalize() // ray arriving from inside

	if bsdf := NewBSDF(fromBelow, isectWithNormal(normal), diffuse); bsdf.Valid() {
		t.Error("backside diffuse interaction reported valid")
	}
	if bsdf := NewBSDF(fromBelow, isectWithNormal(normal), glass); !bsdf.Valid() {
		t.Error("backside glass interaction reported invalid")
	}
}

func TestBSDFDelta(t *testing.T) {
	mirror := scene.NewMirrorMaterial(core.NewVec3(0.9, 0.9, 0.9))
	in := core.NewVec3(0.5, 0, -1).Normalize()
	bsdf := NewBSDF(in, isectWithNormal(core.NewVec3(0, 0, 1)), mirror)

	if !bsdf.Valid() || !bsdf.IsDelta() {
		t.Fatalf("mirror: valid=%v delta=%v, want both true", bsdf.Valid(), bsdf.IsDelta())
	}

	// Delta components evaluate to zero
	if value, pdf, _, _ := bsdf.Evaluate(core.NewVec3(0, 0, 1)); !value.IsZero() || pdf != 0 {
		t.Errorf("delta Evaluate = %v pdf %v, want zero", value, pdf)
	}

	// Sampling must return the exact mirror direction
	dir, _, _, _, specular, ok := bsdf.Sample(core.NewSeededSampler(1))
	if !ok || !specular {
		t.Fatalf("mirror sample: ok=%v specular=%v", ok, specular)
	}
	wantDir := core.NewVec3(0.5, 0, 1).Normalize()
	if dir.Subtract(wantDir).Length() > 1e-9 {
		t.Errorf("mirror direction = %v, want %v", dir, wantDir)
	}
}

func TestBSDFDiffuseSampleMatchesEvaluate(t *testing.T) {
	mat := scene.NewDiffuseMaterial(core.NewVec3(0.7, 0.7, 0.7))
	in := core.NewVec3(0.1, -0.2, -1).Normalize()
	bsdf := NewBSDF(in, isectWithNormal(core.NewVec3(0, 0, 1)), mat)

	sampler := core.NewSeededSampler(9)
	for i := 0; i < 100; i++ {
		dir, factor, pdfW, cosOut, specular, ok := bsdf.Sample(sampler)
		if !ok {
			continue
		}
		if specular {
			t.Fatal("diffuse sample flagged specular")
		}

		value, directPdfW, _, evalCos := bsdf.Evaluate(dir)
		if factor.Subtract(value).Length() > 1e-9 {
			t.Fatalf("sampled factor %v disagrees with Evaluate %v", factor, value)
		}
		if math.Abs(pdfW-directPdfW) > 1e-9 {
			t.Fatalf("sampled pdf %v disagrees with Evaluate %v", pdfW, directPdfW)
		}
		if math.Abs(cosOut-evalCos) > 1e-9 {
			t.Fatalf("sampled cos %v disagrees with Evaluate %v", cosOut, evalCos)
		}
	}
}

func TestFresnelDielectric(t *testing.T) {
	// Normal incidence on glass: ((n-1)/(n+1))^2 = 0.04
	if got := fresnelDielectric(1, 1.5); math.Abs(got-0.04) > 1e-9 {
		t.Errorf("normal incidence = %v, want 0.04", got)
	}

	// Grazing incidence approaches full reflection
	if got := fresnelDielectric(1e-6, 1.5); got < 0.99 {
		t.Errorf("grazing incidence = %v, want near 1", got)
	}

	// Beyond the critical angle inside the medium everything reflects
	if got := fresnelDielectric(-0.1, 1.5); got != 1 {
		t.Errorf("total internal reflection = %v, want 1", got)
	}
}

func TestRefract(t *testing.T) {
	in := core.NewVec3(0.5, 0, math.Sqrt(0.75)) // 30 degrees off normal, outside
	out, ok := refract(in, 1.5)
	if !ok {
		t.Fatal("entry refraction reported total internal reflection")
	}
	if out.Z >= 0 {
		t.Errorf("refracted direction %v does not cross the surface", out)
	}
	// Snell's law: sin(theta_t) = sin(theta_i)/ior
	if want := 0.5 / 1.5; math.Abs(-out.X-want) > 1e-9 {
		t.Errorf("refracted sine = %v, want %v", -out.X, want)
	}

	// Steep angle from inside the dense medium cannot exit
	steep := core.NewVec3(0.95, 0, -math.Sqrt(1-0.95*0.95))
	if _, ok := refract(steep, 1.5); ok {
		t.Error("expected total internal reflection from inside")
	}
}

func TestHashGrid(t *testing.T) {
	vertices := []lightVertex{
		{hitPoint: core.NewVec3(0, 0, 0)},
		{hitPoint: core.NewVec3(0.05, 0, 0)},
		{hitPoint: core.NewVec3(0, 0.09, 0)},
		{hitPoint: core.NewVec3(5, 5, 5)},
	}

	grid := newHashGrid(vertices, 0.1)

	var found int
	grid.forEachNear(core.NewVec3(0, 0, 0), vertices, func(v *lightVertex) {
		found++
		if v.hitPoint.Subtract(core.NewVec3(0, 0, 0)).Length() > 0.1 {
			t.Errorf("vertex %v outside the query radius", v.hitPoint)
		}
	})

	if found != 3 {
		t.Errorf("query found %d vertices, want 3", found)
	}
}

func TestHashGridAcrossCellBoundary(t *testing.T) {
	vertices := []lightVertex{
		{hitPoint: core.NewVec3(0.99, 0.99, 0.99)},
		{hitPoint: core.NewVec3(1.01, 1.01, 1.01)},
	}

	grid := newHashGrid(vertices, 1.0)

	var found int
	grid.forEachNear(core.NewVec3(1, 1, 1), vertices, func(v *lightVertex) {
		found++
	})

	if found != 2 {
		t.Errorf("boundary query found %d vertices, want 2", found)
	}
}
