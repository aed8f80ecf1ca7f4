package terrain

import (
	"math"
	"testing"

	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/seed"
)

func TestElevation_Deterministic(t *testing.T) {
	p := DefaultParams()
	s1 := New(seed.New(12345), p)
	s2 := New(seed.New(12345), p)
	for i := 0; i < 200; i++ {
		x := float64(i)*733.7 - 70000
		z := float64(i)*-411.3 + 35000
		a := s1.Elevation(x, z)
		b := s2.Elevation(x, z)
		if a != b {
			t.Fatalf("elevation(%v, %v): %v vs %v", x, z, a, b)
		}
	}
}

func TestElevation_Bounded(t *testing.T) {
	p := DefaultParams()
	s := New(seed.New(999), p)
	limit := p.HardLimit * p.VoxelScale
	for i := 0; i < 500; i++ {
		x := float64(i)*1911.1 - 400000
		z := float64(i)*-1733.9 + 400000
		e := s.Elevation(x, z)
		if math.Abs(e) > limit || math.IsNaN(e) {
			t.Fatalf("elevation(%v, %v) = %v exceeds %v", x, z, e, limit)
		}
	}
}

func TestElevation_PureFunction(t *testing.T) {
	s := New(seed.New(5), DefaultParams())
	first := s.Elevation(1234.5, -678.9)
	// Interleave unrelated reads; the answer must not drift.
	for i := 0; i < 50; i++ {
		s.Elevation(float64(i)*97, float64(i)*-53)
	}
	if again := s.Elevation(1234.5, -678.9); again != first {
		t.Fatalf("elevation drifted: %v vs %v", first, again)
	}
}

func TestElevation_Golden(t *testing.T) {
	s := New(seed.New(12345), DefaultParams())
	cases := []struct {
		x, z, want float64
	}{
		{0, 0, 0},
		{-6250, -6250, 332.68549397587776},
		{1000, 2000, -152.71213655597705},
		{12345.5, -9876.25, -183.6891329122464},
	}
	for _, c := range cases {
		got := s.Elevation(c.x, c.z)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("elevation(%v, %v) = %v, want %v", c.x, c.z, got, c.want)
		}
	}
}

func TestSample_LayersSumBeforeCompression(t *testing.T) {
	s := New(seed.New(77), DefaultParams())
	sm := s.Sample(4321, -8765)
	raw := sm.Continental + sm.Mountain + sm.Hill + sm.Detail
	want := compress(raw, s.p.SoftKnee, s.p.SoftScale)
	if want > s.p.HardLimit {
		want = s.p.HardLimit
	} else if want < -s.p.HardLimit {
		want = -s.p.HardLimit
	}
	if sm.Units != want {
		t.Fatalf("units %v, want %v from layer sum %v", sm.Units, want, raw)
	}
	if sm.Meters != sm.Units*s.p.VoxelScale {
		t.Fatalf("meters %v, want units %v * scale", sm.Meters, sm.Units)
	}
}

func TestCompress_SoftKnee(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{7200, 7200},
		{-7200, -7200},
		{8200, 7200 + 1000*0.3},
		{-8200, -7200 - 1000*0.3},
	}
	for _, c := range cases {
		if got := compress(c.in, 7200, 0.3); got != c.want {
			t.Fatalf("compress(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRidge_SharpensAndKeepsSign(t *testing.T) {
	if got := ridge(0, 0.6); got != 0 {
		t.Fatalf("ridge(0) = %v", got)
	}
	pos := ridge(0.25, 0.6)
	neg := ridge(-0.25, 0.6)
	if pos <= 0.25 {
		t.Fatalf("ridge(0.25) = %v, want amplified above input", pos)
	}
	if neg != -pos {
		t.Fatalf("ridge not odd: %v vs %v", neg, pos)
	}
}

func TestElevation_SeedChangesTerrain(t *testing.T) {
	p := DefaultParams()
	s1 := New(seed.New(1), p)
	s2 := New(seed.New(2), p)
	same := true
	for i := 0; i < 50 && same; i++ {
		x := float64(i)*3137 - 60000
		z := float64(i)*-5171 + 60000
		if s1.Elevation(x, z) != s2.Elevation(x, z) {
			same = false
		}
	}
	if same {
		t.Fatalf("different seeds produced identical terrain")
	}
}
