package climate

import (
	"math"
	"testing"

	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/seed"
)

func TestSample_Deterministic(t *testing.T) {
	p := DefaultParams()
	m1 := New(seed.New(12345), p)
	m2 := New(seed.New(12345), p)
	for i := 0; i < 100; i++ {
		x := float64(i)*911.3 - 45000
		z := float64(i)*-677.7 + 30000
		elev := float64(i%30) * 40
		a := m1.Sample(x, z, elev)
		b := m2.Sample(x, z, elev)
		if a != b {
			t.Fatalf("sample(%v, %v, %v): %+v vs %+v", x, z, elev, a, b)
		}
	}
}

func TestSample_PrecipitationUsesSampleTemperature(t *testing.T) {
	m := New(seed.New(7), DefaultParams())
	x, z, elev := 300.0, -40000.0, 50.0
	s := m.Sample(x, z, elev)
	temp := m.Temperature(x, z, elev)
	if s.Temperature != temp {
		t.Fatalf("sample temperature %v, direct %v", s.Temperature, temp)
	}
	if got := m.Precipitation(x, z, temp, elev); got != s.Precipitation {
		t.Fatalf("sample precipitation %v, recomputed %v", s.Precipitation, got)
	}
}

func TestTemperature_LatitudeAndLapse(t *testing.T) {
	p := DefaultParams()
	p.TempNoiseAmp = 0 // isolate the deterministic terms
	m := New(seed.New(1), p)

	equator := m.Temperature(0, 0, 0)
	if equator != p.BaseTemp {
		t.Fatalf("temperature at origin = %v, want %v", equator, p.BaseTemp)
	}

	north := m.Temperature(0, 80000, 0)
	south := m.Temperature(0, -80000, 0)
	if north != south {
		t.Fatalf("latitude not symmetric: %v vs %v", north, south)
	}
	if north >= equator {
		t.Fatalf("no latitude cooling: %v vs equator %v", north, equator)
	}

	low := m.Temperature(500, 500, 0)
	high := m.Temperature(500, 500, 1000)
	wantDrop := p.LapseRate * 1000
	if math.Abs((low-high)-wantDrop) > 1e-9 {
		t.Fatalf("lapse drop %v, want %v", low-high, wantDrop)
	}
}

func TestPrecipitation_ColdFactor(t *testing.T) {
	p := DefaultParams()
	m := New(seed.New(3), p)
	x, z, elev := 1500.0, 2500.0, 0.0
	warm := m.Precipitation(x, z, 10, elev)
	cold := m.Precipitation(x, z, -10, elev)
	if warm <= 0 {
		t.Fatalf("warm precipitation %v, want positive", warm)
	}
	if math.Abs(cold-warm*p.ColdPrecipFactor) > 1e-9 {
		t.Fatalf("cold precipitation %v, want %v", cold, warm*p.ColdPrecipFactor)
	}
}

func TestPrecipitation_OrographicLift(t *testing.T) {
	m := New(seed.New(3), DefaultParams())
	x, z := -700.0, 900.0
	low := m.Precipitation(x, z, 10, 0)
	high := m.Precipitation(x, z, 10, 1000)
	if high <= low {
		t.Fatalf("no orographic lift: %v at 1000m vs %v at 0m", high, low)
	}
}

func TestPrecipitation_NeverNegative(t *testing.T) {
	m := New(seed.New(11), DefaultParams())
	for i := 0; i < 300; i++ {
		x := float64(i)*457.9 - 60000
		z := float64(i)*-881.1 + 60000
		// Deep depressions drive the orographic term negative.
		if p := m.Precipitation(x, z, 10, -5000); p < 0 {
			t.Fatalf("precipitation(%v, %v) = %v", x, z, p)
		}
	}
}

func TestHumidity_Bounded(t *testing.T) {
	m := New(seed.New(21), DefaultParams())
	for i := 0; i < 300; i++ {
		x := float64(i)*1311.7 - 190000
		z := float64(i)*-997.3 + 150000
		elev := float64(i%50)*100 - 500
		h := m.Humidity(x, z, elev)
		if h < 0 || h > 1 || math.IsNaN(h) {
			t.Fatalf("humidity(%v, %v, %v) = %v", x, z, elev, h)
		}
	}
}

func TestHumidity_DriesWithElevation(t *testing.T) {
	p := DefaultParams()
	p.HumidityWavelength = 1 // doesn't matter; same point, same local term
	m := New(seed.New(4), p)
	x, z := 320.0, -450.0
	low := m.Humidity(x, z, 0)
	high := m.Humidity(x, z, 2500)
	if low <= 0 {
		t.Skipf("virtual ocean too far at this point (humidity %v)", low)
	}
	if high >= low {
		t.Fatalf("humidity did not drop with elevation: %v vs %v", high, low)
	}
}

func TestSample_Golden(t *testing.T) {
	m := New(seed.New(12345), DefaultParams())
	cases := []struct {
		x, z, elev, temp, precip, humidity float64
	}{
		{1000, 2000, 100, 25.276336256000004, 1193.8365936279297, 0.48840421614969987},
		{-6250, -6250, 332.68549397587776, 24.418774452731014, 823.4558796597945, 0.6292795051218375},
		{300, -40000, 50, -4.454553984, 292.51068065414427, 0.6952589459173585},
	}
	for _, c := range cases {
		s := m.Sample(c.x, c.z, c.elev)
		if math.Abs(s.Temperature-c.temp) > 1e-9 ||
			math.Abs(s.Precipitation-c.precip) > 1e-9 ||
			math.Abs(s.Humidity-c.humidity) > 1e-9 {
			t.Fatalf("sample(%v, %v, %v) = %+v, want temp=%v precip=%v humidity=%v",
				c.x, c.z, c.elev, s, c.temp, c.precip, c.humidity)
		}
	}
}
