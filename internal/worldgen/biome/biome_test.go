package biome

import "testing"

func TestClassify_OceanShortCircuit(t *testing.T) {
	c := New(DefaultParams())
	// Elevation alone decides; climate must not matter.
	for _, temp := range []float64{-40, 0, 15, 45} {
		for _, precip := range []float64{0, 500, 3000} {
			if got := c.Classify(-100, temp, precip); got != Ocean {
				t.Fatalf("Classify(-100, %v, %v) = %v, want %v", temp, precip, got, Ocean)
			}
		}
	}
	if got := c.Classify(-50.0001, 20, 800); got != Ocean {
		t.Fatalf("just below ocean level: %v", got)
	}
}

func TestClassify_AlpineShortCircuit(t *testing.T) {
	c := New(DefaultParams())
	for _, temp := range []float64{-30, 25} {
		if got := c.Classify(1600, temp, 500); got != Alpine {
			t.Fatalf("Classify(1600, %v, 500) = %v, want %v", temp, got, Alpine)
		}
	}
	// Ocean check runs first even for absurd combinations.
	if got := c.Classify(-100, -30, 0); got != Ocean {
		t.Fatalf("ocean must beat alpine: %v", got)
	}
}

func TestClassify_BandScoring(t *testing.T) {
	c := New(DefaultParams())
	cases := []struct {
		elev, temp, precip float64
		want               Type
	}{
		{100, 10, 400, Grassland},
		{100, 12, 1000, Forest},
		{100, 30, 100, Desert},
		{100, 2, 600, Taiga},
		{100, -20, 200, Tundra},
		{100, 27, 500, Savanna},
		{100, 26, 2000, Rainforest},
	}
	for _, cse := range cases {
		if got := c.Classify(cse.elev, cse.temp, cse.precip); got != cse.want {
			t.Fatalf("Classify(%v, %v, %v) = %v, want %v", cse.elev, cse.temp, cse.precip, got, cse.want)
		}
	}
}

func TestClassify_TieBreaksByDeclarationOrder(t *testing.T) {
	p := Params{
		OceanLevel:   -50,
		AlpineLevel:  1500,
		PrecipWeight: 0.001,
		Defs: []Def{
			{Name: "FIRST", TempMin: 0, TempMax: 10, PrecipMin: 0, PrecipMax: 500},
			{Name: "SECOND", TempMin: 0, TempMax: 10, PrecipMin: 0, PrecipMax: 500},
		},
	}
	c := New(p)
	for i := 0; i < 10; i++ {
		if got := c.Classify(100, 5, 250); got != "FIRST" {
			t.Fatalf("tie broke to %v, want FIRST", got)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c1 := New(DefaultParams())
	c2 := New(DefaultParams())
	for i := 0; i < 200; i++ {
		elev := float64(i)*17 - 500
		temp := float64(i%80) - 40
		precip := float64(i%45) * 60
		a := c1.Classify(elev, temp, precip)
		b := c2.Classify(elev, temp, precip)
		if a != b {
			t.Fatalf("Classify(%v, %v, %v): %v vs %v", elev, temp, precip, a, b)
		}
	}
}
